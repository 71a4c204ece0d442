// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"

	"github.com/ik5/audpeaks/utils"
)

const (
	headerSizeV1 = 20
	headerSizeV2 = 24
)

// Header is the fixed-size prefix of a .dat file. Version 1 headers have no
// channels field and always describe a single channel.
type Header struct {
	Version         int32
	Flags           uint32
	SampleRate      int32
	SamplesPerPixel int32
	Length          uint32
	Channels        int32
}

// Bits returns the sample width selected by Flags.
func (h Header) Bits() int {
	if h.Flags&FlagEightBit != 0 {
		return 8
	}

	return 16
}

// Size is the encoded header length in bytes.
func (h Header) Size() int {
	if h.Version == 1 {
		return headerSizeV1
	}

	return headerSizeV2
}

// DataSize is the length in bytes of the data section that follows the header.
func (h Header) DataSize() int64 {
	return int64(h.Length) * int64(h.Channels) * 2 * int64(h.Bits()/8)
}

// Header returns the .dat header describing e.
func (e *Envelope) Header() Header {
	return Header{
		Version:         int32(e.Version),
		Flags:           e.Flags,
		SampleRate:      int32(e.SampleRate),
		SamplesPerPixel: int32(e.SamplesPerPixel),
		Length:          uint32(e.Length),
		Channels:        int32(e.Channels),
	}
}

// MarshalBinary encodes e in the audiowaveform .dat version 2 layout: a
// 24-byte little-endian header followed by every (min, max) value scaled to
// a signed 8- or 16-bit integer.
func (e *Envelope) MarshalBinary() ([]byte, error) {
	if err := e.check(); err != nil {
		return nil, err
	}

	if e.Version != Version {
		return nil, fmt.Errorf("%w: cannot encode version %d", ErrUnsupportedVersion, e.Version)
	}

	if e.Length > math.MaxUint32 || e.Channels > math.MaxInt32 || e.SampleRate > math.MaxInt32 ||
		e.SamplesPerPixel > math.MaxInt32 {
		return nil, fmt.Errorf("%w: header field out of range", ErrInvariant)
	}

	h := e.Header()
	buf := make([]byte, int64(headerSizeV2)+h.DataSize())
	putHeader(buf, h)

	off := headerSizeV2
	if h.Bits() == 8 {
		for _, v := range e.Data {
			buf[off] = byte(utils.ScaleToInt8(v))
			off++
		}
	} else {
		for _, v := range e.Data {
			binary.LittleEndian.PutUint16(buf[off:], uint16(utils.ScaleToInt16(v)))
			off += 2
		}
	}

	if off != len(buf) {
		return nil, fmt.Errorf("%w: wrote %d of %d bytes", ErrInvariant, off, len(buf))
	}

	return buf, nil
}

// WriteTo writes the .dat encoding of e to w.
func (e *Envelope) WriteTo(w io.Writer) (int64, error) {
	b, err := e.MarshalBinary()
	if err != nil {
		return 0, err
	}

	n, err := w.Write(b)
	if err != nil {
		return int64(n), fmt.Errorf("%w", err)
	}

	return int64(n), nil
}

func putHeader(buf []byte, h Header) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Version))
	binary.LittleEndian.PutUint32(buf[4:8], h.Flags)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(h.SampleRate))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(h.SamplesPerPixel))
	binary.LittleEndian.PutUint32(buf[16:20], h.Length)
	if h.Version != 1 {
		binary.LittleEndian.PutUint32(buf[20:24], uint32(h.Channels))
	}
}

// ParseHeader decodes a version 1 or 2 header from the start of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < 4 {
		return Header{}, fmt.Errorf("%w: %d header bytes", ErrTruncated, len(b))
	}

	h := Header{Version: int32(binary.LittleEndian.Uint32(b[0:4]))}
	if h.Version != 1 && h.Version != 2 {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	if len(b) < h.Size() {
		return Header{}, fmt.Errorf("%w: %d header bytes, want %d", ErrTruncated, len(b), h.Size())
	}

	h.Flags = binary.LittleEndian.Uint32(b[4:8])
	h.SampleRate = int32(binary.LittleEndian.Uint32(b[8:12]))
	h.SamplesPerPixel = int32(binary.LittleEndian.Uint32(b[12:16]))
	h.Length = binary.LittleEndian.Uint32(b[16:20])
	h.Channels = 1
	if h.Version == 2 {
		h.Channels = int32(binary.LittleEndian.Uint32(b[20:24]))
	}

	if h.Channels < 1 {
		return Header{}, fmt.Errorf("%w: channels %d", ErrInvalidHeader, h.Channels)
	}

	// The data section size must fit in an int64.
	hi, lo := bits.Mul64(uint64(h.Length), uint64(h.Channels))
	if hi != 0 || lo > math.MaxInt64/4 {
		return Header{}, fmt.Errorf("%w: length %d with %d channels is too large", ErrInvalidHeader, h.Length, h.Channels)
	}

	return h, nil
}

// Dat is a decoded .dat file. Data holds the stored integer samples in file
// order, widened to int16 for 8-bit files.
type Dat struct {
	Header
	Data []int16
}

// Pair returns the stored (min, max) of pixel i in channel c.
func (d *Dat) Pair(c, i int) (lo, hi int16) {
	idx := (c*int(d.Length) + i) * 2
	return d.Data[idx], d.Data[idx+1]
}

// ReadDat reads a complete version 1 or 2 .dat stream from r.
func ReadDat(r io.Reader) (*Dat, error) {
	head := make([]byte, headerSizeV2)
	if _, err := io.ReadFull(r, head[:4]); err != nil {
		return nil, readErr(err)
	}

	n := headerSizeV2
	if binary.LittleEndian.Uint32(head[:4]) == 1 {
		n = headerSizeV1
	}

	if _, err := io.ReadFull(r, head[4:n]); err != nil {
		return nil, readErr(err)
	}

	h, err := ParseHeader(head[:n])
	if err != nil {
		return nil, err
	}

	// LimitReader keeps a bogus length from forcing a huge allocation.
	size := h.DataSize()
	body, err := io.ReadAll(io.LimitReader(r, size))
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if int64(len(body)) != size {
		return nil, fmt.Errorf("%w: %d data bytes, want %d", ErrTruncated, len(body), size)
	}

	values := make([]int16, int64(h.Length)*int64(h.Channels)*2)
	if h.Bits() == 8 {
		for i, b := range body {
			values[i] = int16(int8(b))
		}
	} else {
		if err := binary.Read(bytes.NewReader(body), binary.LittleEndian, values); err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}

	return &Dat{Header: h, Data: values}, nil
}

func readErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrTruncated, err)
	}

	return fmt.Errorf("%w", err)
}
