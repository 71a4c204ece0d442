// SPDX-License-Identifier: EPL-2.0

package audpeaks

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"

	"github.com/ik5/audpeaks/audio"
	"github.com/ik5/audpeaks/formats/aiff"
	"github.com/ik5/audpeaks/formats/flac"
	"github.com/ik5/audpeaks/formats/mp3"
	"github.com/ik5/audpeaks/formats/vorbis"
	"github.com/ik5/audpeaks/formats/wav"
)

// ErrUnknownFormat is returned when neither the file name nor the content
// identify a registered audio format.
var ErrUnknownFormat = errors.New("unknown audio format")

// SniffSize is the number of leading bytes DetectFormat needs to recognise
// every supported container.
const SniffSize = 12

// DefaultRegistry returns a registry with every decoder of this module,
// keyed by the usual file extensions.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()

	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("flac", flac.Decoder{})

	return reg
}

// DetectFormat returns the format key for an input. The extension of name
// wins when it is a known format, otherwise header is matched against the
// container magic bytes. header should hold at least SniffSize bytes.
func DetectFormat(name string, header []byte) (string, error) {
	if ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")); ext != "" {
		switch ext {
		case "wav", "wave", "mp3", "ogg", "oga", "aif", "aiff", "flac":
			return ext, nil
		}
	}

	if format := sniff(header); format != "" {
		return format, nil
	}

	return "", ErrUnknownFormat
}

func sniff(b []byte) string {
	switch {
	case len(b) >= 12 && bytes.HasPrefix(b, []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WAVE")):
		return "wav"
	case len(b) >= 12 && bytes.HasPrefix(b, []byte("FORM")) &&
		(bytes.Equal(b[8:12], []byte("AIFF")) || bytes.Equal(b[8:12], []byte("AIFC"))):
		return "aiff"
	case bytes.HasPrefix(b, []byte("OggS")):
		return "ogg"
	case bytes.HasPrefix(b, []byte("fLaC")):
		return "flac"
	case bytes.HasPrefix(b, []byte("ID3")):
		return "mp3"
	case len(b) >= 2 && b[0] == 0xFF && b[1]&0xE0 == 0xE0:
		// MPEG audio frame sync
		return "mp3"
	}

	return ""
}
