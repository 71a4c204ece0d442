// SPDX-License-Identifier: EPL-2.0

package audpeaks

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audpeaks/audio"
	"github.com/ik5/audpeaks/waveform"
)

// Generator turns encoded audio into waveform envelopes using the decoders
// of a registry. It is safe for concurrent use.
type Generator struct {
	reg *audio.Registry
}

// NewGenerator returns a Generator over reg. A nil reg means DefaultRegistry.
func NewGenerator(reg *audio.Registry) *Generator {
	if reg == nil {
		reg = DefaultRegistry()
	}

	return &Generator{reg: reg}
}

// Decode detects the format of r and decodes it completely. name is only
// used for its extension and may be empty.
func (g *Generator) Decode(name string, r io.Reader) (*audio.Decoded, error) {
	br := bufio.NewReader(r)

	header, err := br.Peek(SniffSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("%w: reading header: %w", audio.ErrDecode, err)
	}

	format, err := DetectFormat(name, header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrDecode, err)
	}

	dec, ok := g.reg.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", audio.ErrDecode, ErrUnknownFormat, format)
	}

	return audio.DecodeAll(dec, br)
}

// Generate decodes r and reduces it with p. Parameters are validated before
// any input is read. ctx is checked once decoding has finished; reduction
// is not interrupted.
func (g *Generator) Generate(ctx context.Context, name string, r io.Reader, p waveform.Params) (*waveform.Envelope, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	decoded, err := g.Decode(name, r)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("after decoding: %w", err)
	}

	return waveform.Reduce(decoded, p)
}

// GenerateDat is Generate followed by .dat encoding.
func (g *Generator) GenerateDat(ctx context.Context, name string, r io.Reader, p waveform.Params) ([]byte, error) {
	env, err := g.Generate(ctx, name, r, p)
	if err != nil {
		return nil, err
	}

	return env.MarshalBinary()
}

// GenerateJSON is Generate followed by the JSON projection.
func (g *Generator) GenerateJSON(ctx context.Context, name string, r io.Reader, p waveform.Params) (waveform.JSONData, error) {
	env, err := g.Generate(ctx, name, r, p)
	if err != nil {
		return waveform.JSONData{}, err
	}

	return env.JSON()
}

var defaultGenerator = NewGenerator(nil)

// Generate runs Generator.Generate with the default registry.
func Generate(ctx context.Context, name string, r io.Reader, p waveform.Params) (*waveform.Envelope, error) {
	return defaultGenerator.Generate(ctx, name, r, p)
}

// GenerateDat runs Generator.GenerateDat with the default registry.
func GenerateDat(ctx context.Context, name string, r io.Reader, p waveform.Params) ([]byte, error) {
	return defaultGenerator.GenerateDat(ctx, name, r, p)
}
