// SPDX-License-Identifier: EPL-2.0

package server

import (
	"context"

	"github.com/ik5/audpeaks"
	"github.com/ik5/audpeaks/internal/storage"
	"github.com/ik5/audpeaks/waveform"
)

// Processor produces the waveform envelope of a stored audio file.
type Processor interface {
	Process(ctx context.Context, fileName string, p waveform.Params) (*waveform.Envelope, error)
}

// Service reads files from a FileStore and runs them through a Generator.
type Service struct {
	store *storage.FileStore
	gen   *audpeaks.Generator
}

func NewService(store *storage.FileStore, gen *audpeaks.Generator) *Service {
	if gen == nil {
		gen = audpeaks.NewGenerator(nil)
	}

	return &Service{store: store, gen: gen}
}

func (s *Service) Process(ctx context.Context, fileName string, p waveform.Params) (*waveform.Envelope, error) {
	// reject bad parameters before touching the disk
	if err := p.Validate(); err != nil {
		return nil, err
	}

	f, err := s.store.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return s.gen.Generate(ctx, fileName, f, p)
}
