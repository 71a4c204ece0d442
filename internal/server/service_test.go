// SPDX-License-Identifier: EPL-2.0

package server

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audpeaks/audio"
	"github.com/ik5/audpeaks/formats/wav"
	"github.com/ik5/audpeaks/internal/storage"
	"github.com/ik5/audpeaks/waveform"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dir := t.TempDir()

	samples := make([]int16, 2*2048)
	for i := range samples {
		samples[i] = int16(i * 8)
	}

	var buf bytes.Buffer
	if err := wav.WriteInterleaved16(&buf, 44100, 2, samples); err != nil {
		t.Fatalf("WriteInterleaved16() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stereo.wav"), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "junk.wav"), []byte("definitely not audio"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	store, err := storage.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	return NewService(store, nil)
}

func TestService_Process(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	env, err := svc.Process(context.Background(), "stereo.wav", waveform.Params{
		SamplesPerPixel: 512,
		SplitChannels:   true,
		Bits:            8,
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if env.Channels != 2 || env.Length != 2 || env.SampleRate != 44100 {
		t.Errorf("envelope = %d channels, %d length, %d Hz; want 2, 2, 44100", env.Channels, env.Length, env.SampleRate)
	}
}

func TestService_ProcessErrors(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	tests := []struct {
		name    string
		file    string
		params  waveform.Params
		wantErr error
	}{
		{"missing file", "nope.wav", waveform.DefaultParams(), storage.ErrFileRead},
		{"escape", "../stereo.wav", waveform.DefaultParams(), storage.ErrInvalidPath},
		{"not audio", "junk.wav", waveform.DefaultParams(), audio.ErrDecode},
		{"invalid params", "nope.wav", waveform.Params{SamplesPerPixel: -1, Bits: 8}, waveform.ErrInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Process(context.Background(), tt.file, tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Process(%q) error = %v, want %v", tt.file, err, tt.wantErr)
			}
		})
	}
}
