// SPDX-License-Identifier: EPL-2.0

// Package storage reads input audio from a base directory.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrFileRead is returned when an input file cannot be opened or read.
	// The underlying cause stays in the error chain for logging; callers
	// should not show it to clients.
	ErrFileRead = errors.New("failed to read file")

	// ErrInvalidPath is returned for empty names and names that resolve
	// outside the base directory.
	ErrInvalidPath = errors.New("invalid file path")
)

// FileStore resolves file names relative to a base directory.
type FileStore struct {
	base string
}

// NewFileStore returns a store rooted at dir. The directory is not required
// to exist until a file is read.
func NewFileStore(dir string) (*FileStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving base directory %q: %w", dir, err)
	}

	return &FileStore{base: abs}, nil
}

// Base returns the absolute base directory.
func (s *FileStore) Base() string { return s.base }

// Resolve maps name to an absolute path under the base directory.
func (s *FileStore) Resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidPath)
	}

	if filepath.IsAbs(name) || strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}

	p := filepath.Join(s.base, filepath.FromSlash(name))
	rel, err := filepath.Rel(s.base, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes base directory", ErrInvalidPath, name)
	}

	return p, nil
}

// Open opens name for reading. The caller closes the returned file. Read
// errors other than io.EOF carry ErrFileRead.
func (s *FileStore) Open(name string) (io.ReadCloser, error) {
	p, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileRead, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %w", ErrFileRead, err)
	}

	if fi.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %q is a directory", ErrFileRead, name)
	}

	return file{f}, nil
}

// file tags read failures so they are not mistaken for decode errors
// further up the chain.
type file struct {
	f *os.File
}

func (f file) Read(p []byte) (int, error) {
	n, err := f.f.Read(p)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w: %w", ErrFileRead, err)
	}

	return n, err
}

func (f file) Close() error { return f.f.Close() }
