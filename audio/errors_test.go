// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidDstSize, "dst size must be multiple of channels"},
		{ErrDecode, "audio decode failed"},
		{ErrInvalidSample, "invalid sample value"},
		{ErrInvalidFormat, "invalid audio format"},
		{ErrShape, "decoded audio shape mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if tt.err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.want)
			}
		})
	}
}

func TestErrDecode_Wrapping(t *testing.T) {
	t.Parallel()

	cause := errors.New("bad header")
	wrapped := fmt.Errorf("%w: %w", ErrDecode, cause)

	if !errors.Is(wrapped, ErrDecode) {
		t.Error("errors.Is(wrapped, ErrDecode) = false")
	}

	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is(wrapped, cause) = false")
	}

	if errors.Is(cause, ErrDecode) {
		t.Error("errors.Is(cause, ErrDecode) = true for unrelated error")
	}
}
