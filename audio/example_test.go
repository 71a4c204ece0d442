// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"

	"github.com/ik5/audpeaks/audio"
	"github.com/ik5/audpeaks/internal/audiotest"
)

// Example_readAll demonstrates collecting a stereo stream into channel buffers.
func Example_readAll() {
	source := audiotest.NewSineSource(16000, 2, 16000, 440.0) // 1 second stereo

	decoded, err := audio.ReadAll(source)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Sample rate: %d Hz\n", decoded.SampleRate)
	fmt.Printf("Channels: %d\n", decoded.Channels)
	fmt.Printf("Frames: %d\n", decoded.Frames)
	fmt.Printf("Duration: %.1fs\n", decoded.Duration())
	// Output:
	// Sample rate: 16000 Hz
	// Channels: 2
	// Frames: 16000
	// Duration: 1.0s
}

// Example_registry shows decoder lookup by file extension.
func Example_registry() {
	registry := audio.NewRegistry()
	registry.Register("wav", nil)
	registry.Register("MP3", nil)

	_, ok := registry.Get(".mp3")
	fmt.Println("mp3 registered:", ok)
	fmt.Println("formats:", registry.Formats())
	// Output:
	// mp3 registered: true
	// formats: [mp3 wav]
}
