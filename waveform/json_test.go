// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"encoding/json"
	"testing"

	"github.com/ik5/audpeaks/internal/audiotest"
)

func TestJSON_Projection(t *testing.T) {
	t.Parallel()

	d := audiotest.Decoded(16000,
		[]float32{-0.5, 0.25, -0.125, 0.75},
		[]float32{0.5, 0.5, -1, 1},
	)

	env, err := Reduce(d, Params{SamplesPerPixel: 2, SplitChannels: true, Bits: 16})
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}

	doc, err := env.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	if doc.Version != 2 || doc.Channels != 2 || doc.SampleRate != 16000 ||
		doc.SamplesPerPixel != 2 || doc.Bits != 16 || doc.Length != 1 {
		t.Errorf("JSON() header = %+v", doc)
	}

	// length = 4/2/2 = 1, so only frames 0 and 1 are read per channel.
	want := []float64{-64, 32, 64, 64}
	if len(doc.Data) != len(want) {
		t.Fatalf("len(Data) = %d, want %d", len(doc.Data), len(want))
	}
	for i := range want {
		if doc.Data[i] != want[i] {
			t.Errorf("Data[%d] = %v, want %v", i, doc.Data[i], want[i])
		}
	}
}

func TestJSON_NoRounding(t *testing.T) {
	t.Parallel()

	env := &Envelope{
		Version: 2, Flags: 1, SampleRate: 8000, SamplesPerPixel: 1, Channels: 1, Length: 1,
		Data: []float64{-1.5, 0.001},
	}

	doc, err := env.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	if doc.Bits != 8 {
		t.Errorf("Bits = %d, want 8", doc.Bits)
	}
	if doc.Data[0] != -192 || doc.Data[1] != 0.128 {
		t.Errorf("Data = %v, want [-192 0.128]", doc.Data)
	}
}

func TestMarshalJSON_Fields(t *testing.T) {
	t.Parallel()

	env, err := Reduce(audiotest.Decoded(8000, make([]float32, 10)), Params{SamplesPerPixel: 512, Bits: 8})
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}

	b, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}

	for _, key := range []string{"version", "channels", "sample_rate", "samples_per_pixel", "bits", "length", "data"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing key %q in %s", key, b)
		}
	}

	if data, ok := got["data"].([]any); !ok || len(data) != 0 {
		t.Errorf("data = %v, want empty array", got["data"])
	}
}
