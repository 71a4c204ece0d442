// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"encoding/json"
	"fmt"
)

// jsonScale is applied to every min/max in the JSON form.
const jsonScale = 128

// JSONData is the audiowaveform-style JSON document.
type JSONData struct {
	Version         int       `json:"version"`
	Channels        int       `json:"channels"`
	SampleRate      int       `json:"sample_rate"`
	SamplesPerPixel int       `json:"samples_per_pixel"`
	Bits            int       `json:"bits"`
	Length          int       `json:"length"`
	Data            []float64 `json:"data"`
}

// JSON projects e into its JSON form. Each value is multiplied by 128 and
// otherwise left as is: no rounding or clamping is applied, unlike the
// binary encoding.
func (e *Envelope) JSON() (JSONData, error) {
	if err := e.check(); err != nil {
		return JSONData{}, err
	}

	data := make([]float64, len(e.Data))
	for i, v := range e.Data {
		data[i] = v * jsonScale
	}

	return JSONData{
		Version:         e.Version,
		Channels:        e.Channels,
		SampleRate:      e.SampleRate,
		SamplesPerPixel: e.SamplesPerPixel,
		Bits:            e.Bits(),
		Length:          e.Length,
		Data:            data,
	}, nil
}

// MarshalJSON implements json.Marshaler using the JSON projection.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	doc, err := e.JSON()
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return b, nil
}
