// Package io provides sample sources and decision sinks for detectors.
package io

import (
	"context"

	"github.com/hed1ad/gocfar/pkg/detectors"
)

// Reader is the interface for reading range profiles from various sources.
type Reader interface {
	// Read returns every profile in the source.
	Read() ([][]float64, error)

	// Stream returns a channel of profiles for real-time processing.
	Stream(ctx context.Context) (<-chan []float64, error)

	// Close releases resources.
	Close() error
}

// Writer is the interface for writing detection results.
type Writer interface {
	// Write outputs a single result.
	Write(result Result) error

	// WriteAll outputs multiple results.
	WriteAll(results []Result) error

	// Close flushes and releases resources.
	Close() error
}

// Result is one cell of a scanned profile in a form sinks can persist.
type Result struct {
	Frame     int     `json:"frame"`
	Index     int     `json:"index"`
	Value     float64 `json:"value"`
	Noise     float64 `json:"noise"`
	Threshold float64 `json:"threshold"`
	Status    string  `json:"status"`
	// Intensity is nil for cells that were not classified.
	Intensity *float64 `json:"intensity,omitempty"`
}

// Results converts the decisions of one frame into results.
func Results(frame int, decisions []detectors.Decision, m detectors.Markers) []Result {
	out := make([]Result, len(decisions))
	for i, d := range decisions {
		r := Result{
			Frame:     frame,
			Index:     i,
			Value:     d.Value,
			Noise:     d.Noise,
			Threshold: d.Threshold,
			Status:    d.Status.String(),
		}
		if v, ok := d.Intensity(m); ok {
			r.Intensity = &v
		}
		out[i] = r
	}
	return out
}
