// Package detectors defines the contracts shared by CFAR detectors and the
// consumers of their per-cell decisions.
package detectors

import "context"

// Detector is the common interface for range-profile detectors.
type Detector interface {
	// Scan classifies every cell of a profile.
	// The returned slice always has len(samples) entries, index-aligned
	// with the input.
	Scan(ctx context.Context, samples []float64) ([]Decision, error)
}

// StreamDetector extends Detector with streaming capabilities.
type StreamDetector interface {
	Detector

	// ScanStream scans whole profiles received from a channel, one frame each.
	ScanStream(ctx context.Context, input <-chan []float64, output chan<- Frame) error
}

// Status is the outcome recorded for a single cell.
type Status uint8

const (
	// StatusPending marks a cell the scan never reached (cancelled scans).
	StatusPending Status = iota
	// StatusNotEvaluated marks a cell without a usable reference window.
	StatusNotEvaluated
	// StatusClutter marks a cell at or below its threshold.
	StatusClutter
	// StatusTarget marks a cell strictly above its threshold.
	StatusTarget
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusNotEvaluated:
		return "not_evaluated"
	case StatusClutter:
		return "clutter"
	case StatusTarget:
		return "target"
	}
	return "unknown"
}

// Evaluated reports whether the cell was classified.
func (s Status) Evaluated() bool {
	return s == StatusClutter || s == StatusTarget
}

// Decision is the detector output for one cell under test.
type Decision struct {
	// Status is the classification outcome.
	Status Status
	// Value is the cell-under-test sample.
	Value float64
	// Noise is the local noise estimate from the reference window.
	Noise float64
	// Threshold is Noise scaled by the detector's threshold factor.
	Threshold float64
}

// IsTarget reports whether the cell was classified as a target.
func (d Decision) IsTarget() bool {
	return d.Status == StatusTarget
}

// Intensity maps the decision to a displayable value.
// ok is false for cells that were not classified.
func (d Decision) Intensity(m Markers) (v float64, ok bool) {
	if !d.Status.Evaluated() {
		return 0, false
	}
	if d.IsTarget() {
		return m.Target, true
	}
	return m.Clutter, true
}

// Ratio returns Value/Threshold, or 0 when the cell was not classified or
// the threshold is zero.
func (d Decision) Ratio() float64 {
	if !d.Status.Evaluated() || d.Threshold == 0 {
		return 0
	}
	return d.Value / d.Threshold
}

// Markers holds the soft output levels for detections and non-detections.
type Markers struct {
	Target  float64
	Clutter float64
}

// DefaultMarkers returns the 8-bit display levels used by image consumers.
func DefaultMarkers() Markers {
	return Markers{
		Target:  255,
		Clutter: 0,
	}
}

// Frame is one scanned profile produced by a StreamDetector.
type Frame struct {
	// Seq numbers frames from zero in arrival order.
	Seq int
	// Decisions is index-aligned with the scanned profile.
	Decisions []Decision
	// Err is set when the profile could not be scanned.
	Err error
}

// Count returns the number of targets in the frame.
func (f Frame) Count() int {
	n := 0
	for _, d := range f.Decisions {
		if d.IsTarget() {
			n++
		}
	}
	return n
}
