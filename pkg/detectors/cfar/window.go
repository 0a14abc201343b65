package cfar

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// Window is a view of the reference cells around a cell under test.
// Either side may be nil when the one-sided boundary policy applies.
type Window struct {
	Leading  []float64
	Trailing []float64
}

// Len returns the number of reference cells in the window.
func (w Window) Len() int {
	return len(w.Leading) + len(w.Trailing)
}

// ReferenceWindow slices the reference cells for the cell at index cut.
//
// The leading side is samples[cut-guard-ref : cut-guard] and the trailing
// side is samples[cut+guard+1 : cut+guard+1+ref]. The returned slices alias
// samples and must not be modified.
func ReferenceWindow(samples []float64, cut, guard, ref int, policy BoundaryPolicy) (Window, error) {
	if cut < 0 || cut >= len(samples) {
		return Window{}, &windowError{index: cut}
	}

	leadStart, leadEnd := cut-guard-ref, cut-guard
	trailStart, trailEnd := cut+guard+1, cut+guard+1+ref

	hasLead := leadStart >= 0
	hasTrail := trailEnd <= len(samples)

	var w Window
	if hasLead {
		w.Leading = samples[leadStart:leadEnd]
	}
	if hasTrail {
		w.Trailing = samples[trailStart:trailEnd]
	}

	switch {
	case hasLead && hasTrail:
		return w, nil
	case policy == BoundaryOneSided && (hasLead || hasTrail):
		return w, nil
	}
	return Window{}, &windowError{index: cut}
}

// Side summarises one side of a reference window.
type Side struct {
	Sum float64
	N   int
}

// Mean returns the side average, or 0 for an absent side.
func (s Side) Mean() float64 {
	if s.N == 0 {
		return 0
	}
	return s.Sum / float64(s.N)
}

func sideOf(cells []float64) Side {
	if len(cells) == 0 {
		return Side{}
	}
	sum, _ := stats.Sum(cells)
	return Side{Sum: sum, N: len(cells)}
}

// NoiseEstimator reduces a reference window to a noise power estimate.
type NoiseEstimator interface {
	Estimate(w Window) float64
}

// SideCombiner is implemented by estimators that depend on the window only
// through the per-side sums. Scanners use it with running sums.
type SideCombiner interface {
	Combine(leading, trailing Side) float64
}

// Mean is the cell-averaging estimator.
type Mean struct{}

func (m Mean) Estimate(w Window) float64 {
	return m.Combine(sideOf(w.Leading), sideOf(w.Trailing))
}

func (Mean) Combine(leading, trailing Side) float64 {
	n := leading.N + trailing.N
	if n == 0 {
		return 0
	}
	return (leading.Sum + trailing.Sum) / float64(n)
}

// GreatestOf takes the larger of the two side means, which holds the false
// alarm rate at clutter edges.
type GreatestOf struct{}

func (g GreatestOf) Estimate(w Window) float64 {
	return g.Combine(sideOf(w.Leading), sideOf(w.Trailing))
}

func (GreatestOf) Combine(leading, trailing Side) float64 {
	switch {
	case leading.N == 0:
		return trailing.Mean()
	case trailing.N == 0:
		return leading.Mean()
	}
	return math.Max(leading.Mean(), trailing.Mean())
}

// SmallestOf takes the smaller of the two side means, which resolves
// closely spaced targets.
type SmallestOf struct{}

func (s SmallestOf) Estimate(w Window) float64 {
	return s.Combine(sideOf(w.Leading), sideOf(w.Trailing))
}

func (SmallestOf) Combine(leading, trailing Side) float64 {
	switch {
	case leading.N == 0:
		return trailing.Mean()
	case trailing.N == 0:
		return leading.Mean()
	}
	return math.Min(leading.Mean(), trailing.Mean())
}

// Median is an order-statistic estimator over all reference cells.
type Median struct{}

func (Median) Estimate(w Window) float64 {
	cells := make([]float64, 0, w.Len())
	cells = append(cells, w.Leading...)
	cells = append(cells, w.Trailing...)
	m, err := stats.Median(cells)
	if err != nil {
		return 0
	}
	return m
}

// NewEstimator returns the estimator selected by e.
func NewEstimator(e Estimator) (NoiseEstimator, error) {
	switch e {
	case EstimatorMean:
		return Mean{}, nil
	case EstimatorGreatestOf:
		return GreatestOf{}, nil
	case EstimatorSmallestOf:
		return SmallestOf{}, nil
	case EstimatorMedian:
		return Median{}, nil
	}
	return nil, fmt.Errorf("%w: unknown estimator %q", ErrConfiguration, e)
}

// NoiseLevel estimates the noise power around samples[cut] using the
// window sizes and boundary policy in cfg.
func NoiseLevel(samples []float64, cut int, cfg Config, est NoiseEstimator) (float64, error) {
	w, err := ReferenceWindow(samples, cut, cfg.GuardCells, cfg.ReferenceCells, cfg.Boundary)
	if err != nil {
		return 0, err
	}
	return est.Estimate(w), nil
}
