package cfar

import (
	"fmt"
	"math"
)

// Distribution selects the clutter model used to derive the threshold factor.
type Distribution string

const (
	Weibull     Distribution = "weibull"
	Exponential Distribution = "exponential"
	LogNormal   Distribution = "lognormal"
)

// Estimator selects how the reference window is reduced to a noise level.
type Estimator string

const (
	// EstimatorMean is cell-averaging CFAR.
	EstimatorMean       Estimator = "mean"
	EstimatorGreatestOf Estimator = "greatest-of"
	EstimatorSmallestOf Estimator = "smallest-of"
	EstimatorMedian     Estimator = "median"
)

// BoundaryPolicy decides what happens to cells near the profile edges.
type BoundaryPolicy string

const (
	// BoundarySkip marks cells without a full two-sided window as not evaluated.
	BoundarySkip BoundaryPolicy = "skip"
	// BoundaryOneSided falls back to whichever side has a full window.
	BoundaryOneSided BoundaryPolicy = "one-sided"
	// BoundaryReject fails the scan if any cell lacks a full window.
	BoundaryReject BoundaryPolicy = "reject"
)

// Config holds the detector parameters. It is loaded once and passed by value.
type Config struct {
	// GuardCells is the number of cells on each side excluded from the estimate.
	GuardCells int `mapstructure:"guard_cell" yaml:"guard_cell"`
	// ReferenceCells is the number of cells on each side averaged for the estimate.
	ReferenceCells int `mapstructure:"reference_cell" yaml:"reference_cell"`
	// Pfa is the desired probability of false alarm.
	Pfa float64 `mapstructure:"pfa" yaml:"pfa"`
	// Distribution is the assumed clutter amplitude distribution.
	Distribution Distribution `mapstructure:"distribution" yaml:"distribution"`
	// Shape is the Weibull shape k or the log-normal sigma.
	// Ignored by the exponential model.
	Shape float64 `mapstructure:"shape" yaml:"shape"`
	// Estimator reduces the reference window to a noise level.
	Estimator Estimator `mapstructure:"estimator" yaml:"estimator"`
	// Boundary is the edge-cell policy.
	Boundary BoundaryPolicy `mapstructure:"boundary" yaml:"boundary"`
}

// DefaultConfig returns a cell-averaging Weibull (Rayleigh shape) detector
// with 2 guard and 8 reference cells per side at pfa = 0.01.
func DefaultConfig() Config {
	return Config{
		GuardCells:     2,
		ReferenceCells: 8,
		Pfa:            0.01,
		Distribution:   Weibull,
		Shape:          2,
		Estimator:      EstimatorMean,
		Boundary:       BoundarySkip,
	}
}

// Validate checks every parameter that does not depend on the profile length.
func (c Config) Validate() error {
	if c.GuardCells < 0 {
		return fmt.Errorf("%w: guard cells %d < 0", ErrConfiguration, c.GuardCells)
	}
	if c.ReferenceCells <= 0 {
		return fmt.Errorf("%w: reference cells %d <= 0", ErrConfiguration, c.ReferenceCells)
	}
	if err := checkProbability(c.Pfa); err != nil {
		return err
	}
	switch c.Distribution {
	case Weibull, LogNormal:
		if err := checkParameter("shape", c.Shape); err != nil {
			return err
		}
	case Exponential:
	default:
		return fmt.Errorf("%w: unknown distribution %q", ErrModelParameter, c.Distribution)
	}
	switch c.Estimator {
	case EstimatorMean, EstimatorGreatestOf, EstimatorSmallestOf, EstimatorMedian:
	default:
		return fmt.Errorf("%w: unknown estimator %q", ErrConfiguration, c.Estimator)
	}
	switch c.Boundary {
	case BoundarySkip, BoundaryOneSided, BoundaryReject:
	default:
		return fmt.Errorf("%w: unknown boundary policy %q", ErrConfiguration, c.Boundary)
	}
	return nil
}

// Span returns the number of cells one side of a full window occupies.
func (c Config) Span() int {
	return c.GuardCells + c.ReferenceCells
}

// CheckLength verifies that a profile of n samples has at least one cell
// with a full two-sided window.
func (c Config) CheckLength(n int) error {
	if 2*c.Span() >= n {
		return fmt.Errorf("%w: 2*(guard %d + reference %d) >= profile length %d",
			ErrConfiguration, c.GuardCells, c.ReferenceCells, n)
	}
	return nil
}

func checkProbability(p float64) error {
	if !(p > 0 && p < 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidProbability, p)
	}
	return nil
}

func checkParameter(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrModelParameter, name, v)
	}
	return nil
}
