package cfar

import (
	"fmt"
	"math"

	"github.com/hed1ad/gocfar/pkg/detectors"
)

// Classify reports whether value lies strictly above threshold.
// A value equal to the threshold is clutter.
func Classify(value, threshold float64) (bool, error) {
	if err := checkSample(value); err != nil {
		return false, err
	}
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) || threshold < 0 {
		return false, fmt.Errorf("%w: threshold %v", ErrInvalidSample, threshold)
	}
	return value > threshold, nil
}

// decide builds the decision for one evaluated cell.
func decide(value, noise, factor float64) (detectors.Decision, error) {
	threshold := Threshold(noise, factor)
	target, err := Classify(value, threshold)
	if err != nil {
		return detectors.Decision{}, err
	}
	status := detectors.StatusClutter
	if target {
		status = detectors.StatusTarget
	}
	return detectors.Decision{
		Status:    status,
		Value:     value,
		Noise:     noise,
		Threshold: threshold,
	}, nil
}

func checkSample(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSample, v)
	}
	return nil
}
