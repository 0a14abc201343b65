package cfar

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// ThresholdModel converts a false alarm probability into the multiplier
// applied to the local noise estimate.
//
// The factor is the ratio of the clutter distribution's (1-pfa) quantile to
// its mean. It does not depend on the clutter scale, so thresholds scale
// linearly with the noise estimate.
type ThresholdModel interface {
	Factor(pfa float64) (float64, error)
}

// WeibullModel assumes Weibull distributed clutter with a known shape.
// Shape 2 is Rayleigh, shape 1 is exponential.
type WeibullModel struct {
	shape float64
}

// NewWeibullModel creates a Weibull threshold model.
func NewWeibullModel(shape float64) (*WeibullModel, error) {
	if err := checkParameter("weibull shape", shape); err != nil {
		return nil, err
	}
	return &WeibullModel{shape: shape}, nil
}

// Shape returns the Weibull shape parameter k.
func (m *WeibullModel) Shape() float64 {
	return m.shape
}

// Factor returns (-ln pfa)^(1/k) / Γ(1+1/k).
func (m *WeibullModel) Factor(pfa float64) (float64, error) {
	if err := checkProbability(pfa); err != nil {
		return 0, err
	}
	d := distuv.Weibull{K: m.shape, Lambda: 1}
	return d.Quantile(1-pfa) / d.Mean(), nil
}

// ExponentialModel assumes square-law detected Gaussian noise.
type ExponentialModel struct{}

// Factor returns -ln pfa.
func (ExponentialModel) Factor(pfa float64) (float64, error) {
	if err := checkProbability(pfa); err != nil {
		return 0, err
	}
	d := distuv.Exponential{Rate: 1}
	return d.Quantile(1-pfa) / d.Mean(), nil
}

// LogNormalModel assumes log-normal clutter with a known log standard deviation.
type LogNormalModel struct {
	sigma float64
}

// NewLogNormalModel creates a log-normal threshold model.
func NewLogNormalModel(sigma float64) (*LogNormalModel, error) {
	if err := checkParameter("lognormal sigma", sigma); err != nil {
		return nil, err
	}
	return &LogNormalModel{sigma: sigma}, nil
}

// Factor returns exp(sigma*z(1-pfa) - sigma²/2).
func (m *LogNormalModel) Factor(pfa float64) (float64, error) {
	if err := checkProbability(pfa); err != nil {
		return 0, err
	}
	d := distuv.LogNormal{Mu: 0, Sigma: m.sigma}
	return d.Quantile(1-pfa) / d.Mean(), nil
}

// NewThresholdModel returns the model selected by cfg.Distribution.
func NewThresholdModel(cfg Config) (ThresholdModel, error) {
	switch cfg.Distribution {
	case Weibull:
		return NewWeibullModel(cfg.Shape)
	case Exponential:
		return ExponentialModel{}, nil
	case LogNormal:
		return NewLogNormalModel(cfg.Shape)
	}
	return nil, fmt.Errorf("%w: unknown distribution %q", ErrModelParameter, cfg.Distribution)
}

// Threshold scales a noise estimate by a threshold factor.
func Threshold(noise, factor float64) float64 {
	return noise * factor
}
