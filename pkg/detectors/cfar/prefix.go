package cfar

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// prefixTolerance is the largest relative error accepted for a window sum
// taken from prefix sums before the window is summed directly instead.
const prefixTolerance = 1e-9

// prefixSums holds compensated running sums of a profile: the sum of the
// first k samples is hi[k] + lo[k], where lo collects the rounding error of
// every addition made while building hi.
type prefixSums struct {
	hi []float64
	lo []float64
}

func newPrefixSums(samples []float64) *prefixSums {
	n := len(samples)
	p := &prefixSums{
		hi: make([]float64, n+1),
		lo: make([]float64, n+1),
	}
	// CumSum accumulates left to right, so hi[i+1] is the rounded hi[i]+v.
	floats.CumSum(p.hi[1:], samples)

	errs := make([]float64, n)
	for i, v := range samples {
		a, s := p.hi[i], p.hi[i+1]
		bv := s - a
		errs[i] = (a - (s - bv)) + (v - bv)
	}
	floats.CumSum(p.lo[1:], errs)
	return p
}

// sum returns the sum of samples[a:b] and whether its error bound is within
// prefixTolerance of the result. Samples are non-negative, so hi[b] bounds
// the magnitude of every partial sum up to b.
func (p *prefixSums) sum(a, b int) (float64, bool) {
	s := (p.hi[b] - p.hi[a]) + (p.lo[b] - p.lo[a])

	const eps = 0x1p-52
	n := float64(len(p.hi))
	bound := (8 + n*eps) * eps * (p.hi[b] + math.Abs(p.lo[b]))
	if bound == 0 {
		return math.Max(0, s), true
	}
	if !(s > 0) || bound > prefixTolerance*s {
		return 0, false
	}
	return s, true
}
