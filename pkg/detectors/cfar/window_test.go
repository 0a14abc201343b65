package cfar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = float64(i)
	}
	return s
}

func TestReferenceWindow(t *testing.T) {
	samples := ramp(20)

	tests := []struct {
		name         string
		cut          int
		policy       BoundaryPolicy
		wantLeading  []float64
		wantTrailing []float64
		wantErr      bool
	}{
		{
			name:         "interior cell",
			cut:          10,
			policy:       BoundarySkip,
			wantLeading:  []float64{5, 6, 7},
			wantTrailing: []float64{13, 14, 15},
		},
		{
			name:         "first full cell",
			cut:          5,
			policy:       BoundarySkip,
			wantLeading:  []float64{0, 1, 2},
			wantTrailing: []float64{8, 9, 10},
		},
		{
			name:    "leading edge skipped",
			cut:     4,
			policy:  BoundarySkip,
			wantErr: true,
		},
		{
			name:    "trailing edge rejected",
			cut:     15,
			policy:  BoundaryReject,
			wantErr: true,
		},
		{
			name:         "leading edge one-sided",
			cut:          4,
			policy:       BoundaryOneSided,
			wantTrailing: []float64{7, 8, 9},
		},
		{
			name:        "trailing edge one-sided",
			cut:         17,
			policy:      BoundaryOneSided,
			wantLeading: []float64{12, 13, 14},
		},
		{
			name:    "out of range",
			cut:     20,
			policy:  BoundaryOneSided,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ReferenceWindow(samples, tt.cut, 2, 3, tt.policy)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInsufficientWindow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLeading, w.Leading)
			assert.Equal(t, tt.wantTrailing, w.Trailing)
		})
	}
}

func TestReferenceWindowNoGuard(t *testing.T) {
	w, err := ReferenceWindow(ramp(5), 2, 0, 1, BoundarySkip)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, w.Leading)
	assert.Equal(t, []float64{3}, w.Trailing)
}

func TestEstimators(t *testing.T) {
	w := Window{
		Leading:  []float64{1, 2, 3},
		Trailing: []float64{10, 20, 30},
	}
	oneSided := Window{Trailing: []float64{4, 8}}

	tests := []struct {
		estimator    Estimator
		want         float64
		wantOneSided float64
	}{
		{EstimatorMean, 11, 6},
		{EstimatorGreatestOf, 20, 6},
		{EstimatorSmallestOf, 2, 6},
		{EstimatorMedian, 6.5, 6},
	}

	for _, tt := range tests {
		t.Run(string(tt.estimator), func(t *testing.T) {
			est, err := NewEstimator(tt.estimator)
			require.NoError(t, err)

			assert.InDelta(t, tt.want, est.Estimate(w), 1e-12)
			assert.InDelta(t, tt.wantOneSided, est.Estimate(oneSided), 1e-12)
		})
	}

	_, err := NewEstimator("trimmed")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestSideCombinerMatchesEstimate(t *testing.T) {
	w := Window{
		Leading:  []float64{0.5, 1.5, 4},
		Trailing: []float64{2, 2, 9},
	}
	lead, trail := sideOf(w.Leading), sideOf(w.Trailing)

	for _, est := range []NoiseEstimator{Mean{}, GreatestOf{}, SmallestOf{}} {
		c, ok := est.(SideCombiner)
		require.True(t, ok)
		assert.InDelta(t, est.Estimate(w), c.Combine(lead, trail), 1e-12)
	}

	_, ok := NoiseEstimator(Median{}).(SideCombiner)
	assert.False(t, ok, "median needs the full window")
}

func TestNoiseLevel(t *testing.T) {
	cfg := DefaultConfig()
	samples := constant(40, 3)

	noise, err := NoiseLevel(samples, 20, cfg, Mean{})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, noise, 1e-12)

	_, err = NoiseLevel(samples, 9, cfg, Mean{})
	assert.ErrorIs(t, err, ErrInsufficientWindow)
	assert.Contains(t, err.Error(), "index 9")
}
