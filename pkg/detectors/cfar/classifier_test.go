package cfar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hed1ad/gocfar/pkg/detectors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		threshold float64
		want      bool
		wantErr   bool
	}{
		{name: "above", value: 10.5, threshold: 10, want: true},
		{name: "below", value: 9.5, threshold: 10, want: false},
		{name: "tie is clutter", value: 10, threshold: 10, want: false},
		{name: "zero against zero", value: 0, threshold: 0, want: false},
		{name: "negative value", value: -1, threshold: 10, wantErr: true},
		{name: "NaN value", value: math.NaN(), threshold: 10, wantErr: true},
		{name: "infinite value", value: math.Inf(1), threshold: 10, wantErr: true},
		{name: "negative threshold", value: 1, threshold: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.value, tt.threshold)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSample)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDecideSoftOutputFollowsDecision(t *testing.T) {
	markers := detectors.DefaultMarkers()

	hit, err := decide(50, 10, 2)
	require.NoError(t, err)
	assert.True(t, hit.IsTarget())
	assert.Equal(t, 20.0, hit.Threshold)
	v, ok := hit.Intensity(markers)
	assert.True(t, ok)
	assert.Equal(t, markers.Target, v)
	assert.InDelta(t, 2.5, hit.Ratio(), 1e-12)

	tie, err := decide(20, 10, 2)
	require.NoError(t, err)
	assert.False(t, tie.IsTarget())
	v, ok = tie.Intensity(markers)
	assert.True(t, ok)
	assert.Equal(t, markers.Clutter, v)

	skipped := detectors.Decision{Status: detectors.StatusNotEvaluated, Value: 50}
	_, ok = skipped.Intensity(markers)
	assert.False(t, ok)
	assert.Zero(t, skipped.Ratio())
}
