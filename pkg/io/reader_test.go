package io

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hed1ad/gocfar/pkg/detectors"
)

func TestResults(t *testing.T) {
	decisions := []detectors.Decision{
		{Status: detectors.StatusNotEvaluated, Value: 3},
		{Status: detectors.StatusClutter, Value: 4, Noise: 4, Threshold: 9.6},
		{Status: detectors.StatusTarget, Value: 40, Noise: 5, Threshold: 12},
	}

	results := Results(7, decisions, detectors.DefaultMarkers())
	require.Len(t, results, 3)

	assert.Equal(t, 7, results[0].Frame)
	assert.Equal(t, "not_evaluated", results[0].Status)
	assert.Nil(t, results[0].Intensity)

	assert.Equal(t, 1, results[1].Index)
	assert.Equal(t, "clutter", results[1].Status)
	require.NotNil(t, results[1].Intensity)
	assert.Equal(t, 0.0, *results[1].Intensity)

	assert.Equal(t, "target", results[2].Status)
	require.NotNil(t, results[2].Intensity)
	assert.Equal(t, 255.0, *results[2].Intensity)
	assert.Equal(t, 12.0, results[2].Threshold)
}
