package cfar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
)

func TestPrefixSums(t *testing.T) {
	samples := clutter(1000, 4)
	p := newPrefixSums(samples)

	for _, r := range [][2]int{{0, 8}, {100, 116}, {500, 1000}, {992, 1000}} {
		got, exact := p.sum(r[0], r[1])
		assert.True(t, exact, "range %v", r)
		assert.InEpsilon(t, floats.Sum(samples[r[0]:r[1]]), got, 1e-12, "range %v", r)
	}
}

func TestPrefixSumsAfterLargeSample(t *testing.T) {
	samples := constant(200, 1)
	samples[20] = 1e17
	p := newPrefixSums(samples)

	got, exact := p.sum(10, 30)
	assert.True(t, exact)
	assert.InEpsilon(t, 1e17+19, got, 1e-12)

	_, exact = p.sum(100, 108)
	assert.False(t, exact, "window after the spike cannot be taken from the running sum")

	got, exact = p.sum(0, 8)
	assert.True(t, exact)
	assert.Equal(t, 8.0, got)
}

func TestPrefixSumsZeros(t *testing.T) {
	p := newPrefixSums(make([]float64, 20))
	got, exact := p.sum(4, 12)
	assert.True(t, exact)
	assert.Zero(t, got)

	samples := constant(20, 0)
	samples[2] = 5
	p = newPrefixSums(samples)
	_, exact = p.sum(4, 12)
	assert.False(t, exact, "an empty window after positive samples is summed directly")
}
