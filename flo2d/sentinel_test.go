package flo2d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeSentinel(t *testing.T) {
	assert.True(t, math.IsNaN(decodeSentinel(0.0)))
	assert.True(t, math.IsNaN(decodeSentinel(1e-9)))
	assert.True(t, math.IsNaN(decodeSentinel(-1e-9)))
	assert.True(t, math.IsNaN(decodeSentinel(1e-8)))

	assert.Equal(t, 2e-8, decodeSentinel(2e-8))
	assert.Equal(t, 1.5, decodeSentinel(1.5))
	assert.Equal(t, -3.25, decodeSentinel(-3.25))
}

func TestEncodeSentinel(t *testing.T) {
	assert.Equal(t, 0.0, encodeSentinel(math.NaN()))
	assert.Equal(t, 1.5, encodeSentinel(1.5))
	assert.Equal(t, -3.25, encodeSentinel(-3.25))
	// A true zero stays zero; the lossiness lives inside the epsilon band.
	assert.Equal(t, 0.0, encodeSentinel(0.0))
}

func TestSentinelRoundTrip(t *testing.T) {
	// Outside the band the round trip is the identity.
	for _, v := range []float64{1e-7, 0.5, -12.75, 1e6} {
		assert.Equal(t, v, encodeSentinel(decodeSentinel(v)))
	}
	// Inside the band every value collapses to zero.
	for _, v := range []float64{0.0, 1e-9, -1e-9, 1e-8} {
		assert.Equal(t, 0.0, encodeSentinel(decodeSentinel(v)))
	}
}
