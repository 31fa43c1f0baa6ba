package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPercentage(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "NaN", in: math.NaN(), want: 0},
		{name: "positive infinity", in: math.Inf(1), want: 0},
		{name: "negative infinity", in: math.Inf(-1), want: 0},
		{name: "negative", in: -5, want: 0},
		{name: "overflow", in: 150, want: 100},
		{name: "zero", in: 0, want: 0},
		{name: "in range", in: 42.5, want: 42.5},
		{name: "upper bound", in: 100, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampPercentage(tt.in))
		})
	}
}

func TestRate(t *testing.T) {
	assert.Equal(t, float64(0), Rate(5, 0), "zero denominator must not produce Inf")
	assert.Equal(t, float64(50), Rate(1, 2))
	assert.Equal(t, float64(100), Rate(3, 2), "over-100 ratios clamp")
}

func TestParseFloat(t *testing.T) {
	assert.Equal(t, float64(0), ParseFloat("not a number"))
	assert.Equal(t, 12.5, ParseFloat("12.5"))
	assert.Equal(t, float64(100), ParseFloat("150"))
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 7, ParseInt("7", 3))
	assert.Equal(t, 3, ParseInt("x", 3))
}
