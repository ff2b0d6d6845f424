package holders_chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueRange(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		lo, hi float64
	}{
		{"empty", nil, 0, 1},
		{"all NaN", []float64{math.NaN()}, 0, 1},
		{"flat", []float64{100, 100}, 95, 105},
		{"flat zero", []float64{0}, -1, 1},
		{"padded", []float64{10, 25, 40}, 8.5, 41.5},
		{"skips inf", []float64{0, math.Inf(1), 10}, -0.5, 10.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := valueRange(tt.values)
			assert.InDelta(t, tt.lo, lo, 1e-9)
			assert.InDelta(t, tt.hi, hi, 1e-9)
		})
	}
}

func TestNiceTicks(t *testing.T) {
	ticks, step := niceTicks(8.5, 41.5, 6)
	assert.Equal(t, 10.0, step)
	assert.Equal(t, []float64{10, 20, 30, 40}, ticks)

	ticks, step = niceTicks(0, 1, 6)
	assert.InDelta(t, 0.2, step, 1e-12)
	assert.Len(t, ticks, 6)
	assert.InDelta(t, 0.6, ticks[3], 1e-12)

	ticks, _ = niceTicks(5, 5, 6)
	assert.Equal(t, []float64{5}, ticks)
}

func TestFormatTick(t *testing.T) {
	assert.Equal(t, "40", formatTick(40, 10))
	assert.Equal(t, "0.6", formatTick(0.6000000000000001, 0.2))
	assert.Equal(t, "2.5", formatTick(2.5, 2.5))
	assert.Equal(t, "0", formatTick(math.Copysign(0, -1), 1))
	assert.Equal(t, "1500000", formatTick(1.5e6, 500000))
}

func TestCategoryStride(t *testing.T) {
	assert.Equal(t, 1, categoryStride(0, 10))
	assert.Equal(t, 1, categoryStride(10, 10))
	assert.Equal(t, 2, categoryStride(11, 10))
	assert.Equal(t, 40, categoryStride(400, 10))
	assert.Equal(t, 5, categoryStride(5, 0))
}
