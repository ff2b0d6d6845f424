package holders_chart

import (
	"fmt"
	"math"
)

// valueRange returns the y limits: finite data extent padded by 5% per side.
// No finite data gives 0..1, a flat series gets +-1 around its value.
func valueRange(values []float64) (lo, hi float64) {
	first := true
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if first {
		return 0, 1
	}
	if lo == hi {
		pad := math.Max(math.Abs(lo)*0.05, 1)
		return lo - pad, hi + pad
	}
	margin := (hi - lo) * 0.05
	return lo - margin, hi + margin
}

// niceTicks returns steps of 1, 2, 2.5 or 5 times a power of ten inside [lo, hi].
func niceTicks(lo, hi float64, maxTicks int) (ticks []float64, step float64) {
	if maxTicks < 2 {
		maxTicks = 2
	}
	if !(hi > lo) {
		return []float64{lo}, 1
	}
	raw := (hi - lo) / float64(maxTicks-1)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step = 10 * mag
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if raw <= m*mag {
			step = m * mag
			break
		}
	}

	start := math.Ceil(lo/step) * step
	for v := start; v <= hi+step*1e-9; v += step {
		// snap away float drift so 0.30000000000000004 prints as 0.3
		ticks = append(ticks, math.Round(v/step)*step)
	}
	return ticks, step
}

func formatTick(v, step float64) string {
	decimals := 0
	for decimals < 10 {
		scaled := step * math.Pow(10, float64(decimals))
		if math.Abs(scaled-math.Round(scaled)) < 1e-6 {
			break
		}
		decimals++
	}
	if v == 0 {
		v = 0 // drop negative zero
	}
	return fmt.Sprintf("%.*f", decimals, v)
}

// categoryStride is how many categories share one visible x tick label.
func categoryStride(n, capacity int) int {
	if n <= 0 {
		return 1
	}
	if capacity < 1 {
		capacity = 1
	}
	return (n + capacity - 1) / capacity
}
