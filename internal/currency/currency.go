package currency

import "math"

func ToCents(v float64) int {
	return int(math.Round(v * 100))
}

func FromCents(v int) float64 {
	return float64(v) / 100
}
