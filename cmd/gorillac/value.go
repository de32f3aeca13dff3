package main

import (
	"math"
	"strconv"
)

// formatValue renders a pair's raw uint64 value as the decimal float64 it
// bit-casts to, matching the round-trip encode/decode expects of its input.
func formatValue(v uint64) string {
	return strconv.FormatFloat(math.Float64frombits(v), 'g', -1, 64)
}
