// Package mathx holds the small numeric helpers shared by the world packages:
// grid alignment for block coordinates and explicitly seeded randomness.
package mathx

import "math"

// FloorDiv divides value by size rounding toward negative infinity.
func FloorDiv(value, size int) int {
	if size <= 0 {
		return 0
	}
	if value >= 0 {
		return value / size
	}
	return -((-value - 1) / size) - 1
}

// AlignDown returns the largest multiple of size that is <= value.
func AlignDown(value, size int) int {
	return FloorDiv(value, size) * size
}

// AlignDownFloat is AlignDown for pixel coordinates that are not integral.
func AlignDownFloat(value float64, size int) int {
	if size <= 0 {
		return 0
	}
	return int(math.Floor(value/float64(size))) * size
}
