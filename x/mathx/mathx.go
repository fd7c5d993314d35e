// Package mathx holds the small integer helpers used by the control loops.
package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// FloorMean returns sum/n truncated; n == 0 yields 0.
func FloorMean[T constraints.Unsigned](sum, n T) T {
	if n == 0 {
		return 0
	}
	return sum / n
}

// Scale maps x in [0,inMax] onto [0,outMax] with 32-bit intermediates,
// truncating. Inputs above inMax saturate at outMax.
func Scale(x, inMax, outMax uint16) uint16 {
	if inMax == 0 {
		return 0
	}
	if x >= inMax {
		return outMax
	}
	return uint16(uint32(x) * uint32(outMax) / uint32(inMax))
}
