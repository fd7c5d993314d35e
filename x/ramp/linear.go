// Package ramp spreads a level change over evenly spaced integer steps.
package ramp

// Linear moves from cur to to in steps increments, calling wait between
// consecutive levels. A false from wait abandons the ramp. The final level
// passed to set is always to; steps <= 1 snaps straight there.
// It reports whether the ramp completed.
func Linear(cur, to uint16, steps uint16, wait func() bool, set func(uint16)) bool {
	if steps <= 1 || cur == to {
		set(to)
		return true
	}
	d := int32(to) - int32(cur)
	n := int32(steps)
	for i := int32(1); i < n; i++ {
		set(uint16(int32(cur) + d*i/n))
		if !wait() {
			return false
		}
	}
	set(to)
	return true
}
