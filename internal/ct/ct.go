// Package ct implements the constant-time primitives shared by the field
// and scalar limb representations.
//
// Conditions are ints holding 1 or 0, as in [crypto/subtle]. Passing any
// other value is a programming error and yields undefined results.
package ct

import "math/bits"

// Mask returns 0xffffffffffffffff if cond is 1, and 0 otherwise.
func Mask(cond int) uint64 { return ^(uint64(cond) - 1) }

// Select sets v to a if cond == 1, and to b if cond == 0.
func Select(v, a, b *[5]uint64, cond int) {
	m := Mask(cond)
	v[0] = (m & a[0]) | (^m & b[0])
	v[1] = (m & a[1]) | (^m & b[1])
	v[2] = (m & a[2]) | (^m & b[2])
	v[3] = (m & a[3]) | (^m & b[3])
	v[4] = (m & a[4]) | (^m & b[4])
}

// Swap swaps a and b if cond == 1 or leaves them unchanged if cond == 0.
func Swap(a, b *[5]uint64, cond int) {
	m := Mask(cond)
	for i := range a {
		t := m & (a[i] ^ b[i])
		a[i] ^= t
		b[i] ^= t
	}
}

// Less returns 1 if x < y, and 0 otherwise, where x and y are little-endian
// multi-word integers of the same length.
func Less(x, y []uint64) int {
	var borrow uint64
	for i := range x {
		_, borrow = bits.Sub64(x[i], y[i], borrow)
	}
	return int(borrow)
}
