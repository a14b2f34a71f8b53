// Package uint128 implements the 128-bit accumulator used by the limb
// arithmetic of the field and scalar implementations.
//
// Go has no native 128-bit integer, so products of 64-bit limbs are held as
// a pair of words built on [math/bits].
package uint128

import "math/bits"

// Uint128 holds the value Lo + Hi*2^64.
type Uint128 struct {
	Lo, Hi uint64
}

// Mul64 returns a * b.
func Mul64(a, b uint64) Uint128 {
	hi, lo := bits.Mul64(a, b)
	return Uint128{lo, hi}
}

// AddMul64 returns v + a * b.
func (v Uint128) AddMul64(a, b uint64) Uint128 {
	hi, lo := bits.Mul64(a, b)
	lo, c := bits.Add64(lo, v.Lo, 0)
	hi, _ = bits.Add64(hi, v.Hi, c)
	return Uint128{lo, hi}
}

// Add returns v + u, wrapping on overflow.
func (v Uint128) Add(u Uint128) Uint128 {
	lo, c := bits.Add64(v.Lo, u.Lo, 0)
	hi, _ := bits.Add64(v.Hi, u.Hi, c)
	return Uint128{lo, hi}
}

// Rsh returns v >> n for 0 < n < 64.
func (v Uint128) Rsh(n uint) Uint128 {
	return Uint128{
		Lo: v.Lo>>n | v.Hi<<(64-n),
		Hi: v.Hi >> n,
	}
}

// ShiftRightBy51 returns the low 64 bits of v >> 51.
func (v Uint128) ShiftRightBy51() uint64 {
	return (v.Hi << (64 - 51)) | (v.Lo >> 51)
}
