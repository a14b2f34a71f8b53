package ristretto255

import "github.com/AlexanderYastrebov/ristretto255/internal/uint128"

// Montgomery arithmetic modulo l with R = 2^260.
//
// https://en.wikipedia.org/wiki/Montgomery_modular_multiplication
var (
	// montR is R mod l.
	montR = [5]uint64{
		0x000f48bd6721e6ed,
		0x0003bab5ac67e45a,
		0x000fffffeb35e51b,
		0x000fffffffffffff,
		0x00000fffffffffff,
	}
	// montRR is R^2 mod l.
	montRR = [5]uint64{
		0x0009d265e952d13b,
		0x000d63c715bea69f,
		0x0005be65cb687604,
		0x0003dceec73d217f,
		0x000009411b7c309a,
	}
)

// orderFactor is -1/l mod 2^52, the per-limb Montgomery reduction constant.
const orderFactor = 0x51da312547e1b

// orderMinusTwoWords is l - 2 in 64-bit little-endian words, the exponent of
// the Fermat inversion.
var orderMinusTwoWords = [4]uint64{
	0x5812631a5cf5d3eb,
	0x14def9dea2f79cd6,
	0x0000000000000000,
	0x1000000000000000,
}

// Multiply sets s = x * y mod l, and returns s.
func (s *Scalar) Multiply(x, y *Scalar) *Scalar {
	xy := montMul(&x.s, &y.s)    // x*y/R
	s.s = montMul(&xy, &montRR) // (x*y/R)*R^2/R = x*y
	return s
}

// Square sets s = x * x mod l, and returns s.
func (s *Scalar) Square(x *Scalar) *Scalar {
	z := squareInternal(&x.s)
	xx := montReduce(&z)
	s.s = montMul(&xx, &montRR)
	return s
}

// Invert sets s to the inverse of a nonzero scalar v, and returns s.
//
// If t is zero, Invert returns zero.
func (s *Scalar) Invert(t *Scalar) *Scalar {
	// Fermat's little theorem: t^(l-2) = 1/t. The chain runs on Montgomery
	// representatives, where montMul is multiplication.
	tR := montMul(&t.s, &montRR) // t*R
	acc := montR                 // 1*R

	// The exponent is public, so branching on its bits is safe.
	for i := 252; i >= 0; i-- {
		acc = montMul(&acc, &acc)
		if orderMinusTwoWords[i/64]>>(i%64)&1 == 1 {
			acc = montMul(&acc, &tR)
		}
	}

	s.s = montMul(&acc, &[5]uint64{1, 0, 0, 0, 0}) // leave the Montgomery domain
	return s
}

// montMul returns a*b/R mod l.
func montMul(a, b *[5]uint64) [5]uint64 {
	z := mulInternal(a, b)
	return montReduce(&z)
}

// mulInternal returns the schoolbook product of a and b as nine unreduced
// 128-bit columns.
func mulInternal(a, b *[5]uint64) (z [9]uint128.Uint128) {
	z[0] = uint128.Mul64(a[0], b[0])
	z[1] = uint128.Mul64(a[0], b[1]).AddMul64(a[1], b[0])
	z[2] = uint128.Mul64(a[0], b[2]).AddMul64(a[1], b[1]).AddMul64(a[2], b[0])
	z[3] = uint128.Mul64(a[0], b[3]).AddMul64(a[1], b[2]).AddMul64(a[2], b[1]).AddMul64(a[3], b[0])
	z[4] = uint128.Mul64(a[0], b[4]).AddMul64(a[1], b[3]).AddMul64(a[2], b[2]).AddMul64(a[3], b[1]).AddMul64(a[4], b[0])
	z[5] = uint128.Mul64(a[1], b[4]).AddMul64(a[2], b[3]).AddMul64(a[3], b[2]).AddMul64(a[4], b[1])
	z[6] = uint128.Mul64(a[2], b[4]).AddMul64(a[3], b[3]).AddMul64(a[4], b[2])
	z[7] = uint128.Mul64(a[3], b[4]).AddMul64(a[4], b[3])
	z[8] = uint128.Mul64(a[4], b[4])
	return z
}

// squareInternal returns the schoolbook square of a as nine unreduced
// 128-bit columns.
func squareInternal(a *[5]uint64) (z [9]uint128.Uint128) {
	aa := [4]uint64{a[0] * 2, a[1] * 2, a[2] * 2, a[3] * 2}

	z[0] = uint128.Mul64(a[0], a[0])
	z[1] = uint128.Mul64(aa[0], a[1])
	z[2] = uint128.Mul64(aa[0], a[2]).AddMul64(a[1], a[1])
	z[3] = uint128.Mul64(aa[0], a[3]).AddMul64(aa[1], a[2])
	z[4] = uint128.Mul64(aa[0], a[4]).AddMul64(aa[1], a[3]).AddMul64(a[2], a[2])
	z[5] = uint128.Mul64(aa[1], a[4]).AddMul64(aa[2], a[3])
	z[6] = uint128.Mul64(aa[2], a[4]).AddMul64(a[3], a[3])
	z[7] = uint128.Mul64(aa[3], a[4])
	z[8] = uint128.Mul64(a[4], a[4])
	return z
}

// montReduce returns z/R mod l, where z is given as nine 128-bit columns of
// 52-bit positions.
func montReduce(z *[9]uint128.Uint128) [5]uint64 {
	l := &scalarOrder

	// part1 adds the multiple p*l that clears the low 52 bits of sum and
	// returns the carry together with p.
	part1 := func(sum uint128.Uint128) (uint128.Uint128, uint64) {
		p := (sum.Lo * orderFactor) & maskLow52Bits
		return sum.AddMul64(p, l[0]).Rsh(52), p
	}
	// part2 splits sum into its carry and low 52-bit limb.
	part2 := func(sum uint128.Uint128) (uint128.Uint128, uint64) {
		return sum.Rsh(52), sum.Lo & maskLow52Bits
	}

	// l[3] is zero, so its products are skipped.
	carry, n0 := part1(z[0])
	carry, n1 := part1(carry.Add(z[1]).AddMul64(n0, l[1]))
	carry, n2 := part1(carry.Add(z[2]).AddMul64(n0, l[2]).AddMul64(n1, l[1]))
	carry, n3 := part1(carry.Add(z[3]).AddMul64(n1, l[2]).AddMul64(n2, l[1]))
	carry, n4 := part1(carry.Add(z[4]).AddMul64(n0, l[4]).AddMul64(n2, l[2]).AddMul64(n3, l[1]))

	// The low five columns are now zero, which divides by R = 2^260.
	carry, r0 := part2(carry.Add(z[5]).AddMul64(n1, l[4]).AddMul64(n3, l[2]).AddMul64(n4, l[1]))
	carry, r1 := part2(carry.Add(z[6]).AddMul64(n2, l[4]).AddMul64(n4, l[2]))
	carry, r2 := part2(carry.Add(z[7]).AddMul64(n3, l[4]))
	carry, r3 := part2(carry.Add(z[8]).AddMul64(n4, l[4]))
	r4 := carry.Lo

	// The result is below 2l, subtract l to bring it into range.
	var r [5]uint64
	scalarSub(&r, &[5]uint64{r0, r1, r2, r3, r4}, &scalarOrder)
	return r
}
