package field

import "github.com/AlexanderYastrebov/ristretto255/internal/uint128"

func feMul(v, a, b *Element) {
	a0 := a.l[0]
	a1 := a.l[1]
	a2 := a.l[2]
	a3 := a.l[3]
	a4 := a.l[4]

	b0 := b.l[0]
	b1 := b.l[1]
	b2 := b.l[2]
	b3 := b.l[3]
	b4 := b.l[4]

	// Limb multiplication works like pen-and-paper columnar multiplication,
	// with 51-bit limbs. Terms that land at or above 2^255 are folded back
	// with the reduction identity 2^255 = 19 (mod p), which is why the high
	// limbs of a are premultiplied by 19.
	a1_19 := a1 * 19
	a2_19 := a2 * 19
	a3_19 := a3 * 19
	a4_19 := a4 * 19

	// r0 = a0×b0 + 19×(a1×b4 + a2×b3 + a3×b2 + a4×b1)
	r0 := uint128.Mul64(a0, b0)
	r0 = r0.AddMul64(a1_19, b4)
	r0 = r0.AddMul64(a2_19, b3)
	r0 = r0.AddMul64(a3_19, b2)
	r0 = r0.AddMul64(a4_19, b1)

	// r1 = a0×b1 + a1×b0 + 19×(a2×b4 + a3×b3 + a4×b2)
	r1 := uint128.Mul64(a0, b1)
	r1 = r1.AddMul64(a1, b0)
	r1 = r1.AddMul64(a2_19, b4)
	r1 = r1.AddMul64(a3_19, b3)
	r1 = r1.AddMul64(a4_19, b2)

	// r2 = a0×b2 + a1×b1 + a2×b0 + 19×(a3×b4 + a4×b3)
	r2 := uint128.Mul64(a0, b2)
	r2 = r2.AddMul64(a1, b1)
	r2 = r2.AddMul64(a2, b0)
	r2 = r2.AddMul64(a3_19, b4)
	r2 = r2.AddMul64(a4_19, b3)

	// r3 = a0×b3 + a1×b2 + a2×b1 + a3×b0 + 19×a4×b4
	r3 := uint128.Mul64(a0, b3)
	r3 = r3.AddMul64(a1, b2)
	r3 = r3.AddMul64(a2, b1)
	r3 = r3.AddMul64(a3, b0)
	r3 = r3.AddMul64(a4_19, b4)

	// r4 = a0×b4 + a1×b3 + a2×b2 + a3×b1 + a4×b0
	r4 := uint128.Mul64(a0, b4)
	r4 = r4.AddMul64(a1, b3)
	r4 = r4.AddMul64(a2, b2)
	r4 = r4.AddMul64(a3, b1)
	r4 = r4.AddMul64(a4, b0)

	// With inputs below 2^52 each term is below 2^108.3 and each column
	// below 2^110.7, so c4 is below 2^59.7 and c4×19 still fits in 64 bits.
	reduceWide(v, r0, r1, r2, r3, r4)
}

func feSquare(v, a *Element) {
	l0 := a.l[0]
	l1 := a.l[1]
	l2 := a.l[2]
	l3 := a.l[3]
	l4 := a.l[4]

	// Squaring shares the cross terms of multiplication: a_i×a_j appears
	// twice for i != j.
	l0_2 := l0 * 2
	l1_2 := l1 * 2

	l1_38 := l1 * 38
	l2_38 := l2 * 38
	l3_38 := l3 * 38

	l3_19 := l3 * 19
	l4_19 := l4 * 19

	// r0 = l0×l0 + 19×(l1×l4 + l2×l3 + l3×l2 + l4×l1) = l0×l0 + 19×2×(l1×l4 + l2×l3)
	r0 := uint128.Mul64(l0, l0)
	r0 = r0.AddMul64(l1_38, l4)
	r0 = r0.AddMul64(l2_38, l3)

	// r1 = l0×l1 + l1×l0 + 19×(l2×l4 + l3×l3 + l4×l2) = 2×l0×l1 + 19×2×l2×l4 + 19×l3×l3
	r1 := uint128.Mul64(l0_2, l1)
	r1 = r1.AddMul64(l2_38, l4)
	r1 = r1.AddMul64(l3_19, l3)

	// r2 = l0×l2 + l1×l1 + l2×l0 + 19×(l3×l4 + l4×l3) = 2×l0×l2 + l1×l1 + 19×2×l3×l4
	r2 := uint128.Mul64(l0_2, l2)
	r2 = r2.AddMul64(l1, l1)
	r2 = r2.AddMul64(l3_38, l4)

	// r3 = l0×l3 + l1×l2 + l2×l1 + l3×l0 + 19×l4×l4 = 2×l0×l3 + 2×l1×l2 + 19×l4×l4
	r3 := uint128.Mul64(l0_2, l3)
	r3 = r3.AddMul64(l1_2, l2)
	r3 = r3.AddMul64(l4_19, l4)

	// r4 = l0×l4 + l1×l3 + l2×l2 + l3×l1 + l4×l0 = 2×l0×l4 + 2×l1×l3 + l2×l2
	r4 := uint128.Mul64(l0_2, l4)
	r4 = r4.AddMul64(l1_2, l3)
	r4 = r4.AddMul64(l2, l2)

	reduceWide(v, r0, r1, r2, r3, r4)
}

// reduceWide sets v to the weakly reduced element whose unreduced 128-bit
// limbs are r0..r4.
func reduceWide(v *Element, r0, r1, r2, r3, r4 uint128.Uint128) {
	c0 := r0.ShiftRightBy51()
	c1 := r1.ShiftRightBy51()
	c2 := r2.ShiftRightBy51()
	c3 := r3.ShiftRightBy51()
	c4 := r4.ShiftRightBy51()

	v.l[0] = r0.Lo&maskLow51Bits + c4*19
	v.l[1] = r1.Lo&maskLow51Bits + c0
	v.l[2] = r2.Lo&maskLow51Bits + c1
	v.l[3] = r3.Lo&maskLow51Bits + c2
	v.l[4] = r4.Lo&maskLow51Bits + c3

	// Now all coefficients fit into 64-bit registers but are still too
	// large to be passed around as an Element. One more light reduction
	// brings them below 52 bits.
	v.carryPropagate()
}
