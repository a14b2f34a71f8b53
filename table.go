package ristretto255

import (
	"crypto/subtle"
	"sync"

	"github.com/AlexanderYastrebov/ristretto255/field"
)

// A lookupTable holds P, 2P, ..., 8P for constant-time selection by a signed
// radix-16 digit.
type lookupTable struct {
	points [8]projectiveNiels
}

// An affineLookupTable holds Q, 2Q, ..., 8Q in affine Niels form.
type affineLookupTable struct {
	points [8]affineNiels
}

// FromElement builds the table for p.
func (v *lookupTable) FromElement(p *Element) {
	// Goal: v.points[i] = (i+1)*p, i.e., p, 2p, ..., 8p.
	// This allows lookup of -8p, ..., -p, 0, p, ..., 8p.
	v.points[0].FromElement(p)
	tmpExtended := &Element{}
	tmpCompleted := &completedPoint{}
	for i := range 7 {
		// Compute (i+1)*p + p.
		tmpCompleted.Add(p, &v.points[i])
		tmpExtended.fromCompleted(tmpCompleted)
		v.points[i+1].FromElement(tmpExtended)
	}
}

// SelectInto sets dest to x*P, where P is the base point of the table and
// -8 <= x <= 8. It scans every entry.
func (v *lookupTable) SelectInto(dest *projectiveNiels, x int8) {
	// Compute xabs = |x|
	xmask := x >> 7
	xabs := uint8((x + xmask) ^ xmask)

	dest.Zero()
	for j := 1; j <= 8; j++ {
		// Set dest = j*Q if |x| = j
		cond := subtle.ConstantTimeByteEq(xabs, uint8(j))
		dest.Select(&v.points[j-1], dest, cond)
	}
	// Now dest = |x|*Q, conditionally negate to get x*Q
	dest.CondNeg(int(xmask & 1))
}

// SelectInto sets dest to x*Q, where Q is the base point of the table and
// -8 <= x <= 8. It scans every entry.
func (v *affineLookupTable) SelectInto(dest *affineNiels, x int8) {
	xmask := x >> 7
	xabs := uint8((x + xmask) ^ xmask)

	dest.Zero()
	for j := 1; j <= 8; j++ {
		cond := subtle.ConstantTimeByteEq(xabs, uint8(j))
		dest.Select(&v.points[j-1], dest, cond)
	}
	dest.CondNeg(int(xmask & 1))
}

// generatorTable returns the precomputed table for [Element.ScalarBaseMult].
// Row i holds 1*256^i*G, ..., 8*256^i*G.
//
// It is built on first use and is read-only afterwards.
var generatorTable = sync.OnceValue(func() *[32]affineLookupTable {
	var points [32 * 8]Element
	var q Element
	q.Set(generator)
	for i := range 32 {
		row := points[i*8 : i*8+8]
		row[0].Set(&q)
		for j := 1; j < 8; j++ {
			row[j].Add(&row[j-1], &q)
		}
		// q = 256*q, doubling 8*q five times
		q.Double(&row[7])
		for range 4 {
			q.Double(&q)
		}
	}
	return batchAffineNiels(points[:])
})

// batchAffineNiels converts 256 points to affine Niels form sharing a single
// field inversion.
func batchAffineNiels(points []Element) *[32]affineLookupTable {
	zs := make([]field.Element, len(points))
	scratch := make([]field.Element, len(points))
	for i := range points {
		zs[i].Set(&points[i].z)
	}
	invert(zs, scratch)

	table := new([32]affineLookupTable)
	for i := range points {
		table[i/8].points[i%8].fromElementZInv(&points[i], &zs[i])
	}
	return table
}

// invert calculates a[i] = 1/a[i] using b as a scratch buffer.
//
// It uses:
//
//	3*(n-1) multiplications
//	1 invert = ~265 multiplications
//
// Complexity: 3M*n + 262M
//
// All a[i] must be nonzero.
//
// https://en.wikipedia.org/wiki/Modular_multiplicative_inverse#Multiple_inverses
func invert(a, b []field.Element) {
	var t field.Element
	n := len(a)
	pa := new(field.Element).Set(&a[0]) // a[0]*a[1]*...*a[n]
	for i := 1; i < n; i++ {
		b[i].Set(pa)
		pa.Multiply(pa, &a[i])
	}

	paInv := new(field.Element).Invert(pa)

	for i := n - 1; i > 0; i-- {
		t.Multiply(paInv, &b[i])
		paInv.Multiply(paInv, &a[i])
		a[i].Set(&t)
	}
	a[0].Set(paInv)
}
