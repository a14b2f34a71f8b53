// Package ristretto255 implements the [ristretto255] prime-order group.
//
// ristretto255 is built on top of the twisted Edwards form of Curve25519 and
// removes its cofactor of 8: every [Element] has a single canonical 32-byte
// encoding, and every decodable encoding is canonical. The group has prime
// order l = 2^252 + 27742317777372353535851937790883648493, and [Scalar]
// implements arithmetic modulo l.
//
// All operations on secret values are constant time. Boolean results are
// returned as int 1 or 0, like [crypto/subtle].
//
// [ristretto255]: https://datatracker.ietf.org/doc/html/rfc9496
package ristretto255

import (
	"crypto/sha512"
	"crypto/subtle"
	"errors"

	"github.com/AlexanderYastrebov/ristretto255/field"
)

var (
	// d is the curve constant -121665/121666.
	d = fieldElementFromString("37095705934669439343138083508754565189542113879843219016388785533085940283555")
	// d2 is 2*d.
	d2 = fieldElementFromString("16295367250680780974490674513165176452449235426866156013048779062215315747161")

	sqrtADMinusOne = fieldElementFromString("25063068953384623474111414158702152701244531502492656460079210482610430750235")
	invSqrtAMinusD = fieldElementFromString("54469307008909316920995813868745141605393597292927456921205312896311721017578")
	oneMinusDSQ    = fieldElementFromString("1159843021668779879193775521855586647937357759715417654439879720876111806838")
	dMinusOneSQ    = fieldElementFromString("40440834346308536858101042469323190826248399146238708352240133220865137265952")

	feOne    = new(field.Element).One()
	feMinus1 = new(field.Element).Negate(feOne)
)

// generator is the canonical ristretto255 generator, the Ed25519 base point.
var generator = &Element{
	x: *fieldElementFromString("15112221349535400772501151409588531511454012693041857206046113283949847762202"),
	y: *fieldElementFromString("46316835694926478169428394003475163141307993866256225615783033603165251855960"),
	z: *new(field.Element).One(),
	t: *fieldElementFromString("46827403850823179245072216630277197565144205554125654976674165829533817101731"),
}

// An Element is an element of the ristretto255 prime-order group.
//
// Internally it is a point (X:Y:Z:T) in extended coordinates on the twisted
// Edwards curve, with x = X/Z, y = Y/Z and xy = T/Z. Points that differ by a
// 4-torsion point represent the same Element.
//
// The zero value is NOT valid, and it may be used only as a receiver.
type Element struct {
	x, y, z, t field.Element

	// Make the type not comparable (i.e. used with == or as a map key), as
	// equivalent elements can be represented by different Go values.
	_ [0]func()
}

// NewIdentityElement returns a new Element set to the identity.
func NewIdentityElement() *Element {
	return new(Element).Zero()
}

// NewGeneratorElement returns a new Element set to the canonical generator.
func NewGeneratorElement() *Element {
	return new(Element).Base()
}

// Zero sets v to the identity element of the group, and returns v.
func (v *Element) Zero() *Element {
	v.x.Zero()
	v.y.One()
	v.z.One()
	v.t.Zero()
	return v
}

// Base sets v to the canonical generator, and returns v.
func (v *Element) Base() *Element {
	return v.Set(generator)
}

// Set sets v = u, and returns v.
func (v *Element) Set(u *Element) *Element {
	*v = *u
	return v
}

// Add sets v = p + q, and returns v.
func (v *Element) Add(p, q *Element) *Element {
	qCached := new(projectiveNiels).FromElement(q)
	result := new(completedPoint).Add(p, qCached)
	return v.fromCompleted(result)
}

// Subtract sets v = p - q, and returns v.
func (v *Element) Subtract(p, q *Element) *Element {
	qCached := new(projectiveNiels).FromElement(q)
	result := new(completedPoint).Sub(p, qCached)
	return v.fromCompleted(result)
}

// Negate sets v = -p, and returns v.
func (v *Element) Negate(p *Element) *Element {
	v.x.Negate(&p.x)
	v.y.Set(&p.y)
	v.z.Set(&p.z)
	v.t.Negate(&p.t)
	return v
}

// Double sets v = p + p, and returns v.
func (v *Element) Double(p *Element) *Element {
	pp := new(projectivePoint).FromElement(p)
	result := new(completedPoint).Double(pp)
	return v.fromCompleted(result)
}

// Equal returns 1 if v and u represent the same group element, and 0
// otherwise.
func (v *Element) Equal(u *Element) int {
	var f0, f1 field.Element

	f0.Multiply(&v.x, &u.y) // x1 * y2
	f1.Multiply(&v.y, &u.x) // y1 * x2
	out := f0.Equal(&f1)

	f0.Multiply(&v.y, &u.y) // y1 * y2
	f1.Multiply(&v.x, &u.x) // x1 * x2
	out = out | f0.Equal(&f1)

	return out
}

var (
	errInvalidEncoding       = errors.New("ristretto255: invalid element encoding")
	errInvalidEncodingLength = errors.New("ristretto255: invalid element encoding length")
)

// SetCanonicalBytes sets v to the decoded value of in, and returns v.
//
// If in is not a canonical encoding of an Element, SetCanonicalBytes returns
// nil and an error, and the receiver is unchanged. The error does not tell
// which check failed, and all checks run on every input.
func (v *Element) SetCanonicalBytes(in []byte) (*Element, error) {
	if len(in) != 32 {
		return nil, errInvalidEncodingLength
	}

	// First, interpret the string as an integer s in little-endian
	// representation. If the resulting value is >= p, decoding fails.
	// SetBytes only fails on length, which is checked above.
	s := new(field.Element)
	s.SetBytes(in)
	ok := subtle.ConstantTimeCompare(s.Bytes(), in)

	// If IS_NEGATIVE(s) returns TRUE, decoding fails.
	ok &= 1 ^ s.IsNegative()

	// ss = s^2
	sSqr := new(field.Element).Square(s)

	// u1 = 1 - ss
	u1 := new(field.Element).Subtract(feOne, sSqr)

	// u2 = 1 + ss
	u2 := new(field.Element).Add(feOne, sSqr)

	// u2_sqr = u2^2
	u2Sqr := new(field.Element).Square(u2)

	// v = -(D * u1^2) - u2_sqr
	w := new(field.Element).Square(u1)
	w.Multiply(w, d)
	w.Negate(w)
	w.Subtract(w, u2Sqr)

	// (was_square, invsqrt) = SQRT_RATIO_M1(1, v * u2_sqr)
	invSqrt, wasSquare := new(field.Element).SqrtRatio(feOne, new(field.Element).Multiply(w, u2Sqr))
	ok &= wasSquare

	// den_x = invsqrt * u2
	// den_y = invsqrt * den_x * v
	denX := new(field.Element).Multiply(invSqrt, u2)
	denY := new(field.Element).Multiply(invSqrt, denX)
	denY.Multiply(denY, w)

	// x = CT_ABS(2 * s * den_x)
	var out Element
	out.x.Multiply(s, denX)
	out.x.Add(&out.x, &out.x)
	out.x.Absolute(&out.x)

	// y = u1 * den_y
	out.y.Multiply(u1, denY)
	out.z.One()

	// t = x * y
	out.t.Multiply(&out.x, &out.y)

	// If was_square is FALSE, or IS_NEGATIVE(t) returns TRUE, or y = 0,
	// decoding fails.
	ok &= 1 ^ out.t.IsNegative()
	ok &= 1 ^ out.y.IsZero()

	if ok != 1 {
		return nil, errInvalidEncoding
	}
	*v = out
	return v, nil
}

// Bytes returns the 32-byte canonical encoding of v.
func (v *Element) Bytes() []byte {
	// Bytes is outlined to let the allocation happen on the parent stack.
	var out [32]byte
	return v.bytes(&out)
}

func (v *Element) bytes(out *[32]byte) []byte {
	var t0, u1, u2, invSqrt, den1, den2, zInv, ix, iy, enchanted field.Element

	// u1 = (z0 + y0) * (z0 - y0)
	t0.Add(&v.z, &v.y)
	u1.Subtract(&v.z, &v.y)
	u1.Multiply(&u1, &t0)

	// u2 = x0 * y0
	u2.Multiply(&v.x, &v.y)

	// Ignore was_square since this is always square.
	// (_, invsqrt) = SQRT_RATIO_M1(1, u1 * u2^2)
	t0.Square(&u2)
	t0.Multiply(&t0, &u1)
	invSqrt.SqrtRatio(feOne, &t0)

	// den1 = invsqrt * u1
	// den2 = invsqrt * u2
	den1.Multiply(&invSqrt, &u1)
	den2.Multiply(&invSqrt, &u2)

	// z_inv = den1 * den2 * t0
	zInv.Multiply(&den1, &den2)
	zInv.Multiply(&zInv, &v.t)

	// ix0 = x0 * SQRT_M1
	// iy0 = y0 * SQRT_M1
	ix.Multiply(&v.x, field.SqrtM1)
	iy.Multiply(&v.y, field.SqrtM1)

	// enchanted_denominator = den1 * INVSQRT_A_MINUS_D
	enchanted.Multiply(&den1, invSqrtAMinusD)

	// rotate = IS_NEGATIVE(t0 * z_inv)
	t0.Multiply(&v.t, &zInv)
	rotate := t0.IsNegative()

	// x = CT_SELECT(iy0 IF rotate ELSE x0)
	// y = CT_SELECT(ix0 IF rotate ELSE y0)
	// z = z0
	// den_inv = CT_SELECT(enchanted_denominator IF rotate ELSE den2)
	var x, y, denInv field.Element
	x.Select(&iy, &v.x, rotate)
	y.Select(&ix, &v.y, rotate)
	denInv.Select(&enchanted, &den2, rotate)

	// y = CT_NEG(y, IS_NEGATIVE(x * z_inv))
	t0.Multiply(&x, &zInv)
	y.CondNegate(&y, t0.IsNegative())

	// s = CT_ABS(den_inv * (z - y))
	t0.Subtract(&v.z, &y)
	t0.Multiply(&denInv, &t0)
	t0.Absolute(&t0)

	copy(out[:], t0.Bytes())
	return out[:]
}

// SetUniformBytes deterministically sets v to an uniformly distributed value
// given 64 uniformly distributed random bytes, and returns v.
//
// If b is not of the right length, SetUniformBytes returns nil and an error,
// and the receiver is unchanged.
//
// This can be used for hash-to-group operations or to obtain a random
// element.
func (v *Element) SetUniformBytes(b []byte) (*Element, error) {
	if len(b) != 64 {
		return nil, errors.New("ristretto255: SetUniformBytes input is not 64 bytes long")
	}

	f := &field.Element{}

	// SetBytes ignores the high bit, as the encoding requires.
	f.SetBytes(b[:32])
	point1 := &Element{}
	mapToPoint(point1, f)

	f.SetBytes(b[32:])
	point2 := &Element{}
	mapToPoint(point2, f)

	return v.Add(point1, point2), nil
}

// HashToElement sets v to the element derived from the SHA-512 hash of msg,
// and returns v.
//
// It is compatible with curve25519-dalek RistrettoPoint::hash_from_bytes
// instantiated with Sha512.
func (v *Element) HashToElement(msg []byte) *Element {
	h := sha512.Sum512(msg)
	v.SetUniformBytes(h[:])
	return v
}

// mapToPoint implements the Elligator-based MAP function of RFC 9496,
// Section 4.3.4.
func mapToPoint(out *Element, t *field.Element) {
	// r = SQRT_M1 * t^2
	r := &field.Element{}
	r.Multiply(field.SqrtM1, r.Square(t))

	// u = (r + 1) * ONE_MINUS_D_SQ
	u := &field.Element{}
	u.Multiply(u.Add(r, feOne), oneMinusDSQ)

	// c = -1
	c := &field.Element{}
	c.Set(feMinus1)

	// v = (c - r*D) * (r + D)
	rPlusD := &field.Element{}
	rPlusD.Add(r, d)
	v := &field.Element{}
	v.Multiply(v.Subtract(c, v.Multiply(r, d)), rPlusD)

	// (was_square, s) = SQRT_RATIO_M1(u, v)
	s := &field.Element{}
	_, wasSquare := s.SqrtRatio(u, v)

	// s_prime = -CT_ABS(s*t)
	sPrime := &field.Element{}
	sPrime.Negate(sPrime.Absolute(sPrime.Multiply(s, t)))

	// s = CT_SELECT(s IF was_square ELSE s_prime)
	s.Select(s, sPrime, wasSquare)
	// c = CT_SELECT(c IF was_square ELSE r)
	c.Select(c, r, wasSquare)

	// N = c * (r - 1) * D_MINUS_ONE_SQ - v
	N := &field.Element{}
	N.Multiply(c, N.Subtract(r, feOne))
	N.Subtract(N.Multiply(N, dMinusOneSQ), v)

	s2 := &field.Element{}
	s2.Square(s)

	// w0 = 2 * s * v
	w0 := &field.Element{}
	w0.Add(w0, w0.Multiply(s, v))
	// w1 = N * SQRT_AD_MINUS_ONE
	w1 := &field.Element{}
	w1.Multiply(N, sqrtADMinusOne)
	// w2 = 1 - s^2
	w2 := &field.Element{}
	w2.Subtract(feOne, s2)
	// w3 = 1 + s^2
	w3 := &field.Element{}
	w3.Add(feOne, s2)

	// return (w0*w3, w2*w1, w1*w3, w0*w2)
	out.x.Multiply(w0, w3)
	out.y.Multiply(w2, w1)
	out.z.Multiply(w1, w3)
	out.t.Multiply(w0, w2)
}

// ScalarMult sets v = s * p, and returns v.
func (v *Element) ScalarMult(s *Scalar, p *Element) *Element {
	var table lookupTable
	table.FromElement(p)

	// Write x = sum(x_i * 16^i) so x*P = sum(P*x_i*16^i) and compute
	// 16*(16*(16*(...)+x_1*P)+x_0*P with the most significant digit first.
	digits := s.signedRadix16()

	multiple := &projectiveNiels{}
	tmp1 := &completedPoint{}
	tmp2 := &projectivePoint{}

	v.Zero()
	table.SelectInto(multiple, digits[63])
	tmp1.Add(v, multiple)
	for i := 62; i >= 0; i-- {
		tmp2.FromCompleted(tmp1)
		tmp1.Double(tmp2)
		tmp2.FromCompleted(tmp1)
		tmp1.Double(tmp2)
		tmp2.FromCompleted(tmp1)
		tmp1.Double(tmp2)
		tmp2.FromCompleted(tmp1)
		tmp1.Double(tmp2)
		v.fromCompleted(tmp1)
		table.SelectInto(multiple, digits[i])
		tmp1.Add(v, multiple)
	}
	return v.fromCompleted(tmp1)
}

// ScalarBaseMult sets v = s * G, where G is the canonical generator, and
// returns v.
func (v *Element) ScalarBaseMult(s *Scalar) *Element {
	table := generatorTable()

	// Write x = sum(x_i * 16^i) so x*G = sum(G*x_i*16^i). Row j of the table
	// holds multiples of 256^j*G, so the odd digits are added first and the
	// sum is multiplied by 16 before the even digits.
	digits := s.signedRadix16()

	multiple := &affineNiels{}
	tmp1 := &completedPoint{}
	tmp2 := &projectivePoint{}

	v.Zero()
	for i := 1; i < 64; i += 2 {
		table[i/2].SelectInto(multiple, digits[i])
		tmp1.AddAffine(v, multiple)
		v.fromCompleted(tmp1)
	}

	tmp2.FromElement(v)
	tmp1.Double(tmp2)
	tmp2.FromCompleted(tmp1)
	tmp1.Double(tmp2)
	tmp2.FromCompleted(tmp1)
	tmp1.Double(tmp2)
	tmp2.FromCompleted(tmp1)
	tmp1.Double(tmp2)
	v.fromCompleted(tmp1)

	for i := 0; i < 64; i += 2 {
		table[i/2].SelectInto(multiple, digits[i])
		tmp1.AddAffine(v, multiple)
		v.fromCompleted(tmp1)
	}
	return v
}
