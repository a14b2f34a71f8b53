package ristretto255

import "github.com/AlexanderYastrebov/ristretto255/field"

// Intermediate point representations used by the group law.
//
// See "Twisted Edwards Curves Revisited" (https://eprint.iacr.org/2008/522)
// and https://doc-internal.dalek.rs/curve25519_dalek/backend/serial/curve_models.

// completedPoint is (X:Z, Y:T), the output of an addition or doubling.
type completedPoint struct {
	X, Y, Z, T field.Element
}

// projectivePoint is (X:Y:Z), the input to a doubling.
type projectivePoint struct {
	X, Y, Z field.Element
}

// projectiveNiels is (Y+X, Y-X, Z, 2d*T), a cached addend.
type projectiveNiels struct {
	YplusX, YminusX, Z, T2d field.Element
}

// affineNiels is (y+x, y-x, 2d*x*y), a cached addend with Z = 1.
type affineNiels struct {
	YplusX, YminusX, T2d field.Element
}

// Constructors.

func (v *projectiveNiels) Zero() *projectiveNiels {
	v.YplusX.One()
	v.YminusX.One()
	v.Z.One()
	v.T2d.Zero()
	return v
}

func (v *affineNiels) Zero() *affineNiels {
	v.YplusX.One()
	v.YminusX.One()
	v.T2d.Zero()
	return v
}

// Conversions.

func (v *projectivePoint) FromElement(p *Element) *projectivePoint {
	v.X.Set(&p.x)
	v.Y.Set(&p.y)
	v.Z.Set(&p.z)
	return v
}

func (v *projectivePoint) FromCompleted(p *completedPoint) *projectivePoint {
	v.X.Multiply(&p.X, &p.T)
	v.Y.Multiply(&p.Y, &p.Z)
	v.Z.Multiply(&p.Z, &p.T)
	return v
}

func (v *Element) fromCompleted(p *completedPoint) *Element {
	v.x.Multiply(&p.X, &p.T)
	v.y.Multiply(&p.Y, &p.Z)
	v.z.Multiply(&p.Z, &p.T)
	v.t.Multiply(&p.X, &p.Y)
	return v
}

func (v *projectiveNiels) FromElement(p *Element) *projectiveNiels {
	v.YplusX.Add(&p.y, &p.x)
	v.YminusX.Subtract(&p.y, &p.x)
	v.Z.Set(&p.z)
	v.T2d.Multiply(&p.t, d2)
	return v
}

// fromElementZInv sets v from p given zInv = 1/Z.
func (v *affineNiels) fromElementZInv(p *Element, zInv *field.Element) *affineNiels {
	var x, y field.Element
	x.Multiply(&p.x, zInv)
	y.Multiply(&p.y, zInv)

	v.YplusX.Add(&y, &x)
	v.YminusX.Subtract(&y, &x)
	v.T2d.Multiply(&x, &y)
	v.T2d.Multiply(&v.T2d, d2)
	return v
}

// Group law.

func (v *completedPoint) Add(p *Element, q *projectiveNiels) *completedPoint {
	var PP, MM, TT2d, ZZ2 field.Element

	PP.Add(&p.y, &p.x)
	PP.Multiply(&PP, &q.YplusX)
	MM.Subtract(&p.y, &p.x)
	MM.Multiply(&MM, &q.YminusX)
	TT2d.Multiply(&p.t, &q.T2d)
	ZZ2.Multiply(&p.z, &q.Z)
	ZZ2.Add(&ZZ2, &ZZ2)

	v.X.Subtract(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Add(&ZZ2, &TT2d)
	v.T.Subtract(&ZZ2, &TT2d)
	return v
}

func (v *completedPoint) Sub(p *Element, q *projectiveNiels) *completedPoint {
	var PP, MM, TT2d, ZZ2 field.Element

	PP.Add(&p.y, &p.x)
	PP.Multiply(&PP, &q.YminusX) // flipped sign
	MM.Subtract(&p.y, &p.x)
	MM.Multiply(&MM, &q.YplusX) // flipped sign
	TT2d.Multiply(&p.t, &q.T2d)
	ZZ2.Multiply(&p.z, &q.Z)
	ZZ2.Add(&ZZ2, &ZZ2)

	v.X.Subtract(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Subtract(&ZZ2, &TT2d) // flipped sign
	v.T.Add(&ZZ2, &TT2d)      // flipped sign
	return v
}

func (v *completedPoint) AddAffine(p *Element, q *affineNiels) *completedPoint {
	var PP, MM, TT2d, Z2 field.Element

	PP.Add(&p.y, &p.x)
	PP.Multiply(&PP, &q.YplusX)
	MM.Subtract(&p.y, &p.x)
	MM.Multiply(&MM, &q.YminusX)
	TT2d.Multiply(&p.t, &q.T2d)
	Z2.Add(&p.z, &p.z)

	v.X.Subtract(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Add(&Z2, &TT2d)
	v.T.Subtract(&Z2, &TT2d)
	return v
}

// Double sets v = 2p.
//
//	X = (x+y)² - (y²+x²), Y = y²+x², Z = y²-x², T = 2z² - Z
func (v *completedPoint) Double(p *projectivePoint) *completedPoint {
	var XX, YY, ZZ2, XplusYsq field.Element

	XX.Square(&p.X)
	YY.Square(&p.Y)
	ZZ2.Square(&p.Z)
	ZZ2.Add(&ZZ2, &ZZ2)
	XplusYsq.Add(&p.X, &p.Y)
	XplusYsq.Square(&XplusYsq)

	v.Y.Add(&YY, &XX)
	v.Z.Subtract(&YY, &XX)

	v.X.Subtract(&XplusYsq, &v.Y)
	v.T.Subtract(&ZZ2, &v.Z)
	return v
}

// Selection and negation, both constant time.

// Select sets v to a if cond == 1 and to b if cond == 0.
func (v *projectiveNiels) Select(a, b *projectiveNiels, cond int) *projectiveNiels {
	v.YplusX.Select(&a.YplusX, &b.YplusX, cond)
	v.YminusX.Select(&a.YminusX, &b.YminusX, cond)
	v.Z.Select(&a.Z, &b.Z, cond)
	v.T2d.Select(&a.T2d, &b.T2d, cond)
	return v
}

// Select sets v to a if cond == 1 and to b if cond == 0.
func (v *affineNiels) Select(a, b *affineNiels, cond int) *affineNiels {
	v.YplusX.Select(&a.YplusX, &b.YplusX, cond)
	v.YminusX.Select(&a.YminusX, &b.YminusX, cond)
	v.T2d.Select(&a.T2d, &b.T2d, cond)
	return v
}

// CondNeg negates v if cond == 1 and leaves it unchanged if cond == 0.
func (v *projectiveNiels) CondNeg(cond int) *projectiveNiels {
	v.YplusX.Swap(&v.YminusX, cond)
	v.T2d.CondNegate(&v.T2d, cond)
	return v
}

// CondNeg negates v if cond == 1 and leaves it unchanged if cond == 0.
func (v *affineNiels) CondNeg(cond int) *affineNiels {
	v.YplusX.Swap(&v.YminusX, cond)
	v.T2d.CondNegate(&v.T2d, cond)
	return v
}
