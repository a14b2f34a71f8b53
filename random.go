package ristretto255

import "crypto/rand"

// RandomScalar returns a uniformly distributed random Scalar.
func RandomScalar() *Scalar {
	var b [64]byte
	rand.Read(b[:])
	s, _ := NewScalar().SetUniformBytes(b[:])
	return s
}

// RandomElement returns a uniformly distributed random Element.
func RandomElement() *Element {
	var b [64]byte
	rand.Read(b[:])
	e, _ := new(Element).SetUniformBytes(b[:])
	return e
}
