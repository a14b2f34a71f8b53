package ristretto255

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"

	"github.com/AlexanderYastrebov/ristretto255/internal/ct"
)

// A Scalar is an integer modulo
//
//	l = 2^252 + 27742317777372353535851937790883648493
//
// which is the prime order of the ristretto255 group.
//
// This type works similarly to math/big.Int, and all arguments and
// receivers are allowed to alias.
//
// The zero value is a valid zero element.
type Scalar struct {
	// s holds the value in 52-bit limbs
	//     s[0] + s[1]*2^52 + s[2]*2^104 + s[3]*2^156 + s[4]*2^208
	// and is always reduced modulo l.
	s [5]uint64
}

const maskLow52Bits uint64 = (1 << 52) - 1

// scalarOrder is l in 52-bit limbs.
var scalarOrder = [5]uint64{
	0x0002631a5cf5d3ed,
	0x000dea2f79cd6581,
	0x000000000014def9,
	0x0000000000000000,
	0x0000100000000000,
}

// scalarOrderWords is l in 64-bit little-endian words.
var scalarOrderWords = [4]uint64{
	0x5812631a5cf5d3ed,
	0x14def9dea2f79cd6,
	0x0000000000000000,
	0x1000000000000000,
}

// NewScalar returns a new zero Scalar.
func NewScalar() *Scalar {
	return &Scalar{}
}

// Zero sets s = 0, and returns s.
func (s *Scalar) Zero() *Scalar {
	s.s = [5]uint64{}
	return s
}

// One sets s = 1, and returns s.
func (s *Scalar) One() *Scalar {
	s.s = [5]uint64{1, 0, 0, 0, 0}
	return s
}

// Set sets s = x, and returns s.
func (s *Scalar) Set(x *Scalar) *Scalar {
	*s = *x
	return s
}

// Add sets s = x + y mod l, and returns s.
func (s *Scalar) Add(x, y *Scalar) *Scalar {
	var sum [5]uint64
	var carry uint64
	for i := range sum {
		carry = x.s[i] + y.s[i] + (carry >> 52)
		sum[i] = carry & maskLow52Bits
	}
	// sum < 2l, subtracting l brings it back into range
	scalarSub(&s.s, &sum, &scalarOrder)
	return s
}

// Subtract sets s = x - y mod l, and returns s.
func (s *Scalar) Subtract(x, y *Scalar) *Scalar {
	scalarSub(&s.s, &x.s, &y.s)
	return s
}

// Negate sets s = -x mod l, and returns s.
func (s *Scalar) Negate(x *Scalar) *Scalar {
	scalarSub(&s.s, &[5]uint64{}, &x.s)
	return s
}

// scalarSub sets v = a - b mod l for a, b < l. It is also used to reduce
// values in [l, 2l) by subtracting l itself.
func scalarSub(v, a, b *[5]uint64) {
	var diff [5]uint64
	var borrow uint64
	for i := range diff {
		borrow = a[i] - (b[i] + (borrow >> 63))
		diff[i] = borrow & maskLow52Bits
	}

	// Add l back if the subtraction underflowed.
	var order [5]uint64
	ct.Select(&order, &scalarOrder, &order, int(borrow>>63))

	var carry uint64
	for i := range diff {
		carry = (carry >> 52) + diff[i] + order[i]
		v[i] = carry & maskLow52Bits
	}
}

// Equal returns 1 if s and t are equal, and 0 otherwise.
func (s *Scalar) Equal(t *Scalar) int {
	var bs, bt [32]byte
	return subtle.ConstantTimeCompare(s.bytes(&bs), t.bytes(&bt))
}

var errInvalidScalar = errors.New("ristretto255: invalid scalar encoding")

// SetCanonicalBytes sets s = x, where x is a 32-byte little-endian encoding of
// s, and returns s. If x is not a canonical encoding of s, SetCanonicalBytes
// returns nil and an error, and the receiver is unchanged.
func (s *Scalar) SetCanonicalBytes(x []byte) (*Scalar, error) {
	if len(x) != 32 {
		return nil, errors.New("ristretto255: invalid scalar length")
	}

	var w [4]uint64
	for i := range w {
		w[i] = binary.LittleEndian.Uint64(x[i*8:])
	}
	if ct.Less(w[:], scalarOrderWords[:]) != 1 {
		return nil, errInvalidScalar
	}

	s.s[0] = w[0] & maskLow52Bits
	s.s[1] = (w[0]>>52 | w[1]<<12) & maskLow52Bits
	s.s[2] = (w[1]>>40 | w[2]<<24) & maskLow52Bits
	s.s[3] = (w[2]>>28 | w[3]<<36) & maskLow52Bits
	s.s[4] = w[3] >> 16
	return s, nil
}

// SetUniformBytes sets s = x mod l, where x is a 64-byte little-endian integer.
// If x is not of the right length, SetUniformBytes returns nil and an error,
// and the receiver is unchanged.
//
// SetUniformBytes can be used to set s to a uniformly distributed value given
// 64 uniformly distributed random bytes.
func (s *Scalar) SetUniformBytes(x []byte) (*Scalar, error) {
	if len(x) != 64 {
		return nil, errors.New("ristretto255: invalid SetUniformBytes input length")
	}

	var w [8]uint64
	for i := range w {
		w[i] = binary.LittleEndian.Uint64(x[i*8:])
	}

	// x = lo + hi * 2^260, with lo of 260 bits and hi of 252 bits.
	lo := [5]uint64{
		w[0] & maskLow52Bits,
		(w[0]>>52 | w[1]<<12) & maskLow52Bits,
		(w[1]>>40 | w[2]<<24) & maskLow52Bits,
		(w[2]>>28 | w[3]<<36) & maskLow52Bits,
		(w[3]>>16 | w[4]<<48) & maskLow52Bits,
	}
	hi := [5]uint64{
		(w[4] >> 4) & maskLow52Bits,
		(w[4]>>56 | w[5]<<8) & maskLow52Bits,
		(w[5]>>44 | w[6]<<20) & maskLow52Bits,
		(w[6]>>32 | w[7]<<32) & maskLow52Bits,
		w[7] >> 20,
	}

	// Since R = 2^260, lo*R/R + hi*R²/R = lo + hi*2^260 = x (mod l).
	lo = montMul(&lo, &montR)
	hi = montMul(&hi, &montRR)

	return s.Add(&Scalar{lo}, &Scalar{hi}), nil
}

// Bytes returns the canonical 32-byte little-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	// This function is outlined to make the allocations inline in the caller
	// rather than happen on the heap.
	var out [32]byte
	return s.bytes(&out)
}

func (s *Scalar) bytes(out *[32]byte) []byte {
	binary.LittleEndian.PutUint64(out[0:], s.s[0]|s.s[1]<<52)
	binary.LittleEndian.PutUint64(out[8:], s.s[1]>>12|s.s[2]<<40)
	binary.LittleEndian.PutUint64(out[16:], s.s[2]>>24|s.s[3]<<28)
	binary.LittleEndian.PutUint64(out[24:], s.s[3]>>36|s.s[4]<<16)
	return out[:]
}

// signedRadix16 returns the scalar in signed radix-16 digits.
//
// The result satisfies
//
//	s = d[0] + d[1]*16^1 + ... + d[63]*16^63
//
// with -8 <= d[i] < 8 for 0 <= i < 63 and -8 <= d[63] <= 8.
func (s *Scalar) signedRadix16() [64]int8 {
	var buf [32]byte
	b := s.bytes(&buf)
	if b[31] > 127 {
		panic("scalar has high bit set illegally")
	}

	var digits [64]int8

	// Compute unsigned radix-16 digits:
	for i := range 32 {
		digits[2*i] = int8(b[i] & 15)
		digits[2*i+1] = int8((b[i] >> 4) & 15)
	}

	// Recenter coefficients:
	for i := range 63 {
		carry := (digits[i] + 8) >> 4
		digits[i] -= carry << 4
		digits[i+1] += carry
	}

	return digits
}
