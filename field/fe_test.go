package field

import (
	"bytes"
	"encoding/hex"
	"math/bits"
	mathrand "math/rand"
	"reflect"
	"testing"
	"testing/quick"

	fefield "filippo.io/edwards25519/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quickCheckConfig returns a quick.Config that scales the max count by the
// given factor if the -short flag is not set.
func quickCheckConfig(slowScale int) *quick.Config {
	cfg := new(quick.Config)
	if !testing.Short() {
		cfg.MaxCountScale = float64(slowScale)
	}
	return cfg
}

// generateFieldElement returns an element with limbs in the range the
// public operations produce: after carryPropagate l0 < 2^51 + 2^18 and the
// other limbs are below 2^51 + 2^13.
func generateFieldElement(rand *mathrand.Rand) Element {
	return Element{[5]uint64{
		rand.Uint64()&maskLow51Bits + rand.Uint64()%(1<<18),
		rand.Uint64()&maskLow51Bits + rand.Uint64()%(1<<13),
		rand.Uint64()&maskLow51Bits + rand.Uint64()%(1<<13),
		rand.Uint64()&maskLow51Bits + rand.Uint64()%(1<<13),
		rand.Uint64()&maskLow51Bits + rand.Uint64()%(1<<13),
	}}
}

// weirdLimbs51 and weirdLimbs52 are limb values that exercise the carry
// boundaries of the reduction. weirdLimbs52 is used for l0 only and stays
// below 2^51 + 2^18.
var (
	weirdLimbs51 = []uint64{
		0, 0, 0, 0,
		1,
		19 - 1,
		19,
		0x2aaaaaaaaaaaa,
		0x5555555555555,
		(1 << 51) - 20,
		(1 << 51) - 19,
		(1 << 51) - 1, (1 << 51) - 1,
		(1 << 51) - 1, (1 << 51) - 1,
		(1 << 51) + (1 << 13) - 1,
	}
	weirdLimbs52 = []uint64{
		0, 0, 0, 0, 0, 0,
		1,
		19 - 1,
		19,
		0x2aaaaaaaaaaaa,
		0x5555555555555,
		(1 << 51) - 20,
		(1 << 51) - 19,
		(1 << 51) - 1, (1 << 51) - 1,
		(1 << 51) - 1, (1 << 51) - 1,
		(1 << 51) - 1, (1 << 51) - 1,
		1 << 51,
		(1 << 51) + 1,
		(1 << 51) + 19*((1<<13)-1),
		(1 << 51) + (1 << 18) - 1,
	}
)

func generateWeirdFieldElement(rand *mathrand.Rand) Element {
	return Element{[5]uint64{
		weirdLimbs52[rand.Intn(len(weirdLimbs52))],
		weirdLimbs51[rand.Intn(len(weirdLimbs51))],
		weirdLimbs51[rand.Intn(len(weirdLimbs51))],
		weirdLimbs51[rand.Intn(len(weirdLimbs51))],
		weirdLimbs51[rand.Intn(len(weirdLimbs51))],
	}}
}

func (Element) Generate(rand *mathrand.Rand, size int) reflect.Value {
	if rand.Intn(2) == 0 {
		return reflect.ValueOf(generateWeirdFieldElement(rand))
	}
	return reflect.ValueOf(generateFieldElement(rand))
}

// isInBounds returns whether the element is within the expected bit size bounds.
func isInBounds(x *Element) bool {
	return bits.Len64(x.l[0]) <= 52 &&
		bits.Len64(x.l[1]) <= 52 &&
		bits.Len64(x.l[2]) <= 52 &&
		bits.Len64(x.l[3]) <= 52 &&
		bits.Len64(x.l[4]) <= 52
}

func TestAdd(t *testing.T) {
	x := new(Element).One()
	y := new(Element).Add(x, x)

	for range 10 {
		x.Add(x, y)
	}

	assert.Equal(t, [5]uint64{21, 0, 0, 0, 0}, x.l)
}

func TestSubtract(t *testing.T) {
	x := new(Element).One()
	y := new(Element).Add(x, x)

	for range 10 {
		x.Subtract(x, y)
	}

	// 1 - 20 = p - 19
	assert.Equal(t, decodeHex("daffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f"), x.Bytes())
	assert.True(t, isInBounds(x))
}

func TestMultiply(t *testing.T) {
	x := new(Element).One()
	y := new(Element).Add(x, x)

	for range 10 {
		x.Multiply(x, y)
	}

	assert.Equal(t, [5]uint64{1024, 0, 0, 0, 0}, x.l)
}

func TestSquare(t *testing.T) {
	x := new(Element).Add(feOne, feOne)

	for range 3 {
		x.Square(x)
	}

	assert.Equal(t, [5]uint64{256, 0, 0, 0, 0}, x.l)
}

func TestMultiplyDistributesOverAdd(t *testing.T) {
	multiplyDistributesOverAdd := func(x, y, z Element) bool {
		// Compute t1 = (x+y)*z
		t1 := new(Element)
		t1.Add(&x, &y)
		t1.Multiply(t1, &z)

		// Compute t2 = x*z + y*z
		t2 := new(Element)
		t3 := new(Element)
		t2.Multiply(&x, &z)
		t3.Multiply(&y, &z)
		t2.Add(t2, t3)

		return t1.Equal(t2) == 1 && isInBounds(t1) && isInBounds(t2)
	}

	err := quick.Check(multiplyDistributesOverAdd, quickCheckConfig(1024))
	assert.NoError(t, err)
}

func TestSquareMatchesMultiply(t *testing.T) {
	squareMatchesMultiply := func(x Element) bool {
		t1 := new(Element).Square(&x)
		t2 := new(Element).Multiply(&x, &x)
		return t1.Equal(t2) == 1 && isInBounds(t1)
	}

	err := quick.Check(squareMatchesMultiply, quickCheckConfig(1024))
	assert.NoError(t, err)
}

func TestNegateAddsToZero(t *testing.T) {
	negateAddsToZero := func(x Element) bool {
		t1 := new(Element).Negate(&x)
		t1.Add(t1, &x)
		return t1.IsZero() == 1 && isInBounds(t1)
	}

	err := quick.Check(negateAddsToZero, quickCheckConfig(1024))
	assert.NoError(t, err)
}

func TestInvert(t *testing.T) {
	invertIsInverse := func(x Element) bool {
		if x.IsZero() == 1 {
			return new(Element).Invert(&x).IsZero() == 1
		}
		t1 := new(Element).Invert(&x)
		t1.Multiply(t1, &x)
		return t1.Equal(feOne) == 1 && isInBounds(t1)
	}

	err := quick.Check(invertIsInverse, quickCheckConfig(128))
	assert.NoError(t, err)

	zero := new(Element)
	assert.Equal(t, 1, new(Element).Invert(zero).IsZero())
}

func TestAgainstEdwards25519(t *testing.T) {
	toFilippo := func(x *Element) *fefield.Element {
		fe, err := new(fefield.Element).SetBytes(x.Bytes())
		if err != nil {
			panic(err)
		}
		return fe
	}

	agrees := func(x, y Element) bool {
		fx, fy := toFilippo(&x), toFilippo(&y)

		check := func(got *Element, want *fefield.Element) bool {
			return bytes.Equal(got.Bytes(), want.Bytes())
		}

		return check(new(Element).Add(&x, &y), new(fefield.Element).Add(fx, fy)) &&
			check(new(Element).Subtract(&x, &y), new(fefield.Element).Subtract(fx, fy)) &&
			check(new(Element).Multiply(&x, &y), new(fefield.Element).Multiply(fx, fy)) &&
			check(new(Element).Square(&x), new(fefield.Element).Square(fx)) &&
			check(new(Element).Negate(&x), new(fefield.Element).Negate(fx)) &&
			check(new(Element).Pow22523(&x), new(fefield.Element).Pow22523(fx)) &&
			x.IsNegative() == fx.IsNegative()
	}

	err := quick.Check(agrees, quickCheckConfig(256))
	assert.NoError(t, err)
}

func TestBytesReusesBuffer(t *testing.T) {
	reuse := func(x, y Element) bool {
		var buf [32]byte
		x.bytes(&buf)
		return bytes.Equal(y.bytes(&buf), y.Bytes())
	}

	err := quick.Check(reuse, quickCheckConfig(64))
	assert.NoError(t, err)
}

func TestNegateLargestLimbs(t *testing.T) {
	x := &Element{[5]uint64{
		(1 << 51) + (1 << 18) - 1,
		(1 << 51) + (1 << 13) - 1,
		(1 << 51) + (1 << 13) - 1,
		(1 << 51) + (1 << 13) - 1,
		(1 << 51) + (1 << 13) - 1,
	}}
	fx, err := new(fefield.Element).SetBytes(x.Bytes())
	require.NoError(t, err)

	neg := new(Element).Negate(x)
	assert.Equal(t, new(fefield.Element).Negate(fx).Bytes(), neg.Bytes())
	assert.Equal(t, 1, new(Element).Add(neg, x).IsZero())
	assert.True(t, isInBounds(neg))
}

func TestVectors(t *testing.T) {
	a := &Element{[5]uint64{0x0002faa798dffe04, 0x00010b37b2508d01, 0x0003db46780e9c1c, 0x0000d252716cf0f9, 0x00017a9c3f336475}}
	b := &Element{[5]uint64{0x0006c3d7704268ce, 0x00018854dc7b9ce6, 0x0005a3e71fbacd11, 0x0007b12faf5be38a, 0x000207fc6cc34079}}

	for _, tt := range []struct {
		name string
		got  *Element
		want string
	}{
		{"a", a, "04fedf98a7fa0a688492bd590807a7039ed1f6f2e1d9e2a4a4514736f3c3a917"},
		{"b", b, "ce684270d7c336e7dce3a6424c44b3eec7f96815c7b75e5f629f0734ccc67f20"},
		{"a+b", new(Element).Add(a, b), "d26622097fbe414f6176649c544b5af265cb5f08a991410407f14e6abf8a2938"},
		{"a-b", new(Element).Subtract(a, b), "23959d28d036d480a7ae1617bcc2f314d6d78ddd1a22844542b23f0227fd2977"},
		{"-a", new(Element).Negate(a), "e90120675805f5977b6d42a6f7f858fc612e090d1e261d5b5baeb8c90c3c5668"},
		{"a*b", new(Element).Multiply(a, b), "d3134f66f526b27839a01ec5d9949dcd01fe6dc2edc5471e5bc8bf2faacfc64d"},
		{"a^2", new(Element).Square(a), "7597249ee606feab2404566807912d5d0b0f3f1cb26ef2e2639c12ba730be362"},
		{"a^(2^252-3)", new(Element).Pow22523(a), "6a4f24891f576036d0be123c8ff5b159e0f0b81b20d2b51f1521f9e3e1612155"},
		{"1/a", new(Element).Invert(a), "961bcd8d4d5ea23ae9363793db7b4d70b80dc055d04c1d7b9071d8e9b618e630"},
		{"-1", new(Element).Negate(feOne), "ecffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hex.EncodeToString(tt.got.Bytes()))
		})
	}
}

func TestSetBytesRoundTrip(t *testing.T) {
	f1 := func(in [32]byte, fe Element) bool {
		fe.SetBytes(in[:])

		// Mask the most significant bit as it's ignored by SetBytes. (Now
		// instead of earlier so we check the masking in SetBytes is working.)
		in[len(in)-1] &= (1 << 7) - 1

		return bytes.Equal(in[:], fe.Bytes()) && isInBounds(&fe)
	}
	// Inputs at or above p do not round-trip, but are vanishingly rare.
	assert.NoError(t, quick.Check(f1, nil))

	f2 := func(fe, r Element) bool {
		r.SetBytes(fe.Bytes())

		// Intentionally not using Equal not to go through Bytes again.
		// Calling reduce because both Generate and SetBytes can produce
		// non-canonical representations.
		fe.reduce()
		r.reduce()
		return fe == r
	}
	assert.NoError(t, quick.Check(f2, nil))
}

func TestSetBytesCanonicalizes(t *testing.T) {
	for _, tt := range []struct {
		name, in, want string
	}{
		// p + 1
		{"p+1", "eeffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f", "0100000000000000000000000000000000000000000000000000000000000000"},
		// p
		{"p", "edffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f", "0000000000000000000000000000000000000000000000000000000000000000"},
		// The high bit is ignored.
		{"high bit", "71bfa98f5bea790ff183d924e6655cea08d0aafb617f46d23a17a657f0a9b8b2", "71bfa98f5bea790ff183d924e6655cea08d0aafb617f46d23a17a657f0a9b832"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			fe, err := new(Element).SetBytes(decodeHex(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, hex.EncodeToString(fe.Bytes()))
		})
	}
}

func TestSetCanonicalBytes(t *testing.T) {
	valid := []string{
		"0000000000000000000000000000000000000000000000000000000000000000",
		"ecffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f", // p - 1
		"04fedf98a7fa0a688492bd590807a7039ed1f6f2e1d9e2a4a4514736f3c3a917",
	}
	for _, in := range valid {
		fe, err := new(Element).SetCanonicalBytes(decodeHex(in))
		if assert.NoError(t, err, in) {
			assert.Equal(t, in, hex.EncodeToString(fe.Bytes()))
		}
	}

	invalid := []string{
		"edffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f", // p
		"eeffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f", // p + 1
		"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f", // 2^255 - 1
		"0000000000000000000000000000000000000000000000000000000000000080", // high bit
		"71bfa98f5bea790ff183d924e6655cea08d0aafb617f46d23a17a657f0a9b8b2",
		"00",
	}
	for _, in := range invalid {
		fe := new(Element).One()
		got, err := fe.SetCanonicalBytes(decodeHex(in))
		assert.Error(t, err, in)
		assert.Nil(t, got, in)
		assert.Equal(t, 1, fe.Equal(feOne), "receiver must be unchanged")
	}

	_, err := new(Element).SetBytes(make([]byte, 31))
	assert.Error(t, err)
}

func TestSelectSwap(t *testing.T) {
	a := &Element{[5]uint64{358744748052810, 1691584618240980, 977650209285361, 1429865912637724, 560044844278676}}
	b := &Element{[5]uint64{84926274344903, 473620666599931, 365590438845504, 1028470286882429, 2146499180330972}}

	var c, d Element

	c.Select(a, b, 1)
	d.Select(a, b, 0)

	assert.Equal(t, 1, c.Equal(a))
	assert.Equal(t, 1, d.Equal(b))

	c.Swap(&d, 0)

	assert.Equal(t, 1, c.Equal(a))
	assert.Equal(t, 1, d.Equal(b))

	c.Swap(&d, 1)

	assert.Equal(t, 1, c.Equal(b))
	assert.Equal(t, 1, d.Equal(a))
}

func TestIsNegativeAbsolute(t *testing.T) {
	one := new(Element).One()
	minusOne := new(Element).Negate(one)

	assert.Equal(t, 1, one.IsNegative())      // 1 is odd
	assert.Equal(t, 0, minusOne.IsNegative()) // p - 1 is even
	assert.Equal(t, 1, new(Element).Add(one, one).Negate(new(Element).Add(one, one)).IsNegative())

	abs := func(x Element) bool {
		a := new(Element).Absolute(&x)
		n := new(Element).Negate(&x)
		return a.IsNegative() == 0 &&
			(a.Equal(&x) == 1 || a.Equal(n) == 1)
	}
	assert.NoError(t, quick.Check(abs, nil))
}

func TestIsZero(t *testing.T) {
	assert.Equal(t, 1, new(Element).IsZero())
	assert.Equal(t, 0, new(Element).One().IsZero())

	p, err := new(Element).SetBytes(decodeHex("edffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f"))
	require.NoError(t, err)
	assert.Equal(t, 1, p.IsZero())
}

func TestSqrtM1(t *testing.T) {
	minusOne := new(Element).Negate(feOne)
	assert.Equal(t, 1, new(Element).Square(SqrtM1).Equal(minusOne))
}

func TestSqrtRatio(t *testing.T) {
	// From draft-irtf-cfrg-ristretto255-decaf448-00, Appendix A.4.
	type test struct {
		u, v      string
		wasSquare int
		r         string
	}
	tests := []test{
		// If u is 0, the function is defined to return (0, TRUE), even if v
		// is zero. Note that where used in this package, the denominator v
		// is never zero.
		{
			"0000000000000000000000000000000000000000000000000000000000000000",
			"0000000000000000000000000000000000000000000000000000000000000000",
			1, "0000000000000000000000000000000000000000000000000000000000000000",
		},
		// 0/1 == 0²
		{
			"0000000000000000000000000000000000000000000000000000000000000000",
			"0100000000000000000000000000000000000000000000000000000000000000",
			1, "0000000000000000000000000000000000000000000000000000000000000000",
		},
		// If u is non-zero and v is zero, defined to return (0, FALSE).
		{
			"0100000000000000000000000000000000000000000000000000000000000000",
			"0000000000000000000000000000000000000000000000000000000000000000",
			0, "0000000000000000000000000000000000000000000000000000000000000000",
		},
		// 2/1 is not square in this field.
		{
			"0200000000000000000000000000000000000000000000000000000000000000",
			"0100000000000000000000000000000000000000000000000000000000000000",
			0, "3c5ff1b5d8e4113b871bd052f9e7bcd0582804c266ffb2d4f4203eb07fdb7c54",
		},
		// 4/1 == 2²
		{
			"0400000000000000000000000000000000000000000000000000000000000000",
			"0100000000000000000000000000000000000000000000000000000000000000",
			1, "0200000000000000000000000000000000000000000000000000000000000000",
		},
		// 1/4 == (2⁻¹)² == (2^(p-2))² per Euler's theorem
		{
			"0100000000000000000000000000000000000000000000000000000000000000",
			"0400000000000000000000000000000000000000000000000000000000000000",
			1, "f6ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff3f",
		},
	}

	for i, tt := range tests {
		u, _ := new(Element).SetBytes(decodeHex(tt.u))
		v, _ := new(Element).SetBytes(decodeHex(tt.v))
		want, _ := new(Element).SetBytes(decodeHex(tt.r))
		got, wasSquare := new(Element).SqrtRatio(u, v)
		if got.Equal(want) == 0 || wasSquare != tt.wasSquare {
			t.Errorf("%d: got (%v, %v), want (%v, %v)", i, got, wasSquare, want, tt.wasSquare)
		}
	}
}

func TestSqrtRatioSquares(t *testing.T) {
	squares := func(u, v Element) bool {
		if v.IsZero() == 1 {
			return true
		}
		r, wasSquare := new(Element).SqrtRatio(&u, &v)
		if r.IsNegative() != 0 {
			return false
		}
		check := new(Element).Square(r)
		check.Multiply(check, &v)
		if wasSquare == 1 {
			return check.Equal(&u) == 1
		}
		// Otherwise v*r² == SQRT_M1*u.
		return check.Equal(new(Element).Multiply(SqrtM1, &u)) == 1
	}

	err := quick.Check(squares, quickCheckConfig(64))
	assert.NoError(t, err)
}

func decodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func BenchmarkAdd(b *testing.B) {
	x := new(Element).One()
	y := new(Element).Add(x, x)

	b.ResetTimer()
	for range b.N {
		x.Add(x, y)
	}
}

func BenchmarkSubtract(b *testing.B) {
	x := new(Element).One()
	y := new(Element).Add(x, x)

	b.ResetTimer()
	for range b.N {
		x.Subtract(x, y)
	}
}

func BenchmarkMultiply(b *testing.B) {
	x := new(Element).One()
	y := new(Element).Add(x, x)

	b.ResetTimer()
	for range b.N {
		x.Multiply(x, y)
	}
}

var z Element

func BenchmarkMultiplyNoAlias(b *testing.B) {
	x := new(Element).One()
	y := new(Element).Add(x, x)

	b.ResetTimer()
	for range b.N {
		z.Multiply(x, y)
	}
}

func BenchmarkMultiplyParallel(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		x := new(Element).One()
		y := new(Element).Add(x, x)
		for pb.Next() {
			x.Multiply(x, y)
		}
	})
}

func BenchmarkSquare(b *testing.B) {
	x := new(Element).Add(feOne, feOne)

	b.ResetTimer()
	for range b.N {
		x.Square(x)
	}
}

func BenchmarkInvert(b *testing.B) {
	x := new(Element).Add(feOne, feOne)

	b.ResetTimer()
	for range b.N {
		x.Invert(x)
	}
}
