package ristretto255

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"
	mathrand "math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"filippo.io/edwards25519"
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

// Generate returns a uniformly distributed reduced scalar.
func (Scalar) Generate(rand *mathrand.Rand, size int) reflect.Value {
	var b [64]byte
	rand.Read(b[:])
	s, _ := NewScalar().SetUniformBytes(b[:])
	return reflect.ValueOf(*s)
}

// Generate returns an element derived from random bytes.
func (Element) Generate(rand *mathrand.Rand, size int) reflect.Value {
	var b [64]byte
	rand.Read(b[:])
	e, _ := new(Element).SetUniformBytes(b[:])
	return reflect.ValueOf(*e)
}

func decodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func scalarFromHex(s string) *Scalar {
	x, err := NewScalar().SetCanonicalBytes(decodeHex(s))
	if err != nil {
		panic(err)
	}
	return x
}

func scalarFromUint64(n uint64) *Scalar {
	var buf [64]byte
	binary.LittleEndian.PutUint64(buf[:], n)

	s, err := NewScalar().SetUniformBytes(buf[:])
	if err != nil {
		panic(err)
	}
	return s
}

func scalarFromBigInt(n *big.Int) *Scalar {
	s, err := NewScalar().SetCanonicalBytes(bigIntBytes(n))
	if err != nil {
		panic(err)
	}
	return s
}

func edwardsScalar(s *Scalar) *edwards25519.Scalar {
	es, err := edwards25519.NewScalar().SetCanonicalBytes(s.Bytes())
	if err != nil {
		panic(err)
	}
	return es
}

// elementFromEdwards converts an edwards25519 point into an Element sharing
// its coordinates.
func elementFromEdwards(p *edwards25519.Point) *Element {
	X, Y, Z, T := p.ExtendedCoordinates()
	return &Element{
		x: *fieldElementFromBytes(X.Bytes()),
		y: *fieldElementFromBytes(Y.Bytes()),
		z: *fieldElementFromBytes(Z.Bytes()),
		t: *fieldElementFromBytes(T.Bytes()),
	}
}
