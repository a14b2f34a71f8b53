// Package field implements fast arithmetic modulo 2^255-19.
//
// [Element] type API is the same as [filippo.io/edwards25519/field.Element].
//
// Elements are held as five 51-bit limbs in 64-bit words, so that a
// product of two limbs fits in the 128-bit accumulator of
// [github.com/AlexanderYastrebov/ristretto255/internal/uint128] and the
// reduction modulo 2^255-19 folds the upper half back with a multiplication
// by 19. All operations run in constant time with respect to the values of
// their operands.
package field
