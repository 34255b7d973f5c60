// Package curve provides abstract interfaces for the prime-order group
// arithmetic used by the zero-knowledge Schnorr proof.
//
// # Supported Curves
//
// The package supports two elliptic curve groups:
//
//   - secp256k1: The curve used by Bitcoin and Ethereum. Points have an affine
//     (x, y) form, which is what the proof wire format carries. This is the
//     default group; its order N is the protocol-wide modulus.
//
//   - ristretto255: A prime-order group built on Curve25519. Points only have a
//     canonical 32-byte encoding, so proofs over it can be produced and checked
//     but not encoded in the affine JSON wire format.
//
// # Elliptic Curve Basics
//
// An elliptic curve group consists of:
//   - A set of points on the curve (including a special "identity" point)
//   - A generator point G that generates the entire group
//   - A group order N (the number of points in the group)
//
// Key operations:
//   - Point Addition: P + Q = R
//   - Scalar Multiplication: s * P (adding P to itself s times)
//   - The "discrete log problem": given P and Q = s*P, finding s is hard
package curve

import (
	"fmt"
	"math/big"
)

// Point represents an element of the group.
//
// Unlike a public key type, a Point may be the identity. Callers that need a
// usable public key, generator or commitment must reject the identity
// themselves (see ValidatePoint).
type Point interface {
	// Bytes returns the canonical serialization of the point.
	// For secp256k1: 33 bytes (compressed), or the single byte 0x00 for the identity
	// For ristretto255: 32 bytes (canonical ristretto encoding)
	Bytes() []byte

	// Equal checks if two points are the same group element.
	Equal(other Point) bool

	// IsIdentity checks if this is the identity point (point at infinity).
	IsIdentity() bool
}

// AffinePoint is a Point with an affine (x, y) representation.
// The identity is reported as (0, 0).
type AffinePoint interface {
	Point

	// Affine returns copies of the affine coordinates.
	Affine() (x, y *big.Int)
}

// Scalar represents an integer modulo the group order N.
//
// Scalars are used as secrets, nonces, challenges and responses. Zero is
// representable (a response can be checked for it) but is never a valid
// secret, nonce or response.
type Scalar interface {
	// Bytes returns the scalar as a fixed-size 32-byte big-endian slice.
	Bytes() []byte

	// BigInt returns the scalar as a big.Int for arithmetic operations.
	BigInt() *big.Int

	// IsZero reports whether the scalar is 0 mod N.
	IsZero() bool
}

// Curve abstracts the group operations the proof system consumes.
type Curve interface {
	// Name returns the curve identifier (e.g., "secp256k1", "ristretto255").
	Name() string

	// ParsePoint deserializes a point from its canonical bytes.
	// Validates that the point is on the curve and not the identity.
	ParsePoint(b []byte) (Point, error)

	// ParseScalar deserializes a 32-byte big-endian scalar.
	// Validates that the scalar is in range [1, N-1].
	ParseScalar(b []byte) (Scalar, error)

	// NewScalar returns v mod N. Zero is allowed.
	NewScalar(v *big.Int) Scalar

	// Generator returns the group's standard base point.
	Generator() Point

	// Identity returns the identity element.
	Identity() Point

	// ScalarBaseMult computes s * G for the standard base point G.
	ScalarBaseMult(s Scalar) Point

	// ScalarMult computes s * P for an arbitrary point P. Proofs may use
	// generators other than the base point, so this is the general form.
	ScalarMult(p Point, s Scalar) Point

	// Add computes P + Q.
	Add(p, q Point) Point

	// Order returns N, the order of the group.
	// All scalar arithmetic is performed modulo N.
	Order() *big.Int

	// GenerateScalar samples a scalar uniformly from [1, N-1] using crypto/rand.
	GenerateScalar() (Scalar, error)

	// ValidatePoint checks that a point belongs to this curve and is not the identity.
	ValidatePoint(p Point) error
}

// AffineCurve is a Curve whose points can be rebuilt from affine coordinates.
type AffineCurve interface {
	Curve

	// PointFromAffine returns the point (x, y). (0, 0) decodes to the identity;
	// any other pair must satisfy the curve equation.
	PointFromAffine(x, y *big.Int) (Point, error)
}

var (
	// ErrInvalidPoint indicates an invalid point
	ErrInvalidPoint = fmt.Errorf("invalid point")

	// ErrInvalidScalar indicates an invalid scalar
	ErrInvalidScalar = fmt.Errorf("invalid scalar")

	// ErrIdentityPoint indicates the point is the identity point
	ErrIdentityPoint = fmt.Errorf("point is identity")

	// ErrPointNotOnCurve indicates the point is not on the curve
	ErrPointNotOnCurve = fmt.Errorf("point is not on curve")
)

// IsValidScalar reports whether s is present and nonzero.
func IsValidScalar(s Scalar) bool {
	return s != nil && !s.IsZero()
}

// IsValidPoint reports whether p is present and not the identity.
func IsValidPoint(p Point) bool {
	return p != nil && !p.IsIdentity()
}
