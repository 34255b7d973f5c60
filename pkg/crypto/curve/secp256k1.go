package curve

import (
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Secp256k1Point represents a point on the secp256k1 curve.
//
// The point is kept in Jacobian form normalized to affine (Z = 1). The zero
// value is the identity (Z = 0).
type Secp256k1Point struct {
	point secp256k1.JacobianPoint
}

// newSecp256k1Point normalizes a Jacobian point. Anything matching
// (X = 0 and Y = 0) or Z = 0 becomes the identity.
func newSecp256k1Point(j *secp256k1.JacobianPoint) *Secp256k1Point {
	var x, y, z secp256k1.FieldVal
	x.Set(&j.X).Normalize()
	y.Set(&j.Y).Normalize()
	z.Set(&j.Z).Normalize()

	p := &Secp256k1Point{}
	if (x.IsZero() && y.IsZero()) || z.IsZero() {
		return p
	}

	p.point.Set(j)
	p.point.ToAffine()
	return p
}

// Bytes returns the compressed point encoding (33 bytes).
// The identity encodes as the single byte 0x00.
func (p *Secp256k1Point) Bytes() []byte {
	if p.IsIdentity() {
		return []byte{0x00}
	}
	return secp256k1.NewPublicKey(&p.point.X, &p.point.Y).SerializeCompressed()
}

// Equal checks if two points are equal
func (p *Secp256k1Point) Equal(other Point) bool {
	otherSecp, ok := other.(*Secp256k1Point)
	if !ok {
		return false
	}
	if p.IsIdentity() || otherSecp.IsIdentity() {
		return p.IsIdentity() && otherSecp.IsIdentity()
	}
	return p.point.X.Equals(&otherSecp.point.X) && p.point.Y.Equals(&otherSecp.point.Y)
}

// IsIdentity checks if this is the identity point (point at infinity)
func (p *Secp256k1Point) IsIdentity() bool {
	if p == nil {
		return true
	}
	return (p.point.X.IsZero() && p.point.Y.IsZero()) || p.point.Z.IsZero()
}

// Affine returns the affine coordinates, (0, 0) for the identity.
func (p *Secp256k1Point) Affine() (x, y *big.Int) {
	if p.IsIdentity() {
		return new(big.Int), new(big.Int)
	}
	x = new(big.Int).SetBytes(p.point.X.Bytes()[:])
	y = new(big.Int).SetBytes(p.point.Y.Bytes()[:])
	return x, y
}

func (p *Secp256k1Point) jacobian() *secp256k1.JacobianPoint {
	var j secp256k1.JacobianPoint
	j.Set(&p.point)
	return &j
}

// Secp256k1Scalar represents a scalar for secp256k1 operations
type Secp256k1Scalar struct {
	scalar *big.Int
}

// Bytes returns the scalar as a 32-byte slice (big-endian)
func (s *Secp256k1Scalar) Bytes() []byte {
	if s == nil || s.scalar == nil {
		return nil
	}
	return s.scalar.FillBytes(make([]byte, 32))
}

// BigInt returns the scalar as a big.Int
func (s *Secp256k1Scalar) BigInt() *big.Int {
	if s == nil || s.scalar == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(s.scalar)
}

// IsZero reports whether the scalar is zero.
func (s *Secp256k1Scalar) IsZero() bool {
	return s == nil || s.scalar == nil || s.scalar.Sign() == 0
}

func (s *Secp256k1Scalar) modN() *secp256k1.ModNScalar {
	var k secp256k1.ModNScalar
	k.SetByteSlice(s.Bytes())
	return &k
}

// Secp256k1Curve implements the Curve interface for secp256k1
type Secp256k1Curve struct{}

// NewSecp256k1 creates a new secp256k1 curve instance
func NewSecp256k1() AffineCurve {
	return &Secp256k1Curve{}
}

// Name returns the curve name
func (c *Secp256k1Curve) Name() string {
	return "secp256k1"
}

// ParsePoint parses a point from bytes (33-byte compressed or 65-byte uncompressed)
func (c *Secp256k1Curve) ParsePoint(b []byte) (Point, error) {
	if len(b) == 0 {
		return nil, ErrInvalidPoint
	}

	pubKey, err := btcec.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}

	var j secp256k1.JacobianPoint
	pubKey.AsJacobian(&j)
	point := newSecp256k1Point(&j)

	if err := c.ValidatePoint(point); err != nil {
		return nil, err
	}

	return point, nil
}

// ParseScalar parses a scalar from bytes (32 bytes, big-endian)
func (c *Secp256k1Curve) ParseScalar(b []byte) (Scalar, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("%w: expected 32 bytes, got %d", ErrInvalidScalar, len(b))
	}

	scalar := new(big.Int).SetBytes(b)

	// Ensure scalar is in valid range [1, n-1] where n is the curve order
	if scalar.Sign() <= 0 || scalar.Cmp(c.Order()) >= 0 {
		return nil, fmt.Errorf("%w: scalar out of range", ErrInvalidScalar)
	}

	return &Secp256k1Scalar{scalar: scalar}, nil
}

// NewScalar returns v mod N.
func (c *Secp256k1Curve) NewScalar(v *big.Int) Scalar {
	if v == nil {
		return &Secp256k1Scalar{scalar: new(big.Int)}
	}
	return &Secp256k1Scalar{scalar: new(big.Int).Mod(v, c.Order())}
}

// Generator returns the standard base point G.
func (c *Secp256k1Curve) Generator() Point {
	params := btcec.S256().Params()
	g, _ := c.PointFromAffine(params.Gx, params.Gy)
	return g
}

// Identity returns the point at infinity.
func (c *Secp256k1Curve) Identity() Point {
	return &Secp256k1Point{}
}

// ScalarBaseMult computes s * G (scalar multiplication with generator)
func (c *Secp256k1Curve) ScalarBaseMult(s Scalar) Point {
	secp256k1Scalar, ok := s.(*Secp256k1Scalar)
	if !ok {
		return nil
	}
	if secp256k1Scalar.IsZero() {
		return c.Identity()
	}

	var result secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(secp256k1Scalar.modN(), &result)
	return newSecp256k1Point(&result)
}

// ScalarMult computes s * P (scalar multiplication)
func (c *Secp256k1Curve) ScalarMult(p Point, s Scalar) Point {
	secp256k1Point, ok := p.(*Secp256k1Point)
	if !ok {
		return nil
	}
	secp256k1Scalar, ok := s.(*Secp256k1Scalar)
	if !ok {
		return nil
	}
	if secp256k1Point.IsIdentity() || secp256k1Scalar.IsZero() {
		return c.Identity()
	}

	var result secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(secp256k1Scalar.modN(), secp256k1Point.jacobian(), &result)
	return newSecp256k1Point(&result)
}

// Add adds two points: P + Q
func (c *Secp256k1Curve) Add(p, q Point) Point {
	secp256k1P, ok := p.(*Secp256k1Point)
	if !ok {
		return nil
	}
	secp256k1Q, ok := q.(*Secp256k1Point)
	if !ok {
		return nil
	}
	switch {
	case secp256k1P.IsIdentity():
		return newSecp256k1Point(secp256k1Q.jacobian())
	case secp256k1Q.IsIdentity():
		return newSecp256k1Point(secp256k1P.jacobian())
	}

	var result secp256k1.JacobianPoint
	secp256k1.AddNonConst(secp256k1P.jacobian(), secp256k1Q.jacobian(), &result)
	return newSecp256k1Point(&result)
}

// Order returns the order of the secp256k1 curve
func (c *Secp256k1Curve) Order() *big.Int {
	return btcec.S256().N
}

// GenerateScalar generates a cryptographically secure random scalar
func (c *Secp256k1Curve) GenerateScalar() (Scalar, error) {
	privKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate scalar: %w", err)
	}

	scalar := new(big.Int).SetBytes(privKey.Serialize())
	return &Secp256k1Scalar{scalar: scalar}, nil
}

// PointFromAffine builds a point from affine coordinates.
func (c *Secp256k1Curve) PointFromAffine(x, y *big.Int) (Point, error) {
	if x == nil || y == nil {
		return nil, ErrInvalidPoint
	}
	if x.Sign() == 0 && y.Sign() == 0 {
		return c.Identity(), nil
	}

	curve := btcec.S256()
	fieldP := curve.Params().P
	if x.Sign() < 0 || y.Sign() < 0 || x.Cmp(fieldP) >= 0 || y.Cmp(fieldP) >= 0 {
		return nil, ErrPointNotOnCurve
	}
	if !curve.IsOnCurve(x, y) {
		return nil, ErrPointNotOnCurve
	}

	p := &Secp256k1Point{}
	p.point.X.SetByteSlice(x.FillBytes(make([]byte, 32)))
	p.point.Y.SetByteSlice(y.FillBytes(make([]byte, 32)))
	p.point.Z.SetInt(1)
	return p, nil
}

// ValidatePoint validates that a point is on the curve and not the identity
func (c *Secp256k1Curve) ValidatePoint(p Point) error {
	secp256k1Point, ok := p.(*Secp256k1Point)
	if !ok {
		return ErrInvalidPoint
	}

	if secp256k1Point.IsIdentity() {
		return ErrIdentityPoint
	}

	x, y := secp256k1Point.Affine()
	if !btcec.S256().IsOnCurve(x, y) {
		return ErrPointNotOnCurve
	}

	return nil
}
