package zksch

import (
	"fmt"
	"math/big"

	"github.com/allsmog/zksch-go/pkg/crypto/curve"
	"github.com/allsmog/zksch-go/pkg/crypto/transcript"
)

// CreateRandomness samples a nonce a in [1, N-1] and computes the commitment
// C = a*gen. A nil gen selects the curve's base point.
func CreateRandomness(crv curve.Curve, gen curve.Point) (*Randomness, error) {
	gen = generatorOrBase(crv, gen)
	if !curve.IsValidPoint(gen) {
		return nil, ErrInvalidGenerator
	}

	a, err := crv.GenerateScalar()
	if err != nil {
		return nil, fmt.Errorf("failed to sample nonce: %w", err)
	}

	c := crv.ScalarMult(gen, a)
	if c == nil {
		return nil, fmt.Errorf("%w: failed to compute commitment", ErrInvalidGenerator)
	}

	return &Randomness{nonce: a, Commitment: &Commitment{C: c}}, nil
}

// challenge absorbs commitment, public and gen into t, in that order, and
// reduces the digest h to e = (h + (N - 2^255)) mod N.
//
// The offset makes the result differ from a plain h mod N and is kept for
// compatibility with existing proofs. It biases e slightly compared to a
// uniform reduction.
func challenge(crv curve.Curve, t *transcript.Transcript, commitment, public, gen curve.Point) curve.Scalar {
	h := t.UpdateMulti(
		transcript.Point(commitment),
		transcript.Point(public),
		transcript.Point(gen),
	).Digest()

	offset := new(big.Int).Sub(crv.Order(), two255)
	return crv.NewScalar(h.Add(h, offset))
}

// Prove answers the challenge for the statement public = secret*gen using the
// nonce in r. A nil gen selects the curve's base point.
//
// Prove returns ErrInvalidStatement, without touching t or r, when public is
// the identity or secret is zero. Otherwise it consumes t and spends r.
func Prove(crv curve.Curve, r *Randomness, t *transcript.Transcript, public curve.Point, secret curve.Scalar, gen curve.Point) (*Response, error) {
	if !curve.IsValidPoint(public) || !curve.IsValidScalar(secret) {
		return nil, ErrInvalidStatement
	}

	gen = generatorOrBase(crv, gen)
	if !curve.IsValidPoint(gen) {
		return nil, ErrInvalidGenerator
	}

	if r == nil || !r.Commitment.Valid() {
		return nil, ErrInvalidRandomness
	}

	a, err := r.take()
	if err != nil {
		return nil, err
	}

	e := challenge(crv, t, r.Commitment.C, public, gen)

	// z = e*x + a mod N
	z := new(big.Int).Mul(e.BigInt(), secret.BigInt())
	z.Add(z, a.BigInt())
	response := &Response{Z: crv.NewScalar(z)}

	if !response.Valid() {
		return nil, ErrZeroResponse
	}

	return response, nil
}

// CreateProof samples fresh randomness for gen and proves knowledge of secret
// for public. Unlike Prove, gen is required.
func CreateProof(crv curve.Curve, t *transcript.Transcript, public curve.Point, secret curve.Scalar, gen curve.Point) (*Proof, error) {
	if gen == nil {
		return nil, ErrInvalidGenerator
	}

	r, err := CreateRandomness(crv, gen)
	if err != nil {
		return nil, err
	}

	z, err := Prove(crv, r, t, public, secret, gen)
	if err != nil {
		return nil, err
	}

	return &Proof{C: r.Commitment, Z: z}, nil
}

// GenerateKeyPair samples a secret x in [1, N-1] and returns it with X = x*gen.
// A nil gen selects the curve's base point.
func GenerateKeyPair(crv curve.Curve, gen curve.Point) (curve.Scalar, curve.Point, error) {
	gen = generatorOrBase(crv, gen)
	if !curve.IsValidPoint(gen) {
		return nil, nil, ErrInvalidGenerator
	}

	x, err := crv.GenerateScalar()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate secret: %w", err)
	}

	X := crv.ScalarMult(gen, x)
	if X == nil {
		return nil, nil, ErrInvalidGenerator
	}

	return x, X, nil
}
