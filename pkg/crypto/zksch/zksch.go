// Package zksch implements a non-interactive zero-knowledge proof of knowledge
// of a discrete logarithm (Schnorr proof, "zk-sch").
//
// # Protocol
//
// The prover knows x with X = x*G and wants to convince a verifier of that
// without revealing x. The interactive protocol is made non-interactive with
// the Fiat-Shamir transform: the challenge is derived from a transcript that
// absorbs the commitment, the public point and the generator, in that order.
//
//  1. COMMIT: sample a nonce a in [1, N-1], compute C = a*G.
//  2. CHALLENGE: e = (H(transcript || C || X || G) + (N - 2^255)) mod N.
//  3. RESPOND: z = e*x + a mod N.
//  4. VERIFY: accept iff z*G == e*X + C.
//
// The verification equation holds for an honest prover because
//
//	z*G = (e*x + a)*G = e*(x*G) + a*G = e*X + C
//
// # Transcripts
//
// Prover and verifier must start from transcripts in the same state, usually
// a shared session prefix cloned for each proof. Prove and the verify
// functions consume the transcript they are given.
//
// # Errors
//
// Prove and CreateProof report statements they cannot prove (identity public
// point, zero secret) as ErrInvalidStatement. VerifyResponse and VerifyProof
// never return errors; every failure is reported as false so callers cannot
// tell which check rejected a proof.
package zksch

import (
	"errors"
	"math/big"

	"github.com/allsmog/zksch-go/pkg/crypto/curve"
)

var (
	// ErrInvalidStatement indicates the public point is the identity or the secret is zero.
	ErrInvalidStatement = errors.New("zksch: cannot prove statement")

	// ErrInvalidGenerator indicates a missing or identity generator.
	ErrInvalidGenerator = errors.New("zksch: invalid generator")

	// ErrInvalidRandomness indicates randomness without a usable commitment.
	ErrInvalidRandomness = errors.New("zksch: invalid randomness")

	// ErrRandomnessUsed indicates randomness that already produced a response.
	ErrRandomnessUsed = errors.New("zksch: randomness already used")

	// ErrZeroResponse indicates a response that reduced to zero.
	ErrZeroResponse = errors.New("zksch: zero response")

	// ErrRandomnessNotSerializable is returned when marshalling Randomness.
	ErrRandomnessNotSerializable = errors.New("zksch: randomness must not be serialized")
)

// two255 is 2^255, used by the challenge reduction.
var two255 = new(big.Int).Lsh(big.NewInt(1), 255)

// Commitment is the prover's public commitment C = a*G.
type Commitment struct {
	C curve.Point
}

// Valid reports whether the commitment is present and not the identity.
func (c *Commitment) Valid() bool {
	return c != nil && curve.IsValidPoint(c.C)
}

// Response is the prover's answer z = e*x + a mod N.
type Response struct {
	Z curve.Scalar
}

// Valid reports whether the response is present and nonzero.
func (r *Response) Valid() bool {
	return r != nil && curve.IsValidScalar(r.Z)
}

// Proof is a complete non-interactive proof. It holds no reference to the
// transcript or randomness that produced it.
type Proof struct {
	C *Commitment
	Z *Response
}

// Valid reports whether both halves of the proof are structurally valid.
// It does not check the verification equation.
func (p *Proof) Valid() bool {
	return p != nil && p.C.Valid() && p.Z.Valid()
}

// Randomness is the prover's ephemeral nonce and its commitment.
//
// It is single-use: Prove takes the nonce out, and a second Prove with the
// same value fails with ErrRandomnessUsed. Answering two different challenges
// with one nonce reveals the secret, so Randomness also refuses to be
// marshalled.
type Randomness struct {
	nonce      curve.Scalar
	Commitment *Commitment
}

// Used reports whether the nonce has already been spent.
func (r *Randomness) Used() bool {
	return r == nil || r.nonce == nil
}

// MarshalJSON always fails.
func (r *Randomness) MarshalJSON() ([]byte, error) {
	return nil, ErrRandomnessNotSerializable
}

// take returns the nonce and clears it.
func (r *Randomness) take() (curve.Scalar, error) {
	if r.nonce == nil {
		return nil, ErrRandomnessUsed
	}
	nonce := r.nonce
	r.nonce = nil
	return nonce, nil
}

// generatorOrBase returns gen, or the curve's base point when gen is nil.
func generatorOrBase(crv curve.Curve, gen curve.Point) curve.Point {
	if gen == nil {
		return crv.Generator()
	}
	return gen
}
