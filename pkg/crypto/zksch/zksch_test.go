package zksch

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allsmog/zksch-go/pkg/crypto/curve"
	"github.com/allsmog/zksch-go/pkg/crypto/transcript"
)

var testCurves = []curve.Curve{curve.NewSecp256k1(), curve.NewRistretto255()}

func sessionTranscript() *transcript.Transcript {
	return transcript.New().Update(transcript.Text("test"))
}

func keyPair(t *testing.T, crv curve.Curve, gen curve.Point) (curve.Scalar, curve.Point) {
	t.Helper()
	x, X, err := GenerateKeyPair(crv, gen)
	require.NoError(t, err)
	return x, X
}

func TestCreateProofAndVerifyProof(t *testing.T) {
	for _, crv := range testCurves {
		crv := crv
		t.Run(crv.Name(), func(t *testing.T) {
			base := sessionTranscript()
			gen := crv.Generator()
			x, X := keyPair(t, crv, gen)

			proof, err := CreateProof(crv, base.Clone(), X, x, gen)
			require.NoError(t, err)
			require.True(t, proof.Valid())

			require.True(t, VerifyProof(crv, proof, base.Clone(), X, gen))
		})
	}
}

func TestProveAndVerifyResponse(t *testing.T) {
	crv := curve.NewSecp256k1()
	base := sessionTranscript()

	r, err := CreateRandomness(crv, nil)
	require.NoError(t, err)
	x, X := keyPair(t, crv, nil)

	z, err := Prove(crv, r, base.Clone(), X, x, nil)
	require.NoError(t, err)

	require.True(t, VerifyResponse(crv, z, base.Clone(), X, r.Commitment, nil), "failed to verify response")
	require.True(t, VerifyResponse(crv, z, base.Clone(), X, r.Commitment, nil), "verification should be repeatable")
}

func TestSecretOne(t *testing.T) {
	crv := curve.NewSecp256k1()
	gen := crv.Generator()
	one := crv.NewScalar(big.NewInt(1))

	proof, err := CreateProof(crv, sessionTranscript(), gen, one, gen)
	require.NoError(t, err)
	require.True(t, VerifyProof(crv, proof, sessionTranscript(), gen, gen))
}

func TestIdentityPublicPoint(t *testing.T) {
	for _, crv := range testCurves {
		crv := crv
		t.Run(crv.Name(), func(t *testing.T) {
			identity := crv.Identity()
			x, _ := keyPair(t, crv, nil)

			r, err := CreateRandomness(crv, nil)
			require.NoError(t, err)

			tr := sessionTranscript()
			z, err := Prove(crv, r, tr, identity, x, nil)
			require.ErrorIs(t, err, ErrInvalidStatement)
			require.Nil(t, z)
			require.False(t, tr.Consumed(), "rejected statements must not consume the transcript")
			require.False(t, r.Used(), "rejected statements must not spend the nonce")

			require.False(t, VerifyResponse(crv, z, sessionTranscript(), identity, r.Commitment, nil),
				"proof should not accept identity point")

			// Even a structurally valid response is rejected for the identity.
			_, X := keyPair(t, crv, nil)
			valid, err := CreateProof(crv, sessionTranscript(), X, x, crv.Generator())
			require.NoError(t, err)
			require.False(t, VerifyResponse(crv, valid.Z, sessionTranscript(), identity, valid.C, nil))
			require.False(t, VerifyProof(crv, valid, sessionTranscript(), identity, crv.Generator()))
		})
	}
}

func TestZeroSecret(t *testing.T) {
	crv := curve.NewSecp256k1()
	_, X := keyPair(t, crv, nil)

	_, err := CreateProof(crv, sessionTranscript(), X, crv.NewScalar(big.NewInt(0)), crv.Generator())
	require.ErrorIs(t, err, ErrInvalidStatement)

	_, err = CreateProof(crv, sessionTranscript(), X, nil, crv.Generator())
	require.ErrorIs(t, err, ErrInvalidStatement)
}

func TestTamperedProofs(t *testing.T) {
	crv := curve.NewSecp256k1()
	gen := crv.Generator()
	x, X := keyPair(t, crv, gen)

	proof, err := CreateProof(crv, sessionTranscript(), X, x, gen)
	require.NoError(t, err)

	t.Run("ResponsePlusOne", func(t *testing.T) {
		bumped := new(big.Int).Add(proof.Z.Z.BigInt(), big.NewInt(1))
		bumped.Mod(bumped, crv.Order())
		if bumped.Sign() == 0 {
			bumped.SetInt64(1)
		}
		z := &Response{Z: crv.NewScalar(bumped)}
		require.False(t, VerifyResponse(crv, z, sessionTranscript(), X, proof.C, gen))
	})

	t.Run("ZeroResponse", func(t *testing.T) {
		p := &Proof{C: proof.C, Z: &Response{Z: crv.NewScalar(big.NewInt(0))}}
		require.False(t, p.Valid())
		require.False(t, VerifyProof(crv, p, sessionTranscript(), X, gen))
	})

	t.Run("IdentityCommitment", func(t *testing.T) {
		p := &Proof{C: &Commitment{C: crv.Identity()}, Z: proof.Z}
		require.False(t, VerifyProof(crv, p, sessionTranscript(), X, gen))
	})

	t.Run("MissingFields", func(t *testing.T) {
		require.False(t, VerifyProof(crv, nil, sessionTranscript(), X, gen))
		require.False(t, VerifyProof(crv, &Proof{C: proof.C}, sessionTranscript(), X, gen))
		require.False(t, VerifyProof(crv, &Proof{Z: proof.Z}, sessionTranscript(), X, gen))
		require.False(t, VerifyResponse(crv, proof.Z, sessionTranscript(), X, nil, gen))
	})

	t.Run("WrongPublicKey", func(t *testing.T) {
		_, other := keyPair(t, crv, gen)
		require.False(t, VerifyProof(crv, proof, sessionTranscript(), other, gen))
	})

	t.Run("DifferentTranscript", func(t *testing.T) {
		other := transcript.New().Update(transcript.Text("other-session"))
		require.False(t, VerifyProof(crv, proof, other, X, gen))
	})

	t.Run("Untouched", func(t *testing.T) {
		require.True(t, VerifyProof(crv, proof, sessionTranscript(), X, gen))
	})
}

func TestAlternateGenerator(t *testing.T) {
	for _, crv := range testCurves {
		crv := crv
		t.Run(crv.Name(), func(t *testing.T) {
			_, H := keyPair(t, crv, nil)
			x, X := keyPair(t, crv, H)

			proof, err := CreateProof(crv, sessionTranscript(), X, x, H)
			require.NoError(t, err)

			require.True(t, VerifyProof(crv, proof, sessionTranscript(), X, H))
			require.False(t, VerifyProof(crv, proof, sessionTranscript(), X, crv.Generator()))
		})
	}
}

func TestGeneratorRequired(t *testing.T) {
	crv := curve.NewSecp256k1()
	x, X := keyPair(t, crv, nil)

	_, err := CreateProof(crv, sessionTranscript(), X, x, nil)
	require.ErrorIs(t, err, ErrInvalidGenerator)

	_, err = CreateProof(crv, sessionTranscript(), X, x, crv.Identity())
	require.ErrorIs(t, err, ErrInvalidGenerator)

	_, err = CreateRandomness(crv, crv.Identity())
	require.ErrorIs(t, err, ErrInvalidGenerator)

	proof, err := CreateProof(crv, sessionTranscript(), X, x, crv.Generator())
	require.NoError(t, err)
	require.False(t, VerifyProof(crv, proof, sessionTranscript(), X, nil))
	require.True(t, VerifyResponse(crv, proof.Z, sessionTranscript(), X, proof.C, nil),
		"a nil generator selects the base point in VerifyResponse")
}

func TestRandomnessSingleUse(t *testing.T) {
	crv := curve.NewSecp256k1()
	x, X := keyPair(t, crv, nil)

	r, err := CreateRandomness(crv, nil)
	require.NoError(t, err)
	require.False(t, r.Used())

	_, err = Prove(crv, r, sessionTranscript(), X, x, nil)
	require.NoError(t, err)
	require.True(t, r.Used())

	tr := sessionTranscript().Update(transcript.Text("second challenge"))
	_, err = Prove(crv, r, tr, X, x, nil)
	require.ErrorIs(t, err, ErrRandomnessUsed)
	require.False(t, tr.Consumed())

	_, err = Prove(crv, nil, sessionTranscript(), X, x, nil)
	require.ErrorIs(t, err, ErrInvalidRandomness)
}

func TestRandomnessNotSerializable(t *testing.T) {
	crv := curve.NewSecp256k1()
	r, err := CreateRandomness(crv, nil)
	require.NoError(t, err)

	_, err = json.Marshal(r)
	require.ErrorIs(t, err, ErrRandomnessNotSerializable)
}

func TestCommitmentBindsNonce(t *testing.T) {
	crv := curve.NewSecp256k1()
	r, err := CreateRandomness(crv, nil)
	require.NoError(t, err)

	require.True(t, r.Commitment.Valid())
	require.True(t, crv.ScalarBaseMult(r.nonce).Equal(r.Commitment.C))

	other, err := CreateRandomness(crv, nil)
	require.NoError(t, err)
	require.False(t, other.Commitment.C.Equal(r.Commitment.C))
}

func TestChallenge(t *testing.T) {
	crv := curve.NewSecp256k1()
	gen := crv.Generator()
	_, C := keyPair(t, crv, nil)
	_, X := keyPair(t, crv, nil)

	t.Run("Formula", func(t *testing.T) {
		h := sessionTranscript().UpdateMulti(
			transcript.Point(C), transcript.Point(X), transcript.Point(gen),
		).Digest()

		want := new(big.Int).Add(h, crv.Order())
		want.Sub(want, new(big.Int).Lsh(big.NewInt(1), 255))
		want.Mod(want, crv.Order())

		got := challenge(crv, sessionTranscript(), C, X, gen)
		require.Equal(t, 0, want.Cmp(got.BigInt()))
	})

	t.Run("OrderSensitive", func(t *testing.T) {
		a := challenge(crv, sessionTranscript(), C, X, gen)
		b := challenge(crv, sessionTranscript(), X, C, gen)
		require.NotEqual(t, 0, a.BigInt().Cmp(b.BigInt()))
	})

	t.Run("ConsumesTranscript", func(t *testing.T) {
		tr := sessionTranscript()
		challenge(crv, tr, C, X, gen)
		require.True(t, tr.Consumed())
		require.Panics(t, func() { challenge(crv, tr, C, X, gen) })
	})

	t.Run("ReducedBelowOrder", func(t *testing.T) {
		rist := curve.NewRistretto255()
		_, RC := keyPair(t, rist, nil)
		_, RX := keyPair(t, rist, nil)

		e := challenge(rist, sessionTranscript(), RC, RX, rist.Generator())
		require.True(t, e.BigInt().Sign() >= 0)
		require.True(t, e.BigInt().Cmp(rist.Order()) < 0)
	})
}

func TestCrossCurveRejected(t *testing.T) {
	rist := curve.NewRistretto255()
	secp := curve.NewSecp256k1()

	x, X := keyPair(t, rist, nil)
	proof, err := CreateProof(rist, sessionTranscript(), X, x, rist.Generator())
	require.NoError(t, err)

	require.False(t, VerifyProof(secp, proof, sessionTranscript(), X, secp.Generator()))
}

func TestVerifyBatch(t *testing.T) {
	crv := curve.NewSecp256k1()
	gen := crv.Generator()
	base := sessionTranscript()

	var items []BatchItem
	for i := 0; i < 4; i++ {
		x, X := keyPair(t, crv, gen)
		proof, err := CreateProof(crv, base.Clone(), X, x, gen)
		require.NoError(t, err)
		items = append(items, BatchItem{Proof: proof, Public: X, Generator: gen})
	}

	// Swap the public key of the last item.
	_, stranger := keyPair(t, crv, gen)
	items[3].Public = stranger

	results := VerifyBatch(crv, base, items)
	require.Equal(t, []bool{true, true, true, false}, results)
	require.False(t, base.Consumed())

	require.Empty(t, VerifyBatch(crv, base, nil))
}
