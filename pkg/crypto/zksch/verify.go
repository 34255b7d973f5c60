package zksch

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/allsmog/zksch-go/pkg/crypto/curve"
	"github.com/allsmog/zksch-go/pkg/crypto/transcript"
)

// VerifyResponse checks z against the commitment for the statement
// public = x*gen. A nil gen selects the curve's base point.
//
// It rejects a missing or zero response and an identity public point before
// touching t. Otherwise it consumes t and accepts iff z*gen == e*public + C.
func VerifyResponse(crv curve.Curve, z *Response, t *transcript.Transcript, public curve.Point, commitment *Commitment, gen curve.Point) bool {
	if !z.Valid() || !curve.IsValidPoint(public) {
		return false
	}

	gen = generatorOrBase(crv, gen)
	if !curve.IsValidPoint(gen) || commitment == nil || commitment.C == nil {
		return false
	}

	e := challenge(crv, t, commitment.C, public, gen)

	lhs := crv.ScalarMult(gen, z.Z)
	ePublic := crv.ScalarMult(public, e)
	if lhs == nil || ePublic == nil {
		return false
	}

	rhs := crv.Add(ePublic, commitment.C)
	if rhs == nil {
		return false
	}

	return lhs.Equal(rhs)
}

// VerifyProof checks the structure of p and then its response. Unlike
// VerifyResponse, gen is required.
func VerifyProof(crv curve.Curve, p *Proof, t *transcript.Transcript, public curve.Point, gen curve.Point) bool {
	if gen == nil || !p.Valid() {
		return false
	}
	return VerifyResponse(crv, p.Z, t, public, p.C, gen)
}

// BatchItem is one proof to check in VerifyBatch.
type BatchItem struct {
	Proof     *Proof
	Public    curve.Point
	Generator curve.Point
}

// VerifyBatch checks each item against its own clone of base, in parallel.
// Proofs are verified independently; results[i] is the outcome for items[i].
// base is cloned but not consumed.
func VerifyBatch(crv curve.Curve, base *transcript.Transcript, items []BatchItem) []bool {
	results := make([]bool, len(items))

	transcripts := make([]*transcript.Transcript, len(items))
	for i := range items {
		transcripts[i] = base.Clone()
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range items {
		i := i
		g.Go(func() error {
			item := items[i]
			results[i] = VerifyProof(crv, item.Proof, transcripts[i], item.Public, item.Generator)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
