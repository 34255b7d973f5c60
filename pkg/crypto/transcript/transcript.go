// Package transcript implements the Fiat-Shamir transcript used to derive
// proof challenges.
//
// A Transcript absorbs an ordered sequence of values into a single hash state
// and yields exactly one digest. Order matters: absorbing (C, X, G) and
// (X, C, G) produce unrelated digests, which is what binds a challenge to the
// full proof context.
//
// # Lifecycle
//
// A transcript starts Active. Digest moves it to Consumed; any later Update,
// Clone or Digest panics with ErrConsumed. Reusing a transcript would let two
// proofs share a challenge, so misuse is treated as a programming error
// rather than a recoverable condition.
//
// To derive several challenges from a common prefix, absorb the prefix once
// and Clone before each use:
//
//	base := transcript.New().Update(transcript.Text("session-42"))
//	e1 := base.Clone().Update(transcript.Bytes(msg1)).Digest()
//	e2 := base.Clone().Update(transcript.Bytes(msg2)).Digest()
//
// A Transcript is not safe for concurrent use. Clones share no state and may
// be handed to separate goroutines.
package transcript

import (
	"errors"
	"hash"
	"math/big"

	"github.com/zeebo/blake3"
)

var (
	// ErrConsumed is the panic value for any use of a transcript after Digest.
	ErrConsumed = errors.New("transcript: already consumed")

	// ErrUnsupportedValue is the panic value for values the transcript cannot encode.
	ErrUnsupportedValue = errors.New("transcript: unsupported value")
)

type state uint8

const (
	active state = iota
	consumed
)

// Transcript is a one-shot, order-sensitive hash accumulator.
type Transcript struct {
	h     hash.Hash
	state state

	// newHash and chunks are only set for hashes that cannot copy their
	// internal state. Clone then rebuilds the state by replaying chunks.
	newHash func() hash.Hash
	chunks  [][]byte
}

// New returns an empty transcript over BLAKE3 with a 256-bit output.
func New() *Transcript {
	return &Transcript{h: blake3.New()}
}

// NewWithHash returns an empty transcript over the hash built by newHash.
// Hashes other than BLAKE3 are cloned by replaying the absorbed bytes.
func NewWithHash(newHash func() hash.Hash) *Transcript {
	h := newHash()
	if _, ok := h.(*blake3.Hasher); ok {
		return &Transcript{h: h}
	}
	return &Transcript{h: h, newHash: newHash}
}

// Update absorbs v and returns t for chaining.
func (t *Transcript) Update(v Value) *Transcript {
	t.mustBeActive()
	if v == nil {
		panic(ErrUnsupportedValue)
	}
	v.absorb(t)
	return t
}

// UpdateMulti absorbs values in order. It is equivalent to calling Update on
// each of them.
func (t *Transcript) UpdateMulti(values ...Value) *Transcript {
	for _, v := range values {
		t.Update(v)
	}
	return t
}

// Clone returns an independent copy of an active transcript.
func (t *Transcript) Clone() *Transcript {
	t.mustBeActive()

	if bh, ok := t.h.(*blake3.Hasher); ok {
		return &Transcript{h: bh.Clone()}
	}

	h := t.newHash()
	chunks := make([][]byte, len(t.chunks))
	for i, c := range t.chunks {
		_, _ = h.Write(c)
		chunks[i] = c
	}
	return &Transcript{h: h, newHash: t.newHash, chunks: chunks}
}

// Digest consumes the transcript and returns the full-width hash output as a
// big-endian unsigned integer. No modular reduction is applied.
func (t *Transcript) Digest() *big.Int {
	t.mustBeActive()
	t.state = consumed

	sum := t.h.Sum(nil)
	t.h = nil
	t.chunks = nil
	return new(big.Int).SetBytes(sum)
}

// Consumed reports whether Digest has been called.
func (t *Transcript) Consumed() bool {
	return t.state == consumed
}

func (t *Transcript) mustBeActive() {
	if t.state != active {
		panic(ErrConsumed)
	}
}

func (t *Transcript) write(b []byte) {
	_, _ = t.h.Write(b)
	if t.newHash != nil {
		t.chunks = append(t.chunks, append([]byte(nil), b...))
	}
}
