package transcript

import (
	"math/big"

	"github.com/allsmog/zksch-go/pkg/crypto/curve"
)

// Value is a piece of data a Transcript can absorb. The set of values is
// closed: build them with Bytes, Text, Int, Scalar, Point or Composite.
type Value interface {
	absorb(t *Transcript)
}

// Bytes is absorbed as-is.
type Bytes []byte

func (b Bytes) absorb(t *Transcript) {
	t.write(b)
}

// Text is absorbed as its UTF-8 bytes.
type Text string

func (s Text) absorb(t *Transcript) {
	t.write([]byte(s))
}

type intValue struct {
	v *big.Int
}

// Int absorbs a non-negative integer using the minimal big-endian encoding,
// left-padded to an even number of hex digits.
//
// The encoding carries no length prefix, so adjacent values are not
// self-delimiting. Callers that need unambiguous framing must add it.
func Int(v *big.Int) Value {
	return intValue{v: v}
}

func (i intValue) absorb(t *Transcript) {
	if i.v == nil || i.v.Sign() < 0 {
		panic(ErrUnsupportedValue)
	}
	t.write(encodeInt(i.v))
}

// Scalar absorbs a group scalar with the Int encoding.
func Scalar(s curve.Scalar) Value {
	if s == nil {
		return intValue{}
	}
	return intValue{v: s.BigInt()}
}

type pointValue struct {
	p curve.Point
}

// Point absorbs a group element. Points with affine coordinates absorb x then
// y with the Int encoding; other points absorb their canonical encoding.
func Point(p curve.Point) Value {
	return pointValue{p: p}
}

func (pv pointValue) absorb(t *Transcript) {
	if pv.p == nil {
		panic(ErrUnsupportedValue)
	}
	if ap, ok := pv.p.(curve.AffinePoint); ok {
		x, y := ap.Affine()
		t.write(encodeInt(x))
		t.write(encodeInt(y))
		return
	}
	t.write(pv.p.Bytes())
}

// Hashable is implemented by types that decompose into transcript values.
type Hashable interface {
	Hashable() []Value
}

type composite struct {
	h Hashable
}

// Composite absorbs every value returned by h.Hashable, in order.
func Composite(h Hashable) Value {
	return composite{h: h}
}

func (c composite) absorb(t *Transcript) {
	if c.h == nil {
		panic(ErrUnsupportedValue)
	}
	for _, v := range c.h.Hashable() {
		t.Update(v)
	}
}

// encodeInt returns v big-endian with no leading zero bytes. Zero encodes as
// a single 0x00 byte.
func encodeInt(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{0x00}
	}
	return v.Bytes()
}
