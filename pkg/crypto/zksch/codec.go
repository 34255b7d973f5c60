package zksch

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/allsmog/zksch-go/pkg/crypto/curve"
)

var (
	// ErrInvalidHex indicates a field that is not a bare hexadecimal integer.
	ErrInvalidHex = errors.New("zksch: invalid hex")

	// ErrNoAffineForm indicates a curve or point without affine coordinates.
	ErrNoAffineForm = errors.New("zksch: curve has no affine point form")
)

// AffinePointJSON is the wire form of a point.
type AffinePointJSON struct {
	XHex string `json:"xHex"`
	YHex string `json:"yHex"`
}

// CommitmentJSON is the wire form of a Commitment.
type CommitmentJSON struct {
	C AffinePointJSON `json:"C"`
}

// ResponseJSON is the wire form of a Response.
type ResponseJSON struct {
	Zhex string `json:"Zhex"`
}

// ProofJSON is the wire form of a Proof.
type ProofJSON struct {
	C CommitmentJSON `json:"C"`
	Z ResponseJSON   `json:"Z"`
}

// EncodeHex returns v as lowercase hex with no prefix and no padding.
// Zero encodes as "0".
func EncodeHex(v *big.Int) string {
	return v.Text(16)
}

// DecodeHex parses a string produced by EncodeHex. Upper-case digits are
// accepted; prefixes, signs and separators are not.
func DecodeHex(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidHex)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isDigit := c >= '0' && c <= '9'
		isLower := c >= 'a' && c <= 'f'
		isUpper := c >= 'A' && c <= 'F'
		if !isDigit && !isLower && !isUpper {
			return nil, fmt.Errorf("%w: unexpected character %q", ErrInvalidHex, c)
		}
	}

	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return v, nil
}

// PointToJSON encodes the affine coordinates of p. The identity encodes as
// {"0", "0"}.
func PointToJSON(p curve.Point) (AffinePointJSON, error) {
	ap, ok := p.(curve.AffinePoint)
	if !ok {
		return AffinePointJSON{}, ErrNoAffineForm
	}
	x, y := ap.Affine()
	return AffinePointJSON{XHex: EncodeHex(x), YHex: EncodeHex(y)}, nil
}

// PointFromJSON rebuilds a point on crv from its affine coordinates.
func PointFromJSON(crv curve.Curve, j AffinePointJSON) (curve.Point, error) {
	ac, ok := crv.(curve.AffineCurve)
	if !ok {
		return nil, ErrNoAffineForm
	}

	x, err := DecodeHex(j.XHex)
	if err != nil {
		return nil, fmt.Errorf("xHex: %w", err)
	}
	y, err := DecodeHex(j.YHex)
	if err != nil {
		return nil, fmt.Errorf("yHex: %w", err)
	}

	return ac.PointFromAffine(x, y)
}

// ToJSON returns the wire form of c.
func (c *Commitment) ToJSON() (CommitmentJSON, error) {
	if c == nil || c.C == nil {
		return CommitmentJSON{}, fmt.Errorf("%w: missing commitment", curve.ErrInvalidPoint)
	}
	p, err := PointToJSON(c.C)
	if err != nil {
		return CommitmentJSON{}, err
	}
	return CommitmentJSON{C: p}, nil
}

// MarshalJSON implements json.Marshaler.
func (c *Commitment) MarshalJSON() ([]byte, error) {
	j, err := c.ToJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

// CommitmentFromJSON decodes a commitment on crv. The identity is decoded
// as-is; VerifyProof rejects it.
func CommitmentFromJSON(crv curve.Curve, j CommitmentJSON) (*Commitment, error) {
	p, err := PointFromJSON(crv, j.C)
	if err != nil {
		return nil, fmt.Errorf("commitment: %w", err)
	}
	return &Commitment{C: p}, nil
}

// ToJSON returns the wire form of r.
func (r *Response) ToJSON() (ResponseJSON, error) {
	if r == nil || r.Z == nil {
		return ResponseJSON{}, fmt.Errorf("%w: missing response", curve.ErrInvalidScalar)
	}
	return ResponseJSON{Zhex: EncodeHex(r.Z.BigInt())}, nil
}

// MarshalJSON implements json.Marshaler.
func (r *Response) MarshalJSON() ([]byte, error) {
	j, err := r.ToJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

// ResponseFromJSON decodes a response on crv. Values must lie in [0, N);
// zero is decoded as-is and rejected by verification.
func ResponseFromJSON(crv curve.Curve, j ResponseJSON) (*Response, error) {
	z, err := DecodeHex(j.Zhex)
	if err != nil {
		return nil, fmt.Errorf("Zhex: %w", err)
	}
	if z.Cmp(crv.Order()) >= 0 {
		return nil, fmt.Errorf("%w: response out of range", curve.ErrInvalidScalar)
	}
	return &Response{Z: crv.NewScalar(z)}, nil
}

// ToJSON returns the wire form of p.
func (p *Proof) ToJSON() (ProofJSON, error) {
	if p == nil {
		return ProofJSON{}, errors.New("zksch: nil proof")
	}
	c, err := p.C.ToJSON()
	if err != nil {
		return ProofJSON{}, err
	}
	z, err := p.Z.ToJSON()
	if err != nil {
		return ProofJSON{}, err
	}
	return ProofJSON{C: c, Z: z}, nil
}

// MarshalJSON implements json.Marshaler.
func (p *Proof) MarshalJSON() ([]byte, error) {
	j, err := p.ToJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

// ProofFromJSON decodes a proof on crv.
func ProofFromJSON(crv curve.Curve, j ProofJSON) (*Proof, error) {
	c, err := CommitmentFromJSON(crv, j.C)
	if err != nil {
		return nil, err
	}
	z, err := ResponseFromJSON(crv, j.Z)
	if err != nil {
		return nil, err
	}
	return &Proof{C: c, Z: z}, nil
}

// DecodeProof parses a JSON-encoded proof on crv.
func DecodeProof(crv curve.Curve, data []byte) (*Proof, error) {
	var j ProofJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("failed to parse proof: %w", err)
	}
	return ProofFromJSON(crv, j)
}
