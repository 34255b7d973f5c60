package curve

import (
	"fmt"
	"strings"
)

var constructors = []struct {
	name string
	new  func() Curve
}{
	{"secp256k1", func() Curve { return NewSecp256k1() }},
	{"ristretto255", NewRistretto255},
}

// FromName returns the Curve registered under name (case-insensitive).
func FromName(name string) (Curve, error) {
	for _, c := range constructors {
		if strings.EqualFold(c.name, name) {
			return c.new(), nil
		}
	}
	return nil, fmt.Errorf("unsupported curve: %s", name)
}

// SupportedCurves lists the curve identifiers understood by FromName.
// The first entry is the default group.
func SupportedCurves() []string {
	names := make([]string, len(constructors))
	for i, c := range constructors {
		names[i] = c.name
	}
	return names
}
