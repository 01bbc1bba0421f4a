// Package refid encodes, decodes and validates reference ids of the form
// PREFIX-DISTRICTCODE-SEQ (for example PRD-MAN-024).
//
// Everything here is pure. Malformed input never panics and never returns an
// error from the read side: Decode reports ok=false and RoutePath falls back to
// the not-found route.
package refid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/localdex/internal/domain"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
)

// Grammar limits.
const (
	DistrictCodeLen = 3
	MaxSequence     = 999
	padLetter       = 'X'
)

// NotFoundPath is the route returned for ids that do not decode.
const NotFoundPath = "/not-found"

var pattern = regexp.MustCompile(
	`^(` + strings.Join(kind.Prefixes(), "|") + `)-([A-Z]{3})-([0-9]{3})$`,
)

// ID is a reference id string as persisted and shown to users.
type ID string

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

// Parts is a decoded reference id.
type Parts struct {
	Kind         kind.Kind
	DistrictCode string
	Sequence     int
}

// ID reassembles the canonical string.
func (p Parts) ID() ID {
	return ID(fmt.Sprintf("%s-%s-%03d", p.Kind.Prefix(), p.DistrictCode, p.Sequence))
}

// DistrictCode derives the 3-letter district code: the first three ASCII letters
// of name, upper-cased, padded with X when the name is shorter.
func DistrictCode(name string) string {
	var b strings.Builder
	b.Grow(DistrictCodeLen)
	for i := 0; i < len(name) && b.Len() < DistrictCodeLen; i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c)
		case c >= 'a' && c <= 'z':
			b.WriteByte(c - 'a' + 'A')
		}
	}
	for b.Len() < DistrictCodeLen {
		b.WriteByte(padLetter)
	}
	return b.String()
}

// Partition returns the (prefix, district code) partition key, e.g. "PRD-MAN".
func Partition(k kind.Kind, districtName string) string {
	return k.Prefix() + "-" + DistrictCode(districtName)
}

// Encode builds the reference id for the next entity in a partition.
// currentCount is the number of ids already issued in the partition; the new
// sequence is currentCount+1.
func Encode(k kind.Kind, districtName string, currentCount int) (ID, error) {
	if !k.IsValid() {
		return "", fmt.Errorf("encode reference id: %w", domain.ErrUnknownKind)
	}
	if currentCount < 0 {
		return "", fmt.Errorf("encode reference id: negative count %d", currentCount)
	}
	seq := currentCount + 1
	if seq > MaxSequence {
		return "", fmt.Errorf("encode reference id %s: %w", Partition(k, districtName), domain.ErrSequenceExhausted)
	}
	return Parts{Kind: k, DistrictCode: DistrictCode(districtName), Sequence: seq}.ID(), nil
}

// Decode parses raw against the fixed grammar. ok is false for any malformed input.
func Decode(raw string) (Parts, bool) {
	m := pattern.FindStringSubmatch(raw)
	if m == nil {
		return Parts{}, false
	}
	k, ok := kind.FromPrefix(m[1])
	if !ok {
		return Parts{}, false
	}
	seq, err := strconv.Atoi(m[3])
	if err != nil {
		return Parts{}, false
	}
	return Parts{Kind: k, DistrictCode: m[2], Sequence: seq}, true
}

// IsValid reports whether raw decodes.
func IsValid(raw string) bool {
	_, ok := Decode(raw)
	return ok
}

// KindOf returns the entity kind encoded in raw.
func KindOf(raw string) (kind.Kind, bool) {
	p, ok := Decode(raw)
	if !ok {
		return 0, false
	}
	return p.Kind, true
}

// RoutePath maps raw to /<segment>/<id>, or NotFoundPath when raw is malformed.
func RoutePath(raw string) string {
	p, ok := Decode(raw)
	if !ok {
		return NotFoundPath
	}
	return "/" + p.Kind.Segment() + "/" + raw
}

// Normalize trims surrounding space and upper-cases a user-typed candidate id.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Parse normalizes raw and decodes it, returning ErrInvalidReferenceID on failure.
// Use it on write paths where a malformed id is a caller error.
func Parse(raw string) (Parts, error) {
	p, ok := Decode(Normalize(raw))
	if !ok {
		return Parts{}, fmt.Errorf("%w: %q", domain.ErrInvalidReferenceID, raw)
	}
	return p, nil
}
