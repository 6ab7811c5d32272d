// Package variation models the tunable dimensions a justification search may
// move: variable-font axes and the spacing multiplier on the space glyph.
//
// A [Variation] carries its allowed range, its ideal (rest) value and a
// priority. Lower priorities are more important to keep near the ideal. The
// search code copies slices of variations freely, so a Variation is a plain
// value with no references.
package variation

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/tatweel/pkg/errors"
)

// SpacingName is the configuration name of the spacing variation.
const SpacingName = "spacing"

// Default range of the spacing multiplier.
const (
	DefaultSpacingMin   = 0.25
	DefaultSpacingMax   = 1.25
	DefaultSpacingIdeal = 1.0
)

// Kind distinguishes font axes from the spacing multiplier.
type Kind uint8

const (
	// KindAxis is a named OpenType variation axis.
	KindAxis Kind = iota
	// KindSpacing scales the advance of the space glyph.
	KindSpacing
)

// String returns "axis" or "spacing".
func (k Kind) String() string {
	if k == KindSpacing {
		return SpacingName
	}
	return "axis"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "axis":
		*k = KindAxis
	case SpacingName:
		*k = KindSpacing
	default:
		return errors.New(errors.ErrCodeInvalidVariation, "unknown variation kind %q", b)
	}
	return nil
}

// Tag is a four-byte OpenType axis tag such as "wght" or "MSHQ".
type Tag [4]byte

// ParseTag converts s to a Tag.
func ParseTag(s string) (Tag, error) {
	if err := errors.ValidateAxisTag(s); err != nil {
		return Tag{}, err
	}
	var t Tag
	copy(t[:], s)
	return t, nil
}

// MustParseTag is like ParseTag but panics on invalid input.
func MustParseTag(s string) Tag {
	t, err := ParseTag(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the tag as text.
func (t Tag) String() string { return string(t[:]) }

// Uint32 returns the big-endian numeric form used by OpenType tables.
func (t Tag) Uint32() uint32 {
	return uint32(t[0])<<24 | uint32(t[1])<<16 | uint32(t[2])<<8 | uint32(t[3])
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) {
	if t == (Tag{}) {
		return nil, nil
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*t = Tag{}
		return nil
	}
	parsed, err := ParseTag(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Variation is one justification dimension.
type Variation struct {
	Kind     Kind    `json:"kind"`
	Tag      Tag     `json:"tag,omitzero"`
	Value    float64 `json:"value"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Ideal    float64 `json:"ideal"`
	Priority int     `json:"priority"`
}

// NewAxis returns an axis variation resting at ideal.
func NewAxis(tag Tag, min, max, ideal float64) Variation {
	return Variation{Kind: KindAxis, Tag: tag, Value: ideal, Min: min, Max: max, Ideal: ideal}
}

// NewSpacing returns the spacing variation with its default range.
func NewSpacing() Variation {
	return Variation{
		Kind:  KindSpacing,
		Value: DefaultSpacingIdeal,
		Min:   DefaultSpacingMin,
		Max:   DefaultSpacingMax,
		Ideal: DefaultSpacingIdeal,
	}
}

// Parse builds a variation from its configuration form. The name "spacing"
// (case-insensitive) selects the spacing multiplier; anything else must be an
// axis tag.
func Parse(name string, min, max, rest float64) (Variation, error) {
	if err := errors.ValidateRange(name, min, max, rest); err != nil {
		return Variation{}, err
	}
	if strings.EqualFold(name, SpacingName) {
		return Variation{Kind: KindSpacing, Value: rest, Min: min, Max: max, Ideal: rest}, nil
	}
	tag, err := ParseTag(name)
	if err != nil {
		return Variation{}, err
	}
	return NewAxis(tag, min, max, rest), nil
}

// Name returns the tag for axes and "spacing" for the spacing multiplier.
func (v Variation) Name() string {
	if v.Kind == KindSpacing {
		return SpacingName
	}
	return v.Tag.String()
}

// Set moves the current value, clamped to [Min, Max].
func (v *Variation) Set(x float64) {
	v.Value = math.Max(v.Min, math.Min(v.Max, x))
}

// Reset moves the current value back to the ideal.
func (v *Variation) Reset() { v.Value = v.Ideal }

// Deviation is the distance from the ideal as a percentage of the range.
func (v Variation) Deviation() float64 {
	span := v.Max - v.Min
	if span == 0 {
		return 0
	}
	return math.Abs(v.Value-v.Ideal) * 100 / span
}

// Validate checks the range and the current value.
func (v Variation) Validate() error {
	if err := errors.ValidateRange(v.Name(), v.Min, v.Max, v.Ideal); err != nil {
		return err
	}
	if v.Value < v.Min || v.Value > v.Max {
		return errors.New(errors.ErrCodeInvalidVariation, "%s: value %g outside [%g, %g]", v.Name(), v.Value, v.Min, v.Max)
	}
	return nil
}

// String formats the variation as "name=value".
func (v Variation) String() string {
	return fmt.Sprintf("%s=%.3f", v.Name(), v.Value)
}
