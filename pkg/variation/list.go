package variation

import (
	"slices"

	"github.com/matzehuels/tatweel/pkg/errors"
)

// Prioritize returns a copy of vs with priorities assigned by position, the
// first variation being the primary one (priority 0). Values are reset to the
// ideal.
func Prioritize(vs []Variation) []Variation {
	out := slices.Clone(vs)
	for i := range out {
		out[i].Priority = i
		out[i].Reset()
	}
	return out
}

// ResetAll returns a copy of vs with every value at its ideal.
func ResetAll(vs []Variation) []Variation {
	out := slices.Clone(vs)
	for i := range out {
		out[i].Reset()
	}
	return out
}

// Spacing returns the spacing variation in vs, if any.
func Spacing(vs []Variation) (Variation, bool) {
	for _, v := range vs {
		if v.Kind == KindSpacing {
			return v, true
		}
	}
	return Variation{}, false
}

// Axes returns the axis variations in vs, preserving order.
func Axes(vs []Variation) []Variation {
	var out []Variation
	for _, v := range vs {
		if v.Kind == KindAxis {
			out = append(out, v)
		}
	}
	return out
}

// ValidateList checks every variation and rejects duplicate names.
func ValidateList(vs []Variation) error {
	if len(vs) == 0 {
		return errors.New(errors.ErrCodeInvalidVariation, "at least one variation is required")
	}
	seen := make(map[string]bool, len(vs))
	for _, v := range vs {
		if err := v.Validate(); err != nil {
			return err
		}
		name := v.Name()
		if seen[name] {
			return errors.New(errors.ErrCodeInvalidVariation, "duplicate variation %q", name)
		}
		seen[name] = true
	}
	return nil
}
