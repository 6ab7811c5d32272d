package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateAxisTag validates an OpenType variation axis tag.
// A tag is exactly four printable ASCII characters; "spacing" is reserved
// for the space-glyph multiplier and is not a tag.
func ValidateAxisTag(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidVariation, "axis tag cannot be empty")
	}
	if len(tag) != 4 {
		return New(ErrCodeInvalidVariation, "axis tag %q must be 4 characters", tag)
	}
	for _, r := range tag {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return New(ErrCodeInvalidVariation, "axis tag %q contains non-printable characters", tag)
		}
	}
	return nil
}

// ValidateRange validates a variation range and its rest value.
//
// Validation rules:
//   - All values must be finite
//   - min must be strictly less than max
//   - rest must lie within [min, max]
func ValidateRange(name string, min, max, rest float64) error {
	for _, v := range []float64{min, max, rest} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidVariation, "%s: values must be finite", name)
		}
	}
	if min >= max {
		return New(ErrCodeInvalidVariation, "%s: min (%g) must be less than max (%g)", name, min, max)
	}
	if rest < min || rest > max {
		return New(ErrCodeInvalidVariation, "%s: rest (%g) must lie within [%g, %g]", name, rest, min, max)
	}
	return nil
}

// ValidateGoalWidth validates a target line width in font units.
func ValidateGoalWidth(width int) error {
	if width <= 0 {
		return New(ErrCodeInvalidInput, "goal width must be positive, got %d", width)
	}
	return nil
}

// ValidateText validates the text submitted for justification.
// It rejects empty or whitespace-only input and NUL bytes.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidInput, "text cannot be empty")
	}
	if strings.ContainsRune(text, '\x00') {
		return New(ErrCodeInvalidInput, "text contains NUL bytes")
	}

	const maxTextLength = 1 << 20
	if len(text) > maxTextLength {
		return New(ErrCodeInvalidInput, "text too long (max %d bytes)", maxTextLength)
	}
	return nil
}
