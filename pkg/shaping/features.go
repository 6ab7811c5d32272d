package shaping

import (
	"strconv"
	"strings"

	"github.com/matzehuels/tatweel/pkg/errors"
	"github.com/matzehuels/tatweel/pkg/variation"
)

// Feature is an OpenType feature setting.
type Feature struct {
	Tag   variation.Tag
	Value uint32
}

// ParseFeature parses the HarfBuzz-style forms "liga", "+liga", "-liga" and
// "liga=2".
func ParseFeature(s string) (Feature, error) {
	s = strings.TrimSpace(s)
	value := uint32(1)
	switch {
	case strings.HasPrefix(s, "-"):
		value, s = 0, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if name, raw, ok := strings.Cut(s, "="); ok {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return Feature{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "feature %q", s)
		}
		s, value = name, uint32(n)
	}
	tag, err := variation.ParseTag(s)
	if err != nil {
		return Feature{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "feature %q", s)
	}
	return Feature{Tag: tag, Value: value}, nil
}

// ParseFeatures parses a list of feature settings.
func ParseFeatures(list []string) ([]Feature, error) {
	out := make([]Feature, 0, len(list))
	for _, s := range list {
		f, err := ParseFeature(s)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
