package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateAxisTag(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		wantErr bool
	}{
		{"registered axis", "wght", false},
		{"custom axis", "MSHQ", false},
		{"empty", "", true},
		{"too short", "wdt", true},
		{"too long", "spacing", true},
		{"control character", "ab\tc", true},
		{"non-ascii", "مشق", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAxisTag(tt.tag)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAxisTag(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidVariation) {
				t.Errorf("ValidateAxisTag(%q) code = %v, want %v", tt.tag, GetCode(err), ErrCodeInvalidVariation)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name           string
		min, max, rest float64
		wantErr        bool
	}{
		{"valid", 0, 100, 0, false},
		{"rest at max", 0.25, 1.25, 1.25, false},
		{"min equals max", 10, 10, 10, true},
		{"inverted", 100, 0, 50, true},
		{"rest below", 0, 100, -1, true},
		{"rest above", 0, 100, 101, true},
		{"nan", math.NaN(), 100, 0, true},
		{"inf", 0, math.Inf(1), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange("MSHQ", tt.min, tt.max, tt.rest)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRange(%g, %g, %g) error = %v, wantErr %v", tt.min, tt.max, tt.rest, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGoalWidth(t *testing.T) {
	if err := ValidateGoalWidth(1800); err != nil {
		t.Errorf("positive width should pass: %v", err)
	}
	for _, w := range []int{0, -5} {
		if err := ValidateGoalWidth(w); err == nil {
			t.Errorf("ValidateGoalWidth(%d) should fail", w)
		}
	}
}

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"latin", "hello world", false},
		{"arabic", "بسم الله الرحمن الرحيم", false},
		{"empty", "", true},
		{"whitespace only", " \n\n\t", true},
		{"nul byte", "abc\x00def", true},
		{"too long", strings.Repeat("a", 1<<20+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeTooTight,
		ErrCodeTooLoose,
		ErrCodeUnableToLayout,
		ErrCodeInvalidInput,
		ErrCodeInvalidConfig,
		ErrCodeInvalidVariation,
		ErrCodeInvalidFormat,
		ErrCodeNotFound,
		ErrCodeFontLoad,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
