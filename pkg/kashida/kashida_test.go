package kashida

import (
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-text/typesetting/language"
)

func TestLocate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{"final dal and heh", "الحمد لله", []int{8, 15}},
		{"seen before lam alef", "سلام", []int{2}},
		{"no joins", "دار", []int{}},
		{"latin in arabic mode", "hello", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Locate(tt.text, language.Arabic)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Locate(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestLocateNonArabic(t *testing.T) {
	if got := Locate("الحمد لله", language.Latin); got != nil {
		t.Errorf("Locate(latin script) = %v, want nil", got)
	}
}

func TestLocateInvariants(t *testing.T) {
	text := "بسم الله الرحمن الرحيم الحمد لله رب العالمين"
	got := Locate(text, language.Arabic)
	if len(got) == 0 {
		t.Fatal("Locate returned no locations")
	}

	words := len(strings.Fields(text))
	if len(got) > words {
		t.Errorf("len(Locate) = %d, want at most one per word (%d)", len(got), words)
	}

	seen := map[int]bool{}
	for _, off := range got {
		if seen[off] {
			t.Errorf("duplicate offset %d", off)
		}
		seen[off] = true
		if !utf8.RuneStart(text[off]) {
			t.Errorf("offset %d splits a rune", off)
		}
		prev, _ := utf8.DecodeLastRuneInString(text[:off])
		next, _ := utf8.DecodeRuneInString(text[off:])
		if prev == 'ل' && isAlef(next) {
			t.Errorf("offset %d splits lam-alef", off)
		}
		if !joinsNext(prev) || !joinsPrev(next) {
			t.Errorf("offset %d is not between joining letters (%q, %q)", off, prev, next)
		}
	}
}

func TestInsert(t *testing.T) {
	text := "الحمد لله"
	const k = string(Tatweel)

	tests := []struct {
		name    string
		offsets []int
		count   int
		want    string
	}{
		{"zero", []int{8, 15}, 0, text},
		{"no offsets", nil, 3, text},
		{"one each", []int{8, 15}, 2, text[:8] + k + text[8:15] + k + text[15:]},
		{"round robin", []int{8, 15}, 3, text[:8] + k + k + text[8:15] + k + text[15:]},
		{"preference order", []int{15, 8}, 1, text[:15] + k + text[15:]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Insert(text, tt.offsets, tt.count)
			if got != tt.want {
				t.Errorf("Insert(%v, %d) = %q, want %q", tt.offsets, tt.count, got, tt.want)
			}
			if n := strings.Count(got, k) - strings.Count(text, k); tt.count > 0 && len(tt.offsets) > 0 && n != tt.count {
				t.Errorf("inserted %d tatweels, want %d", n, tt.count)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		text string
		want language.Script
	}{
		{"hello", language.Latin},
		{"hello بسم", language.Arabic},
		{"123 ...", language.Unknown},
		{"", language.Unknown},
	}

	for _, tt := range tests {
		if got := Detect(tt.text); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
