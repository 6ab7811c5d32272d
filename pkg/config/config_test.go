package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tatweel/pkg/errors"
	"github.com/matzehuels/tatweel/pkg/variation"
)

const sample = `
text = "noor.txt"
margin = 100
width = 2000
text_color = 0x112233ff
bg_color = 0xffffff80
cost = "squared"

[font]
path = "fonts/Raqq.ttf"
size = 80.0
features = ["liga", "-kern"]

[[font.variations]]
name = "MSHQ"
min = 0
max = 100
rest = 0

[[font.variations]]
name = "spacing"
min = 0.25
max = 1.25
rest = 1.0

[cache]
backend = "none"
ttl = "24h"
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Text != "noor.txt" || cfg.Cost != "squared" {
		t.Errorf("text/cost = %q/%q", cfg.Text, cfg.Cost)
	}
	if cfg.Font.LineHeight != DefaultLineHeight {
		t.Errorf("LineHeight = %v, want default %v", cfg.Font.LineHeight, DefaultLineHeight)
	}
	if cfg.Tolerance != DefaultTolerance {
		t.Errorf("Tolerance = %d, want default %d", cfg.Tolerance, DefaultTolerance)
	}
	if cfg.Cache.TTL.Std() != 24*time.Hour {
		t.Errorf("TTL = %v, want 24h", cfg.Cache.TTL.Std())
	}
	if got := cfg.TextColor.Hex(); got != "#112233" {
		t.Errorf("TextColor.Hex() = %s", got)
	}
	if got := cfg.BgColor.Opacity(); got < 0.5 || got > 0.51 {
		t.Errorf("BgColor.Opacity() = %v", got)
	}

	vs, err := cfg.Variations()
	if err != nil {
		t.Fatalf("Variations: %v", err)
	}
	want := []variation.Variation{
		{Kind: variation.KindAxis, Tag: variation.MustParseTag("MSHQ"), Min: 0, Max: 100, Priority: 0},
		{Kind: variation.KindSpacing, Value: 1, Min: 0.25, Max: 1.25, Ideal: 1, Priority: 1},
	}
	if diff := cmp.Diff(want, vs); diff != "" {
		t.Errorf("Variations() mismatch (-want +got):\n%s", diff)
	}

	fs, err := cfg.Features()
	if err != nil {
		t.Fatalf("Features: %v", err)
	}
	if len(fs) != 2 || fs[1].Value != 0 {
		t.Errorf("Features() = %+v", fs)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"syntax", "width = ", errors.ErrCodeInvalidConfig},
		{"unknown key", "colour = 1", errors.ErrCodeInvalidConfig},
		{"zero width", "width = 0", errors.ErrCodeInvalidConfig},
		{"margin too wide", "width = 100\nmargin = 50", errors.ErrCodeInvalidConfig},
		{"negative tolerance", "tolerance = -1", errors.ErrCodeInvalidConfig},
		{"both texts", "text = \"a\"\ntext_inline = \"b\"", errors.ErrCodeInvalidConfig},
		{"bad backend", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidConfig},
		{"bad store", "[server]\nstore = \"sqlite\"", errors.ErrCodeInvalidConfig},
		{"bad range", "[[font.variations]]\nname = \"wght\"\nmin = 10\nmax = 5\nrest = 7", errors.ErrCodeInvalidVariation},
		{"duplicate", "[[font.variations]]\nname = \"spacing\"\nmin = 0\nmax = 1\nrest = 1\n[[font.variations]]\nname = \"SPACING\"\nmin = 0\nmax = 1\nrest = 1", errors.ErrCodeInvalidVariation},
		{"bad feature", "[font]\nfeatures = [\"toolong\"]", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDefaultVariations(t *testing.T) {
	vs, err := Default().Variations()
	if err != nil {
		t.Fatal(err)
	}
	if len(vs) != 1 || vs[0].Kind != variation.KindSpacing {
		t.Errorf("default variations = %v, want spacing only", vs)
	}
}

func TestGoalWidth(t *testing.T) {
	cfg := Default()
	cfg.Width, cfg.Margin, cfg.Font.Size = 2000, 100, 80

	if got := cfg.GoalWidth(2048); got != 46080 {
		t.Errorf("GoalWidth(2048) = %d, want 46080", got)
	}
	if got := cfg.GoalWidth(1000); got != 22500 {
		t.Errorf("GoalWidth(1000) = %d, want 22500", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "noor.txt"), []byte("نور"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Resolve(cfg.Font.Path); got != filepath.Join(dir, "fonts/Raqq.ttf") {
		t.Errorf("Resolve(font) = %s", got)
	}
	text, err := cfg.LoadText()
	if err != nil || text != "نور" {
		t.Errorf("LoadText() = %q, %v", text, err)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestLoadTextInline(t *testing.T) {
	cfg := Default()
	if _, err := cfg.LoadText(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("LoadText() without text = %v, want INVALID_CONFIG", err)
	}
	cfg.TextInline = "inline"
	if got, _ := cfg.LoadText(); got != "inline" {
		t.Errorf("LoadText() = %q", got)
	}
}
