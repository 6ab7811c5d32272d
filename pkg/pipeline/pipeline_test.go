package pipeline

import (
	"testing"

	"github.com/matzehuels/tatweel/pkg/config"
	"github.com/matzehuels/tatweel/pkg/errors"
	"github.com/matzehuels/tatweel/pkg/justify"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateGraphFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateGraphFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateGraphFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestSetJustifyDefaults(t *testing.T) {
	opts := Options{}
	opts.SetJustifyDefaults()

	if opts.Width != config.DefaultWidth || opts.Margin != config.DefaultMargin {
		t.Errorf("geometry = %d/%d, want defaults", opts.Width, opts.Margin)
	}
	if opts.Cost != DefaultCost || opts.Selector != DefaultSelector {
		t.Errorf("cost/selector = %s/%s", opts.Cost, opts.Selector)
	}
	if opts.Tolerance != justify.DefaultTolerance {
		t.Errorf("Tolerance should be %d, got %d", justify.DefaultTolerance, opts.Tolerance)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats should be [json], got %v", opts.Formats)
	}
	if opts.TextColor != config.DefaultTextColor || opts.BgColor != config.DefaultBgColor {
		t.Errorf("colors = %08x/%08x", uint32(opts.TextColor), uint32(opts.BgColor))
	}
}

func TestOptionsValidateForJustify(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"empty text", Options{Text: "  \n"}, errors.ErrCodeInvalidInput},
		{"negative goal", Options{Text: "a", Goal: -1}, errors.ErrCodeInvalidInput},
		{"margin too wide", Options{Text: "a", Width: 100, Margin: 50}, errors.ErrCodeInvalidInput},
		{"negative tolerance", Options{Text: "a", Tolerance: -2}, errors.ErrCodeInvalidInput},
		{"unknown cost", Options{Text: "a", Cost: "cheapest"}, errors.ErrCodeInvalidConfig},
		{"unknown selector", Options{Text: "a", Selector: "greedy"}, errors.ErrCodeInvalidConfig},
		{"bad variation", Options{Text: "a", Variations: []config.VariationConfig{{Name: "wght", Min: 5, Max: 1, Rest: 3}}}, errors.ErrCodeInvalidVariation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForJustify()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateForJustify() error = %v, want %s", err, tt.code)
			}
		})
	}

	opts := Options{Text: "valid", Goal: 1000}
	if err := opts.ValidateForJustify(); err != nil {
		t.Errorf("valid options should pass: %v", err)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Text: "hello"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	originalCost := opts.Cost
	originalFormats := opts.Formats

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Cost != originalCost {
		t.Error("Cost changed on second call")
	}
	if len(opts.Formats) != len(originalFormats) {
		t.Error("Formats changed on second call")
	}
}

func TestGoalWidth(t *testing.T) {
	opts := Options{Width: 2000, Margin: 100, FontSize: 80}
	if got := opts.GoalWidth(2048); got != 46080 {
		t.Errorf("derived GoalWidth = %d, want 46080", got)
	}
	opts.Goal = 1234
	if got := opts.GoalWidth(2048); got != 1234 {
		t.Errorf("explicit GoalWidth = %d, want 1234", got)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Cost = justify.CostSquared
	cfg.Font.Features = []string{"liga"}
	cfg.Font.Variations = []config.VariationConfig{{Name: "spacing", Min: 0.5, Max: 1.5, Rest: 1}}

	opts := FromConfig(cfg, "text")
	if opts.Text != "text" || opts.Cost != justify.CostSquared || opts.Width != cfg.Width {
		t.Errorf("FromConfig = %+v", opts)
	}
	if len(opts.Variations) != 1 || len(opts.Features) != 1 {
		t.Errorf("variations/features not carried: %+v", opts)
	}
}

func TestKeyOptsDiffer(t *testing.T) {
	a := Options{Text: "x", Goal: 100}
	b := Options{Text: "x", Goal: 100, Variations: []config.VariationConfig{{Name: "spacing", Min: 0.5, Max: 1.5, Rest: 1}}}
	a.SetJustifyDefaults()
	b.SetJustifyDefaults()

	ka, kb := a.PageKeyOpts("f", 1000), b.PageKeyOpts("f", 1000)
	if len(ka.Variations) == len(kb.Variations) {
		t.Errorf("variation ranges missing from page key: %+v vs %+v", ka, kb)
	}

	a.SetRenderDefaults()
	if a.ArtifactKeyOpts("svg") == a.ArtifactKeyOpts("png") {
		t.Error("artifact key should depend on format")
	}
}

func TestOptionsClone(t *testing.T) {
	o := Options{
		Features:   []string{"liga"},
		Variations: []config.VariationConfig{{Name: "wdth", Min: 0, Max: 100, Rest: 50}},
		Formats:    []string{"json", "svg"},
	}
	c := o.Clone()
	c.Features[0] = "kern"
	c.Variations[0].Max = 10
	c.Formats[0] = "pdf"

	if o.Features[0] != "liga" || o.Variations[0].Max != 100 || o.Formats[0] != "json" {
		t.Errorf("Clone shares slices with the original: %+v", o)
	}
}
