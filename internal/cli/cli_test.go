package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tatweel/pkg/config"
	"github.com/matzehuels/tatweel/pkg/errors"
	tio "github.com/matzehuels/tatweel/pkg/io"
	"github.com/matzehuels/tatweel/pkg/pipeline"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"json"}},
		{"svg", []string{"svg"}},
		{"json, svg,png", []string{"json", "svg", "png"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in, pipeline.FormatJSON); !slices.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReadText(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "noor.txt")
	if err := os.WriteFile(file, []byte("from file"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.TextInline = "from config"

	tests := []struct {
		name   string
		input  string
		inline string
		want   string
	}{
		{"inline wins", file, "inline", "inline"},
		{"stdin", "-", "", "from stdin"},
		{"file", file, "", "from file"},
		{"config", "", "", "from config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readText(strings.NewReader("from stdin"), tt.input, tt.inline, cfg)
			if err != nil {
				t.Fatalf("readText: %v", err)
			}
			if got != tt.want {
				t.Errorf("readText = %q, want %q", got, tt.want)
			}
		})
	}

	_, err := readText(nil, filepath.Join(dir, "missing.txt"), "", cfg)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file error = %v, want NOT_FOUND", err)
	}
}

func TestPageFlagsApply(t *testing.T) {
	var f pageFlags
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	f.register(cmd)
	if err := cmd.ParseFlags([]string{"--goal", "1234", "--cost", "squared", "--refresh"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	opts := pipeline.Options{Width: 900, Cost: "priority", Selector: "dag"}
	f.apply(cmd, &opts)

	if opts.Goal != 1234 || opts.Cost != "squared" || !opts.Refresh {
		t.Errorf("set flags not applied: %+v", opts)
	}
	if opts.Width != 900 || opts.Selector != "dag" {
		t.Errorf("unset flags overrode config: width %d selector %q", opts.Width, opts.Selector)
	}
}

func TestJustifyAndInspect(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	out := filepath.Join(t.TempDir(), "page.json")

	if _, err := execute(t, "justify", "--text", "hello world\n\nsecond", "--goal", "100000", "--no-cache", "-o", out); err != nil {
		t.Fatalf("justify: %v", err)
	}

	doc, err := tio.ImportJSON(out)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(doc.Page.Paragraphs) != 2 || doc.Goal != 100000 {
		t.Errorf("doc = %d paragraphs, goal %d", len(doc.Page.Paragraphs), doc.Goal)
	}

	table, err := execute(t, "inspect", "--plain", out)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"0.0", "1.0", "hello world", "second"} {
		if !strings.Contains(table, want) {
			t.Errorf("inspect output missing %q:\n%s", want, table)
		}
	}
}

func TestJustifyInvalidFormat(t *testing.T) {
	_, err := execute(t, "justify", "--text", "x", "-f", "gif")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestGraphCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	out := filepath.Join(t.TempDir(), "g.dot")

	if _, err := execute(t, "graph", "--text", "hello world", "--goal", "100000", "-f", "dot", "-o", out); err != nil {
		t.Fatalf("graph: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("graph output is not DOT: %.40q", data)
	}
}

func TestCacheCommands(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	path, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if want := filepath.Join(xdg, appName); strings.TrimSpace(path) != want {
		t.Errorf("cache path = %q, want %q", path, want)
	}

	if _, err := execute(t, "justify", "--text", "cache me", "--goal", "100000", "-o", filepath.Join(t.TempDir(), "p.json")); err != nil {
		t.Fatalf("justify: %v", err)
	}
	entries, _ := os.ReadDir(filepath.Join(xdg, appName))
	if len(entries) == 0 {
		t.Fatal("justify wrote no cache entries")
	}

	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	entries, _ = os.ReadDir(filepath.Join(xdg, appName))
	if len(entries) != 0 {
		t.Errorf("cache clear left %d entries", len(entries))
	}
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion does not mention the command")
	}
}
