package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tatweel/pkg/config"
	"github.com/matzehuels/tatweel/pkg/errors"
	"github.com/matzehuels/tatweel/pkg/justify"
	"github.com/matzehuels/tatweel/pkg/observability"
	"github.com/matzehuels/tatweel/pkg/pipeline"
)

// pageFlags are the layout flags shared by justify and graph. Each one
// overrides the configuration file only when given.
type pageFlags struct {
	text          string
	font          string
	features      []string
	goal          int
	width         int
	margin        int
	fontSize      float64
	cost          string
	selector      string
	tolerance     int
	maxIterations int
	perLocation   int
	parallel      int
	noCache       bool
	refresh       bool
}

func (f *pageFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.text, "text", "", "text to justify (instead of a file)")
	flags.StringVar(&f.font, "font", "", "font file (default: bundled font)")
	flags.StringSliceVar(&f.features, "features", nil, "OpenType features, e.g. liga,-kern,ss01=2")
	flags.IntVar(&f.goal, "goal", 0, "goal line width in font units (default: derived from width, margin and font size)")
	flags.IntVar(&f.width, "width", config.DefaultWidth, "canvas width in pixels")
	flags.IntVar(&f.margin, "margin", config.DefaultMargin, "canvas margin in pixels")
	flags.Float64Var(&f.fontSize, "font-size", config.DefaultFontSize, "font size in pixels")
	flags.StringVar(&f.cost, "cost", pipeline.DefaultCost, "line cost: "+strings.Join(justify.CostPolicyNames(), ", "))
	flags.StringVar(&f.selector, "selector", pipeline.DefaultSelector, "path selector: dijkstra, dag")
	flags.IntVar(&f.tolerance, "tolerance", justify.DefaultTolerance, "accepted deviation from the goal in font units")
	flags.IntVar(&f.maxIterations, "max-iterations", justify.DefaultMaxIterations, "bisection steps per variation")
	flags.IntVar(&f.perLocation, "per-location", justify.DefaultPerLocation, "maximum kashidas per location")
	flags.IntVar(&f.parallel, "parallel", 1, "paragraphs justified concurrently")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	flags.BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
	registerPageCompletions(cmd)
}

// apply overrides opts with the flags that were set on cmd.
func (f *pageFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	changed := cmd.Flags().Changed
	if changed("font") {
		opts.FontPath = f.font
	}
	if changed("features") {
		opts.Features = f.features
	}
	if changed("goal") {
		opts.Goal = f.goal
	}
	if changed("width") {
		opts.Width = f.width
	}
	if changed("margin") {
		opts.Margin = f.margin
	}
	if changed("font-size") {
		opts.FontSize = f.fontSize
	}
	if changed("cost") {
		opts.Cost = f.cost
	}
	if changed("selector") {
		opts.Selector = f.selector
	}
	if changed("tolerance") {
		opts.Tolerance = f.tolerance
	}
	if changed("max-iterations") {
		opts.MaxIterations = f.maxIterations
	}
	if changed("per-location") {
		opts.PerLocation = f.perLocation
	}
	if changed("parallel") {
		opts.Parallel = f.parallel
	}
	opts.Refresh = f.refresh
}

// pageOptions resolves the configuration, the text and the flags into
// pipeline options.
func (c *CLI) pageOptions(cmd *cobra.Command, f *pageFlags, args []string) (*config.Config, pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	input := ""
	if len(args) > 0 {
		input = args[0]
	}
	text, err := readText(cmd.InOrStdin(), input, f.text, cfg)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	opts := pipeline.FromConfig(cfg, text)
	f.apply(cmd, &opts)
	opts.Logger = c.Logger
	return cfg, opts, nil
}

// readText returns inline text, the contents of input ("-" for stdin), or
// the text named by the configuration, in that order.
func readText(stdin io.Reader, input, inline string, cfg *config.Config) (string, error) {
	switch {
	case inline != "":
		return inline, nil
	case input == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case input != "":
		data, err := os.ReadFile(input)
		if err != nil {
			if os.IsNotExist(err) {
				return "", errors.Wrap(errors.ErrCodeNotFound, err, "text %s", input)
			}
			return "", fmt.Errorf("read %s: %w", input, err)
		}
		return string(data), nil
	}
	return cfg.LoadText()
}

// justifyCommand creates the justify command.
func (c *CLI) justifyCommand() *cobra.Command {
	var (
		flags      pageFlags
		formatsStr string
		output     string
		lineHeight float64
		embedFont  bool
	)

	cmd := &cobra.Command{
		Use:   "justify [text-file|-]",
		Short: "Justify text into lines of equal width",
		Long: `Justify text into lines of equal width.

The text comes from the file argument, from stdin with "-", from --text, or
from the configuration file. Paragraphs are separated by blank lines. Every
line but the last of a paragraph is brought to the goal width by varying the
configured font axes and word spacing, inserting kashidas for Arabic script
when that is not enough.

Output formats:
  json  line records (start, end, variation values, kashidas)
  svg   preview drawn with the font
  png   rasterized preview (requires rsvg-convert)
  pdf   vector preview (requires rsvg-convert)

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := c.pageOptions(cmd, &flags, args)
			if err != nil {
				return err
			}
			opts.Formats = parseFormats(formatsStr, pipeline.FormatJSON)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if cmd.Flags().Changed("line-height") {
				opts.LineHeight = lineHeight
			}
			opts.EmbedFont = embedFont

			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			return c.runJustify(cmd.Context(), cfg, opts, input, output, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file (single format; "-" for stdout) or base path (multiple)`)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), svg, png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&lineHeight, "line-height", config.DefaultLineHeight, "line height as a multiple of the font size")
	cmd.Flags().BoolVar(&embedFont, "embed-font", false, "embed the font in SVG output")
	cmd.RegisterFlagCompletionFunc("format", completeFormats(pipeline.ValidFormats))

	return cmd
}

// runJustify executes the pipeline and writes its outputs.
func (c *CLI) runJustify(ctx context.Context, cfg *config.Config, opts pipeline.Options, input, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Justifying...")
	observability.SetJustifyHooks(spinnerHooks{spinner: spinner, total: len(justify.Paragraphs(opts.Text))})
	defer observability.SetJustifyHooks(observability.NoopJustifyHooks{})
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Justification failed")
		return err
	}
	spinner.Stop()

	if output == "" && len(opts.Formats) == 1 && opts.Formats[0] == pipeline.FormatJSON && input == "" {
		output = "-"
	}
	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Justified %s", plural(result.Stats.Paragraphs, "paragraph")))
	if output != "-" {
		printStats(result.Stats, result.CacheInfo.JustifyHit)
		for _, p := range paths {
			if strings.HasSuffix(p, "."+pipeline.FormatJSON) {
				printNextStep("Browse lines", appName+" inspect "+p)
				break
			}
		}
	}
	return nil
}
