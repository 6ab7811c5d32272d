package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tatweel/pkg/config"
	"github.com/matzehuels/tatweel/pkg/pipeline"
)

// graphCommand creates the graph command for dumping a breakpoint graph.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags  pageFlags
		gopts  pipeline.GraphOptions
		output string
	)

	cmd := &cobra.Command{
		Use:   "graph [text-file|-]",
		Short: "Render the breakpoint graph of one paragraph",
		Long: `Render the breakpoint graph of one paragraph.

Nodes are break offsets reachable from the start of the paragraph; edges are
lines that fit the goal width. The line sequence chosen by the path selector
is drawn in red. With --kashida the edges that need kashida are included and
drawn dashed.

Formats: svg (default), dot, png, pdf.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := c.pageOptions(cmd, &flags, args)
			if err != nil {
				return err
			}
			if err := pipeline.ValidateGraphFormat(gopts.Format); err != nil {
				return err
			}
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			return c.runGraph(cmd.Context(), cfg, opts, gopts, input, output, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&gopts.Paragraph, "paragraph", "p", 0, "paragraph index (0-based)")
	cmd.Flags().BoolVarP(&gopts.Kashida, "kashida", "k", false, "include lines that need kashida")
	cmd.Flags().BoolVar(&gopts.Detailed, "detailed", false, "label nodes with the word before the break")
	cmd.Flags().StringVarP(&gopts.Format, "format", "f", pipeline.FormatSVG, "output format: svg, dot, png, pdf")
	cmd.RegisterFlagCompletionFunc("format", completeValues(pipeline.FormatSVG, pipeline.FormatDOT, pipeline.FormatPNG, pipeline.FormatPDF))
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file ("-" for stdout; default: <input>.graph.<format>)`)

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, cfg *config.Config, opts pipeline.Options, gopts pipeline.GraphOptions, input, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	f, err := runner.LoadFont(ctx, opts)
	if err != nil {
		return fmt.Errorf("font: %w", err)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Building graph of paragraph %d...", gopts.Paragraph))
	spinner.Start()
	data, cached, err := runner.GraphWithCacheInfo(ctx, f, opts, gopts)
	if err != nil {
		spinner.StopWithError("Graph failed")
		return err
	}
	spinner.Stop()

	if output == "" {
		output = basePath("", input) + ".graph." + gopts.Format
	}
	if err := writeFile(output, data); err != nil {
		return err
	}
	if output != "-" {
		status := iconFresh
		if cached {
			status = iconCached
		}
		printSuccess("Paragraph %d graph (%s)", gopts.Paragraph, status)
		printFile(output)
	}
	return nil
}
