package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	tio "github.com/matzehuels/tatweel/pkg/io"
)

// inspectCommand creates the inspect command for browsing a justified page.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [page.json]",
		Short: "Browse the lines of a justified page",
		Long: `Browse the lines of a justified page.

The input is the JSON written by 'justify'. The interactive view lists every
line with its paragraph, byte range, kashidas and variation values; the
selected line's text is shown in full below the table.

Use --plain to print the table without the interactive view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := tio.ImportJSON(args[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			m := NewLineListModel(doc)
			if plain {
				fmt.Fprintln(cmd.OutOrStdout(), m.Table(0, len(m.Rows), -1))
				return nil
			}
			_, err = tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the table and exit")
	return cmd
}
