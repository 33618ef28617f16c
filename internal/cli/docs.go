package cli

import (
	"fmt"
	"strings"

	"draftpad-cli/internal/docs"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show the built-in user guide",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Available topics:")
				for _, t := range docs.Topics() {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", t)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "\nUse `draftpad docs <topic>`.")
				return nil
			}

			body, ok := docs.Get(args[0])
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown topic %q (try `draftpad docs`)", args[0]))
			}
			if plain {
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(body))
				return nil
			}
			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(80),
			)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(body))
				return nil
			}
			out, err := r.Render(body)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(body))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print raw markdown without terminal styling")
	return cmd
}
