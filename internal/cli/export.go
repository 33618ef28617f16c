package cli

import (
	"draftpad-cli/internal/export"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Export a project as a document file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, client, err := connect(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := requireLogin(sess); err != nil {
				return writeErr(cmd, err)
			}

			// The filename extension comes from the project's declared
			// document type, so load the project first.
			project, err := client.GetProject(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, friendlyErr(err))
			}
			body, err := client.ExportProject(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, friendlyErr(err))
			}
			path, err := export.Write(outDir, project.DocType, body)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"projectId": id, "path": path, "bytes": len(body)},
			})
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "Directory to write the exported document into")
	return cmd
}
