package cli

import (
	"os"
	"strings"

	"draftpad-cli/internal/model"

	"github.com/spf13/cobra"
)

func newSectionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "Section commands",
	}
	cmd.AddCommand(newSectionsSaveCmd(app))
	cmd.AddCommand(newSectionsNotesCmd(app))
	cmd.AddCommand(newSectionsFeedbackCmd(app))
	cmd.AddCommand(newSectionsRefineCmd(app))
	return cmd
}

func newSectionsSaveCmd(app *App) *cobra.Command {
	var content, fromFile string

	cmd := &cobra.Command{
		Use:   "save <section-id>",
		Short: "Save section content (manual edit)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if fromFile != "" {
				b, err := os.ReadFile(fromFile)
				if err != nil {
					return writeErr(cmd, err)
				}
				content = string(b)
			}
			sess, client, err := connect(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := requireLogin(sess); err != nil {
				return writeErr(cmd, err)
			}
			upd := model.SectionUpdate{Content: &content}
			if err := client.UpdateSection(cmd.Context(), id, upd); err != nil {
				return writeErr(cmd, friendlyErr(err))
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"sectionId": id, "saved": "content"},
			})
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "New section content")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "Read content from a file instead of --content")
	return cmd
}

func newSectionsNotesCmd(app *App) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "notes <section-id>",
		Short: "Save private notes for a section",
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
			upd := model.SectionUpdate{Notes: &notes}
			if err := client.UpdateSection(cmd.Context(), id, upd); err != nil {
				return writeErr(cmd, friendlyErr(err))
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"sectionId": id, "saved": "notes"},
			})
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Notes text")
	return cmd
}

func newSectionsFeedbackCmd(app *App) *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "feedback <section-id>",
		Short: "Set thumbs-up/down feedback for a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			fb := model.Feedback(strings.TrimSpace(value))
			if fb == "none" {
				fb = model.FeedbackNone
			}
			if !model.ValidFeedback(fb) {
				return writeErr(cmd, errMissingField("value (like|dislike|none)"))
			}
			sess, client, err := connect(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := requireLogin(sess); err != nil {
				return writeErr(cmd, err)
			}
			upd := model.SectionUpdate{Feedback: &fb}
			if err := client.UpdateSection(cmd.Context(), id, upd); err != nil {
				return writeErr(cmd, friendlyErr(err))
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"sectionId": id, "feedback": fb},
			})
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "Feedback value (like|dislike|none)")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func newSectionsRefineCmd(app *App) *cobra.Command {
	var instruction string
	var apply bool

	cmd := &cobra.Command{
		Use:   "refine <section-id>",
		Short: "Generate an AI rewrite suggestion (preview only unless --apply)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(instruction) == "" {
				return writeErr(cmd, errMissingField("instruction"))
			}
			sess, client, err := connect(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := requireLogin(sess); err != nil {
				return writeErr(cmd, err)
			}

			preview, err := client.RefineSection(cmd.Context(), id, strings.TrimSpace(instruction))
			if err != nil {
				return writeErr(cmd, friendlyErr(err))
			}
			if !apply {
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{"sectionId": id, "previewContent": preview, "applied": false},
				})
			}

			// Apply = persist the suggestion through the same partial-update
			// path a manual save uses.
			upd := model.SectionUpdate{Content: &preview}
			if err := client.UpdateSection(cmd.Context(), id, upd); err != nil {
				return writeErr(cmd, friendlyErr(err))
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"sectionId": id, "previewContent": preview, "applied": true},
			})
		},
	}

	cmd.Flags().StringVar(&instruction, "instruction", "", "Rewrite instruction (e.g. \"Make it more formal\")")
	cmd.Flags().BoolVar(&apply, "apply", false, "Persist the suggestion instead of previewing")
	_ = cmd.MarkFlagRequired("instruction")
	return cmd
}
