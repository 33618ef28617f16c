package cli

import (
	"sort"
	"strconv"
	"strings"

	"draftpad-cli/internal/model"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsShowCmd(app))
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, client, err := connect(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := requireLogin(sess); err != nil {
				return writeErr(cmd, err)
			}
			projects, err := client.MyProjects(cmd.Context())
			if err != nil {
				return writeErr(cmd, friendlyErr(err))
			}
			if projects == nil {
				projects = []model.ProjectSummary{}
			}
			out := map[string]any{"data": projects}
			if len(projects) == 0 {
				out["meta"] = map[string]string{"hint": "no existing projects found"}
			}
			return writeOut(cmd, app, out)
		},
	}
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var title, docType, sectionsRaw string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project from an ordered, comma-separated section list",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validation happens before any network call.
			if strings.TrimSpace(title) == "" {
				return writeErr(cmd, errMissingField("title"))
			}
			names := model.ParseSectionNames(sectionsRaw)
			if len(names) == 0 {
				return writeErr(cmd, errMissingField("sections"))
			}
			sess, client, err := connect(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := requireLogin(sess); err != nil {
				return writeErr(cmd, err)
			}

			id, err := client.CreateProject(cmd.Context(), strings.TrimSpace(title), docType, names)
			if err != nil {
				return writeErr(cmd, friendlyErr(err))
			}
			// Mirror the interactive flow: creation transitions straight into
			// the loaded project.
			project, err := client.GetProject(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, friendlyErr(err))
			}
			sortSections(project)
			return writeOut(cmd, app, map[string]any{"data": project})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Project title")
	cmd.Flags().StringVar(&docType, "type", "docx", "Document type (docx|pptx)")
	cmd.Flags().StringVar(&sectionsRaw, "sections", "", "Comma-separated section names, in order")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("sections")
	return cmd
}

func newProjectsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Load a full project with its sections",
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
			project, err := client.GetProject(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, friendlyErr(err))
			}
			sortSections(project)
			return writeOut(cmd, app, map[string]any{"data": project})
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errInvalidID(s)
	}
	return id, nil
}

// sortSections mirrors the store's invariant for scriptable output:
// sections render ascending by order_index regardless of response order.
func sortSections(p *model.Project) {
	sort.SliceStable(p.Sections, func(i, j int) bool {
		return p.Sections[i].OrderIndex < p.Sections[j].OrderIndex
	})
}
