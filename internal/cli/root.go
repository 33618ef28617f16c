package cli

import (
	"errors"
	"os"
	"strings"

	"draftpad-cli/internal/api"
	"draftpad-cli/internal/format"
	"draftpad-cli/internal/session"
	"draftpad-cli/internal/store"
	"draftpad-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigDir  string
	Server     string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "draftpad",
		Short: "Draftpad document-drafting client (CLI + TUI)",
		// Cobra prints the returned error once; suppress the usage dump that
		// would otherwise follow every runtime failure.
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  draftpad

  # Scriptable commands
  draftpad login --username alice --password pw1
  draftpad projects create --title Report --type docx --sections "Intro,Body"
  draftpad sections refine 7 --instruction "Make it more formal"
  draftpad export 3
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr("DRAFTPAD_CONFIG_DIR", ""), "Path to config/state dir (default: ~/.draftpad)")
	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("DRAFTPAD_SERVER", ""), "Backend base URL (persisted on use)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newSectionsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	sess, client, err := connect(app)
	if err != nil {
		return err
	}
	local, err := localState(app)
	if err != nil {
		return err
	}
	return tui.Run(sess, client, local)
}

func configDir(app *App) (string, error) {
	if app.ConfigDir != "" {
		return app.ConfigDir, nil
	}
	return session.ConfigDir()
}

// connect loads the durable session and builds the authenticated pipeline.
// A --server override is persisted so later invocations keep talking to the
// same backend.
func connect(app *App) (*session.Session, *api.Client, error) {
	dir, err := configDir(app)
	if err != nil {
		return nil, nil, err
	}
	sess, err := session.Load(dir)
	if err != nil {
		return nil, nil, err
	}
	if app.Server != "" && app.Server != sess.ServerURL() {
		if err := sess.SetServerURL(app.Server); err != nil {
			return nil, nil, err
		}
	}
	return sess, api.New(sess.ServerURL(), sess), nil
}

func localState(app *App) (store.Local, error) {
	dir, err := configDir(app)
	if err != nil {
		return store.Local{}, err
	}
	return store.Local{Dir: dir}, nil
}

func requireLogin(sess *session.Session) error {
	if sess.State() != session.LoggedIn {
		return errNotLoggedIn
	}
	return nil
}

// friendlyErr maps pipeline-level failures to actionable messages. By the
// time a session-expired error surfaces here, the credential is already
// cleared.
func friendlyErr(err error) error {
	if errors.Is(err, api.ErrSessionExpired) {
		return errors.New("session expired; run `draftpad login`")
	}
	return err
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

// writeErr returns err for cobra to report; kept as a seam so commands can
// uniformly route failures (and so structured error output can be added in
// one place).
func writeErr(_ *cobra.Command, err error) error {
	return err
}
