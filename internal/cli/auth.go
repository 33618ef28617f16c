package cli

import (
	"strings"

	"draftpad-cli/internal/session"

	"github.com/spf13/cobra"
)

func newRegisterCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(username) == "" {
				return writeErr(cmd, errMissingField("username"))
			}
			if password == "" {
				return writeErr(cmd, errMissingField("password"))
			}
			_, client, err := connect(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.Register(cmd.Context(), username, password); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]string{"message": "registration successful; please login"},
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Account username")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange credentials for a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(username) == "" {
				return writeErr(cmd, errMissingField("username"))
			}
			if password == "" {
				return writeErr(cmd, errMissingField("password"))
			}
			sess, client, err := connect(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			tok, err := client.Login(cmd.Context(), username, password)
			if err != nil {
				// Generic message; the credential (if any) stays untouched.
				return writeErr(cmd, err)
			}
			if err := sess.SetToken(tok); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]string{"status": "logged in", "server": client.BaseURL()},
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Account username")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := connect(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.Clear(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]string{"status": "logged out"},
			})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, client, err := connect(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"server":   client.BaseURL(),
					"loggedIn": sess.State() == session.LoggedIn,
				},
			})
		},
	}
}
