package tui

import (
	"draftpad-cli/internal/api"
	"draftpad-cli/internal/session"
	"draftpad-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive editor. Session transitions (including a 401
// teardown triggered from a background network command) are forwarded into
// the program loop so the UI reacts no matter where the invalidation came
// from.
func Run(sess *session.Session, client *api.Client, local store.Local) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference()

	m := newAppModel(sess, client, local)
	p := tea.NewProgram(m, tea.WithAltScreen())
	sess.Subscribe(func(st session.State) {
		p.Send(sessionChangedMsg{state: st})
	})
	_, err := p.Run()
	return err
}
