package tui

import (
	"context"
	"time"

	"draftpad-cli/internal/export"
	"draftpad-cli/internal/model"
	"draftpad-cli/internal/session"
	"draftpad-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Network commands run off the update loop; every result comes back as a
// message so all model mutation stays single-threaded.

type sessionChangedMsg struct {
	state session.State
}

type authDoneMsg struct {
	mode authMode
	err  error
}

type projectsMsg struct {
	projects []model.ProjectSummary
	err      error
}

type projectMsg struct {
	project *model.Project
	err     error
}

// restoredMsg carries the persisted UI position (and, when restoring into
// the editor, the cached snapshot to show while the fresh load runs).
type restoredMsg struct {
	ui     *store.UIState
	cached *model.Project
}

type savedMsg struct {
	sectionID int64
	tab       editorTab
	value     string
	err       error
}

type feedbackMsg struct {
	sectionID int64
	value     model.Feedback
	err       error
}

type refineDoneMsg struct {
	sectionID int64
	seq       uint64
	preview   string
	err       error
}

type appliedMsg struct {
	sectionID int64
	content   string
	err       error
}

type exportDoneMsg struct {
	path string
	err  error
}

const requestTimeout = 30 * time.Second

// Generation is the one call that legitimately takes a while.
const refineTimeout = 2 * time.Minute

func reqCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func (m *appModel) loginCmd(username, password string) tea.Cmd {
	client, sess := m.client, m.sess
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		tok, err := client.Login(ctx, username, password)
		if err == nil {
			err = sess.SetToken(tok)
		}
		return authDoneMsg{mode: modeLogin, err: err}
	}
}

func (m *appModel) registerCmd(username, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		err := client.Register(ctx, username, password)
		return authDoneMsg{mode: modeRegister, err: err}
	}
}

func (m *appModel) loadProjectsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		ps, err := client.MyProjects(ctx)
		return projectsMsg{projects: ps, err: err}
	}
}

func (m *appModel) loadProjectCmd(id int64) tea.Cmd {
	client, local := m.client, m.local
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		p, err := client.GetProject(ctx, id)
		if err == nil {
			// Best effort; the editor works without the local snapshot.
			_ = local.CacheProject(ctx, p)
			_ = local.SaveUIState(ctx, &store.UIState{View: "editor", LastProjectID: p.ID})
		}
		return projectMsg{project: p, err: err}
	}
}

func (m *appModel) createProjectCmd(title, docType string, sections []string) tea.Cmd {
	client, local := m.client, m.local
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		id, err := client.CreateProject(ctx, title, docType, sections)
		if err != nil {
			return projectMsg{err: err}
		}
		p, err := client.GetProject(ctx, id)
		if err == nil {
			_ = local.CacheProject(ctx, p)
			_ = local.SaveUIState(ctx, &store.UIState{View: "editor", LastProjectID: p.ID})
		}
		return projectMsg{project: p, err: err}
	}
}

// restoreLastCmd reads the persisted UI position. Only an editor position is
// interesting; anything else lands on the projects list anyway.
func (m *appModel) restoreLastCmd() tea.Cmd {
	local := m.local
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		ui, err := local.LoadUIState(ctx)
		if err != nil || ui == nil {
			return restoredMsg{}
		}
		msg := restoredMsg{ui: ui}
		if ui.View == "editor" && ui.LastProjectID > 0 {
			if p, ok, err := local.CachedProject(ctx, ui.LastProjectID); err == nil && ok {
				msg.cached = p
			}
		}
		return msg
	}
}

func (m *appModel) saveSectionCmd(sectionID int64, tab editorTab, value string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		upd := model.SectionUpdate{}
		if tab == tabNotes {
			upd.Notes = &value
		} else {
			upd.Content = &value
		}
		err := client.UpdateSection(ctx, sectionID, upd)
		return savedMsg{sectionID: sectionID, tab: tab, value: value, err: err}
	}
}

func (m *appModel) feedbackCmd(sectionID int64, v model.Feedback) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		fb := v
		err := client.UpdateSection(ctx, sectionID, model.SectionUpdate{Feedback: &fb})
		return feedbackMsg{sectionID: sectionID, value: v, err: err}
	}
}

func (m *appModel) refineCmd(sectionID int64, seq uint64, instruction string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refineTimeout)
		defer cancel()
		preview, err := client.RefineSection(ctx, sectionID, instruction)
		return refineDoneMsg{sectionID: sectionID, seq: seq, preview: preview, err: err}
	}
}

func (m *appModel) applyCmd(sectionID int64, content string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		err := client.UpdateSection(ctx, sectionID, model.SectionUpdate{Content: &content})
		return appliedMsg{sectionID: sectionID, content: content, err: err}
	}
}

func (m *appModel) exportCmd(projectID int64, docType string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		body, err := client.ExportProject(ctx, projectID)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path, err := export.Write(".", docType, body)
		return exportDoneMsg{path: path, err: err}
	}
}

func (m *appModel) saveUIStateCmd(st store.UIState) tea.Cmd {
	local := m.local
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		_ = local.SaveUIState(ctx, &st)
		return nil
	}
}
