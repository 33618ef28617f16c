package tui

import (
	"strings"

	"draftpad-cli/internal/model"
	"draftpad-cli/internal/session"
	"draftpad-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		m.applySizes()
		return m, nil

	case sessionChangedMsg:
		return m.updateSessionChanged(msg)

	case authDoneMsg:
		return m.updateAuthDone(msg)

	case projectsMsg:
		m.projectsLoading = false
		if msg.err != nil {
			m.setErr(m.friendlyStatus(msg.err))
			return m, nil
		}
		m.projectsLoaded = true
		m.setProjectItems(msg.projects)
		return m, nil

	case projectMsg:
		return m.updateProjectLoaded(msg)

	case restoredMsg:
		return m.updateRestored(msg)

	case savedMsg:
		return m.updateSaved(msg)

	case feedbackMsg:
		delete(m.saving, msg.sectionID)
		if msg.err != nil {
			m.setErr(m.friendlyStatus(msg.err))
			return m, nil
		}
		m.store.SetFeedback(msg.sectionID, msg.value)
		return m, nil

	case refineDoneMsg:
		return m.updateRefineDone(msg)

	case appliedMsg:
		delete(m.saving, msg.sectionID)
		if msg.err != nil {
			m.setErr(m.friendlyStatus(msg.err))
			return m, nil
		}
		m.store.SetContent(msg.sectionID, msg.content)
		m.store.DiscardRefine(msg.sectionID)
		m.setStatus("suggestion applied")
		return m, nil

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.setErr(m.friendlyStatus(msg.err))
			return m, nil
		}
		m.setStatus("exported to " + msg.path)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case viewAuth:
			return m.updateAuthKeys(msg)
		case viewProjects:
			return m.updateProjectsKeys(msg)
		case viewCreate:
			return m.updateCreateKeys(msg)
		case viewEditor:
			return m.updateEditorKeys(msg)
		}
	}
	return m, nil
}

func (m *appModel) applySizes() {
	w, h := m.width, m.height
	if w <= 0 || h <= 0 {
		return
	}
	m.projectsList.SetSize(w-2, maxInt(h-6, 3))

	_, bodyW := m.editorWidths()
	m.body.SetWidth(maxInt(bodyW-2, 20))
	m.body.SetHeight(maxInt(h-10, 4))
}

// editorWidths splits the editor into the section outline pane and the body pane.
func (m *appModel) editorWidths() (sectionW, bodyW int) {
	w := m.width
	if w <= 0 {
		w = 80
	}
	sectionW = w / 3
	if sectionW > 32 {
		sectionW = 32
	}
	if sectionW < 16 {
		sectionW = 16
	}
	bodyW = w - sectionW - 1
	if bodyW < 20 {
		bodyW = 20
	}
	return sectionW, bodyW
}

func (m *appModel) setProjectItems(ps []model.ProjectSummary) {
	items := make([]list.Item, 0, len(ps))
	for _, p := range ps {
		items = append(items, projectItem{p: p})
	}
	m.projectsList.SetItems(items)
}

func (m *appModel) updateSessionChanged(msg sessionChangedMsg) (tea.Model, tea.Cmd) {
	switch msg.state {
	case session.LoggedOut:
		// Forced teardown (401) and explicit logout both land here. The form
		// reset is idempotent so duplicate notifications are harmless.
		m.enterAuthView("")
		return m, nil
	case session.LoggedIn:
		if m.view == viewAuth {
			m.view = viewProjects
			m.authBusy = false
			if !m.projectsLoading {
				m.projectsLoading = true
				return m, m.loadProjectsCmd()
			}
		}
	}
	return m, nil
}

func (m *appModel) updateAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	m.authBusy = false
	if msg.err != nil {
		m.setErr(msg.err.Error())
		return m, nil
	}
	if msg.mode == modeRegister {
		// Registration never logs in; switch to the login form with the
		// username kept so the user only retypes the password.
		m.authMode = modeLogin
		m.authFocus = 1
		m.userInput.Blur()
		m.passInput.SetValue("")
		m.passInput.Focus()
		m.setStatus("registration successful, please log in")
		return m, nil
	}
	// Login success: the session notification normally moves us to the
	// projects view; cover the case where it was processed first.
	if m.view == viewAuth && m.sess.State() == session.LoggedIn {
		m.view = viewProjects
	}
	if m.view == viewProjects && !m.projectsLoading && !m.projectsLoaded {
		m.projectsLoading = true
		return m, m.loadProjectsCmd()
	}
	return m, nil
}

func (m *appModel) updateProjectLoaded(msg projectMsg) (tea.Model, tea.Cmd) {
	m.projectLoading = false
	m.createBusy = false
	if msg.err != nil {
		// Stay on whatever view initiated the load (projects list or the
		// create form) with the failure shown; no state is half-applied.
		m.setErr(m.friendlyStatus(msg.err))
		return m, nil
	}
	if cur, ok := m.store.CurrentProjectID(); ok && cur == msg.project.ID {
		// Refresh of the already-open project: keep cursor, tabs and drafts.
		m.store.SetProject(msg.project)
	} else {
		m.store.SetProject(msg.project)
		m.resetEditor()
	}
	m.view = viewEditor
	m.status = ""
	return m, nil
}

func (m *appModel) updateRestored(msg restoredMsg) (tea.Model, tea.Cmd) {
	if m.view != viewProjects || msg.ui == nil {
		return m, nil
	}
	if msg.ui.View != "editor" || msg.ui.LastProjectID <= 0 {
		return m, nil
	}
	if msg.cached != nil {
		// Show the snapshot immediately; the fresh load below replaces it.
		m.store.SetProject(msg.cached)
		m.resetEditor()
		m.view = viewEditor
	}
	m.projectLoading = true
	return m, m.loadProjectCmd(msg.ui.LastProjectID)
}

func (m *appModel) updateSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	delete(m.saving, msg.sectionID)
	if msg.err != nil {
		m.setErr(m.friendlyStatus(msg.err))
		return m, nil
	}
	if msg.tab == tabNotes {
		m.store.SetNotes(msg.sectionID, msg.value)
		if d, ok := m.notesDrafts[msg.sectionID]; ok && d == msg.value {
			delete(m.notesDrafts, msg.sectionID)
		}
	} else {
		m.store.SetContent(msg.sectionID, msg.value)
		if d, ok := m.contentDrafts[msg.sectionID]; ok && d == msg.value {
			delete(m.contentDrafts, msg.sectionID)
		}
	}
	m.setStatus("saved")
	return m, nil
}

func (m *appModel) updateRefineDone(msg refineDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Back to the prompt (instruction retained) so the user can retry.
		// Stale failures are dropped by the seq check.
		if m.store.FailGenerate(msg.sectionID, msg.seq) {
			m.setErr("refine failed: " + m.friendlyStatus(msg.err))
			if sec, ok := m.currentSection(); ok && sec.ID == msg.sectionID && m.view == viewEditor {
				m.instr.SetValue(m.store.Refine(msg.sectionID).Instruction)
				m.instr.Focus()
				m.focus = focusInstruction
				return m, textinput.Blink
			}
		}
		return m, nil
	}
	// Stale successes (an older request finishing after a newer one started)
	// are dropped the same way.
	m.store.FinishGenerate(msg.sectionID, msg.seq, msg.preview)
	return m, nil
}

func (m *appModel) updateAuthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		if m.authFocus == 0 {
			m.authFocus = 1
			m.userInput.Blur()
			m.passInput.Focus()
		} else {
			m.authFocus = 0
			m.passInput.Blur()
			m.userInput.Focus()
		}
		return m, textinput.Blink
	case "ctrl+t":
		if m.authMode == modeLogin {
			m.authMode = modeRegister
		} else {
			m.authMode = modeLogin
		}
		m.status = ""
		return m, nil
	case "enter":
		if m.authBusy {
			return m, nil
		}
		username := strings.TrimSpace(m.userInput.Value())
		password := m.passInput.Value()
		if username == "" || password == "" {
			m.setErr("username and password are required")
			return m, nil
		}
		m.authBusy = true
		m.status = ""
		if m.authMode == modeRegister {
			return m, m.registerCmd(username, password)
		}
		return m, m.loginCmd(username, password)
	}

	var cmd tea.Cmd
	if m.authFocus == 0 {
		m.userInput, cmd = m.userInput.Update(msg)
	} else {
		m.passInput, cmd = m.passInput.Update(msg)
	}
	return m, cmd
}

func (m *appModel) updateProjectsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "n":
		m.view = viewCreate
		m.createFocus = 0
		m.createBusy = false
		m.docTypeIdx = 0
		m.titleInput.SetValue("")
		m.sectionsInput.SetValue("")
		m.titleInput.Focus()
		m.sectionsInput.Blur()
		m.status = ""
		return m, textinput.Blink
	case "r":
		if m.projectsLoading {
			return m, nil
		}
		m.projectsLoading = true
		return m, m.loadProjectsCmd()
	case "ctrl+l":
		if err := m.sess.Clear(); err != nil {
			m.setErr(err.Error())
			return m, nil
		}
		m.enterAuthView("")
		m.setStatus("logged out")
		return m, nil
	case "enter":
		if m.projectLoading {
			return m, nil
		}
		it, ok := m.projectsList.SelectedItem().(projectItem)
		if !ok {
			return m, nil
		}
		m.projectLoading = true
		m.setStatus("loading " + it.p.Title + "…")
		return m, m.loadProjectCmd(it.p.ID)
	}

	var cmd tea.Cmd
	m.projectsList, cmd = m.projectsList.Update(msg)
	return m, cmd
}

func (m *appModel) updateCreateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = viewProjects
		m.status = ""
		return m, nil
	case "tab", "down":
		m.setCreateFocus((m.createFocus + 1) % 3)
		return m, textinput.Blink
	case "shift+tab", "up":
		m.setCreateFocus((m.createFocus + 2) % 3)
		return m, textinput.Blink
	case "left", "right", " ":
		if m.createFocus == 1 {
			m.docTypeIdx = (m.docTypeIdx + 1) % len(docTypes)
			return m, nil
		}
	case "enter":
		if m.createBusy {
			return m, nil
		}
		title := strings.TrimSpace(m.titleInput.Value())
		if title == "" {
			m.setErr("title is required")
			return m, nil
		}
		names := model.ParseSectionNames(m.sectionsInput.Value())
		if len(names) == 0 {
			m.setErr("at least one section name is required")
			return m, nil
		}
		m.createBusy = true
		m.status = ""
		return m, m.createProjectCmd(title, docTypeAt(m.docTypeIdx), names)
	}

	var cmd tea.Cmd
	switch m.createFocus {
	case 0:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case 2:
		m.sectionsInput, cmd = m.sectionsInput.Update(msg)
	}
	return m, cmd
}

func (m *appModel) setCreateFocus(f int) {
	m.createFocus = f
	m.titleInput.Blur()
	m.sectionsInput.Blur()
	switch f {
	case 0:
		m.titleInput.Focus()
	case 2:
		m.sectionsInput.Focus()
	}
}

func (m *appModel) updateEditorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusBody:
		return m.updateBodyKeys(msg)
	case focusInstruction:
		return m.updateInstructionKeys(msg)
	}
	return m.updateSectionKeys(msg)
}

func (m *appModel) updateBodyKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.stashBody()
		m.body.Blur()
		m.focus = focusSections
		return m, nil
	case "ctrl+s":
		value := m.body.Value()
		m.stashBody()
		if m.saving[m.bodyFor] {
			return m, nil
		}
		m.saving[m.bodyFor] = true
		m.setStatus("saving…")
		return m, m.saveSectionCmd(m.bodyFor, m.bodyTab, value)
	}

	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

func (m *appModel) updateInstructionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sec, ok := m.currentSection()
	if !ok {
		m.focus = focusSections
		return m, nil
	}
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.store.ToggleRefine(sec.ID)
		m.instr.Blur()
		m.focus = focusSections
		return m, nil
	case "enter":
		seq, ok := m.store.BeginGenerate(sec.ID, m.instr.Value())
		if !ok {
			m.setErr("an instruction is required")
			return m, nil
		}
		m.instr.Blur()
		m.focus = focusSections
		m.status = ""
		return m, m.refineCmd(sec.ID, seq, strings.TrimSpace(m.instr.Value()))
	}

	var cmd tea.Cmd
	m.instr, cmd = m.instr.Update(msg)
	return m, cmd
}

func (m *appModel) updateSectionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sec, hasSec := m.currentSection()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.sectionIdx > 0 {
			m.sectionIdx--
		}
		return m, nil
	case "down", "j":
		if m.sectionIdx < len(m.store.Sections())-1 {
			m.sectionIdx++
		}
		return m, nil
	case "tab":
		if hasSec {
			if m.tabs[sec.ID] == tabContent {
				m.tabs[sec.ID] = tabNotes
			} else {
				m.tabs[sec.ID] = tabContent
			}
		}
		return m, nil
	case "enter", "e":
		if !hasSec {
			return m, nil
		}
		m.loadBody(sec, m.sectionTab(sec.ID))
		m.focus = focusBody
		return m, m.body.Focus()
	case "a":
		if !hasSec {
			return m, nil
		}
		rs := m.store.ToggleRefine(sec.ID)
		if rs.Phase == store.RefinePrompting {
			m.instr.SetValue(rs.Instruction)
			m.instr.Focus()
			m.focus = focusInstruction
			return m, textinput.Blink
		}
		return m, nil
	case "y":
		if !hasSec {
			return m, nil
		}
		preview, ok := m.store.PreviewText(sec.ID)
		if !ok || m.saving[sec.ID] {
			return m, nil
		}
		m.saving[sec.ID] = true
		m.setStatus("applying…")
		return m, m.applyCmd(sec.ID, preview)
	case "n":
		if hasSec && m.store.Refine(sec.ID).Phase == store.RefinePreviewing {
			m.store.DiscardRefine(sec.ID)
			m.setStatus("suggestion discarded")
		}
		return m, nil
	case "+", "=":
		return m.toggleFeedback(sec, hasSec, model.FeedbackLike)
	case "-", "_":
		return m.toggleFeedback(sec, hasSec, model.FeedbackDislike)
	case "x":
		if m.exporting {
			return m, nil
		}
		p := m.store.Project()
		if p == nil {
			return m, nil
		}
		m.exporting = true
		m.setStatus("exporting…")
		return m, m.exportCmd(p.ID, p.DocType)
	case "r":
		if m.projectLoading {
			return m, nil
		}
		if id, ok := m.store.CurrentProjectID(); ok {
			m.projectLoading = true
			return m, m.loadProjectCmd(id)
		}
		return m, nil
	case "esc", "b":
		m.store.ClearProject()
		m.resetEditor()
		m.view = viewProjects
		m.status = ""
		cmds := []tea.Cmd{m.saveUIStateCmd(store.UIState{View: "projects"})}
		if !m.projectsLoading {
			m.projectsLoading = true
			cmds = append(cmds, m.loadProjectsCmd())
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

// toggleFeedback sends the new value to the server; pressing the active
// value again clears it. The local copy changes only after the server
// accepts the update.
func (m *appModel) toggleFeedback(sec model.Section, hasSec bool, v model.Feedback) (tea.Model, tea.Cmd) {
	if !hasSec || m.saving[sec.ID] {
		return m, nil
	}
	if sec.Feedback == v {
		v = model.FeedbackNone
	}
	m.saving[sec.ID] = true
	return m, m.feedbackCmd(sec.ID, v)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
