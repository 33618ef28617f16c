package tui

import (
	"errors"
	"fmt"
	"strings"

	"draftpad-cli/internal/api"
	"draftpad-cli/internal/model"
	"draftpad-cli/internal/session"
	"draftpad-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type view int

const (
	viewAuth view = iota
	viewProjects
	viewCreate
	viewEditor
)

type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

// editorTab selects which body a section shows; the choice is remembered
// per section while the project stays loaded.
type editorTab int

const (
	tabContent editorTab = iota
	tabNotes
)

// editorFocus routes keys inside the editor: the section outline, the body
// textarea, or the refine instruction input.
type editorFocus int

const (
	focusSections editorFocus = iota
	focusBody
	focusInstruction
)

type appModel struct {
	sess   *session.Session
	client *api.Client
	local  store.Local
	store  *store.Store

	width  int
	height int
	// We treat the very first WindowSizeMsg as initial sizing rather than a
	// user-driven resize.
	seenWindowSize bool

	view view
	// status is a transient one-line message (save confirmations, errors).
	status    string
	statusErr bool

	// Auth form.
	authMode  authMode
	authFocus int // 0=username 1=password
	userInput textinput.Model
	passInput textinput.Model
	authBusy  bool

	// Projects list.
	projectsList    list.Model
	projectsLoaded  bool
	projectsLoading bool
	projectLoading  bool

	// Create-project form.
	createFocus   int // 0=title 1=doc type 2=sections
	titleInput    textinput.Model
	sectionsInput textinput.Model
	docTypeIdx    int // index into docTypes
	createBusy    bool

	// Editor.
	sectionIdx    int
	tabs          map[int64]editorTab
	contentDrafts map[int64]string
	notesDrafts   map[int64]string
	focus         editorFocus
	body          textarea.Model
	bodyFor       int64 // section id currently loaded in the textarea
	bodyTab       editorTab
	instr         textinput.Model
	saving        map[int64]bool
	exporting     bool
}

var docTypes = []string{"docx", "pptx"}

type projectItem struct {
	p model.ProjectSummary
}

func (it projectItem) Title() string       { return it.p.Title }
func (it projectItem) Description() string { return it.p.DocType }
func (it projectItem) FilterValue() string { return it.p.Title }

func newAppModel(sess *session.Session, client *api.Client, local store.Local) *appModel {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 128
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 128
	pass.EchoMode = textinput.EchoPassword

	title := textinput.New()
	title.Placeholder = "Project title"
	title.CharLimit = 256

	sections := textinput.New()
	sections.Placeholder = "Introduction, Background, Conclusion"
	sections.CharLimit = 1024

	instr := textinput.New()
	instr.Placeholder = "e.g. Make it more formal"
	instr.CharLimit = 1024

	body := textarea.New()
	body.CharLimit = 0
	body.ShowLineNumbers = false

	pl := list.New(nil, newProjectDelegate(), 0, 0)
	pl.Title = "Your projects"
	pl.SetShowStatusBar(false)
	pl.SetShowHelp(false)
	pl.SetFilteringEnabled(false)
	pl.DisableQuitKeybindings()

	m := &appModel{
		sess:          sess,
		client:        client,
		local:         local,
		store:         store.New(),
		userInput:     user,
		passInput:     pass,
		titleInput:    title,
		sectionsInput: sections,
		instr:         instr,
		body:          body,
		projectsList:  pl,
		tabs:          map[int64]editorTab{},
		contentDrafts: map[int64]string{},
		notesDrafts:   map[int64]string{},
		saving:        map[int64]bool{},
	}
	if sess.State() == session.LoggedIn {
		m.view = viewProjects
	} else {
		m.view = viewAuth
	}
	return m
}

func (m *appModel) Init() tea.Cmd {
	if m.view != viewProjects {
		return textinput.Blink
	}
	m.projectsLoading = true
	return tea.Batch(m.loadProjectsCmd(), m.restoreLastCmd())
}

// enterAuthView resets to the login form. Idempotent: a second forced
// logout (e.g. two overlapping 401 teardowns) leaves the form untouched.
func (m *appModel) enterAuthView(notice string) {
	if m.view == viewAuth {
		if notice != "" {
			m.setErr(notice)
		}
		return
	}
	m.view = viewAuth
	m.authMode = modeLogin
	m.authFocus = 0
	m.authBusy = false
	m.userInput.SetValue("")
	m.passInput.SetValue("")
	m.userInput.Focus()
	m.passInput.Blur()
	m.store.ClearProject()
	m.resetEditor()
	if notice != "" {
		m.setErr(notice)
	} else {
		m.status = ""
	}
}

func (m *appModel) resetEditor() {
	m.sectionIdx = 0
	m.tabs = map[int64]editorTab{}
	m.contentDrafts = map[int64]string{}
	m.notesDrafts = map[int64]string{}
	m.saving = map[int64]bool{}
	m.focus = focusSections
	m.bodyFor = 0
	m.body.Blur()
	m.instr.Blur()
	m.instr.SetValue("")
}

func (m *appModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *appModel) setErr(s string) {
	m.status = s
	m.statusErr = true
}

func (m *appModel) friendlyStatus(err error) string {
	if errors.Is(err, api.ErrSessionExpired) {
		return "session expired, please log in again"
	}
	return err.Error()
}

// currentSection returns the focused section, clamping the cursor when the
// section count changed under it.
func (m *appModel) currentSection() (model.Section, bool) {
	secs := m.store.Sections()
	if len(secs) == 0 {
		return model.Section{}, false
	}
	if m.sectionIdx >= len(secs) {
		m.sectionIdx = len(secs) - 1
	}
	if m.sectionIdx < 0 {
		m.sectionIdx = 0
	}
	return secs[m.sectionIdx], true
}

func (m *appModel) sectionTab(id int64) editorTab {
	return m.tabs[id]
}

// draftFor returns the text the body pane should show for a section tab:
// the unsaved draft when one exists, otherwise the stored value.
func (m *appModel) draftFor(sec model.Section, tab editorTab) string {
	if tab == tabNotes {
		if d, ok := m.notesDrafts[sec.ID]; ok {
			return d
		}
		return sec.Notes
	}
	if d, ok := m.contentDrafts[sec.ID]; ok {
		return d
	}
	return sec.Content
}

func (m *appModel) hasDraft(sec model.Section, tab editorTab) bool {
	if tab == tabNotes {
		d, ok := m.notesDrafts[sec.ID]
		return ok && d != sec.Notes
	}
	d, ok := m.contentDrafts[sec.ID]
	return ok && d != sec.Content
}

// stashBody writes the textarea value back into the draft map so switching
// sections or tabs never loses typed text.
func (m *appModel) stashBody() {
	if m.bodyFor == 0 {
		return
	}
	if m.bodyTab == tabNotes {
		m.notesDrafts[m.bodyFor] = m.body.Value()
	} else {
		m.contentDrafts[m.bodyFor] = m.body.Value()
	}
}

// loadBody points the textarea at a section tab, seeding it from the draft
// or the stored value.
func (m *appModel) loadBody(sec model.Section, tab editorTab) {
	m.body.SetValue(m.draftFor(sec, tab))
	m.bodyFor = sec.ID
	m.bodyTab = tab
}

func (m *appModel) projectTitle() string {
	p := m.store.Project()
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%s (%s)", p.Title, p.DocType)
}

func feedbackBadge(v model.Feedback) string {
	switch v {
	case model.FeedbackLike:
		return glyphLike()
	case model.FeedbackDislike:
		return glyphDislike()
	default:
		return ""
	}
}

func tabName(t editorTab) string {
	if t == tabNotes {
		return "Notes"
	}
	return "Content"
}

func docTypeAt(i int) string {
	if i < 0 || i >= len(docTypes) {
		return docTypes[0]
	}
	return docTypes[i]
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
