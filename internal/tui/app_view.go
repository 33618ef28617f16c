package tui

import (
	"fmt"
	"strings"

	"draftpad-cli/internal/model"
	"draftpad-cli/internal/store"

	"github.com/charmbracelet/lipgloss"
)

func (m *appModel) View() string {
	var body string
	switch m.view {
	case viewAuth:
		body = m.viewAuthForm()
	case viewProjects:
		body = m.viewProjects()
	case viewCreate:
		body = m.viewCreateForm()
	case viewEditor:
		body = m.viewEditor()
	}
	return body
}

func (m *appModel) statusLine() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return styleError().Render(m.status)
	}
	return styleOK().Render(m.status)
}

func (m *appModel) chrome(title, body, hints string) string {
	w := m.width
	if w <= 0 {
		w = 80
	}
	header := styleHeading().Render("draftpad") + "  " + styleMuted().Render(title)
	rule := styleMuted().Render(strings.Repeat(glyphHRule(), minInt(w, 78)))

	parts := []string{header, rule, body}
	if st := m.statusLine(); st != "" {
		parts = append(parts, "", st)
	}
	if hints != "" {
		parts = append(parts, "", styleMuted().Render(hints))
	}
	return strings.Join(parts, "\n")
}

func (m *appModel) viewAuthForm() string {
	formW := 44

	var modeLine string
	login := " Log in "
	register := " Register "
	if m.authMode == modeLogin {
		modeLine = styleSelected().Render(login) + " " + styleMuted().Render(register)
	} else {
		modeLine = styleMuted().Render(login) + " " + styleSelected().Render(register)
	}

	lines := []string{
		modeLine,
		"",
		"Username",
		renderInputLine(formW, m.userInput.View()),
		"",
		"Password",
		renderInputLine(formW, m.passInput.View()),
	}
	if m.authBusy {
		if m.authMode == modeRegister {
			lines = append(lines, "", styleMuted().Render("registering…"))
		} else {
			lines = append(lines, "", styleMuted().Render("signing in…"))
		}
	}

	hints := "enter submit " + glyphBullet() + " tab switch field " + glyphBullet() +
		" ctrl+t login/register " + glyphBullet() + " ctrl+c quit"
	return m.chrome(m.sess.ServerURL(), strings.Join(lines, "\n"), hints)
}

func (m *appModel) viewProjects() string {
	var body string
	switch {
	case m.projectsLoading && !m.projectsLoaded:
		body = styleMuted().Render("loading projects…")
	case m.projectsLoaded && len(m.projectsList.Items()) == 0:
		// The empty list is a real state, not an error.
		body = "No existing projects found.\n\n" +
			styleMuted().Render("Press n to create your first project.")
	default:
		body = m.projectsList.View()
	}

	hints := "enter open " + glyphBullet() + " n new " + glyphBullet() + " r reload " +
		glyphBullet() + " ctrl+l logout " + glyphBullet() + " q quit"
	return m.chrome("projects", body, hints)
}

func (m *appModel) viewCreateForm() string {
	formW := 54

	label := func(i int, s string) string {
		if m.createFocus == i {
			return styleHeading().Render(s)
		}
		return styleMuted().Render(s)
	}

	var typeLine string
	for i, dt := range docTypes {
		tag := " " + dt + " "
		if i == m.docTypeIdx {
			tag = styleSelected().Render(tag)
		} else {
			tag = styleMuted().Render(tag)
		}
		typeLine += tag + " "
	}

	lines := []string{
		styleHeading().Render("New project"),
		"",
		label(0, "Title"),
		renderInputLine(formW, m.titleInput.View()),
		"",
		label(1, "Document type"),
		typeLine,
		"",
		label(2, "Sections (comma-separated, in order)"),
		renderInputLine(formW, m.sectionsInput.View()),
	}
	if m.createBusy {
		lines = append(lines, "", styleMuted().Render("creating project and generating sections…"))
	}

	hints := "enter create " + glyphBullet() + " tab next field " + glyphBullet() +
		" space toggle type " + glyphBullet() + " esc back"
	return m.chrome("new project", strings.Join(lines, "\n"), hints)
}

func (m *appModel) viewEditor() string {
	secs := m.store.Sections()
	sec, hasSec := m.currentSection()
	sectionW, bodyW := m.editorWidths()
	paneH := maxInt(m.height-6, 8)

	left := m.renderSectionOutline(secs, sectionW)
	var right string
	if hasSec {
		right = m.renderSectionBody(sec, bodyW-2)
	} else {
		right = styleMuted().Render("this project has no sections")
	}

	panes := lipgloss.JoinHorizontal(
		lipgloss.Top,
		normalizePane(left, sectionW, paneH),
		normalizePane(" ", 1, paneH),
		normalizePane(right, bodyW-2, paneH),
	)

	hints := m.editorHints()
	return m.chrome(m.projectTitle(), panes, hints)
}

func (m *appModel) renderSectionOutline(secs []model.Section, width int) string {
	var b strings.Builder
	b.WriteString(styleMuted().Render("Sections") + "\n")
	for i, s := range secs {
		marker := "  "
		if i == m.sectionIdx {
			marker = glyphCursor() + " "
		}
		line := marker + s.Title
		if badge := feedbackBadge(s.Feedback); badge != "" {
			line += " " + badge
		}
		if m.hasDraft(s, tabContent) || m.hasDraft(s, tabNotes) {
			line += " *"
		}
		switch m.store.Refine(s.ID).Phase {
		case store.RefineGenerating:
			line += " " + styleMuted().Render("(generating)")
		case store.RefinePreviewing:
			line += " " + styleMuted().Render("(preview)")
		}
		line = truncateLine(line, width)
		if i == m.sectionIdx {
			line = styleSelected().Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m *appModel) renderSectionBody(sec model.Section, width int) string {
	tab := m.sectionTab(sec.ID)

	var tabsLine string
	for _, t := range []editorTab{tabContent, tabNotes} {
		name := " " + tabName(t) + " "
		if t == tab {
			tabsLine += styleSelected().Render(name)
		} else {
			tabsLine += styleMuted().Render(name)
		}
		tabsLine += " "
	}
	if m.saving[sec.ID] {
		tabsLine += styleMuted().Render("saving…")
	}

	var bodyText string
	if m.focus == focusBody && m.bodyFor == sec.ID && m.bodyTab == tab {
		bodyText = m.body.View()
	} else if tab == tabContent {
		bodyText = renderMarkdown(m.draftFor(sec, tab), width)
		if bodyText == "" {
			bodyText = styleMuted().Render("(empty)")
		}
	} else {
		bodyText = m.draftFor(sec, tab)
		if strings.TrimSpace(bodyText) == "" {
			bodyText = styleMuted().Render("(no notes yet)")
		}
	}

	parts := []string{
		styleHeading().Render(sec.Title),
		tabsLine,
		"",
		bodyText,
	}
	if refine := m.renderRefine(sec, width); refine != "" {
		parts = append(parts, "", refine)
	}
	return strings.Join(parts, "\n")
}

// renderRefine draws the per-section AI tool for whatever phase the section
// is in. The workflow state lives in the store; this only projects it.
func (m *appModel) renderRefine(sec model.Section, width int) string {
	rs := m.store.Refine(sec.ID)
	rule := styleMuted().Render(strings.Repeat(glyphHRule(), minInt(width, 60)))

	switch rs.Phase {
	case store.RefinePrompting:
		lines := []string{
			rule,
			styleHeading().Render("Refine with AI"),
			renderInputLine(minInt(width, 60), m.instr.View()),
			styleMuted().Render("enter generate " + glyphBullet() + " esc cancel"),
		}
		return strings.Join(lines, "\n")
	case store.RefineGenerating:
		return rule + "\n" + styleMuted().Render("Generating…")
	case store.RefinePreviewing:
		lines := []string{
			rule,
			styleHeading().Render("Suggestion") + "  " +
				styleMuted().Render(fmt.Sprintf("(for: %s)", rs.Instruction)),
			renderMarkdown(rs.Preview, width),
			"",
			styleOK().Render("y apply") + "  " + styleError().Render("n discard"),
		}
		return strings.Join(lines, "\n")
	}
	return ""
}

func (m *appModel) editorHints() string {
	switch m.focus {
	case focusBody:
		return "ctrl+s save " + glyphBullet() + " esc done editing"
	case focusInstruction:
		return "enter generate " + glyphBullet() + " esc cancel"
	}
	return joinNonEmpty(" "+glyphBullet()+" ",
		"j/k section", "enter edit", "tab content/notes", "a refine",
		"+/- feedback", "x export", "r reload", "esc projects", "q quit")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
