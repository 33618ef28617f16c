package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// projectDelegate renders one project per row: title plus a muted document
// type tag, with the selection cursor on the active row.
type projectDelegate struct{}

func newProjectDelegate() projectDelegate { return projectDelegate{} }

func (projectDelegate) Height() int                             { return 1 }
func (projectDelegate) Spacing() int                            { return 0 }
func (projectDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(projectItem)
	if !ok {
		return
	}

	width := m.Width()
	if width <= 0 {
		width = 80
	}

	if index == m.Index() {
		line := fmt.Sprintf("%s %s  .%s", glyphCursor(), it.p.Title, it.p.DocType)
		fmt.Fprint(w, styleSelected().Render(truncateLine(line, width)))
		return
	}
	line := fmt.Sprintf("  %s  ", it.p.Title) + styleMuted().Render("."+it.p.DocType)
	fmt.Fprint(w, truncateLine(line, width))
}
