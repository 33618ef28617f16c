package store

import (
	"sort"
	"sync"

	"draftpad-cli/internal/model"
)

// Store is the client-side cache of the currently loaded project and its
// ordered sections, plus the transient per-section refine state. Loading a
// project replaces the cache wholesale; sections are kept sorted ascending
// by order_index (the client never reassigns indexes, it only sorts).
//
// The TUI drives all mutations from its update loop, but network commands
// complete on other goroutines, so access is guarded by a mutex.
type Store struct {
	mu      sync.Mutex
	current *model.Project
	refine  map[int64]RefineState
}

func New() *Store {
	return &Store{refine: map[int64]RefineState{}}
}

// SetProject replaces the current project. Any unapplied refine state for
// the previous project is dropped with it.
func (st *Store) SetProject(p *model.Project) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if p != nil {
		sort.SliceStable(p.Sections, func(i, j int) bool {
			return p.Sections[i].OrderIndex < p.Sections[j].OrderIndex
		})
	}
	st.current = p
	st.refine = map[int64]RefineState{}
}

// ClearProject drops the current project (leaving the editor).
func (st *Store) ClearProject() {
	st.SetProject(nil)
}

// Project returns a copy of the current project, or nil when none is loaded.
func (st *Store) Project() *model.Project {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.current == nil {
		return nil
	}
	cp := *st.current
	cp.Sections = append([]model.Section(nil), st.current.Sections...)
	return &cp
}

// CurrentProjectID returns the loaded project id, if any.
func (st *Store) CurrentProjectID() (int64, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.current == nil {
		return 0, false
	}
	return st.current.ID, true
}

// Sections returns the sections of the current project in render order.
func (st *Store) Sections() []model.Section {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.current == nil {
		return nil
	}
	return append([]model.Section(nil), st.current.Sections...)
}

// Section looks up one section of the current project by id.
func (st *Store) Section(id int64) (model.Section, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sec := st.sectionLocked(id)
	if sec == nil {
		return model.Section{}, false
	}
	return *sec, true
}

func (st *Store) sectionLocked(id int64) *model.Section {
	if st.current == nil {
		return nil
	}
	for i := range st.current.Sections {
		if st.current.Sections[i].ID == id {
			return &st.current.Sections[i]
		}
	}
	return nil
}

// SetContent records saved content for a section. The in-memory copy is
// authoritative until the next load.
func (st *Store) SetContent(id int64, content string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	sec := st.sectionLocked(id)
	if sec == nil {
		return false
	}
	sec.Content = content
	return true
}

// SetNotes records saved notes for a section.
func (st *Store) SetNotes(id int64, notes string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	sec := st.sectionLocked(id)
	if sec == nil {
		return false
	}
	sec.Notes = notes
	return true
}

// SetFeedback records the feedback value for a section. Feedback is a
// single field, so like/dislike are mutually exclusive by construction.
func (st *Store) SetFeedback(id int64, v model.Feedback) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	sec := st.sectionLocked(id)
	if sec == nil {
		return false
	}
	sec.Feedback = v
	return true
}
