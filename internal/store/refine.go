package store

import "strings"

// RefinePhase tags the per-section AI refine state machine:
//
//	idle → prompting → generating → previewing → idle (applied or discarded)
//
// The preview lives here, in the store, not in the rendering layer, so
// workflow correctness never depends on a rendered element being present.
type RefinePhase int

const (
	RefineIdle RefinePhase = iota
	RefinePrompting
	RefineGenerating
	RefinePreviewing
)

type RefineState struct {
	Phase       RefinePhase
	Instruction string
	Preview     string

	// Seq increments on every generate request for this section. Only the
	// response matching the latest seq is applied; stale in-flight responses
	// are dropped instead of overwriting a newer preview.
	Seq uint64
}

// Refine returns the refine state for a section (zero value = idle).
func (st *Store) Refine(sectionID int64) RefineState {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.refine[sectionID]
}

// ToggleRefine shows or hides the refine tool for one section: idle becomes
// prompting; any other phase collapses back to idle, dropping the prompt
// and any unapplied preview. Purely local, no network effect.
func (st *Store) ToggleRefine(sectionID int64) RefineState {
	st.mu.Lock()
	defer st.mu.Unlock()
	rs := st.refine[sectionID]
	if rs.Phase == RefineIdle {
		rs.Phase = RefinePrompting
	} else {
		rs = RefineState{Seq: rs.Seq}
	}
	st.refine[sectionID] = rs
	return rs
}

// BeginGenerate validates the instruction and moves the section to
// generating, returning the request seq the caller must pass back to
// FinishGenerate. Re-entrant calls are last-write-wins: a newer request
// bumps the seq so any earlier in-flight response becomes stale.
func (st *Store) BeginGenerate(sectionID int64, instruction string) (uint64, bool) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return 0, false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.sectionLocked(sectionID) == nil {
		return 0, false
	}
	rs := st.refine[sectionID]
	rs.Seq++
	rs.Phase = RefineGenerating
	rs.Instruction = instruction
	rs.Preview = ""
	st.refine[sectionID] = rs
	return rs.Seq, true
}

// FinishGenerate installs a returned suggestion. Responses whose seq does
// not match the latest request are dropped.
func (st *Store) FinishGenerate(sectionID int64, seq uint64, preview string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	rs, ok := st.refine[sectionID]
	if !ok || rs.Seq != seq || rs.Phase != RefineGenerating {
		return false
	}
	rs.Phase = RefinePreviewing
	rs.Preview = preview
	st.refine[sectionID] = rs
	return true
}

// FailGenerate returns the section to prompting (keeping the instruction
// for a user-initiated retry). Stale failures are dropped like stale
// successes.
func (st *Store) FailGenerate(sectionID int64, seq uint64) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	rs, ok := st.refine[sectionID]
	if !ok || rs.Seq != seq || rs.Phase != RefineGenerating {
		return false
	}
	rs.Phase = RefinePrompting
	rs.Preview = ""
	st.refine[sectionID] = rs
	return true
}

// PreviewText returns the retained suggestion while previewing.
func (st *Store) PreviewText(sectionID int64) (string, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	rs := st.refine[sectionID]
	if rs.Phase != RefinePreviewing {
		return "", false
	}
	return rs.Preview, true
}

// DiscardRefine returns a section to idle without touching its content,
// clearing the prompt and preview. Used both for an explicit discard and
// after a successful apply. Never contacts the server.
func (st *Store) DiscardRefine(sectionID int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	rs := st.refine[sectionID]
	st.refine[sectionID] = RefineState{Seq: rs.Seq}
}
