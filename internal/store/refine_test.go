package store

import (
	"testing"

	"draftpad-cli/internal/model"
)

func newStoreWithSection(t *testing.T) *Store {
	t.Helper()
	st := New()
	st.SetProject(&model.Project{ID: 1, Sections: []model.Section{
		{ID: 7, Title: "Body", Content: "draft text"},
	}})
	return st
}

func TestToggleRefine(t *testing.T) {
	st := newStoreWithSection(t)

	if rs := st.ToggleRefine(7); rs.Phase != RefinePrompting {
		t.Fatalf("expected prompting after toggle, got %d", rs.Phase)
	}
	if rs := st.ToggleRefine(7); rs.Phase != RefineIdle {
		t.Fatalf("expected idle after second toggle, got %d", rs.Phase)
	}
}

func TestGeneratePreviewFlow(t *testing.T) {
	st := newStoreWithSection(t)
	st.ToggleRefine(7)

	seq, ok := st.BeginGenerate(7, "make it formal")
	if !ok {
		t.Fatalf("BeginGenerate: expected ok")
	}
	if rs := st.Refine(7); rs.Phase != RefineGenerating {
		t.Fatalf("expected generating, got %d", rs.Phase)
	}

	if !st.FinishGenerate(7, seq, "Formal text.") {
		t.Fatalf("FinishGenerate: expected applied")
	}
	rs := st.Refine(7)
	if rs.Phase != RefinePreviewing || rs.Preview != "Formal text." {
		t.Fatalf("expected previewing with text, got %+v", rs)
	}

	// The preview never mutates content until explicitly applied.
	sec, _ := st.Section(7)
	if sec.Content != "draft text" {
		t.Fatalf("expected content untouched during preview, got %q", sec.Content)
	}
}

func TestBeginGenerateRequiresInstruction(t *testing.T) {
	st := newStoreWithSection(t)
	if _, ok := st.BeginGenerate(7, "   "); ok {
		t.Fatalf("expected empty instruction rejected")
	}
	if _, ok := st.BeginGenerate(99, "x"); ok {
		t.Fatalf("expected unknown section rejected")
	}
}

func TestStaleResponseIsDropped(t *testing.T) {
	st := newStoreWithSection(t)

	seq1, _ := st.BeginGenerate(7, "shorter")
	seq2, _ := st.BeginGenerate(7, "longer") // re-entrant: last write wins
	if seq2 <= seq1 {
		t.Fatalf("expected seq to increase, got %d then %d", seq1, seq2)
	}

	if st.FinishGenerate(7, seq1, "stale suggestion") {
		t.Fatalf("expected stale response dropped")
	}
	if rs := st.Refine(7); rs.Phase != RefineGenerating || rs.Preview != "" {
		t.Fatalf("expected still generating for latest request, got %+v", rs)
	}

	if !st.FinishGenerate(7, seq2, "fresh suggestion") {
		t.Fatalf("expected latest response applied")
	}
	if rs := st.Refine(7); rs.Preview != "fresh suggestion" {
		t.Fatalf("expected fresh preview, got %q", rs.Preview)
	}
}

func TestStaleFailureIsDropped(t *testing.T) {
	st := newStoreWithSection(t)
	seq1, _ := st.BeginGenerate(7, "a")
	seq2, _ := st.BeginGenerate(7, "b")
	if st.FailGenerate(7, seq1) {
		t.Fatalf("expected stale failure dropped")
	}
	if !st.FailGenerate(7, seq2) {
		t.Fatalf("expected latest failure applied")
	}
	rs := st.Refine(7)
	if rs.Phase != RefinePrompting || rs.Instruction != "b" {
		t.Fatalf("expected prompting with instruction kept, got %+v", rs)
	}
}

func TestDiscardLeavesContentUnchanged(t *testing.T) {
	st := newStoreWithSection(t)
	seq, _ := st.BeginGenerate(7, "make it formal")
	st.FinishGenerate(7, seq, "Formal text.")

	st.DiscardRefine(7)
	rs := st.Refine(7)
	if rs.Phase != RefineIdle || rs.Preview != "" || rs.Instruction != "" {
		t.Fatalf("expected idle with cleared prompt/preview, got %+v", rs)
	}
	sec, _ := st.Section(7)
	if sec.Content != "draft text" {
		t.Fatalf("expected content unchanged after discard, got %q", sec.Content)
	}
}

func TestApplyPath(t *testing.T) {
	st := newStoreWithSection(t)
	seq, _ := st.BeginGenerate(7, "make it formal")
	st.FinishGenerate(7, seq, "Formal text.")

	text, ok := st.PreviewText(7)
	if !ok || text != "Formal text." {
		t.Fatalf("PreviewText: expected preview, got %q (%v)", text, ok)
	}
	// Apply = write preview into content (persisted by the caller via the
	// manual-save path), then return to idle.
	if !st.SetContent(7, text) {
		t.Fatalf("SetContent: expected ok")
	}
	st.DiscardRefine(7)

	sec, _ := st.Section(7)
	if sec.Content != "Formal text." {
		t.Fatalf("expected applied content, got %q", sec.Content)
	}
	if rs := st.Refine(7); rs.Phase != RefineIdle {
		t.Fatalf("expected idle after apply, got %d", rs.Phase)
	}
}
