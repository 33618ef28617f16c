package store

import (
	"context"
	"testing"

	"draftpad-cli/internal/model"
)

func TestUIStateRoundTrip(t *testing.T) {
	l := Local{Dir: t.TempDir()}
	ctx := context.Background()

	st, err := l.LoadUIState(ctx)
	if err != nil {
		t.Fatalf("LoadUIState (empty): %v", err)
	}
	if st.View != "" || st.LastProjectID != 0 {
		t.Fatalf("expected zero state, got %+v", st)
	}

	if err := l.SaveUIState(ctx, &UIState{View: "editor", LastProjectID: 42}); err != nil {
		t.Fatalf("SaveUIState: %v", err)
	}
	got, err := l.LoadUIState(ctx)
	if err != nil {
		t.Fatalf("LoadUIState: %v", err)
	}
	if got.View != "editor" || got.LastProjectID != 42 {
		t.Fatalf("expected saved state back, got %+v", got)
	}

	// Overwrite wins.
	if err := l.SaveUIState(ctx, &UIState{View: "projects"}); err != nil {
		t.Fatalf("SaveUIState (overwrite): %v", err)
	}
	got, err = l.LoadUIState(ctx)
	if err != nil {
		t.Fatalf("LoadUIState: %v", err)
	}
	if got.View != "projects" || got.LastProjectID != 0 {
		t.Fatalf("expected overwritten state, got %+v", got)
	}
}

func TestProjectCache(t *testing.T) {
	l := Local{Dir: t.TempDir()}
	ctx := context.Background()

	if _, ok, err := l.CachedProject(ctx, 1); err != nil || ok {
		t.Fatalf("expected empty cache, got ok=%v err=%v", ok, err)
	}

	p := &model.Project{ID: 1, Title: "Report", DocType: "docx", Sections: []model.Section{
		{ID: 2, Title: "Intro", Content: "hello", OrderIndex: 0},
	}}
	if err := l.CacheProject(ctx, p); err != nil {
		t.Fatalf("CacheProject: %v", err)
	}
	got, ok, err := l.CachedProject(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("CachedProject: ok=%v err=%v", ok, err)
	}
	if got.Title != "Report" || len(got.Sections) != 1 || got.Sections[0].Content != "hello" {
		t.Fatalf("unexpected cached project: %+v", got)
	}

	// Caching a different project evicts the old snapshot.
	if err := l.CacheProject(ctx, &model.Project{ID: 9, Title: "Other"}); err != nil {
		t.Fatalf("CacheProject (evict): %v", err)
	}
	if _, ok, _ := l.CachedProject(ctx, 1); ok {
		t.Fatalf("expected old snapshot evicted")
	}
	if _, ok, _ := l.CachedProject(ctx, 9); !ok {
		t.Fatalf("expected new snapshot present")
	}
}
