package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"draftpad-cli/internal/model"
	"draftpad-cli/internal/session"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.Load(t.TempDir())
	if err != nil {
		t.Fatalf("session.Load: %v", err)
	}
	return s
}

func TestDoInjectsBearerAndPreservesHeaders(t *testing.T) {
	var gotAuth, gotCustom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCustom = r.Header.Get("X-Custom")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sess := newTestSession(t)
	if err := sess.SetToken("tok-abc"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	c := New(srv.URL, sess)

	h := http.Header{}
	h.Set("X-Custom", "kept")
	resp, err := c.Do(context.Background(), http.MethodGet, "/projects/my", h, nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if gotAuth != "Bearer tok-abc" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotCustom != "kept" {
		t.Fatalf("expected caller header preserved, got %q", gotCustom)
	}
}

func TestDoOmitsBearerWhenLoggedOut(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	c := New(srv.URL, newTestSession(t))
	resp, err := c.Do(context.Background(), http.MethodGet, "/projects/my", nil, nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()
	if gotAuth != "" {
		t.Fatalf("expected no auth header when logged out, got %q", gotAuth)
	}
}

func TestDo401TearsDownSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sess := newTestSession(t)
	if err := sess.SetToken("stale"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	var transitions []session.State
	sess.Subscribe(func(st session.State) { transitions = append(transitions, st) })

	c := New(srv.URL, sess)
	resp, err := c.Do(context.Background(), http.MethodGet, "/projects/my", nil, nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	// The caller still receives the raw 401 response.
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 response returned, got %d", resp.StatusCode)
	}
	// But the teardown already happened.
	if sess.Token() != "" {
		t.Fatalf("expected credential cleared on 401")
	}
	if len(transitions) != 1 || transitions[0] != session.LoggedOut {
		t.Fatalf("expected one logged-out transition, got %v", transitions)
	}

	// A second in-flight 401 re-triggers the same teardown as a no-op.
	resp2, err := c.Do(context.Background(), http.MethodGet, "/projects/my", nil, nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp2.Body.Close()
	if len(transitions) != 1 {
		t.Fatalf("expected teardown to be idempotent, got %v", transitions)
	}
}

func TestLoginPostsFormEncoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("expected form content type, got %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if r.PostFormValue("username") != "alice" || r.PostFormValue("password") != "pw1" {
			t.Errorf("unexpected form values: %v", r.PostForm)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "issued", "token_type": "bearer"})
	}))
	defer srv.Close()

	c := New(srv.URL, newTestSession(t))
	tok, err := c.Login(context.Background(), "alice", "pw1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok != "issued" {
		t.Fatalf("expected issued token, got %q", tok)
	}
}

func TestLoginFailureIsGenericAndLeavesSessionAlone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
	}))
	defer srv.Close()

	sess := newTestSession(t)
	if err := sess.SetToken("existing"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	c := New(srv.URL, sess)
	if _, err := c.Login(context.Background(), "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	// A failed token exchange is not a 401 on a protected resource:
	// the existing credential stays untouched.
	if sess.Token() != "existing" {
		t.Fatalf("expected existing credential untouched, got %q", sess.Token())
	}
}

func TestRegisterSurfacesServerDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["username"] != "alice" {
			t.Errorf("unexpected body: %v", in)
		}
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Username already registered"})
	}))
	defer srv.Close()

	c := New(srv.URL, newTestSession(t))
	err := c.Register(context.Background(), "alice", "pw1")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Detail != "Username already registered" {
		t.Fatalf("expected verbatim detail, got %+v", apiErr)
	}
}

func TestRefineSection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			SectionID   int64  `json:"section_id"`
			Instruction string `json:"instruction"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.SectionID != 7 || in.Instruction != "make it formal" {
			t.Errorf("unexpected refine request: %+v", in)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"section_id": 7, "preview_content": "Formal text."})
	}))
	defer srv.Close()

	sess := newTestSession(t)
	_ = sess.SetToken("tok")
	c := New(srv.URL, sess)
	got, err := c.RefineSection(context.Background(), 7, "make it formal")
	if err != nil {
		t.Fatalf("RefineSection: %v", err)
	}
	if got != "Formal text." {
		t.Fatalf("expected preview content, got %q", got)
	}
}

func TestUpdateSectionSendsOnlySetFields(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || !strings.HasPrefix(r.URL.Path, "/sections/") {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&raw)
	}))
	defer srv.Close()

	sess := newTestSession(t)
	_ = sess.SetToken("tok")
	c := New(srv.URL, sess)

	notes := "private"
	if err := c.UpdateSection(context.Background(), 3, model.SectionUpdate{Notes: &notes}); err != nil {
		t.Fatalf("UpdateSection: %v", err)
	}
	if _, ok := raw["notes"]; !ok {
		t.Fatalf("expected notes in payload, got %v", raw)
	}
	if _, ok := raw["content"]; ok {
		t.Fatalf("expected content omitted from partial update, got %v", raw)
	}
	if _, ok := raw["feedback"]; ok {
		t.Fatalf("expected feedback omitted from partial update, got %v", raw)
	}
}

func TestExportUsesSameBearerConvention(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte{0x50, 0x4b, 0x03, 0x04})
	}))
	defer srv.Close()

	sess := newTestSession(t)
	_ = sess.SetToken("tok-exp")
	c := New(srv.URL, sess)
	b, err := c.ExportProject(context.Background(), 12)
	if err != nil {
		t.Fatalf("ExportProject: %v", err)
	}
	if gotAuth != "Bearer tok-exp" {
		t.Fatalf("expected export to carry bearer header, got %q", gotAuth)
	}
	if len(b) != 4 {
		t.Fatalf("expected raw body bytes, got %d bytes", len(b))
	}
}
