package session

import (
	"strings"
	"sync"
)

// State is the coarse view-selection state: with a credential present the
// app view is shown, otherwise the auth view.
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged-in"
	}
	return "logged-out"
}

// Session owns the bearer credential and notifies subscribers when the
// credential appears or disappears. It replaces ad-hoc storage lookups from
// scattered call sites: the pipeline clears it on 401 and every view layer
// reacts to the transition instead of polling.
type Session struct {
	mu   sync.Mutex
	dir  string
	cfg  *Config
	subs []func(State)
}

// Load opens (or initializes) the session backed by the config file in dir.
func Load(dir string) (*Session, error) {
	cfg, err := LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	return &Session{dir: dir, cfg: cfg}, nil
}

// Subscribe registers fn to be called on every state transition.
// Subscribers are invoked outside the session lock.
func (s *Session) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Session) State() State {
	if s.Token() == "" {
		return LoggedOut
	}
	return LoggedIn
}

// Token returns the stored credential, or "" when logged out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.AccessToken
}

// ServerURL returns the configured backend base URL.
func (s *Session) ServerURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.ServerURL
}

// SetServerURL persists the backend base URL. No state transition.
func (s *Session) SetServerURL(u string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.ServerURL = strings.TrimSpace(u)
	return SaveConfig(s.dir, s.cfg)
}

// SetToken stores the credential issued by a successful login exchange
// and notifies subscribers of the logged-in transition.
func (s *Session) SetToken(tok string) error {
	tok = strings.TrimSpace(tok)
	s.mu.Lock()
	was := s.cfg.AccessToken
	s.cfg.AccessToken = tok
	err := SaveConfig(s.dir, s.cfg)
	subs := s.snapshotSubsLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if was == "" && tok != "" {
		notify(subs, LoggedIn)
	}
	return nil
}

// Clear drops the credential (logout). Clearing an already-absent credential
// is a safe no-op: subscribers are only notified on an actual transition.
func (s *Session) Clear() error {
	s.mu.Lock()
	was := s.cfg.AccessToken
	s.cfg.AccessToken = ""
	var err error
	if was != "" {
		err = SaveConfig(s.dir, s.cfg)
	}
	subs := s.snapshotSubsLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if was != "" {
		notify(subs, LoggedOut)
	}
	return nil
}

// Invalidate is the 401 teardown path. It is best-effort: a failure to
// persist must not mask the (already returned) server response, so the
// error is dropped. Idempotent under repeated 401s from in-flight calls.
func (s *Session) Invalidate() {
	_ = s.Clear()
}

func (s *Session) snapshotSubsLocked() []func(State) {
	out := make([]func(State), len(s.subs))
	copy(out, s.subs)
	return out
}

func notify(subs []func(State), st State) {
	for _, fn := range subs {
		fn(st)
	}
}
