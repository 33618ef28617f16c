package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"

	"path/filepath"

	"draftpad-cli/internal/model"

	_ "modernc.org/sqlite"
)

const localStateFileName = "state.sqlite"

// Local persists small client-side state across runs: the last UI position
// and a snapshot of the last-loaded project. The snapshot is display-only
// (shown while a fresh load is in flight); the server copy always wins.
type Local struct {
	Dir string
}

// UIState restores the last screen on relaunch. Best effort: callers must
// tolerate missing or stale data.
type UIState struct {
	// View is one of: projects|editor
	View          string `json:"view,omitempty"`
	LastProjectID int64  `json:"lastProjectId,omitempty"`
}

func (l Local) path() string {
	return filepath.Join(l.Dir, localStateFileName)
}

func (l Local) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", l.path())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when CLI and TUI overlap.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := l.migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (l Local) migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ui_state (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS project_cache (
			project_id INTEGER PRIMARY KEY,
			data TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (l Local) LoadUIState(ctx context.Context) (*UIState, error) {
	db, err := l.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var raw string
	err = db.QueryRowContext(ctx, `SELECT v FROM ui_state WHERE k = 'ui'`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return &UIState{}, nil
	}
	if err != nil {
		return nil, err
	}
	var st UIState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		// Best effort; if corrupted, treat as missing.
		return &UIState{}, nil
	}
	return &st, nil
}

func (l Local) SaveUIState(ctx context.Context, st *UIState) error {
	if st == nil {
		return nil
	}
	db, err := l.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO ui_state (k, v) VALUES ('ui', ?)
		 ON CONFLICT(k) DO UPDATE SET v = excluded.v`, string(b))
	return err
}

// CacheProject stores the latest loaded snapshot of a project. Only one
// snapshot is kept: a new project replaces the previous one.
func (l Local) CacheProject(ctx context.Context, p *model.Project) error {
	if p == nil {
		return nil
	}
	db, err := l.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM project_cache WHERE project_id != ?`, p.ID); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO project_cache (project_id, data) VALUES (?, ?)
		 ON CONFLICT(project_id) DO UPDATE SET data = excluded.data`, p.ID, string(b)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// CachedProject returns the stored snapshot for a project id, if present.
func (l Local) CachedProject(ctx context.Context, id int64) (*model.Project, bool, error) {
	db, err := l.open(ctx)
	if err != nil {
		return nil, false, err
	}
	defer db.Close()

	var raw string
	err = db.QueryRowContext(ctx, `SELECT data FROM project_cache WHERE project_id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var p model.Project
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, false, nil
	}
	return &p, true, nil
}
