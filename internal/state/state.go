package state

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/simon/tmuxkit/internal/snapshot"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    id          TEXT PRIMARY KEY,
    host        TEXT NOT NULL DEFAULT '',
    created_at  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshot_sessions (
    snapshot_id TEXT NOT NULL,
    position    INTEGER NOT NULL,
    name        TEXT NOT NULL,
    dir_path    TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (snapshot_id, position)
);
CREATE TABLE IF NOT EXISTS snapshot_windows (
    snapshot_id TEXT NOT NULL,
    session_pos INTEGER NOT NULL,
    position    INTEGER NOT NULL,
    idx         INTEGER NOT NULL,
    name        TEXT NOT NULL,
    layout      TEXT NOT NULL DEFAULT '',
    active      INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (snapshot_id, session_pos, position)
);
CREATE TABLE IF NOT EXISTS snapshot_panes (
    snapshot_id TEXT NOT NULL,
    session_pos INTEGER NOT NULL,
    window_pos  INTEGER NOT NULL,
    position    INTEGER NOT NULL,
    idx         INTEGER NOT NULL,
    title       TEXT NOT NULL DEFAULT '',
    dir_path    TEXT NOT NULL DEFAULT '',
    command     TEXT NOT NULL DEFAULT '',
    active      INTEGER NOT NULL DEFAULT 0,
    buffer      BLOB,
    PRIMARY KEY (snapshot_id, session_pos, window_pos, position)
);
`

// ErrNotFound is returned when no snapshot matches an id.
var ErrNotFound = errors.New("snapshot not found")

// Store wraps a SQLite database of saved snapshots.
type Store struct {
	db *sql.DB
}

// Open creates or opens the snapshot database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "snapshots.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// WAL mode for safe concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	// Run migrations (ignore errors for already-existing columns)
	for _, m := range []string{
		"ALTER TABLE snapshots ADD COLUMN label TEXT NOT NULL DEFAULT ''",
	} {
		db.Exec(m) //nolint:errcheck
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores snap and returns its id. A snapshot without an id gets a new
// one; a zero CreatedAt is set to now.
func (s *Store) Save(snap *snapshot.Snapshot) (string, error) {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(
		"INSERT INTO snapshots (id, label, host, created_at) VALUES (?, ?, ?, ?)",
		snap.ID, snap.Label, snap.Host, snap.CreatedAt.UnixMilli(),
	); err != nil {
		return "", err
	}

	for si, sess := range snap.Sessions {
		if _, err := tx.Exec(
			"INSERT INTO snapshot_sessions (snapshot_id, position, name, dir_path) VALUES (?, ?, ?, ?)",
			snap.ID, si, sess.Name, sess.DirPath,
		); err != nil {
			return "", err
		}
		for wi, w := range sess.Windows {
			if _, err := tx.Exec(`
				INSERT INTO snapshot_windows (snapshot_id, session_pos, position, idx, name, layout, active)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, snap.ID, si, wi, w.Index, w.Name, w.Layout, boolInt(w.Active)); err != nil {
				return "", err
			}
			for pi, p := range w.Panes {
				if _, err := tx.Exec(`
					INSERT INTO snapshot_panes (snapshot_id, session_pos, window_pos, position, idx,
						title, dir_path, command, active, buffer)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				`, snap.ID, si, wi, pi, p.Index, p.Title, p.DirPath, p.Command, boolInt(p.Active), p.Buffer); err != nil {
					return "", err
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return snap.ID, nil
}

// Summary describes a saved snapshot without its contents.
type Summary struct {
	ID        string
	Label     string
	Host      string
	CreatedAt time.Time
	Sessions  int
	Windows   int
	Panes     int
}

// List returns up to limit snapshots, most recent first.
func (s *Store) List(limit int) ([]Summary, error) {
	rows, err := s.db.Query(`
		SELECT id, label, host, created_at,
			(SELECT COUNT(*) FROM snapshot_sessions ss WHERE ss.snapshot_id = s.id),
			(SELECT COUNT(*) FROM snapshot_windows sw WHERE sw.snapshot_id = s.id),
			(SELECT COUNT(*) FROM snapshot_panes sp WHERE sp.snapshot_id = s.id)
		FROM snapshots s
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Summary
	for rows.Next() {
		var sum Summary
		var created int64
		if err := rows.Scan(&sum.ID, &sum.Label, &sum.Host, &created, &sum.Sessions, &sum.Windows, &sum.Panes); err != nil {
			return nil, err
		}
		sum.CreatedAt = time.UnixMilli(created)
		result = append(result, sum)
	}
	return result, rows.Err()
}

// resolve maps an id or unique id prefix to the full id.
func (s *Store) resolve(id string) (string, error) {
	if id == "" {
		return "", ErrNotFound
	}
	rows, err := s.db.Query("SELECT id FROM snapshots WHERE substr(id, 1, ?) = ? LIMIT 2", len(id), id)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var full string
		if err := rows.Scan(&full); err != nil {
			return "", err
		}
		ids = append(ids, full)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", ErrNotFound
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("snapshot id %q is ambiguous", id)
	}
}

// Load returns the snapshot with the given id or unique id prefix.
func (s *Store) Load(id string) (*snapshot.Snapshot, error) {
	full, err := s.resolve(id)
	if err != nil {
		return nil, err
	}

	snap := &snapshot.Snapshot{ID: full}
	var created int64
	if err := s.db.QueryRow(
		"SELECT label, host, created_at FROM snapshots WHERE id = ?", full,
	).Scan(&snap.Label, &snap.Host, &created); err != nil {
		return nil, err
	}
	snap.CreatedAt = time.UnixMilli(created)

	if err := s.loadSessions(snap); err != nil {
		return nil, err
	}
	if err := s.loadWindows(snap); err != nil {
		return nil, err
	}
	if err := s.loadPanes(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Store) loadSessions(snap *snapshot.Snapshot) error {
	rows, err := s.db.Query(
		"SELECT name, dir_path FROM snapshot_sessions WHERE snapshot_id = ? ORDER BY position", snap.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var sess snapshot.Session
		if err := rows.Scan(&sess.Name, &sess.DirPath); err != nil {
			return err
		}
		snap.Sessions = append(snap.Sessions, sess)
	}
	return rows.Err()
}

func (s *Store) loadWindows(snap *snapshot.Snapshot) error {
	rows, err := s.db.Query(`
		SELECT session_pos, idx, name, layout, active FROM snapshot_windows
		WHERE snapshot_id = ? ORDER BY session_pos, position
	`, snap.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var si, active int
		var w snapshot.Window
		if err := rows.Scan(&si, &w.Index, &w.Name, &w.Layout, &active); err != nil {
			return err
		}
		if si < 0 || si >= len(snap.Sessions) {
			return fmt.Errorf("snapshot %s: window refers to missing session %d", snap.ID, si)
		}
		w.Active = active == 1
		snap.Sessions[si].Windows = append(snap.Sessions[si].Windows, w)
	}
	return rows.Err()
}

func (s *Store) loadPanes(snap *snapshot.Snapshot) error {
	rows, err := s.db.Query(`
		SELECT session_pos, window_pos, idx, title, dir_path, command, active, buffer FROM snapshot_panes
		WHERE snapshot_id = ? ORDER BY session_pos, window_pos, position
	`, snap.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var si, wi, active int
		var p snapshot.Pane
		if err := rows.Scan(&si, &wi, &p.Index, &p.Title, &p.DirPath, &p.Command, &active, &p.Buffer); err != nil {
			return err
		}
		if si < 0 || si >= len(snap.Sessions) || wi < 0 || wi >= len(snap.Sessions[si].Windows) {
			return fmt.Errorf("snapshot %s: pane refers to missing window %d.%d", snap.ID, si, wi)
		}
		p.Active = active == 1
		w := &snap.Sessions[si].Windows[wi]
		w.Panes = append(w.Panes, p)
	}
	return rows.Err()
}

// Latest returns the most recently saved snapshot.
func (s *Store) Latest() (*snapshot.Snapshot, error) {
	var id string
	err := s.db.QueryRow("SELECT id FROM snapshots ORDER BY created_at DESC, id LIMIT 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.Load(id)
}

// Delete removes the snapshot with the given id or unique id prefix.
func (s *Store) Delete(id string) error {
	full, err := s.resolve(id)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"snapshot_panes", "snapshot_windows", "snapshot_sessions"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE snapshot_id = ?", full); err != nil {
			return err
		}
	}
	if _, err := tx.Exec("DELETE FROM snapshots WHERE id = ?", full); err != nil {
		return err
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
