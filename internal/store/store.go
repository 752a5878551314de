// Package store persists the project registry and the per-(project,language)
// scan-state cache in a local SQLite database. The record set is stored as an
// opaque JSON blob: the store populates it and reads it back unchanged.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/LouisLau-art/simple-renpy-translator/internal/parser"
)

// Store is the SQLite-backed registry.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the state database at path.
func Open(path string) (*Store, error) {
	p := filepath.Clean(strings.TrimSpace(path))
	if p == "" {
		return nil, errors.New("missing db path")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return fmt.Errorf("pragma journal_mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout=3000;`); err != nil {
		return fmt.Errorf("pragma busy_timeout: %w", err)
	}
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS projects (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL UNIQUE,
	game_path   TEXT NOT NULL UNIQUE,
	created_at  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS scans (
	project_id    INTEGER NOT NULL REFERENCES projects(id),
	language      TEXT NOT NULL,
	scanned_at    INTEGER NOT NULL,
	records_json  TEXT NOT NULL,
	total         INTEGER NOT NULL,
	dialogue      INTEGER NOT NULL,
	strings       INTEGER NOT NULL,
	translated    INTEGER NOT NULL,
	PRIMARY KEY (project_id, language)
);
`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Project is a registered game directory.
type Project struct {
	ID        int64
	Name      string
	GamePath  string
	CreatedAt time.Time
}

// ScanStats summarizes one cached scan.
type ScanStats struct {
	Total          int
	Dialogue       int
	Strings        int
	Translated     int
	CompletionRate float64
	ScannedAt      time.Time
}

// GetOrCreateProject registers a game directory, returning the existing
// project when the path is already known. An empty name defaults to the
// directory base name.
func (s *Store) GetOrCreateProject(gamePath, name string) (Project, error) {
	abs, err := filepath.Abs(gamePath)
	if err != nil {
		return Project{}, fmt.Errorf("resolve game path: %w", err)
	}
	if name == "" {
		name = filepath.Base(abs)
	}

	var p Project
	var created int64
	err = s.db.QueryRow(
		`SELECT id, name, game_path, created_at FROM projects WHERE game_path = ?`, abs,
	).Scan(&p.ID, &p.Name, &p.GamePath, &created)
	if err == nil {
		p.CreatedAt = time.Unix(created, 0)
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Project{}, fmt.Errorf("query project: %w", err)
	}

	now := time.Now()
	res, err := s.db.Exec(
		`INSERT INTO projects (name, game_path, created_at) VALUES (?, ?, ?)`,
		name, abs, now.Unix(),
	)
	if err != nil {
		return Project{}, fmt.Errorf("insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Project{}, fmt.Errorf("project id: %w", err)
	}

	return Project{ID: id, Name: name, GamePath: abs, CreatedAt: now}, nil
}

// FindProject looks a project up by name or by game path.
func (s *Store) FindProject(nameOrPath string) (Project, bool, error) {
	abs, _ := filepath.Abs(nameOrPath)

	var p Project
	var created int64
	err := s.db.QueryRow(
		`SELECT id, name, game_path, created_at FROM projects WHERE name = ? OR game_path = ?`,
		nameOrPath, abs,
	).Scan(&p.ID, &p.Name, &p.GamePath, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, false, nil
	}
	if err != nil {
		return Project{}, false, fmt.Errorf("query project: %w", err)
	}
	p.CreatedAt = time.Unix(created, 0)
	return p, true, nil
}

// ListProjects returns all registered projects in creation order.
func (s *Store) ListProjects() ([]Project, error) {
	rows, err := s.db.Query(`SELECT id, name, game_path, created_at FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		var created int64
		if err := rows.Scan(&p.ID, &p.Name, &p.GamePath, &created); err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		p.CreatedAt = time.Unix(created, 0)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// SaveScan replaces the cached record set for (project, language) wholesale
// and recomputes its summary statistics. No incremental diffing: a re-scan
// discards the previous set.
func (s *Store) SaveScan(projectID int64, language string, records []parser.Record) (ScanStats, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return ScanStats{}, fmt.Errorf("encode records: %w", err)
	}

	stats := computeStats(records)
	stats.ScannedAt = time.Now()

	_, err = s.db.Exec(`
INSERT INTO scans (project_id, language, scanned_at, records_json, total, dialogue, strings, translated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (project_id, language) DO UPDATE SET
	scanned_at = excluded.scanned_at,
	records_json = excluded.records_json,
	total = excluded.total,
	dialogue = excluded.dialogue,
	strings = excluded.strings,
	translated = excluded.translated
`, projectID, language, stats.ScannedAt.Unix(), string(data),
		stats.Total, stats.Dialogue, stats.Strings, stats.Translated)
	if err != nil {
		return ScanStats{}, fmt.Errorf("save scan: %w", err)
	}

	return stats, nil
}

// LoadScan returns the cached record set for (project, language), unchanged
// from the last SaveScan. The second result is false when no scan exists.
func (s *Store) LoadScan(projectID int64, language string) ([]parser.Record, bool, error) {
	var data string
	err := s.db.QueryRow(
		`SELECT records_json FROM scans WHERE project_id = ? AND language = ?`,
		projectID, language,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load scan: %w", err)
	}

	var records []parser.Record
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, false, fmt.Errorf("decode cached records: %w", err)
	}
	return records, true, nil
}

// Stats returns the summary for (project, language), or false when no scan
// has been saved.
func (s *Store) Stats(projectID int64, language string) (ScanStats, bool, error) {
	var st ScanStats
	var scanned int64
	err := s.db.QueryRow(
		`SELECT scanned_at, total, dialogue, strings, translated FROM scans WHERE project_id = ? AND language = ?`,
		projectID, language,
	).Scan(&scanned, &st.Total, &st.Dialogue, &st.Strings, &st.Translated)
	if errors.Is(err, sql.ErrNoRows) {
		return ScanStats{}, false, nil
	}
	if err != nil {
		return ScanStats{}, false, fmt.Errorf("query stats: %w", err)
	}
	st.ScannedAt = time.Unix(scanned, 0)
	if st.Total > 0 {
		st.CompletionRate = float64(st.Translated) / float64(st.Total) * 100
	}
	return st, true, nil
}

// Languages lists the languages with a cached scan for a project.
func (s *Store) Languages(projectID int64) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT language FROM scans WHERE project_id = ? ORDER BY language`, projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()

	var langs []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("scan language row: %w", err)
		}
		langs = append(langs, l)
	}
	return langs, rows.Err()
}

func computeStats(records []parser.Record) ScanStats {
	var st ScanStats
	st.Total = len(records)
	for _, r := range records {
		switch r.Type {
		case parser.TypeDialogue:
			st.Dialogue++
		case parser.TypeString:
			st.Strings++
		}
		if strings.TrimSpace(r.Translated) != "" {
			st.Translated++
		}
	}
	if st.Total > 0 {
		st.CompletionRate = float64(st.Translated) / float64(st.Total) * 100
	}
	return st
}
