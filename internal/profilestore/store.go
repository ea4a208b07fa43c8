// Package profilestore persists named launch profiles. Elevation-handoff
// records go through the same store, tagged transient.
package profilestore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hochfrequenz/pinrun/internal/domain"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no profile with the requested name exists.
var ErrNotFound = errors.New("profile not found")

// Store is the persistence interface consumed by the launcher, the
// elevation negotiator and the CLI.
type Store interface {
	Save(p *domain.LaunchProfile) error
	Get(name string) (*domain.LaunchProfile, error)
	List() ([]*domain.LaunchProfile, error)
	Delete(name string) error
	// PurgeTransient deletes every transient record except keep (pass ""
	// to delete all). Returns the number of records removed.
	PurgeTransient(keep string) (int, error)
	Close() error
}

// Open opens the SQLite-backed store at path. An unreadable or corrupt
// store degrades to an empty in-memory store with a warning; profile
// persistence is never a reason to refuse a launch.
func Open(path string) Store {
	store, err := New(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: profile store unavailable (%v), continuing with no saved profiles\n", err)
		return NewMemory()
	}
	return store
}

// DB provides SQLite-backed profile persistence
type DB struct {
	db *sql.DB
}

// New creates a DB with the given database path
func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations. This is also where a corrupt file surfaces.
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection
func (s *DB) Close() error {
	return s.db.Close()
}

// Save inserts or updates a profile
func (s *DB) Save(p *domain.LaunchProfile) error {
	cpusJSON, err := json.Marshal(p.CPUs)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = s.db.Exec(`
		INSERT INTO profiles (name, path, cpus, priority, retry_budget, transient, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			path = excluded.path,
			cpus = excluded.cpus,
			priority = excluded.priority,
			retry_budget = excluded.retry_budget,
			transient = excluded.transient,
			updated_at = excluded.updated_at
	`,
		p.Name,
		p.Path,
		string(cpusJSON),
		p.Priority.String(),
		p.RetryBudget,
		p.Transient,
		now,
		now,
	)
	return err
}

// Get retrieves a profile by name
func (s *DB) Get(name string) (*domain.LaunchProfile, error) {
	row := s.db.QueryRow(`
		SELECT name, path, cpus, priority, retry_budget, transient, created_at, updated_at
		FROM profiles WHERE name = ?
	`, name)

	p, err := scanProfile(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// List returns all non-transient profiles ordered by name
func (s *DB) List() ([]*domain.LaunchProfile, error) {
	rows, err := s.db.Query(`
		SELECT name, path, cpus, priority, retry_budget, transient, created_at, updated_at
		FROM profiles WHERE NOT transient ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*domain.LaunchProfile
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Delete removes a profile by name
func (s *DB) Delete(name string) error {
	res, err := s.db.Exec(`DELETE FROM profiles WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeTransient deletes orphaned transient records, keeping at most the
// named one
func (s *DB) PurgeTransient(keep string) (int, error) {
	res, err := s.db.Exec(`DELETE FROM profiles WHERE transient AND name != ?`, keep)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func scanProfile(scan func(dest ...any) error) (*domain.LaunchProfile, error) {
	var p domain.LaunchProfile
	var cpusJSON string
	var priority sql.NullString

	err := scan(&p.Name, &p.Path, &cpusJSON, &priority, &p.RetryBudget, &p.Transient, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(cpusJSON), &p.CPUs); err != nil {
		return nil, fmt.Errorf("decoding cpu list for %q: %w", p.Name, err)
	}
	if priority.Valid && priority.String != "" && priority.String != "unset" {
		level, err := domain.ParsePriority(priority.String)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", p.Name, err)
		}
		p.Priority = level
	}

	return &p, nil
}
