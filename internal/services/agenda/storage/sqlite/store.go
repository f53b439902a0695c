// Package sqlite provides a SQLite-backed persona storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sqlitemigrate "github.com/louisbranch/agenda/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/agenda/internal/platform/timeouts"
	"github.com/louisbranch/agenda/internal/services/agenda/storage"
	"github.com/louisbranch/agenda/internal/services/agenda/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const personaTable = "personas"

// Store persists personas in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite persona store and creates the schema if absent.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)",
		cleanPath, timeouts.StorageBusy.Milliseconds())
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	store := &Store{sqlDB: sqlDB}
	if err := store.EnsureSchema(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// EnsureSchema creates the persona table if it does not exist. Existing rows
// are never touched.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, s.sqlDB, migrations.FS, "", sqlitemigrate.WithReapply()); err != nil {
		return classify("ensure schema", err)
	}
	return nil
}

// Ping verifies the connection and that the persona table is queryable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := s.sqlDB.PingContext(ctx); err != nil {
		return classify("ping", err)
	}
	var one int
	if err := s.sqlDB.QueryRowContext(ctx, "SELECT 1 FROM "+personaTable+" LIMIT 1").Scan(&one); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return classify("ping", err)
	}
	return nil
}

// ListPersonas returns every persona in insertion order.
func (s *Store) ListPersonas(ctx context.Context) ([]storage.Persona, error) {
	return s.SearchPersonas(ctx, storage.Condition{})
}

// SearchPersonas returns personas matching cond in insertion order.
func (s *Store) SearchPersonas(ctx context.Context, cond storage.Condition) ([]storage.Persona, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	query := "SELECT id, name, email FROM " + personaTable
	if clause := strings.TrimSpace(cond.Clause); clause != "" {
		query += " WHERE " + clause
	}
	query += " ORDER BY id ASC"

	rows, err := s.sqlDB.QueryContext(ctx, query, cond.Params...)
	if err != nil {
		return nil, classify("list personas", err)
	}
	defer rows.Close()

	personas := make([]storage.Persona, 0)
	for rows.Next() {
		var p storage.Persona
		if err := rows.Scan(&p.ID, &p.Name, &p.Email); err != nil {
			return nil, classify("list personas", err)
		}
		personas = append(personas, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list personas", err)
	}
	return personas, nil
}

// GetPersona returns one persona by id. Absence is reported as found=false.
func (s *Store) GetPersona(ctx context.Context, id int64) (storage.Persona, bool, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Persona{}, false, err
	}

	var p storage.Persona
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT id, name, email FROM "+personaTable+" WHERE id = ?",
		id,
	).Scan(&p.ID, &p.Name, &p.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Persona{}, false, nil
		}
		return storage.Persona{}, false, classify("get persona", err)
	}
	return p, true, nil
}

// CreatePersona inserts one persona and returns its assigned id.
func (s *Store) CreatePersona(ctx context.Context, name, email string) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	result, err := s.sqlDB.ExecContext(ctx,
		"INSERT INTO "+personaTable+" (name, email) VALUES (?, ?)",
		name,
		email,
	)
	if err != nil {
		return 0, classify("create persona", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, classify("create persona", err)
	}
	return id, nil
}

// UpdatePersona replaces name and email for id. An absent id is a no-op.
func (s *Store) UpdatePersona(ctx context.Context, id int64, name, email string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		"UPDATE "+personaTable+" SET name = ?, email = ? WHERE id = ?",
		name,
		email,
		id,
	); err != nil {
		return classify("update persona", err)
	}
	return nil
}

// DeletePersona removes id permanently. An absent id is a no-op.
func (s *Store) DeletePersona(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, "DELETE FROM "+personaTable+" WHERE id = ?", id); err != nil {
		return classify("delete persona", err)
	}
	return nil
}

// TableExists reports whether the persona table is present.
func (s *Store) TableExists(ctx context.Context) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	var name string
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
		personaTable,
	).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, classify("check persona table", err)
	}
	return true, nil
}

// CountPersonas returns the number of stored personas.
func (s *Store) CountPersonas(ctx context.Context) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var count int64
	if err := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+personaTable).Scan(&count); err != nil {
		return 0, classify("count personas", err)
	}
	return count, nil
}

func (s *Store) ready(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("%w: storage is not configured", storage.ErrUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	return nil
}

// classify wraps a driver error in the storage kind callers inspect.
func classify(op string, err error) error {
	if isMissingTable(err) {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrSchemaMissing, err)
	}
	return fmt.Errorf("%s: %w: %w", op, storage.ErrUnavailable, err)
}

func isMissingTable(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() != sqlite3lib.SQLITE_ERROR {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such table")
}

var _ storage.PersonaStore = (*Store)(nil)
