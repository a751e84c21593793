// Package store persists structural models in sqlite. It implements the
// model read and mutation contracts the drawing engine consumes.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/p-astudillo/nifes-strucs/pkg/geometry"
	"github.com/p-astudillo/nifes-strucs/pkg/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS points (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    x  REAL NOT NULL,
    y  REAL NOT NULL,
    z  REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS elements (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    start_point_id INTEGER NOT NULL REFERENCES points(id),
    end_point_id   INTEGER NOT NULL REFERENCES points(id),
    CHECK (start_point_id != end_point_id)
);

CREATE TABLE IF NOT EXISTS revisions (
    id         TEXT PRIMARY KEY,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// Store is a sqlite-backed structural model. It satisfies model.Store.
type Store struct {
	db       *sql.DB
	log      *slog.Logger
	onChange func()
}

// Open opens (or creates) a model database at the given path and ensures
// the schema exists
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// SetOnChange registers the model-change feed callback, invoked after every
// successful mutation. Hosts use it to refresh snap snapshots.
func (s *Store) SetOnChange(fn func()) {
	s.onChange = fn
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

// ListPoints returns all points in structural coordinates
func (s *Store) ListPoints(ctx context.Context) ([]model.Point, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, x, y, z FROM points ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list points: %w", err)
	}
	defer rows.Close()

	var points []model.Point
	for rows.Next() {
		var p model.Point
		if err := rows.Scan(&p.ID, &p.Position.X, &p.Position.Y, &p.Position.Z); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// ListElements returns all elements
func (s *Store) ListElements(ctx context.Context) ([]model.Element, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, start_point_id, end_point_id FROM elements ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list elements: %w", err)
	}
	defer rows.Close()

	var elements []model.Element
	for rows.Next() {
		var e model.Element
		if err := rows.Scan(&e.ID, &e.StartPointID, &e.EndPointID); err != nil {
			return nil, fmt.Errorf("scan element: %w", err)
		}
		elements = append(elements, e)
	}
	return elements, rows.Err()
}

// CreatePoint inserts a point and returns its assigned identity
func (s *Store) CreatePoint(ctx context.Context, position geometry.Vector3) (model.PointID, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO points (x, y, z) VALUES (?, ?, ?)`,
		position.X, position.Y, position.Z)
	if err != nil {
		return 0, fmt.Errorf("create point: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("point id: %w", err)
	}
	s.stampRevision(ctx)
	s.log.Debug("point created", "id", id)
	s.notify()
	return model.PointID(id), nil
}

// CreateElement inserts an element between two existing points
func (s *Store) CreateElement(ctx context.Context, start, end model.PointID) (model.ElementID, error) {
	for _, id := range [2]model.PointID{start, end} {
		exists, err := s.pointExists(ctx, id)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, fmt.Errorf("create element: point %d: %w", id, model.ErrNotFound)
		}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO elements (start_point_id, end_point_id) VALUES (?, ?)`,
		start, end)
	if err != nil {
		return 0, fmt.Errorf("create element: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("element id: %w", err)
	}
	s.stampRevision(ctx)
	s.log.Debug("element created", "id", id, "start", start, "end", end)
	s.notify()
	return model.ElementID(id), nil
}

// DeletePoint removes a point and every element attached to it
func (s *Store) DeletePoint(ctx context.Context, id model.PointID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete point: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM elements WHERE start_point_id = ? OR end_point_id = ?`, id, id); err != nil {
		return fmt.Errorf("delete attached elements: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM points WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete point: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete point: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete point %d: %w", id, model.ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete point: %w", err)
	}
	s.stampRevision(ctx)
	s.notify()
	return nil
}

// DeleteElement removes an element
func (s *Store) DeleteElement(ctx context.Context, id model.ElementID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM elements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete element: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete element: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete element %d: %w", id, model.ErrNotFound)
	}
	s.stampRevision(ctx)
	s.notify()
	return nil
}

// Revision returns the tag of the latest mutation, or empty for a fresh
// database. Hosts compare tags to detect external changes.
func (s *Store) Revision(ctx context.Context) (string, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id FROM revisions ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("revision: %w", err)
	}
	return id, nil
}

func (s *Store) pointExists(ctx context.Context, id model.PointID) (bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT 1 FROM points WHERE id = ?`, id)
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("point lookup: %w", err)
	}
	return true, nil
}

// stampRevision records a mutation tag; failures are logged, not surfaced,
// because the mutation itself already succeeded
func (s *Store) stampRevision(ctx context.Context) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO revisions (id) VALUES (?)`, uuid.NewString()); err != nil {
		s.log.Warn("revision stamp failed", "error", err)
	}
}
