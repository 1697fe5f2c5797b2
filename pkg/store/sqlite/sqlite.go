// Package sqlite stores models in a single SQLite file.
//
// Entities are rows keyed by (model, handle) with the kind in its own indexed
// column and the attribute list as a JSON blob, so point lookups and
// per-kind scans are both index reads.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/matzehuels/ifctree/pkg/ifc"
	"github.com/matzehuels/ifctree/pkg/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS models (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS entities (
	model      TEXT    NOT NULL,
	handle     INTEGER NOT NULL,
	kind       TEXT    NOT NULL,
	attributes BLOB    NOT NULL,
	PRIMARY KEY (model, handle)
);
CREATE INDEX IF NOT EXISTS entities_kind ON entities (model, kind, handle);
`

// Store is a SQLite-backed store.Store.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path. ":memory:" opens a
// private in-memory database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "ifctree.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// Every connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Save implements store.Store.
func (s *Store) Save(ctx context.Context, info store.ModelInfo, entities []*ifc.Entity) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entities WHERE model = ?`, string(info.ID)); err != nil {
		return fmt.Errorf("clear entities: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO models (id, name) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		string(info.ID), info.Name); err != nil {
		return fmt.Errorf("upsert model: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO entities (model, handle, kind, attributes) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for _, e := range entities {
		attrs, err := ifc.EncodeAttributes(e.Attributes)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.Handle, err)
		}
		if _, err := stmt.ExecContext(ctx, string(info.ID), int64(e.Handle), string(e.Kind), attrs); err != nil {
			return fmt.Errorf("insert %s: %w", e.Handle, err)
		}
	}
	return tx.Commit()
}

// Entity implements ifc.EntityStore.
func (s *Store) Entity(ctx context.Context, model ifc.ModelID, h ifc.Handle) (*ifc.Entity, error) {
	var (
		kind  string
		attrs []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT kind, attributes FROM entities WHERE model = ? AND handle = ?`,
		string(model), int64(h)).Scan(&kind, &attrs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ifc.ErrEntityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select entity: %w", err)
	}
	return decode(model, h, kind, attrs)
}

// EntitiesOfKind implements ifc.EntityStore.
func (s *Store) EntitiesOfKind(ctx context.Context, model ifc.ModelID, kind ifc.Kind) ([]*ifc.Entity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT handle, attributes FROM entities WHERE model = ? AND kind = ? ORDER BY handle`,
		string(model), string(kind))
	if err != nil {
		return nil, fmt.Errorf("select entities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*ifc.Entity
	for rows.Next() {
		var (
			h     int64
			attrs []byte
		)
		if err := rows.Scan(&h, &attrs); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		e, err := decode(model, ifc.Handle(h), string(kind), attrs)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Model implements store.Store.
func (s *Store) Model(ctx context.Context, id ifc.ModelID) (store.ModelInfo, error) {
	info := store.ModelInfo{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT m.name, (SELECT COUNT(*) FROM entities e WHERE e.model = m.id) FROM models m WHERE m.id = ?`,
		string(id)).Scan(&info.Name, &info.Entities)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ModelInfo{}, store.ErrModelNotFound
	}
	if err != nil {
		return store.ModelInfo{}, fmt.Errorf("select model: %w", err)
	}
	return info, nil
}

// Models implements store.Store.
func (s *Store) Models(ctx context.Context) ([]store.ModelInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.id, m.name, (SELECT COUNT(*) FROM entities e WHERE e.model = m.id) FROM models m ORDER BY m.id`)
	if err != nil {
		return nil, fmt.Errorf("select models: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []store.ModelInfo
	for rows.Next() {
		var info store.ModelInfo
		var id string
		if err := rows.Scan(&id, &info.Name, &info.Entities); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		info.ID = ifc.ModelID(id)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete implements store.Store.
func (s *Store) Delete(ctx context.Context, id ifc.ModelID) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM entities WHERE model = ?`, string(id)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM models WHERE id = ?`, string(id)); err != nil {
		return err
	}
	return tx.Commit()
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func decode(model ifc.ModelID, h ifc.Handle, kind string, attrs []byte) (*ifc.Entity, error) {
	as, err := ifc.DecodeAttributes(attrs)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", h, err)
	}
	return &ifc.Entity{Model: model, Handle: h, Kind: ifc.Kind(kind), Attributes: as}, nil
}

var _ store.Store = (*Store)(nil)
