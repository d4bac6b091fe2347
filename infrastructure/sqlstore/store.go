// Package sqlstore provides a SQLite-backed ResourceStore. One row per
// resource, uniqueness enforced on (account, kind, name), cascading
// deletes in a single transaction.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chatkit-dev/sam/domain/entities"
	"github.com/chatkit-dev/sam/domain/ports"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS resources (
	id         TEXT NOT NULL,
	account    TEXT NOT NULL,
	kind       TEXT NOT NULL,
	name       TEXT NOT NULL,
	manifest   TEXT NOT NULL,
	deployed   INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (account, kind, name)
);
CREATE INDEX IF NOT EXISTS idx_resources_kind_name ON resources (kind, name);
`

// storeConfig holds resolved store options.
type storeConfig struct {
	path string
}

func defaultStoreConfig() storeConfig {
	return storeConfig{path: "sam.db"}
}

// Option configures a Store.
type Option func(*storeConfig)

// WithPath sets the SQLite database path. ":memory:" gives an ephemeral
// store.
func WithPath(path string) Option {
	return func(c *storeConfig) {
		c.path = path
	}
}

// Store is the SQLite-backed resource store.
type Store struct {
	db *sql.DB
}

var _ ports.ResourceStore = (*Store)(nil)

// Open opens (and if needed creates) the backing database.
func Open(opts ...Option) (*Store, error) {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := sql.Open("sqlite", cfg.path)
	if err != nil {
		return nil, fmt.Errorf("open resource store: %w", err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create resource schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the record for (account, kind, name), or (nil, nil).
func (s *Store) Get(ctx context.Context, account string, kind entities.Kind, name string) (*entities.ResourceRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, account, kind, name, manifest, deployed, created_at, updated_at
		 FROM resources WHERE account = ? AND kind = ? AND name = ?`,
		account, string(kind), name)
	return scanRecord(row)
}

// GetAnyAccount returns the record for (kind, name) regardless of owner.
func (s *Store) GetAnyAccount(ctx context.Context, kind entities.Kind, name string) (*entities.ResourceRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, account, kind, name, manifest, deployed, created_at, updated_at
		 FROM resources WHERE kind = ? AND name = ? LIMIT 1`,
		string(kind), name)
	return scanRecord(row)
}

// Upsert creates or replaces the record. On conflict the prior ID,
// created_at and deployed flag survive; manifest and updated_at change.
func (s *Store) Upsert(ctx context.Context, record *entities.ResourceRecord) (*entities.ResourceRecord, error) {
	manifest, err := json.Marshal(record.Manifest)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO resources (id, account, kind, name, manifest, deployed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (account, kind, name) DO UPDATE SET
			manifest = excluded.manifest,
			updated_at = excluded.updated_at`,
		record.ID, record.Account, string(record.Kind), record.Name,
		string(manifest), boolInt(record.Deployed),
		record.CreatedAt.UTC().Format(time.RFC3339Nano), now)
	if err != nil {
		return nil, fmt.Errorf("upsert resource: %w", err)
	}

	return s.Get(ctx, record.Account, record.Kind, record.Name)
}

// Delete removes the record and its dependents in one transaction.
func (s *Store) Delete(ctx context.Context, account string, kind entities.Kind, name string, dependents []entities.ResourceKey) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	removed := 0
	result, err := tx.ExecContext(ctx,
		`DELETE FROM resources WHERE account = ? AND kind = ? AND name = ?`,
		account, string(kind), name)
	if err != nil {
		return 0, err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return 0, nil
	}
	removed += int(n)

	for _, dep := range dependents {
		result, err := tx.ExecContext(ctx,
			`DELETE FROM resources WHERE account = ? AND kind = ? AND name = ?`,
			account, string(dep.Kind), dep.Name)
		if err != nil {
			return 0, err
		}
		n, _ := result.RowsAffected()
		removed += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return removed, nil
}

// List returns account's records of the given kind, sorted by name.
func (s *Store) List(ctx context.Context, account string, kind entities.Kind) ([]*entities.ResourceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, account, kind, name, manifest, deployed, created_at, updated_at
		 FROM resources WHERE account = ? AND kind = ? ORDER BY name`,
		account, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entities.ResourceRecord
	for rows.Next() {
		record, err := scanRecordRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// FindByKind returns every record of the given kind across all accounts.
func (s *Store) FindByKind(ctx context.Context, kind entities.Kind) ([]*entities.ResourceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, account, kind, name, manifest, deployed, created_at, updated_at
		 FROM resources WHERE kind = ? ORDER BY name`,
		string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entities.ResourceRecord
	for rows.Next() {
		record, err := scanRecordRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// SetDeployed flips the deployment flag on an existing record.
func (s *Store) SetDeployed(ctx context.Context, account string, kind entities.Kind, name string, deployed bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE resources SET deployed = ?, updated_at = ? WHERE account = ? AND kind = ? AND name = ?`,
		boolInt(deployed), time.Now().UTC().Format(time.RFC3339Nano),
		account, string(kind), name)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row *sql.Row) (*entities.ResourceRecord, error) {
	record, err := scanRecordRows(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return record, err
}

func scanRecordRows(row rowScanner) (*entities.ResourceRecord, error) {
	var (
		record             entities.ResourceRecord
		kind               string
		manifest           string
		deployed           int
		createdAt, updated string
	)
	if err := row.Scan(&record.ID, &record.Account, &kind, &record.Name,
		&manifest, &deployed, &createdAt, &updated); err != nil {
		return nil, err
	}

	record.Kind = entities.Kind(kind)
	record.Deployed = deployed != 0
	if err := json.Unmarshal([]byte(manifest), &record.Manifest); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	var err error
	if record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, err
	}
	if record.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, err
	}
	return &record, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
