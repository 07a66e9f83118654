// Package sqlite provides a SQLite-backed storage.Store for single-node
// deployments.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
	"github.com/omega-realm/arena/internal/storage"
	"github.com/omega-realm/arena/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists player and clan records as JSON documents.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	var data []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT data FROM players WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player %s: %w", id, err)
	}
	var p models.Player
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode player %s: %w", id, err)
	}
	p.Normalize()
	return &p, nil
}

func (s *Store) GetClan(ctx context.Context, name string) (*models.Clan, error) {
	var data []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT data FROM clans WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get clan %s: %w", name, err)
	}
	var c models.Clan
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode clan %s: %w", name, err)
	}
	return &c, nil
}

// Commit writes the batch in one transaction.
func (s *Store) Commit(ctx context.Context, b storage.Batch) error {
	if b.Empty() {
		return nil
	}
	now := time.Now().UTC().UnixMilli()

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range b.NewClans {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode clan %s: %w", c.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO clans (name, leader_id, data, updated_at) VALUES (?, ?, ?, ?)`,
			c.Name, c.LeaderID, data, now,
		); err != nil {
			if isUniqueViolation(err) {
				return apperrors.WithMetadata(apperrors.CodeClanExists,
					fmt.Sprintf("clan %q already exists", c.Name), map[string]string{"clan": c.Name})
			}
			return fmt.Errorf("insert clan %s: %w", c.Name, err)
		}
	}
	for _, c := range b.Clans {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode clan %s: %w", c.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO clans (name, leader_id, data, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET leader_id = excluded.leader_id, data = excluded.data, updated_at = excluded.updated_at`,
			c.Name, c.LeaderID, data, now,
		); err != nil {
			return fmt.Errorf("put clan %s: %w", c.Name, err)
		}
	}
	for _, name := range b.DeleteClans {
		if _, err := tx.ExecContext(ctx, `DELETE FROM clans WHERE name = ?`, name); err != nil {
			return fmt.Errorf("delete clan %s: %w", name, err)
		}
	}
	for _, p := range b.Players {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode player %s: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO players (id, name, level, data, updated_at) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, level = excluded.level, data = excluded.data, updated_at = excluded.updated_at`,
			p.ID, p.Name, p.Level, data, now,
		); err != nil {
			return fmt.Errorf("put player %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.Store = (*Store)(nil)
