package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	apperrors "github.com/omega-realm/arena/internal/errors"
	"github.com/omega-realm/arena/internal/models"
	"github.com/omega-realm/arena/internal/storage"
)

// uniqueViolation is the PostgreSQL SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

// GetPlayer loads a player record by id
func (db *DB) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	var data []byte
	err := db.QueryRowContext(ctx, `SELECT data FROM players WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}

	var p models.Player
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode player %s: %w", id, err)
	}
	p.Normalize()
	return &p, nil
}

// GetClan loads a clan record by name
func (db *DB) GetClan(ctx context.Context, name string) (*models.Clan, error) {
	var data []byte
	err := db.QueryRowContext(ctx, `SELECT data FROM clans WHERE name = $1`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get clan %s: %w", name, err)
	}

	var c models.Clan
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode clan %s: %w", name, err)
	}
	return &c, nil
}

// Commit writes a batch in a single transaction
func (db *DB) Commit(ctx context.Context, b storage.Batch) error {
	if b.Empty() {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range b.NewClans {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to encode clan %s: %w", c.Name, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO clans (name, leader_id, data) VALUES ($1, $2, $3)`,
			c.Name, c.LeaderID, data,
		)
		if isUniqueViolation(err) {
			return apperrors.WithMetadata(apperrors.CodeClanExists,
				fmt.Sprintf("clan %q already exists", c.Name), map[string]string{"clan": c.Name})
		}
		if err != nil {
			return fmt.Errorf("failed to insert clan %s: %w", c.Name, err)
		}
	}

	for _, c := range b.Clans {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to encode clan %s: %w", c.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO clans (name, leader_id, data) VALUES ($1, $2, $3)
			 ON CONFLICT (name) DO UPDATE SET leader_id = EXCLUDED.leader_id, data = EXCLUDED.data`,
			c.Name, c.LeaderID, data,
		); err != nil {
			return fmt.Errorf("failed to save clan %s: %w", c.Name, err)
		}
	}

	if len(b.DeleteClans) > 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM clans WHERE name = ANY($1)`, pq.Array(b.DeleteClans)); err != nil {
			return fmt.Errorf("failed to delete clans: %w", err)
		}
	}

	for _, p := range b.Players {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to encode player %s: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO players (id, name, level, pvp_wins, data) VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, level = EXCLUDED.level,
			   pvp_wins = EXCLUDED.pvp_wins, data = EXCLUDED.data`,
			p.ID, p.Name, p.Level, p.PvPWins, data,
		); err != nil {
			return fmt.Errorf("failed to save player %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

var _ storage.Store = (*DB)(nil)
