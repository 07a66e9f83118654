package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/omega-realm/arena/internal/config"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// Config holds database configuration
type Config struct {
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER" envDefault:"arena"`
	Password        string        `env:"DB_PASSWORD" envDefault:"arena_password"`
	DBName          string        `env:"DB_NAME" envDefault:"arena_db"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"10m"`
}

// LoadConfigFromEnv loads database configuration from environment variables
func LoadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DSN returns the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// NewConnection creates a new database connection with the provided configuration
func NewConnection(config *Config) (*DB, error) {
	db, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	// Test connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("[Database] Connected to %s:%s/%s", config.Host, config.Port, config.DBName)
	log.Printf("[Database] Pool config: MaxOpen=%d, MaxIdle=%d", config.MaxOpenConns, config.MaxIdleConns)

	return &DB{db}, nil
}

// InitSchema creates database tables if they don't exist
func (db *DB) InitSchema() error {
	schema := `
	-- Player records, stored as JSON documents
	CREATE TABLE IF NOT EXISTS players (
		id VARCHAR(64) PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		level INTEGER NOT NULL DEFAULT 1,
		pvp_wins INTEGER NOT NULL DEFAULT 0,
		data JSONB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Clans table
	CREATE TABLE IF NOT EXISTS clans (
		name VARCHAR(50) PRIMARY KEY,
		leader_id VARCHAR(64) NOT NULL,
		data JSONB NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Create indexes for performance
	CREATE INDEX IF NOT EXISTS idx_players_level ON players(level DESC);
	CREATE INDEX IF NOT EXISTS idx_players_pvp_wins ON players(pvp_wins DESC);
	CREATE INDEX IF NOT EXISTS idx_clans_leader_id ON clans(leader_id);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Initialize triggers and functions
	if err := db.initTriggers(); err != nil {
		return fmt.Errorf("failed to initialize triggers: %w", err)
	}

	log.Println("[Database] Schema initialized with indexes and triggers")
	return nil
}

// initTriggers creates database triggers for automation
func (db *DB) initTriggers() error {
	triggers := `
	-- Function to update record timestamps
	CREATE OR REPLACE FUNCTION touch_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = CURRENT_TIMESTAMP;
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;

	DROP TRIGGER IF EXISTS trg_players_updated_at ON players;
	CREATE TRIGGER trg_players_updated_at
		BEFORE UPDATE ON players
		FOR EACH ROW
		EXECUTE FUNCTION touch_updated_at();

	DROP TRIGGER IF EXISTS trg_clans_updated_at ON clans;
	CREATE TRIGGER trg_clans_updated_at
		BEFORE UPDATE ON clans
		FOR EACH ROW
		EXECUTE FUNCTION touch_updated_at();
	`

	_, err := db.Exec(triggers)
	return err
}
