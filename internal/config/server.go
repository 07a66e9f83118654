package config

import "time"

// Store backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Server holds the settings of the HTTP server process.
type Server struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	StoreBackend    string        `env:"STORE_BACKEND" envDefault:"sqlite"`
	SQLitePath      string        `env:"SQLITE_PATH" envDefault:"arena.db"`
	RedisEnabled    bool          `env:"REDIS_ENABLED" envDefault:"false"`
	EncounterTTL    time.Duration `env:"ENCOUNTER_TTL" envDefault:"30m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadServer parses Server from the environment.
func LoadServer() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	return cfg, nil
}
