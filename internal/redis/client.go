package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omega-realm/arena/internal/config"
)

// Client wraps the Redis client
type Client struct {
	*redis.Client
}

// Config holds Redis configuration
type Config struct {
	Host        string        `env:"REDIS_HOST" envDefault:"localhost"`
	Port        string        `env:"REDIS_PORT" envDefault:"6379"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize    int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"10s"`
}

// LoadConfigFromEnv loads Redis configuration from environment variables
func LoadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewClient creates a new Redis client with the provided configuration
func NewClient(config *Config) (*Client, error) {
	addr := fmt.Sprintf("%s:%s", config.Host, config.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolTimeout:  30 * time.Second,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("[Redis] Connected to %s (DB: %d)", addr, config.DB)
	log.Printf("[Redis] Pool config: PoolSize=%d", config.PoolSize)

	return &Client{rdb}, nil
}
