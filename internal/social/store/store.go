// Package store holds the ConnectionRepository backends.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dropDatabas3/hellosocial/internal/social"
)

// Drivers soportados.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config selects and configures a backend.
type Config struct {
	Driver   string
	Redis    RedisConfig
	Postgres PostgresConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type PostgresConfig struct {
	DSN      string
	MaxConns int
	Migrate  bool
}

// New abre el backend indicado por cfg.Driver. An empty driver means memory.
func New(ctx context.Context, cfg Config) (social.ConnectionRepository, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		return NewRedis(ctx, cfg.Redis)
	case DriverPostgres:
		return NewPostgres(ctx, cfg.Postgres)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

// sortConnections orders by provider then rank.
func sortConnections(conns []social.Connection) {
	sort.Slice(conns, func(i, j int) bool {
		if conns[i].Provider != conns[j].Provider {
			return conns[i].Provider < conns[j].Provider
		}
		return conns[i].Rank < conns[j].Rank
	})
}

// normalize fills the fields every backend expects on Save.
func normalize(conn social.Connection, now time.Time) (social.Connection, error) {
	if conn.UserID == "" {
		return conn, fmt.Errorf("store: connection without user id")
	}
	if conn.Provider == "" {
		return conn, fmt.Errorf("store: connection without provider")
	}
	if conn.Rank <= 0 {
		conn.Rank = 1
	}
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = now.UTC()
	}
	return conn, nil
}
