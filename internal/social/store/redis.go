package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	rdb "github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"github.com/dropDatabas3/hellosocial/internal/social"
)

// Redis stores one hash per user, {prefix}:conn:{user}, with a JSON field per provider.
type Redis struct {
	c      *rdb.Client
	prefix string
	now    func() time.Time
}

// NewRedis connects and pings the server.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	c := rdb.NewClient(&rdb.Options{Addr: addr, Password: cfg.Password, DB: cfg.DB})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}
	return NewRedisWithClient(c, cfg.Prefix), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(c *rdb.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "hellosocial"
	}
	return &Redis{c: c, prefix: prefix, now: time.Now}
}

func (r *Redis) key(userID string) string {
	return r.prefix + ":conn:" + userID
}

func (r *Redis) FindPrimary(ctx context.Context, userID string, provider social.ProviderID) (*social.Connection, error) {
	b, err := r.c.HGet(ctx, r.key(userID), string(provider)).Bytes()
	if errors.Is(err, rdb.Nil) {
		return nil, social.ErrNoConnection
	}
	if err != nil {
		return nil, fmt.Errorf("redis: hget: %w", err)
	}
	var conn social.Connection
	if err := json.Unmarshal(b, &conn); err != nil {
		return nil, fmt.Errorf("redis: decode connection: %w", err)
	}
	return &conn, nil
}

func (r *Redis) FindAll(ctx context.Context, userID string) ([]social.Connection, error) {
	fields, err := r.c.HGetAll(ctx, r.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: hgetall: %w", err)
	}
	out := make([]social.Connection, 0, len(fields))
	for field, raw := range fields {
		var conn social.Connection
		if err := json.Unmarshal([]byte(raw), &conn); err != nil {
			return nil, fmt.Errorf("redis: decode connection %s: %w", field, err)
		}
		out = append(out, conn)
	}
	sortConnections(out)
	return out, nil
}

func (r *Redis) Save(ctx context.Context, conn social.Connection) error {
	conn, err := normalize(conn, r.now())
	if err != nil {
		return err
	}
	b, err := json.Marshal(conn)
	if err != nil {
		return fmt.Errorf("redis: encode connection: %w", err)
	}
	if err := r.c.HSet(ctx, r.key(conn.UserID), string(conn.Provider), b).Err(); err != nil {
		return fmt.Errorf("redis: hset: %w", err)
	}
	return nil
}

// UpdateToken usa WATCH para no pisar un Save o Remove concurrente.
func (r *Redis) UpdateToken(ctx context.Context, userID string, provider social.ProviderID, token *oauth2.Token) error {
	key := r.key(userID)
	field := string(provider)

	txf := func(tx *rdb.Tx) error {
		b, err := tx.HGet(ctx, key, field).Bytes()
		if errors.Is(err, rdb.Nil) {
			return social.ErrNoConnection
		}
		if err != nil {
			return err
		}
		var conn social.Connection
		if err := json.Unmarshal(b, &conn); err != nil {
			return fmt.Errorf("decode connection: %w", err)
		}
		conn.SetToken(token)
		out, err := json.Marshal(conn)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p rdb.Pipeliner) error {
			p.HSet(ctx, key, field, out)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < 3; attempt++ {
		err := r.c.Watch(ctx, txf, key)
		if errors.Is(err, rdb.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, social.ErrNoConnection) {
			return fmt.Errorf("redis: update token: %w", err)
		}
		return err
	}
	return fmt.Errorf("redis: update token: %w", rdb.TxFailedErr)
}

func (r *Redis) Remove(ctx context.Context, userID string, provider social.ProviderID) error {
	if err := r.c.HDel(ctx, r.key(userID), string(provider)).Err(); err != nil {
		return fmt.Errorf("redis: hdel: %w", err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }
func (r *Redis) Close() error                   { return r.c.Close() }
