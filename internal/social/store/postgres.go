package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/oauth2"

	"github.com/dropDatabas3/hellosocial/internal/social"
	migrations "github.com/dropDatabas3/hellosocial/migrations/postgres"
)

// Postgres stores connections in the social_connection table.
type Postgres struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgres abre el pool, verifica la conexión y opcionalmente migra.
func NewPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	} else {
		poolCfg.MaxConns = 10
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}

	if cfg.Migrate {
		if _, err := NewMigrator(migrations.FS, migrations.Dir).Run(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("pg: migrate: %w", err)
		}
	}
	return &Postgres{pool: pool, now: time.Now}, nil
}

const connectionColumns = `user_id, provider, provider_user_id, rank, display_name, profile_url,
	image_url, access_token, refresh_token, token_type, expires_at, scope, created_at`

func scanConnection(row pgx.Row) (social.Connection, error) {
	var (
		c        social.Connection
		provider string
		expires  *time.Time
	)
	err := row.Scan(&c.UserID, &provider, &c.ProviderUserID, &c.Rank, &c.DisplayName, &c.ProfileURL,
		&c.ImageURL, &c.AccessToken, &c.RefreshToken, &c.TokenType, &expires, &c.Scope, &c.CreatedAt)
	if err != nil {
		return c, err
	}
	c.Provider = social.ProviderID(provider)
	if expires != nil {
		c.Expiry = *expires
	}
	return c, nil
}

// nullIfZero maps a zero expiry to SQL NULL.
func nullIfZero(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (p *Postgres) FindPrimary(ctx context.Context, userID string, provider social.ProviderID) (*social.Connection, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+connectionColumns+`
		FROM social_connection
		WHERE user_id = $1 AND provider = $2 AND rank = 1`, userID, string(provider))
	conn, err := scanConnection(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, social.ErrNoConnection
	}
	if err != nil {
		return nil, fmt.Errorf("pg: find primary: %w", err)
	}
	return &conn, nil
}

func (p *Postgres) FindAll(ctx context.Context, userID string) ([]social.Connection, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+connectionColumns+`
		FROM social_connection
		WHERE user_id = $1
		ORDER BY provider, rank`, userID)
	if err != nil {
		return nil, fmt.Errorf("pg: find all: %w", err)
	}
	defer rows.Close()

	var out []social.Connection
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("pg: scan connection: %w", err)
		}
		out = append(out, conn)
	}
	return out, rows.Err()
}

// Save reemplaza la conexión del par (user, provider) en una transacción.
func (p *Postgres) Save(ctx context.Context, conn social.Connection) error {
	conn, err := normalize(conn, p.now())
	if err != nil {
		return err
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pg: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM social_connection WHERE user_id = $1 AND provider = $2`,
		conn.UserID, string(conn.Provider)); err != nil {
		return fmt.Errorf("pg: delete previous: %w", err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO social_connection (`+connectionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		conn.UserID, string(conn.Provider), conn.ProviderUserID, conn.Rank, conn.DisplayName, conn.ProfileURL,
		conn.ImageURL, conn.AccessToken, conn.RefreshToken, conn.TokenType, nullIfZero(conn.Expiry), conn.Scope, conn.CreatedAt,
	); err != nil {
		return fmt.Errorf("pg: insert connection: %w", err)
	}
	return tx.Commit(ctx)
}

func (p *Postgres) UpdateToken(ctx context.Context, userID string, provider social.ProviderID, token *oauth2.Token) error {
	if token == nil {
		return nil
	}
	tag, err := p.pool.Exec(ctx, `UPDATE social_connection
		SET access_token = $3,
		    refresh_token = CASE WHEN $4 = '' THEN refresh_token ELSE $4 END,
		    token_type = $5,
		    expires_at = $6
		WHERE user_id = $1 AND provider = $2 AND rank = 1`,
		userID, string(provider), token.AccessToken, token.RefreshToken, token.TokenType, nullIfZero(token.Expiry))
	if err != nil {
		return fmt.Errorf("pg: update token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return social.ErrNoConnection
	}
	return nil
}

func (p *Postgres) Remove(ctx context.Context, userID string, provider social.ProviderID) error {
	if _, err := p.pool.Exec(ctx,
		`DELETE FROM social_connection WHERE user_id = $1 AND provider = $2`,
		userID, string(provider)); err != nil {
		return fmt.Errorf("pg: remove: %w", err)
	}
	return nil
}

// Pool expone el pool para las métricas.
func (p *Postgres) Pool() *pgxpool.Pool { return p.pool }

func (p *Postgres) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }
func (p *Postgres) Close() error                   { p.pool.Close(); return nil }
