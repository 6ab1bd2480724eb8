package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dropDatabas3/hellosocial/internal/social"
)

// exerciseRepository runs the behaviour every backend must share.
func exerciseRepository(t *testing.T, repo social.ConnectionRepository) {
	t.Helper()
	ctx := context.Background()
	user := "u-" + uuid.NewString()

	require.NoError(t, repo.Ping(ctx))

	_, err := repo.FindPrimary(ctx, user, social.Google)
	require.ErrorIs(t, err, social.ErrNoConnection)

	require.NoError(t, repo.Save(ctx, sampleConn(user, social.Google)))
	require.NoError(t, repo.Save(ctx, sampleConn(user, social.GitHub)))

	got, err := repo.FindPrimary(ctx, user, social.Google)
	require.NoError(t, err)
	require.Equal(t, "at-google", got.AccessToken)
	require.True(t, got.Expiry.Equal(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, repo.UpdateToken(ctx, user, social.Google, &oauth2.Token{AccessToken: "at-2", TokenType: "Bearer"}))
	got, err = repo.FindPrimary(ctx, user, social.Google)
	require.NoError(t, err)
	require.Equal(t, "at-2", got.AccessToken)
	require.Equal(t, "rt-google", got.RefreshToken)

	all, err := repo.FindAll(ctx, user)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, social.GitHub, all[0].Provider)

	require.NoError(t, repo.Remove(ctx, user, social.Google))
	require.NoError(t, repo.Remove(ctx, user, social.Google))
	_, err = repo.FindPrimary(ctx, user, social.Google)
	require.ErrorIs(t, err, social.ErrNoConnection)

	require.NoError(t, repo.Remove(ctx, user, social.GitHub))
}

func TestBackend_Memory(t *testing.T) {
	exerciseRepository(t, NewMemory())
}

func TestBackend_Redis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	repo, err := NewRedis(context.Background(), RedisConfig{Addr: addr, Prefix: "hellosocial-test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	exerciseRepository(t, repo)
}

func TestBackend_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN not set")
	}
	repo, err := NewPostgres(context.Background(), PostgresConfig{DSN: dsn, Migrate: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	exerciseRepository(t, repo)
}
