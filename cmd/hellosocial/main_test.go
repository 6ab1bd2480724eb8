package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORE_DRIVER", "memory")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	err := root.Execute()
	return out.String(), err
}

func TestConnectionsList_Empty(t *testing.T) {
	out, err := run(t, "connections", "list", "--user", "sid-1")
	require.NoError(t, err)
	require.Contains(t, out, "no connections")
}

func TestConnectionsList_RequiresUser(t *testing.T) {
	_, err := run(t, "connections", "list")
	require.ErrorContains(t, err, "--user")
}

func TestConnectionsRemove(t *testing.T) {
	out, err := run(t, "connections", "remove", "--user", "sid-1", "--provider", "GitHub")
	require.NoError(t, err)
	require.Contains(t, out, "removed github connection of sid-1")

	_, err = run(t, "connections", "remove", "--user", "sid-1", "--provider", "myspace")
	require.Error(t, err)
}

func TestMigrate_RequiresDSN(t *testing.T) {
	t.Setenv("PG_DSN", "")
	_, err := run(t, "migrate")
	require.ErrorContains(t, err, "dsn")
}

func TestServe_RejectsInvalidConfig(t *testing.T) {
	t.Setenv("SOCIAL_STATE_SECRET", "")
	t.Setenv("GOOGLE_APP_ID", "")
	_, err := run(t, "serve", "--env-file", filepath.Join(t.TempDir(), "none.env"))
	require.ErrorContains(t, err, "invalid config")
}
