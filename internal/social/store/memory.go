package store

import (
	"context"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"

	"github.com/dropDatabas3/hellosocial/internal/social"
)

// Memory keeps connections in a process local go-cache without expiry.
type Memory struct {
	mu  sync.Mutex // serializa read-modify-write en UpdateToken
	c   *gocache.Cache
	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{c: gocache.New(gocache.NoExpiration, 0), now: time.Now}
}

func memKey(userID string, provider social.ProviderID) string {
	return userID + "|" + string(provider)
}

func (m *Memory) FindPrimary(_ context.Context, userID string, provider social.ProviderID) (*social.Connection, error) {
	v, ok := m.c.Get(memKey(userID, provider))
	if !ok {
		return nil, social.ErrNoConnection
	}
	conn := v.(social.Connection)
	return &conn, nil
}

func (m *Memory) FindAll(_ context.Context, userID string) ([]social.Connection, error) {
	prefix := userID + "|"
	var out []social.Connection
	for k, it := range m.c.Items() {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		out = append(out, it.Object.(social.Connection))
	}
	sortConnections(out)
	return out, nil
}

func (m *Memory) Save(_ context.Context, conn social.Connection) error {
	conn, err := normalize(conn, m.now())
	if err != nil {
		return err
	}
	m.c.Set(memKey(conn.UserID, conn.Provider), conn, gocache.NoExpiration)
	return nil
}

func (m *Memory) UpdateToken(_ context.Context, userID string, provider social.ProviderID, token *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := memKey(userID, provider)
	v, ok := m.c.Get(k)
	if !ok {
		return social.ErrNoConnection
	}
	conn := v.(social.Connection)
	conn.SetToken(token)
	m.c.Set(k, conn, gocache.NoExpiration)
	return nil
}

func (m *Memory) Remove(_ context.Context, userID string, provider social.ProviderID) error {
	m.c.Delete(memKey(userID, provider))
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }
func (m *Memory) Close() error               { m.c.Flush(); return nil }
