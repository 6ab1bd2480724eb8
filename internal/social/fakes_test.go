package social

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

// fakeRepo is an in-memory ConnectionRepository for package tests.
type fakeRepo struct {
	mu      sync.Mutex
	conns   map[string]Connection
	err     error
	finds   int
	updates []*oauth2.Token
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{conns: make(map[string]Connection)}
}

func fakeKey(userID string, p ProviderID) string { return userID + "|" + string(p) }

func (r *fakeRepo) FindPrimary(_ context.Context, userID string, provider ProviderID) (*Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.conns[fakeKey(userID, provider)]
	if !ok {
		return nil, ErrNoConnection
	}
	return &c, nil
}

func (r *fakeRepo) FindAll(_ context.Context, userID string) ([]Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Connection
	for _, c := range r.conns {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, r.err
}

func (r *fakeRepo) Save(_ context.Context, conn Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.conns[fakeKey(conn.UserID, conn.Provider)] = conn
	return nil
}

func (r *fakeRepo) UpdateToken(_ context.Context, userID string, provider ProviderID, token *oauth2.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, token)
	c, ok := r.conns[fakeKey(userID, provider)]
	if !ok {
		return ErrNoConnection
	}
	c.SetToken(token)
	r.conns[fakeKey(userID, provider)] = c
	return nil
}

func (r *fakeRepo) Remove(_ context.Context, userID string, provider ProviderID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, fakeKey(userID, provider))
	return nil
}

func (r *fakeRepo) Ping(context.Context) error { return r.err }
func (r *fakeRepo) Close() error               { return nil }

// fakeClient counts profile reads.
type fakeClient struct {
	provider ProviderID
	profile  *Profile
	err      error
	calls    int
}

func (c *fakeClient) Provider() ProviderID { return c.provider }

func (c *fakeClient) Profile(context.Context) (*Profile, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.profile, nil
}
