package social

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/oauth2"

	"github.com/dropDatabas3/hellosocial/internal/observability/logger"
)

// Registry holds the connection factory of every enabled provider.
type Registry struct {
	mu        sync.RWMutex
	factories map[ProviderID]*ConnectionFactory
}

// NewRegistry creates a registry with the given factories.
func NewRegistry(factories ...*ConnectionFactory) *Registry {
	r := &Registry{factories: make(map[ProviderID]*ConnectionFactory)}
	for _, f := range factories {
		r.Add(f)
	}
	return r
}

// Add registers f, replacing a previous factory for the same provider.
func (r *Registry) Add(f *ConnectionFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[f.Provider()] = f
}

// Get returns the factory of provider or ErrProviderDisabled.
func (r *Registry) Get(provider ProviderID) (*ConnectionFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderDisabled, provider)
	}
	return f, nil
}

// Providers returns the registered provider ids in name order.
func (r *Registry) Providers() []ProviderID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ProviderID, 0, len(r.factories))
	for id := range r.factories {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CurrentClient returns the client bound to the primary connection of userID,
// or nil when there is none. Refreshed tokens are written back to repo.
func (r *Registry) CurrentClient(ctx context.Context, repo ConnectionRepository, userID string, provider ProviderID) (Client, error) {
	f, err := r.Get(provider)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, nil
	}

	conn, err := repo.FindPrimary(ctx, userID, provider)
	if errors.Is(err, ErrNoConnection) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return f.Client(ctx, conn, func(t *oauth2.Token) {
		// detached: a cancelled request must still persist the refreshed token
		if err := repo.UpdateToken(context.WithoutCancel(ctx), userID, provider, t); err != nil {
			logger.From(ctx).Warn("persist refreshed token failed", logger.Provider(provider.String()), logger.Err(err))
		}
	}), nil
}
