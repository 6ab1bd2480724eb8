package social

import (
	"context"
	"errors"
)

// Result is the outcome of a connection check. Redirect is set only when
// Connected is false.
type Result struct {
	Connected bool
	Redirect  string
}

// Gate decides whether the current session holds a connection to a provider.
type Gate struct {
	repo ConnectionRepository
}

// NewGate creates a Gate reading from repo.
func NewGate(repo ConnectionRepository) *Gate {
	return &Gate{repo: repo}
}

// CheckConnection reads the primary connection of userID for provider.
// A missing connection is a normal outcome; only repository failures are
// returned as errors.
func (g *Gate) CheckConnection(ctx context.Context, userID string, provider ProviderID) (Result, error) {
	notConnected := Result{Redirect: provider.ConnectPath()}
	if userID == "" {
		return notConnected, nil
	}

	conn, err := g.repo.FindPrimary(ctx, userID, provider)
	if errors.Is(err, ErrNoConnection) {
		return notConnected, nil
	}
	if err != nil {
		return Result{}, err
	}
	if conn == nil {
		return notConnected, nil
	}
	return Result{Connected: true}, nil
}
