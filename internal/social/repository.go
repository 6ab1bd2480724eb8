package social

import (
	"context"

	"golang.org/x/oauth2"
)

// ConnectionRepository persists connections of the current user.
// Implementations must be safe for concurrent use.
type ConnectionRepository interface {
	// FindPrimary returns the primary connection or ErrNoConnection.
	FindPrimary(ctx context.Context, userID string, provider ProviderID) (*Connection, error)

	// FindAll returns every connection of userID ordered by provider and rank.
	FindAll(ctx context.Context, userID string) ([]Connection, error)

	// Save inserts conn, replacing any connection for the same user and provider.
	Save(ctx context.Context, conn Connection) error

	// UpdateToken replaces the token of an existing connection.
	UpdateToken(ctx context.Context, userID string, provider ProviderID, token *oauth2.Token) error

	// Remove deletes the connection. Removing a missing connection is not an error.
	Remove(ctx context.Context, userID string, provider ProviderID) error

	Ping(ctx context.Context) error
	Close() error
}
