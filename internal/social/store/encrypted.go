package store

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/dropDatabas3/hellosocial/internal/security/secretbox"
	"github.com/dropDatabas3/hellosocial/internal/social"
)

// Sealer seals and opens token strings. *secretbox.Box satisfies it.
type Sealer interface {
	Seal(plain string) (string, error)
	Open(sealed string) (string, error)
}

var _ Sealer = (*secretbox.Box)(nil)

// encrypted seals access and refresh tokens before they reach the backend.
type encrypted struct {
	next social.ConnectionRepository
	box  Sealer
}

// Encrypted wraps repo so that tokens are stored sealed with box.
func Encrypted(repo social.ConnectionRepository, box Sealer) social.ConnectionRepository {
	return &encrypted{next: repo, box: box}
}

func (e *encrypted) seal(conn social.Connection) (social.Connection, error) {
	var err error
	if conn.AccessToken, err = e.box.Seal(conn.AccessToken); err != nil {
		return conn, fmt.Errorf("seal access token: %w", err)
	}
	if conn.RefreshToken, err = e.box.Seal(conn.RefreshToken); err != nil {
		return conn, fmt.Errorf("seal refresh token: %w", err)
	}
	return conn, nil
}

func (e *encrypted) open(conn social.Connection) (social.Connection, error) {
	var err error
	if conn.AccessToken, err = e.box.Open(conn.AccessToken); err != nil {
		return conn, fmt.Errorf("open access token: %w", err)
	}
	if conn.RefreshToken, err = e.box.Open(conn.RefreshToken); err != nil {
		return conn, fmt.Errorf("open refresh token: %w", err)
	}
	return conn, nil
}

func (e *encrypted) FindPrimary(ctx context.Context, userID string, provider social.ProviderID) (*social.Connection, error) {
	conn, err := e.next.FindPrimary(ctx, userID, provider)
	if err != nil {
		return nil, err
	}
	opened, err := e.open(*conn)
	if err != nil {
		return nil, err
	}
	return &opened, nil
}

func (e *encrypted) FindAll(ctx context.Context, userID string) ([]social.Connection, error) {
	conns, err := e.next.FindAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range conns {
		if conns[i], err = e.open(conns[i]); err != nil {
			return nil, err
		}
	}
	return conns, nil
}

func (e *encrypted) Save(ctx context.Context, conn social.Connection) error {
	sealed, err := e.seal(conn)
	if err != nil {
		return err
	}
	return e.next.Save(ctx, sealed)
}

func (e *encrypted) UpdateToken(ctx context.Context, userID string, provider social.ProviderID, token *oauth2.Token) error {
	if token == nil {
		return nil
	}
	sealed := *token
	var err error
	if sealed.AccessToken, err = e.box.Seal(token.AccessToken); err != nil {
		return fmt.Errorf("seal access token: %w", err)
	}
	if sealed.RefreshToken, err = e.box.Seal(token.RefreshToken); err != nil {
		return fmt.Errorf("seal refresh token: %w", err)
	}
	return e.next.UpdateToken(ctx, userID, provider, &sealed)
}

func (e *encrypted) Remove(ctx context.Context, userID string, provider social.ProviderID) error {
	return e.next.Remove(ctx, userID, provider)
}

// Unwrap devuelve el backend envuelto.
func (e *encrypted) Unwrap() social.ConnectionRepository { return e.next }

func (e *encrypted) Ping(ctx context.Context) error { return e.next.Ping(ctx) }
func (e *encrypted) Close() error                   { return e.next.Close() }
