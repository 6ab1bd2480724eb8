package social

import (
	"time"

	"golang.org/x/oauth2"
)

// Connection is a persisted OAuth grant of one user to one provider account.
// Rank 1 is the primary connection for the (UserID, Provider) pair.
type Connection struct {
	UserID         string     `json:"user_id"`
	Provider       ProviderID `json:"provider"`
	ProviderUserID string     `json:"provider_user_id"`
	Rank           int        `json:"rank"`
	DisplayName    string     `json:"display_name,omitempty"`
	ProfileURL     string     `json:"profile_url,omitempty"`
	ImageURL       string     `json:"image_url,omitempty"`
	AccessToken    string     `json:"access_token"`
	RefreshToken   string     `json:"refresh_token,omitempty"`
	TokenType      string     `json:"token_type,omitempty"`
	Expiry         time.Time  `json:"expiry,omitempty"`
	Scope          string     `json:"scope,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Token returns the OAuth token stored in the connection.
func (c Connection) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
		Expiry:       c.Expiry,
	}
}

// SetToken copies t into the connection. An empty refresh token keeps the
// previous one, since most providers only send it on the first grant.
func (c *Connection) SetToken(t *oauth2.Token) {
	if t == nil {
		return
	}
	c.AccessToken = t.AccessToken
	if t.RefreshToken != "" {
		c.RefreshToken = t.RefreshToken
	}
	c.TokenType = t.TokenType
	c.Expiry = t.Expiry
}
