// Package google implements the Google provider API on top of its OpenID
// Connect discovery document and userinfo endpoint.
package google

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/dropDatabas3/hellosocial/internal/social"
)

const (
	Issuer       = "https://accounts.google.com"
	DefaultScope = oidc.ScopeOpenID + " email profile"
)

// Endpoints publicados en el discovery document de Google. New los usa sin
// ir a la red; Discover los lee del issuer.
var Endpoints = oidc.ProviderConfig{
	IssuerURL:   Issuer,
	AuthURL:     "https://accounts.google.com/o/oauth2/v2/auth",
	TokenURL:    "https://oauth2.googleapis.com/token",
	UserInfoURL: "https://openidconnect.googleapis.com/v1/userinfo",
	JWKSURL:     "https://www.googleapis.com/oauth2/v3/certs",
	Algorithms:  []string{oidc.RS256},
}

// API reads Google profiles. The zero value is not usable; call New,
// NewFromConfig or Discover.
type API struct {
	provider *oidc.Provider
}

// New returns the API with Google's production endpoints.
func New() *API {
	return NewFromConfig(Endpoints)
}

// NewFromConfig builds the API from explicit endpoints.
func NewFromConfig(pc oidc.ProviderConfig) *API {
	return &API{provider: pc.NewProvider(context.Background())}
}

// Discover lee el discovery document de issuer con hc.
func Discover(ctx context.Context, issuer string, hc *http.Client) (*API, error) {
	if hc != nil {
		ctx = oidc.ClientContext(ctx, hc)
	}
	p, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("google: oidc discovery: %w", err)
	}
	return &API{provider: p}, nil
}

func (a *API) ID() social.ProviderID     { return social.Google }
func (a *API) Endpoint() oauth2.Endpoint { return a.provider.Endpoint() }
func (a *API) DefaultScope() string      { return DefaultScope }

type claims struct {
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
	Locale     string `json:"locale"`
}

// FetchProfile calls the OpenID Connect userinfo endpoint.
func (a *API) FetchProfile(ctx context.Context, hc *http.Client, ts oauth2.TokenSource) (*social.Profile, error) {
	if hc != nil {
		ctx = oidc.ClientContext(ctx, hc)
	}
	info, err := a.provider.UserInfo(ctx, ts)
	if err != nil {
		return nil, err
	}
	var c claims
	if err := info.Claims(&c); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	var raw map[string]any
	_ = info.Claims(&raw)

	return &social.Profile{
		ID:         info.Subject,
		Name:       c.Name,
		GivenName:  c.GivenName,
		FamilyName: c.FamilyName,
		Email:      info.Email,
		Picture:    c.Picture,
		Link:       info.Profile,
		Locale:     c.Locale,
		Raw:        raw,
	}, nil
}
