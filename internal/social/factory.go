package social

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/dropDatabas3/hellosocial/internal/metrics"
)

// ProviderAPI is what a provider implementation supplies: its OAuth
// endpoint and a way to read the connected user's profile.
type ProviderAPI interface {
	ID() ProviderID
	Endpoint() oauth2.Endpoint
	DefaultScope() string
	// FetchProfile calls the profile endpoint. hc is already authorized with
	// ts; ts is there for APIs that attach the token themselves.
	FetchProfile(ctx context.Context, hc *http.Client, ts oauth2.TokenSource) (*Profile, error)
}

// Client is an authenticated handle on a provider API, valid for one request.
type Client interface {
	Provider() ProviderID
	Profile(ctx context.Context) (*Profile, error)
}

// ConnectionFactory performs the OAuth handshake for one provider with one
// fixed scope, and builds clients for stored connections.
type ConnectionFactory struct {
	api        ProviderAPI
	config     *oauth2.Config
	httpClient *http.Client
	now        func() time.Time
}

// FactoryOption customizes a ConnectionFactory.
type FactoryOption func(*ConnectionFactory)

// WithHTTPClient sets the client used for token and profile calls.
func WithHTTPClient(hc *http.Client) FactoryOption {
	return func(f *ConnectionFactory) {
		if hc != nil {
			f.httpClient = hc
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) FactoryOption {
	return func(f *ConnectionFactory) { f.now = now }
}

// RegisterProvider creates the connection factory of api. scope is a
// space-separated list; when empty the provider default is used.
func RegisterProvider(api ProviderAPI, appID, appSecret, scope, redirectURL string, opts ...FactoryOption) (*ConnectionFactory, error) {
	if strings.TrimSpace(appID) == "" || strings.TrimSpace(appSecret) == "" {
		return nil, fmt.Errorf("%w (%s)", ErrMissingCredentials, api.ID())
	}
	if strings.TrimSpace(scope) == "" {
		scope = api.DefaultScope()
	}

	f := &ConnectionFactory{
		api: api,
		config: &oauth2.Config{
			ClientID:     appID,
			ClientSecret: appSecret,
			Endpoint:     api.Endpoint(),
			RedirectURL:  redirectURL,
			Scopes:       strings.Fields(scope),
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *ConnectionFactory) Provider() ProviderID { return f.api.ID() }

// Scope returns the requested scope as sent to the provider.
func (f *ConnectionFactory) Scope() string { return strings.Join(f.config.Scopes, " ") }

func (f *ConnectionFactory) ctx(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
}

// AuthCodeURL is the provider authorization URL for state.
func (f *ConnectionFactory) AuthCodeURL(state string) string {
	return f.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token.
func (f *ConnectionFactory) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := f.config.Exchange(f.ctx(ctx), code)
	if err != nil {
		return nil, &ProviderError{Provider: f.api.ID(), Op: "token exchange", Err: err}
	}
	return tok, nil
}

// CreateConnection reads the provider profile with token and returns the
// connection to persist for userID.
func (f *ConnectionFactory) CreateConnection(ctx context.Context, userID string, token *oauth2.Token) (*Connection, error) {
	src := oauth2.StaticTokenSource(token)
	profile, err := f.api.FetchProfile(ctx, f.authorized(ctx, src), src)
	if err != nil {
		return nil, &ProviderError{Provider: f.api.ID(), Op: "profile", Err: err}
	}

	conn := &Connection{
		UserID:         userID,
		Provider:       f.api.ID(),
		ProviderUserID: profile.ID,
		Rank:           1,
		DisplayName:    profile.Name,
		ProfileURL:     profile.Link,
		ImageURL:       profile.Picture,
		Scope:          grantedScope(token, f.Scope()),
		CreatedAt:      f.now().UTC(),
	}
	conn.SetToken(token)
	return conn, nil
}

// Client builds the API client of conn. onRefresh, when not nil, is called
// with the new token whenever the provider refreshes it.
func (f *ConnectionFactory) Client(ctx context.Context, conn *Connection, onRefresh func(*oauth2.Token)) Client {
	src := f.config.TokenSource(f.ctx(ctx), conn.Token())
	if onRefresh != nil {
		src = &notifyingSource{src: src, last: conn.AccessToken, notify: onRefresh}
	}
	return &apiClient{api: f.api, http: f.authorized(ctx, src), src: src}
}

func (f *ConnectionFactory) authorized(ctx context.Context, src oauth2.TokenSource) *http.Client {
	hc := oauth2.NewClient(f.ctx(ctx), src)
	hc.Timeout = f.httpClient.Timeout
	return hc
}

func grantedScope(t *oauth2.Token, requested string) string {
	if s, ok := t.Extra("scope").(string); ok && s != "" {
		return s
	}
	return requested
}

type apiClient struct {
	api  ProviderAPI
	http *http.Client
	src  oauth2.TokenSource
}

func (c *apiClient) Provider() ProviderID { return c.api.ID() }

func (c *apiClient) Profile(ctx context.Context) (*Profile, error) {
	p, err := c.api.FetchProfile(ctx, c.http, c.src)
	metrics.RecordProfileFetch(c.api.ID().String(), err)
	if err != nil {
		return nil, &ProviderError{Provider: c.api.ID(), Op: "profile", Err: err}
	}
	return p, nil
}

type notifyingSource struct {
	src    oauth2.TokenSource
	last   string
	notify func(*oauth2.Token)
}

func (s *notifyingSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if t.AccessToken != s.last {
		s.last = t.AccessToken
		s.notify(t)
	}
	return t, nil
}
