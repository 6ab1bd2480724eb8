package social

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// testAPI talks to a fake provider served by httptest.
type testAPI struct {
	base string
}

func (a testAPI) ID() ProviderID { return GitHub }

func (a testAPI) Endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   a.base + "/authorize",
		TokenURL:  a.base + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

func (a testAPI) DefaultScope() string { return "read:user user:email" }

func (a testAPI) FetchProfile(ctx context.Context, hc *http.Client, _ oauth2.TokenSource) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.base+"/me", nil)
	if err != nil {
		return nil, err
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(resp.Status)
	}
	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

type fakeProvider struct {
	srv          *httptest.Server
	tokenCalls   atomic.Int32
	profileCalls atomic.Int32
}

// newFakeProvider issues at-1 for codes and at-2 for refresh grants, and
// serves /me only to bearers of a token it issued.
func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	fp := &fakeProvider{}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		fp.tokenCalls.Add(1)
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		switch r.PostForm.Get("grant_type") {
		case "authorization_code":
			if r.PostForm.Get("code") != "good-code" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
				return
			}
			_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600,"refresh_token":"rt-1","scope":"read:user"}`))
		case "refresh_token":
			_, _ = w.Write([]byte(`{"access_token":"at-2","token_type":"Bearer","expires_in":3600}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		fp.profileCalls.Add(1)
		switch r.Header.Get("Authorization") {
		case "Bearer at-1", "Bearer at-2":
			_ = json.NewEncoder(w).Encode(Profile{ID: "1001", Name: "Octo Cat", Link: "https://example.com/octo", Picture: "https://example.com/octo.png"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	})
	fp.srv = httptest.NewServer(mux)
	t.Cleanup(fp.srv.Close)
	return fp
}

func (fp *fakeProvider) factory(t *testing.T) *ConnectionFactory {
	t.Helper()
	f, err := RegisterProvider(testAPI{base: fp.srv.URL}, "client-1", "secret-1", "", "http://localhost/connect/github",
		WithHTTPClient(fp.srv.Client()))
	require.NoError(t, err)
	return f
}

func TestRegisterProvider_RequiresCredentials(t *testing.T) {
	_, err := RegisterProvider(testAPI{}, "", "secret", "", "")
	require.ErrorIs(t, err, ErrMissingCredentials)
	_, err = RegisterProvider(testAPI{}, "id", " ", "", "")
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestRegisterProvider_Scope(t *testing.T) {
	f, err := RegisterProvider(testAPI{}, "id", "secret", "", "")
	require.NoError(t, err)
	require.Equal(t, "read:user user:email", f.Scope())

	f, err = RegisterProvider(testAPI{}, "id", "secret", "  repo   gist ", "")
	require.NoError(t, err)
	require.Equal(t, "repo gist", f.Scope())
	require.Equal(t, GitHub, f.Provider())
}

func TestAuthCodeURL(t *testing.T) {
	f, err := RegisterProvider(testAPI{base: "https://provider.test"}, "client-1", "secret-1", "user:email", "http://localhost/connect/github")
	require.NoError(t, err)

	u, err := url.Parse(f.AuthCodeURL("st-1"))
	require.NoError(t, err)
	require.Equal(t, "/authorize", u.Path)
	q := u.Query()
	require.Equal(t, "client-1", q.Get("client_id"))
	require.Equal(t, "user:email", q.Get("scope"))
	require.Equal(t, "st-1", q.Get("state"))
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, "http://localhost/connect/github", q.Get("redirect_uri"))
	require.Equal(t, "offline", q.Get("access_type"))
}

func TestExchangeAndCreateConnection(t *testing.T) {
	fp := newFakeProvider(t)
	f := fp.factory(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	WithClock(func() time.Time { return now })(f)

	tok, err := f.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	require.Equal(t, "at-1", tok.AccessToken)

	conn, err := f.CreateConnection(context.Background(), "u1", tok)
	require.NoError(t, err)
	require.Equal(t, "u1", conn.UserID)
	require.Equal(t, GitHub, conn.Provider)
	require.Equal(t, "1001", conn.ProviderUserID)
	require.Equal(t, 1, conn.Rank)
	require.Equal(t, "Octo Cat", conn.DisplayName)
	require.Equal(t, "https://example.com/octo.png", conn.ImageURL)
	require.Equal(t, "rt-1", conn.RefreshToken)
	require.Equal(t, "read:user", conn.Scope)
	require.Equal(t, now, conn.CreatedAt)
	require.Equal(t, int32(1), fp.profileCalls.Load())
}

func TestExchange_FailureIsProviderError(t *testing.T) {
	fp := newFakeProvider(t)
	_, err := fp.factory(t).Exchange(context.Background(), "bad-code")

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, GitHub, pe.Provider)
	require.Equal(t, "token exchange", pe.Op)
}

func TestCurrentClient_NoConnection(t *testing.T) {
	fp := newFakeProvider(t)
	reg := NewRegistry(fp.factory(t))

	c, err := reg.CurrentClient(context.Background(), newFakeRepo(), "u1", GitHub)
	require.NoError(t, err)
	require.Nil(t, c)

	c, err = reg.CurrentClient(context.Background(), newFakeRepo(), "", GitHub)
	require.NoError(t, err)
	require.Nil(t, c)

	_, err = reg.CurrentClient(context.Background(), newFakeRepo(), "u1", Google)
	require.ErrorIs(t, err, ErrProviderDisabled)
}

func TestCurrentClient_ReadsProfile(t *testing.T) {
	fp := newFakeProvider(t)
	reg := NewRegistry(fp.factory(t))
	repo := newFakeRepo()
	require.NoError(t, repo.Save(context.Background(), Connection{
		UserID: "u1", Provider: GitHub, AccessToken: "at-1", TokenType: "Bearer",
		Expiry: time.Now().Add(time.Hour),
	}))

	c, err := reg.CurrentClient(context.Background(), repo, "u1", GitHub)
	require.NoError(t, err)
	require.NotNil(t, c)
	require.Equal(t, GitHub, c.Provider())

	p, err := c.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1001", p.ID)
	require.Zero(t, fp.tokenCalls.Load())
	require.Empty(t, repo.updates)
}

func TestCurrentClient_RefreshIsPersisted(t *testing.T) {
	fp := newFakeProvider(t)
	reg := NewRegistry(fp.factory(t))
	repo := newFakeRepo()
	require.NoError(t, repo.Save(context.Background(), Connection{
		UserID: "u1", Provider: GitHub, AccessToken: "stale", RefreshToken: "rt-1", TokenType: "Bearer",
		Expiry: time.Now().Add(-time.Hour),
	}))

	c, err := reg.CurrentClient(context.Background(), repo, "u1", GitHub)
	require.NoError(t, err)

	_, err = c.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), fp.tokenCalls.Load())

	require.Len(t, repo.updates, 1)
	stored, err := repo.FindPrimary(context.Background(), "u1", GitHub)
	require.NoError(t, err)
	require.Equal(t, "at-2", stored.AccessToken)
	require.Equal(t, "rt-1", stored.RefreshToken)
}

func TestClient_ProfileFailureIsProviderError(t *testing.T) {
	fp := newFakeProvider(t)
	f := fp.factory(t)

	c := f.Client(context.Background(), &Connection{UserID: "u1", Provider: GitHub, AccessToken: "revoked", TokenType: "Bearer"}, nil)
	_, err := c.Profile(context.Background())

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	require.True(t, strings.Contains(err.Error(), "401"), err.Error())
}

func TestRegistry_Providers(t *testing.T) {
	fb, err := RegisterProvider(stubAPI{id: Facebook}, "id", "s", "", "")
	require.NoError(t, err)
	gh, err := RegisterProvider(stubAPI{id: GitHub}, "id", "s", "", "")
	require.NoError(t, err)
	reg := NewRegistry(gh, fb)

	require.Equal(t, []ProviderID{Facebook, GitHub}, reg.Providers())
	got, err := reg.Get(Facebook)
	require.NoError(t, err)
	require.Same(t, fb, got)
}

type stubAPI struct{ id ProviderID }

func (s stubAPI) ID() ProviderID            { return s.id }
func (s stubAPI) Endpoint() oauth2.Endpoint { return oauth2.Endpoint{} }
func (s stubAPI) DefaultScope() string      { return "" }
func (s stubAPI) FetchProfile(context.Context, *http.Client, oauth2.TokenSource) (*Profile, error) {
	return &Profile{ID: "x"}, nil
}
