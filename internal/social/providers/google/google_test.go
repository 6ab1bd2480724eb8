package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dropDatabas3/hellosocial/internal/social"
)

const userinfoJSON = `{"sub":"1180","name":"Ada Lovelace","given_name":"Ada","family_name":"Lovelace","email":"ada@example.com","picture":"https://lh3.example.com/a.png","locale":"en"}`

func newUserinfoServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 srv.URL,
			"authorization_endpoint": srv.URL + "/auth",
			"token_endpoint":         srv.URL + "/token",
			"userinfo_endpoint":      srv.URL + "/userinfo",
			"jwks_uri":               srv.URL + "/certs",
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(userinfoJSON))
	})
	return srv
}

func TestFetchProfile(t *testing.T) {
	srv := newUserinfoServer(t)
	api := NewFromConfig(oidc.ProviderConfig{IssuerURL: srv.URL, UserInfoURL: srv.URL + "/userinfo"})
	require.Equal(t, social.Google, api.ID())
	require.Equal(t, "openid email profile", api.DefaultScope())

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "at-1"})
	p, err := api.FetchProfile(context.Background(), srv.Client(), ts)
	require.NoError(t, err)
	require.Equal(t, "1180", p.ID)
	require.Equal(t, "Ada Lovelace", p.Name)
	require.Equal(t, "Ada", p.GivenName)
	require.Equal(t, "Lovelace", p.FamilyName)
	require.Equal(t, "ada@example.com", p.Email)
	require.Equal(t, "https://lh3.example.com/a.png", p.Picture)
	require.Equal(t, "en", p.Locale)
	require.Equal(t, "1180", p.Raw["sub"])
}

func TestFetchProfile_RejectedToken(t *testing.T) {
	srv := newUserinfoServer(t)
	api := NewFromConfig(oidc.ProviderConfig{IssuerURL: srv.URL, UserInfoURL: srv.URL + "/userinfo"})

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "revoked"})
	_, err := api.FetchProfile(context.Background(), srv.Client(), ts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
}

func TestDiscover(t *testing.T) {
	srv := newUserinfoServer(t)

	api, err := Discover(context.Background(), srv.URL, srv.Client())
	require.NoError(t, err)
	require.Equal(t, srv.URL+"/auth", api.Endpoint().AuthURL)
	require.Equal(t, srv.URL+"/token", api.Endpoint().TokenURL)

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "at-1"})
	p, err := api.FetchProfile(context.Background(), srv.Client(), ts)
	require.NoError(t, err)
	require.Equal(t, "1180", p.ID)
}

func TestDiscover_IssuerMismatch(t *testing.T) {
	srv := newUserinfoServer(t)
	_, err := Discover(context.Background(), srv.URL+"/other", srv.Client())
	require.Error(t, err)
}

func TestNew_ProductionEndpoints(t *testing.T) {
	ep := New().Endpoint()
	require.Equal(t, Endpoints.AuthURL, ep.AuthURL)
	require.Equal(t, Endpoints.TokenURL, ep.TokenURL)
}
