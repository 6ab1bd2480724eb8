// Package github implements the GitHub provider API.
package github

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	ghoauth "golang.org/x/oauth2/github"

	"github.com/dropDatabas3/hellosocial/internal/social"
	"github.com/dropDatabas3/hellosocial/internal/social/providers"
)

const (
	UserURL      = "https://api.github.com/user"
	DefaultScope = "read:user user:email"
)

type API struct {
	OAuthEndpoint oauth2.Endpoint
	ProfileURL    string
}

func New() *API {
	return &API{OAuthEndpoint: ghoauth.Endpoint, ProfileURL: UserURL}
}

func (a *API) ID() social.ProviderID     { return social.GitHub }
func (a *API) Endpoint() oauth2.Endpoint { return a.OAuthEndpoint }
func (a *API) DefaultScope() string      { return DefaultScope }

type user struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// FetchProfile reads /user. GitHub users without a display name fall back to their login.
func (a *API) FetchProfile(ctx context.Context, hc *http.Client, _ oauth2.TokenSource) (*social.Profile, error) {
	var raw json.RawMessage
	if err := providers.GetJSON(ctx, hc, a.ProfileURL, &raw); err != nil {
		return nil, err
	}
	var u user
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	name := u.Name
	if name == "" {
		name = u.Login
	}
	return &social.Profile{
		ID:      strconv.FormatInt(u.ID, 10),
		Name:    name,
		Email:   u.Email,
		Picture: u.AvatarURL,
		Link:    u.HTMLURL,
		Raw:     providers.Raw(raw),
	}, nil
}
