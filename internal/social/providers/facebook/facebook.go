// Package facebook implements the Facebook Graph provider API.
package facebook

import (
	"context"
	"encoding/json"
	"net/http"

	"golang.org/x/oauth2"
	fboauth "golang.org/x/oauth2/facebook"

	"github.com/dropDatabas3/hellosocial/internal/social"
	"github.com/dropDatabas3/hellosocial/internal/social/providers"
)

const (
	MeURL        = "https://graph.facebook.com/v19.0/me?fields=id,name,first_name,last_name,email,link,locale,picture.type(large)"
	DefaultScope = "public_profile email"
)

type API struct {
	OAuthEndpoint oauth2.Endpoint
	ProfileURL    string
}

func New() *API {
	return &API{OAuthEndpoint: fboauth.Endpoint, ProfileURL: MeURL}
}

func (a *API) ID() social.ProviderID     { return social.Facebook }
func (a *API) Endpoint() oauth2.Endpoint { return a.OAuthEndpoint }
func (a *API) DefaultScope() string      { return DefaultScope }

type me struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Link      string `json:"link"`
	Locale    string `json:"locale"`
	Picture   struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

func (a *API) FetchProfile(ctx context.Context, hc *http.Client, _ oauth2.TokenSource) (*social.Profile, error) {
	var raw json.RawMessage
	if err := providers.GetJSON(ctx, hc, a.ProfileURL, &raw); err != nil {
		return nil, err
	}
	var m me
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return &social.Profile{
		ID:         m.ID,
		Name:       m.Name,
		GivenName:  m.FirstName,
		FamilyName: m.LastName,
		Email:      m.Email,
		Picture:    m.Picture.Data.URL,
		Link:       m.Link,
		Locale:     m.Locale,
		Raw:        providers.Raw(raw),
	}, nil
}
