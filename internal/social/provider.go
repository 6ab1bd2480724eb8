package social

import (
	"fmt"
	"strings"
)

// ProviderID identifies an OAuth provider.
type ProviderID string

const (
	Google   ProviderID = "google"
	Facebook ProviderID = "facebook"
	GitHub   ProviderID = "github"
)

// KnownProviders lists every provider the service has an implementation for.
var KnownProviders = []ProviderID{Google, Facebook, GitHub}

// ParseProviderID normalizes s and checks it names a known provider.
func ParseProviderID(s string) (ProviderID, error) {
	p := ProviderID(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range KnownProviders {
		if p == k {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
}

func (p ProviderID) String() string { return string(p) }

// ProfileKey is the view model key under which the provider profile is rendered.
func (p ProviderID) ProfileKey() string { return string(p) + "Profile" }

// ConnectPath is where a session without a connection is sent.
func (p ProviderID) ConnectPath() string { return "/connect/" + string(p) }

// DisplayName is used by views.
func (p ProviderID) DisplayName() string {
	switch p {
	case GitHub:
		return "GitHub"
	case "":
		return ""
	default:
		return strings.ToUpper(string(p[:1])) + string(p[1:])
	}
}
