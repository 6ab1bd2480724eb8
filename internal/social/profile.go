package social

// Profile is the provider-neutral user profile.
type Profile struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	GivenName  string         `json:"given_name,omitempty"`
	FamilyName string         `json:"family_name,omitempty"`
	Email      string         `json:"email,omitempty"`
	Picture    string         `json:"picture,omitempty"`
	Link       string         `json:"link,omitempty"`
	Locale     string         `json:"locale,omitempty"`
	Raw        map[string]any `json:"-"`
}
