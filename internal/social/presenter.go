package social

import "context"

// ViewModel is the data handed to the renderer.
type ViewModel map[string]any

// Profile returns the profile stored under the key of provider, if any.
func (m ViewModel) Profile(provider ProviderID) (*Profile, bool) {
	p, ok := m[provider.ProfileKey()].(*Profile)
	return p, ok && p != nil
}

// Presenter builds the hello page view model from an authenticated client.
type Presenter struct{}

// Present fetches the profile exactly once. On failure no view model is returned.
func (Presenter) Present(ctx context.Context, client Client) (ViewModel, error) {
	profile, err := client.Profile(ctx)
	if err != nil {
		return nil, err
	}
	return ViewModel{client.Provider().ProfileKey(): profile}, nil
}
