package social

import "errors"

var (
	ErrNoConnection       = errors.New("social: no connection")
	ErrUnknownProvider    = errors.New("social: unknown provider")
	ErrProviderDisabled   = errors.New("social: provider not registered")
	ErrMissingCredentials = errors.New("social: app id and app secret are required")
	ErrInvalidState       = errors.New("social: invalid oauth state")
)

// ProviderError reports a failed call to a provider API.
type ProviderError struct {
	Provider ProviderID
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return "social: " + string(e.Provider) + " " + e.Op + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error { return e.Err }
