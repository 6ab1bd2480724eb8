package social

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const stateAudience = "social-connect-state"

type stateClaims struct {
	Provider string `json:"prv"`
	jwt.RegisteredClaims
}

// StateSigner issues and checks the OAuth state parameter. A state is an
// HS256 token bound to the session user id and the provider.
type StateSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewStateSigner creates a signer. ttl defaults to ten minutes.
func NewStateSigner(secret string, ttl time.Duration) *StateSigner {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a fresh state for userID connecting to provider.
func (s *StateSigner) Sign(userID string, provider ProviderID) (string, error) {
	now := s.now()
	claims := stateClaims{
		Provider: string(provider),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Audience:  jwt.ClaimStrings{stateAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry, session and provider of state.
func (s *StateSigner) Verify(state, userID string, provider ProviderID) error {
	if state == "" {
		return fmt.Errorf("%w: missing", ErrInvalidState)
	}
	var claims stateClaims
	_, err := jwt.ParseWithClaims(state, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(stateAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if claims.Subject != userID {
		return fmt.Errorf("%w: session mismatch", ErrInvalidState)
	}
	if claims.Provider != string(provider) {
		return fmt.Errorf("%w: provider mismatch", ErrInvalidState)
	}
	return nil
}
