package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// ErrRefreshFailed means the provider rejected the refresh token.
// The user has to log in again.
var ErrRefreshFailed = errors.New("auth: token refresh failed")

// Refresher exchanges refresh tokens for new access tokens
type Refresher struct {
	config *oauth2.Config
}

// NewRefresher creates a Refresher for the given OAuth config
func NewRefresher(cfg *oauth2.Config) *Refresher {
	return &Refresher{config: cfg}
}

// Refresh trades refreshToken for a new token pair.
// Strava may rotate the refresh token, so callers must persist both.
// Only a 400 or 401 from the token endpoint yields ErrRefreshFailed; network
// and server errors are returned wrapped so callers can retry later.
func (r *Refresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token", ErrRefreshFailed)
	}

	// An already-expired token forces the source to hit the token endpoint.
	expired := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Unix(1, 0),
	}
	token, err := r.config.TokenSource(ctx, expired).Token()
	if rejected(err) {
		return nil, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	if err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}
	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}
	return token, nil
}

// rejected reports whether the token endpoint refused the refresh token itself
func rejected(err error) bool {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) || re.Response == nil {
		return false
	}
	return re.Response.StatusCode == http.StatusBadRequest || re.Response.StatusCode == http.StatusUnauthorized
}
