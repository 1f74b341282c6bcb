package libtc

import "time"

// RefreshMargin is how long before its expiration an access token is renewed.
const RefreshMargin = 5 * time.Minute

// A SessionState is the usability of a Session at a given instant.
type SessionState int

// Session states.
const (
	SessionUndefined SessionState = iota
	SessionValid
	// SessionExpiring means the access token must be renewed with the refresh token.
	SessionExpiring
	// SessionExpired means the refresh token expired, a new login is required.
	SessionExpired
)

// A Session holds the bearer tokens of an authenticated user.
type Session struct {
	AccessToken       string    `json:"access_token"`
	RefreshToken      string    `json:"refresh_token"`
	AccessExpiration  time.Time `json:"access_expiration"`
	RefreshExpiration time.Time `json:"refresh_expiration"`
}

// Defined returns true when both tokens and their expirations are known.
func (s Session) Defined() bool {
	return s.AccessToken != "" && s.RefreshToken != "" &&
		!s.AccessExpiration.IsZero() && !s.RefreshExpiration.IsZero()
}

// State returns the state of s at now. An access token expiring within RefreshMargin is reported as expiring.
func (s Session) State(now time.Time) SessionState {
	switch {
	case !s.Defined():
		return SessionUndefined
	case now.After(s.RefreshExpiration):
		return SessionExpired
	case now.Add(RefreshMargin).After(s.AccessExpiration):
		return SessionExpiring
	default:
		return SessionValid
	}
}
