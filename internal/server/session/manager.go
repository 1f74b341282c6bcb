package session

import (
	"net/http"
	"time"

	"github.com/mdouchement/timecapsule/internal/database"
	"github.com/mdouchement/timecapsule/internal/model"
	"github.com/mdouchement/timecapsule/internal/tcerror"
	"github.com/pkg/errors"
)

// TokenLength is the number of random characters of the generated tokens.
const TokenLength = 24

type (
	// A Manager manages sessions.
	Manager interface {
		// Generate creates a new session for the given user. The session is not persisted.
		Generate(userID, userAgent string) *model.Session
		// Validate returns the session matching the given access token.
		Validate(token string) (*model.Session, error)
		// AccessTokenExpireAt returns the expiration date of the access token.
		AccessTokenExpireAt(session *model.Session) time.Time
		// Regenerate regenerates and persists the session's tokens.
		Regenerate(session *model.Session) error
		// UserFromToken returns the user and the session of the given access token.
		UserFromToken(token string) (*model.User, *model.Session, error)
	}

	manager struct {
		db    database.Client
		clock func() time.Time
		// Session params
		accessTokenExpirationTime  time.Duration
		refreshTokenExpirationTime time.Duration
	}
)

// NewManager returns a new manager.
func NewManager(db database.Client, clock func() time.Time, accessTokenExpirationTime, refreshTokenExpirationTime time.Duration) Manager {
	if clock == nil {
		clock = time.Now
	}

	return &manager{
		db:                         db,
		clock:                      clock,
		accessTokenExpirationTime:  accessTokenExpirationTime,
		refreshTokenExpirationTime: refreshTokenExpirationTime,
	}
}

func (m *manager) Generate(userID, userAgent string) *model.Session {
	return &model.Session{
		UserID:       userID,
		UserAgent:    userAgent,
		ExpireAt:     m.clock().Add(m.refreshTokenExpirationTime).UTC(),
		AccessToken:  SecureToken(AccessTokenPrefix, TokenLength),
		RefreshToken: SecureToken(RefreshTokenPrefix, TokenLength),
	}
}

func (m *manager) Validate(token string) (*model.Session, error) {
	if !WellFormed(token, AccessTokenPrefix) {
		return nil, tcerror.Authentication("Invalid login credentials.")
	}

	session, err := m.db.FindSessionByAccessToken(token)
	if err != nil {
		if m.db.IsNotFound(err) {
			return nil, tcerror.Authentication("Invalid login credentials.")
		}
		return nil, errors.Wrap(err, "could not get access to database")
	}

	if !SecureCompare(session.AccessToken, token) || session.Expired(m.clock()) {
		return nil, tcerror.Authentication("Invalid login credentials.")
	}

	if m.AccessTokenExpireAt(session).Before(m.clock()) {
		return nil, tcerror.NewWithTagCode(tcerror.StatusExpiredAccessToken, "expired-access-token", "The provided access token has expired.")
	}

	return session, nil
}

func (m *manager) AccessTokenExpireAt(session *model.Session) time.Time {
	return session.ExpireAt.Add(-m.refreshTokenExpirationTime).Add(m.accessTokenExpirationTime)
}

func (m *manager) Regenerate(session *model.Session) error {
	if session.Expired(m.clock()) {
		return tcerror.NewWithTagCode(
			http.StatusBadRequest,
			"expired-refresh-token",
			"The refresh token has expired.",
		)
	}

	session.AccessToken = SecureToken(AccessTokenPrefix, TokenLength)
	session.RefreshToken = SecureToken(RefreshTokenPrefix, TokenLength)
	session.ExpireAt = m.clock().Add(m.refreshTokenExpirationTime).UTC()

	return errors.Wrap(m.db.Save(session), "could not save session after refreshing session")
}

func (m *manager) UserFromToken(token string) (*model.User, *model.Session, error) {
	session, err := m.Validate(token)
	if err != nil {
		return nil, nil, err
	}

	user, err := m.db.FindUser(session.UserID)
	if err != nil {
		if m.db.IsNotFound(err) {
			return nil, nil, tcerror.Authentication("Invalid login credentials.")
		}
		return nil, nil, errors.Wrap(err, "could not get access to database")
	}

	return user, session, nil
}
