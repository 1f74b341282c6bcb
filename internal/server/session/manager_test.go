package session_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mdouchement/timecapsule/internal/database"
	"github.com/mdouchement/timecapsule/internal/model"
	"github.com/mdouchement/timecapsule/internal/server/session"
	"github.com/mdouchement/timecapsule/internal/tcerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timecapsule.db")
	db, err := database.StormOpen(path)
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	m := session.NewManager(db, clock, time.Hour, 24*time.Hour)

	user := &model.User{Email: "alice@example.com", Name: "Alice"}
	require.NoError(t, db.Save(user))

	s := m.Generate(user.ID, "tcc")
	assert.True(t, session.WellFormed(s.AccessToken, session.AccessTokenPrefix))
	assert.True(t, session.WellFormed(s.RefreshToken, session.RefreshTokenPrefix))
	assert.Equal(t, now.Add(24*time.Hour), s.ExpireAt)
	assert.Equal(t, now.Add(time.Hour), m.AccessTokenExpireAt(s))
	require.NoError(t, db.Save(s))

	u, current, err := m.UserFromToken(s.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, u.ID)
	assert.Equal(t, s.ID, current.ID)

	_, _, err = m.UserFromToken("unknown")
	assert.True(t, tcerror.IsAuthentication(err))
	_, _, err = m.UserFromToken(s.RefreshToken)
	assert.True(t, tcerror.IsAuthentication(err))
	_, _, err = m.UserFromToken(session.SecureToken(session.AccessTokenPrefix, session.TokenLength))
	assert.True(t, tcerror.IsAuthentication(err))

	// Access token expired.
	now = now.Add(2 * time.Hour)
	_, err = m.Validate(s.AccessToken)
	assert.Equal(t, tcerror.StatusExpiredAccessToken, tcerror.StatusCode(err))

	access := s.AccessToken
	require.NoError(t, m.Regenerate(s))
	assert.NotEqual(t, access, s.AccessToken)
	_, err = m.Validate(s.AccessToken)
	assert.NoError(t, err)

	// Refresh token expired.
	now = now.Add(48 * time.Hour)
	assert.Error(t, m.Regenerate(s))
	_, err = m.Validate(s.AccessToken)
	assert.True(t, tcerror.IsAuthentication(err))
}
