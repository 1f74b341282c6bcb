package libtc_test

import (
	"testing"
	"time"

	"github.com/mdouchement/timecapsule/pkg/libtc"
	"github.com/stretchr/testify/assert"
)

func TestSession_State(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	session := libtc.Session{
		AccessToken:       "tca_access",
		RefreshToken:      "tcr_refresh",
		AccessExpiration:  now.Add(time.Hour),
		RefreshExpiration: now.Add(24 * time.Hour),
	}

	assert.Equal(t, libtc.SessionUndefined, libtc.Session{}.State(now))
	assert.Equal(t, libtc.SessionValid, session.State(now))
	assert.Equal(t, libtc.SessionExpiring, session.State(now.Add(time.Hour-libtc.RefreshMargin+time.Second)))
	assert.Equal(t, libtc.SessionExpiring, session.State(now.Add(2*time.Hour)))
	assert.Equal(t, libtc.SessionExpired, session.State(now.Add(25*time.Hour)))
}
