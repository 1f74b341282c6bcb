package server_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/appleboy/gofight/v2"
	"github.com/mdouchement/timecapsule/internal/server/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type SessionList struct {
	ID        string    `json:"uuid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserAgent string    `json:"user_agent"`
	Current   bool      `json:"current"`
}

func TestRequestSessionList(t *testing.T) {
	engine, ioc, _, r := setup(t)

	sessions := session.NewManager(ioc.Database, ioc.Clock, ioc.AccessTokenExpirationTime, ioc.RefreshTokenExpirationTime)
	user, current := createUserWithSession(t, ioc, "george.abitbol@nowhere.lan", "George")
	for i := 0; i < 2; i++ {
		require.NoError(t, ioc.Database.Save(sessions.Generate(user.ID, "Go-http-client/1.1")))
	}
	require.NoError(t, ioc.Database.Save(sessions.Generate("another-user-id", "trololo")))

	r.GET("/sessions").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-auth", "message":"Invalid login credentials."}}`, r.Body.String())
	})

	r.GET("/sessions").SetHeader(bearer(current)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		var list []SessionList
		err := json.Unmarshal(r.Body.Bytes(), &list)
		assert.NoError(t, err)
		assert.Len(t, list, 3)

		var n int
		for _, s := range list {
			assert.Equal(t, "Go-http-client/1.1", s.UserAgent)
			if s.Current {
				n++
				assert.Equal(t, current.ID, s.ID)
			}
		}
		assert.Equal(t, 1, n)
	})
}

func TestRequestSessionRefresh(t *testing.T) {
	engine, ioc, clk, r := setup(t)
	_, current := createUserWithSession(t, ioc, "george.abitbol@nowhere.lan", "George")

	params := gofight.D{}
	r.POST("/session/refresh").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-parameters","message":"Please provide all required parameters."}}`, r.Body.String())
	})

	params["access_token"] = current.AccessToken
	params["refresh_token"] = "wrong"
	r.POST("/session/refresh").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-parameters","message":"The provided parameters are not valid."}}`, r.Body.String())
	})

	// The access token is expired, the refresh token is still valid.
	clk.Add(ioc.AccessTokenExpirationTime + time.Hour)

	r.GET("/drafts").SetHeader(bearer(current)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, 498, r.Code)
	})

	params["refresh_token"] = current.RefreshToken
	r.POST("/session/refresh").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		var refresh struct {
			Session struct {
				AccessToken       string    `json:"access_token"`
				RefreshToken      string    `json:"refresh_token"`
				AccessExpiration  time.Time `json:"access_expiration"`
				RefreshExpiration time.Time `json:"refresh_expiration"`
			} `json:"session"`
		}
		err := json.Unmarshal(r.Body.Bytes(), &refresh)
		assert.NoError(t, err)
		assert.NotEqual(t, current.AccessToken, refresh.Session.AccessToken)
		assert.NotEqual(t, current.RefreshToken, refresh.Session.RefreshToken)
		assert.True(t, refresh.Session.AccessExpiration.Equal(clk.Now().Add(ioc.AccessTokenExpirationTime)))
		assert.True(t, refresh.Session.RefreshExpiration.Equal(clk.Now().Add(ioc.RefreshTokenExpirationTime)))
	})
}

func TestRequestSessionDelete(t *testing.T) {
	engine, ioc, _, r := setup(t)

	sessions := session.NewManager(ioc.Database, ioc.Clock, ioc.AccessTokenExpirationTime, ioc.RefreshTokenExpirationTime)
	user, current := createUserWithSession(t, ioc, "george.abitbol@nowhere.lan", "George")
	other := sessions.Generate(user.ID, "Go-http-client/1.1")
	require.NoError(t, ioc.Database.Save(other))

	r.DELETE("/session").SetHeader(bearer(current)).SetJSON(gofight.D{"uuid": current.ID}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"message":"You can not delete your current session."}}`, r.Body.String())
	})

	r.DELETE("/session").SetHeader(bearer(current)).SetJSON(gofight.D{"uuid": "unknown"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"message":"No session exists with the provided identifier."}}`, r.Body.String())
	})

	r.DELETE("/session").SetHeader(bearer(current)).SetJSON(gofight.D{"uuid": other.ID}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNoContent, r.Code)
	})

	_, err := ioc.Database.FindSession(other.ID)
	assert.True(t, ioc.Database.IsNotFound(err))
}
