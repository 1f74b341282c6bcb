package server_test

import (
	"net/http"
	"testing"

	"github.com/appleboy/gofight/v2"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fastjson"
)

func TestRequestRegistration(t *testing.T) {
	engine, _, _, r := setup(t)

	params := gofight.D{}
	r.POST("/auth").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"message":"No email provided."}}`, r.Body.String())
	})

	params["email"] = "george.abitbol@nowhere.lan"
	r.POST("/auth").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"message":"No password provided."}}`, r.Body.String())
	})

	params["password"] = "password42"
	r.POST("/auth").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"message":"No name provided."}}`, r.Body.String())
	})

	params["name"] = "George Abitbol"
	params["linked_account_id"] = "acct-42"
	r.POST("/auth").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)

		assert.Regexp(t, `^[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-4[a-fA-F0-9]{3}-[8|9|aA|bB][a-fA-F0-9]{3}-[a-fA-F0-9]{12}$`, string(v.GetStringBytes("user", "uuid")))
		assert.Equal(t, params["email"], string(v.GetStringBytes("user", "email")))
		assert.Equal(t, params["name"], string(v.GetStringBytes("user", "name")))
		assert.Equal(t, params["linked_account_id"], string(v.GetStringBytes("user", "linked_account_id")))
		assert.Len(t, v.GetStringBytes("session", "access_token"), 24)
		assert.Len(t, v.GetStringBytes("session", "refresh_token"), 24)
	})

	r.POST("/auth").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"message":"This email is already registered."}}`, r.Body.String())
	})

	params["email"] = "other@nowhere.lan"
	r.POST("/auth").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnprocessableEntity, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"linked-account-taken","message":"This account is already linked to another user."}}`, r.Body.String())
	})
}

func TestRequestLogin(t *testing.T) {
	engine, ioc, _, r := setup(t)
	user := createUser(t, ioc, "george.abitbol@nowhere.lan", "George")

	params := gofight.D{
		"email":    "",
		"password": "",
	}

	r.POST("/auth/sign_in").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"message":"No email or password provided."}}`, r.Body.String())
	})

	params["email"] = "george.abitbol@nowhere.lan"
	params["password"] = "password"
	r.POST("/auth/sign_in").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-auth","message":"Invalid email or password."}}`, r.Body.String())
	})

	params["password"] = "password42"
	r.POST("/auth/sign_in").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, user.ID, string(v.GetStringBytes("user", "uuid")))
		assert.NotEmpty(t, v.GetStringBytes("session", "access_token"))
	})
}

func TestRequestLogout(t *testing.T) {
	engine, ioc, _, r := setup(t)
	_, session := createUserWithSession(t, ioc, "george.abitbol@nowhere.lan", "George")

	r.POST("/auth/sign_out").SetHeader(bearer(session)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNoContent, r.Code)
	})

	r.GET("/drafts").SetHeader(bearer(session)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-auth","message":"Invalid login credentials."}}`, r.Body.String())
	})
}
