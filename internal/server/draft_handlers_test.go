package server_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/appleboy/gofight/v2"
	"github.com/mdouchement/timecapsule/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
)

func TestRequestDraftLifecycle(t *testing.T) {
	engine, ioc, _, r := setup(t)
	_, session := createUserWithSession(t, ioc, "george.abitbol@nowhere.lan", "George")

	r.POST("/drafts").SetHeader(bearer(session)).SetJSON(gofight.D{"title": "Hello", "body": "  \n "}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnprocessableEntity, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"empty-body","message":"Body can't be empty."}}`, r.Body.String())
	})

	r.POST("/drafts").SetHeader(bearer(session)).SetJSON(gofight.D{"title": "Hello"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnprocessableEntity, r.Code)
	})

	r.POST("/drafts").SetHeader(bearer(session)).SetJSON(gofight.D{"body": strings.Repeat("a", 64<<10+1)}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnprocessableEntity, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"body-too-long","message":"Body is too long."}}`, r.Body.String())
	})

	var id string
	r.POST("/drafts").SetHeader(bearer(session)).SetJSON(gofight.D{"title": "Hello", "body": "Dear you", "recipient_hint": "alice"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusCreated, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		require.NoError(t, err)
		id = string(v.GetStringBytes("uuid"))
		assert.NotEmpty(t, id)
		assert.Equal(t, "Hello", string(v.GetStringBytes("title")))
		assert.Equal(t, "Dear you", string(v.GetStringBytes("body")))
		assert.Equal(t, "alice", string(v.GetStringBytes("recipient_hint")))
	})

	// Only the given fields are updated.
	r.PUT("/drafts/"+id).SetHeader(bearer(session)).SetJSON(gofight.D{"body": "Dear you, again"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		require.NoError(t, err)
		assert.Equal(t, id, string(v.GetStringBytes("uuid")))
		assert.Equal(t, "Hello", string(v.GetStringBytes("title")))
		assert.Equal(t, "Dear you, again", string(v.GetStringBytes("body")))
	})

	// An empty title is a change.
	r.PUT("/drafts/"+id).SetHeader(bearer(session)).SetJSON(gofight.D{"title": ""}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		require.NoError(t, err)
		assert.Equal(t, "", string(v.GetStringBytes("title")))
		assert.Equal(t, "Dear you, again", string(v.GetStringBytes("body")))
	})

	r.PUT("/drafts/"+id).SetHeader(bearer(session)).SetJSON(gofight.D{"title": 42}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnprocessableEntity, r.Code)
	})

	r.GET("/drafts/"+id).SetHeader(bearer(session)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
	})

	r.GET("/drafts").SetHeader(bearer(session)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		require.NoError(t, err)
		assert.Len(t, v.GetArray(), 1)
	})

	r.DELETE("/drafts/"+id).SetHeader(bearer(session)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNoContent, r.Code)
	})

	r.GET("/drafts/"+id).SetHeader(bearer(session)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNotFound, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"draft-not-found","message":"No draft exists with the provided identifier."}}`, r.Body.String())
	})
}

func TestRequestDraftOwnership(t *testing.T) {
	engine, ioc, _, r := setup(t)
	owner := createUser(t, ioc, "owner@nowhere.lan", "Owner")
	_, session := createUserWithSession(t, ioc, "george.abitbol@nowhere.lan", "George")

	draft := &model.Draft{UserID: owner.ID, Body: "secret"}
	require.NoError(t, ioc.Database.Save(draft))

	r.GET("/drafts/"+draft.ID).SetHeader(bearer(session)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNotFound, r.Code)
	})

	r.PUT("/drafts/"+draft.ID).SetHeader(bearer(session)).SetJSON(gofight.D{"body": "mine"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNotFound, r.Code)
	})

	r.DELETE("/drafts/"+draft.ID).SetHeader(bearer(session)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNotFound, r.Code)
	})
}
