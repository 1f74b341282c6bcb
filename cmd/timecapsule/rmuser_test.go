package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mdouchement/timecapsule/internal/database"
	"github.com/mdouchement/timecapsule/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveUser(t *testing.T) {
	filename := filepath.Join(t.TempDir(), dbname)
	require.NoError(t, database.StormInit(filename))
	db, err := database.StormOpen(filename)
	require.NoError(t, err)
	defer db.Close()

	alice := &model.User{Email: "alice@nowhere.lan", Name: "Alice"}
	bob := &model.User{Email: "bob@nowhere.lan", Name: "Bob"}
	require.NoError(t, db.Save(alice))
	require.NoError(t, db.Save(bob))

	unlock := time.Now().Add(time.Hour)
	require.NoError(t, db.Save(&model.Session{UserID: alice.ID, AccessToken: "a", RefreshToken: "r", ExpireAt: unlock}))
	require.NoError(t, db.Save(&model.Draft{UserID: alice.ID, Body: "draft"}))
	require.NoError(t, db.Save(&model.Capsule{SenderID: alice.ID, RecipientID: bob.ID, Body: "to bob", UnlocksAt: unlock}))
	require.NoError(t, db.Save(&model.Capsule{SenderID: bob.ID, RecipientID: alice.ID, Body: "to alice", UnlocksAt: unlock}))
	require.NoError(t, db.Save(&model.Capsule{SenderID: alice.ID, RecipientID: alice.ID, Body: "to me", UnlocksAt: unlock}))
	require.NoError(t, db.Save(&model.Capsule{SenderID: bob.ID, RecipientID: bob.ID, Body: "bob to bob", UnlocksAt: unlock}))

	require.NoError(t, removeUser(db, "nobody@nowhere.lan"))
	require.NoError(t, removeUser(db, alice.Email))

	_, err = db.FindUserByMail(alice.Email)
	assert.True(t, db.IsNotFound(err))

	sessions, err := db.FindSessionsByUserID(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	drafts, err := db.FindDraftsByUserID(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, drafts)

	sent, err := db.FindCapsulesBySender(bob.ID, "")
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "bob to bob", sent[0].Body)

	_, err = db.FindUserByMail(bob.Email)
	assert.NoError(t, err)
}
