package database_test

import (
	"testing"
	"time"

	"github.com/mdouchement/timecapsule/internal/database"
	"github.com/mdouchement/timecapsule/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseCodec(t *testing.T) {
	assert.Equal(t, []string{"binc", "cbor", "msgpack"}, database.Codecs())
	assert.EqualError(t, database.UseCodec("xml"), `unknown database codec "xml" (available: [binc cbor msgpack])`)

	for _, name := range database.Codecs() {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, database.UseCodec(name))
			defer database.UseCodec("") // nolint:errcheck

			db := open(t)

			delay := 60
			opened := time.Now().UTC().Truncate(time.Second)
			capsule := &model.Capsule{
				SenderID:           "sender",
				RecipientID:        "recipient",
				Title:              "Encoded with " + name,
				Body:               "Hello",
				UnlocksAt:          opened.Add(-time.Hour),
				OpenedAt:           &opened,
				Anonymous:          true,
				RevealDelaySeconds: &delay,
			}
			require.NoError(t, db.Save(capsule))

			found, err := db.FindCapsule(capsule.ID)
			require.NoError(t, err)
			assert.Equal(t, capsule.Title, found.Title)
			assert.True(t, capsule.UnlocksAt.Equal(found.UnlocksAt))
			require.NotNil(t, found.OpenedAt)
			assert.True(t, opened.Equal(*found.OpenedAt))
			require.NotNil(t, found.RevealDelaySeconds)
			assert.Equal(t, 60, *found.RevealDelaySeconds)
			assert.Nil(t, found.RevealAt)

			capsules, err := db.FindCapsulesByRecipient("recipient", "")
			require.NoError(t, err)
			assert.Len(t, capsules, 1)
		})
	}
}
