package stormsql_test

import (
	"testing"
	"time"

	"github.com/asdine/storm/v3/q"
	"github.com/mdouchement/timecapsule/pkg/stormsql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capsule struct {
	Title       string
	RecipientID string
	Anonymous   bool
	UnlocksAt   time.Time
	Delay       int
}

func TestParseSelect(t *testing.T) {
	sc, err := stormsql.ParseSelect("SELECT Title, UnlocksAt FROM capsules WHERE Anonymous = true AND UnlocksAt < '2027-01-01' ORDER BY UnlocksAt DESC LIMIT 2, 10")
	require.NoError(t, err)

	assert.Equal(t, []string{"Title", "UnlocksAt"}, sc.SelectedFields)
	assert.False(t, sc.Count)
	assert.Equal(t, "capsules", sc.Tablename)
	assert.Equal(t, 2, sc.Skip)
	assert.Equal(t, 10, sc.Limit)
	assert.Equal(t, []string{"UnlocksAt"}, sc.OrderBy)
	assert.True(t, sc.OrderByReversed)

	match := func(c capsule) bool {
		ok, err := sc.Matcher.Match(&c)
		require.NoError(t, err)
		return ok
	}
	assert.True(t, match(capsule{Anonymous: true, UnlocksAt: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)}))
	assert.False(t, match(capsule{Anonymous: false, UnlocksAt: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)}))
	assert.False(t, match(capsule{Anonymous: true, UnlocksAt: time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)}))
}

func TestParseSelect_Count(t *testing.T) {
	sc, err := stormsql.ParseSelect("SELECT count(*) FROM users")
	require.NoError(t, err)
	assert.True(t, sc.Count)
	assert.Empty(t, sc.SelectedFields)
	assert.Equal(t, "users", sc.Tablename)
	assert.Equal(t, q.And(), sc.Matcher)
}

func TestParseSelect_Where(t *testing.T) {
	tests := []struct {
		where string
		match capsule
		miss  capsule
	}{
		{"RecipientID = 'bob'", capsule{RecipientID: "bob"}, capsule{RecipientID: "alice"}},
		{"RecipientID != 'bob'", capsule{RecipientID: "alice"}, capsule{RecipientID: "bob"}},
		{"RecipientID IN ('bob', 'carol')", capsule{RecipientID: "carol"}, capsule{RecipientID: "alice"}},
		{"Title LIKE '^Happy'", capsule{Title: "Happy birthday"}, capsule{Title: "Unhappy"}},
		{"Delay >= 60", capsule{Delay: 60}, capsule{Delay: 59}},
		{"(Delay > 60 OR Anonymous = false) AND NOT Title = 'x'", capsule{Delay: 61, Anonymous: true}, capsule{Delay: 61, Title: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.where, func(t *testing.T) {
			sc, err := stormsql.ParseSelect("SELECT * FROM capsules WHERE " + tt.where)
			require.NoError(t, err)

			ok, err := sc.Matcher.Match(&tt.match)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = sc.Matcher.Match(&tt.miss)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestParseSelect_Errors(t *testing.T) {
	for _, sql := range []string{
		"DELETE FROM users",
		"SELECT max(Delay) FROM capsules",
		"SELECT * FROM capsules WHERE Delay BETWEEN 1 AND 2",
		"SELECT * FROM capsules, users",
		"SELECT * FROM capsules LIMIT 'a'",
		"SELECT * FROM",
	} {
		_, err := stormsql.ParseSelect(sql)
		assert.Error(t, err, sql)
	}
}
