package database

import (
	"time"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/q"
	"github.com/gofrs/uuid"
	"github.com/mdouchement/timecapsule/internal/model"
	"github.com/mdouchement/timecapsule/pkg/textmatch"
	"github.com/pkg/errors"
)

type strm struct {
	db *storm.DB
}

var models = []model.Model{
	&model.User{},
	&model.Session{},
	&model.Draft{},
	&model.Capsule{},
}

// StormInit initializes Storm database.
func StormInit(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	for _, m := range models {
		if err := db.Init(m); err != nil {
			return errors.Wrapf(err, "could not init %T index", m)
		}
	}
	return nil
}

// StormReIndex reindex Storm database.
func StormReIndex(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	for _, m := range models {
		if err := db.ReIndex(m); err != nil {
			return errors.Wrapf(err, "could not ReIndex %T", m)
		}
	}
	return nil
}

// StormOpen returns a new Storm database connection.
func StormOpen(database string) (Client, error) {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	return &strm{
		db: db,
	}, nil
}

// Save inserts or updates the entry in database with the given model.
func (c *strm) Save(m model.Model) error {
	var id string
	if m.GetID() == "" {
		id = uuid.Must(uuid.NewV4()).String()
	}
	m.Stamp(id, time.Now().UTC())

	return errors.Wrap(c.db.Save(m), "could not save the model")
}

// Delete deletes the entry in database with the given model.
func (c *strm) Delete(m model.Model) error {
	return errors.Wrap(c.db.DeleteStruct(m), "could not delete the model")
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is nil or a not found error.
func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// IsAlreadyExists returns true if err is a duplicated unique field error.
func (c *strm) IsAlreadyExists(err error) bool {
	return errors.Cause(err) == storm.ErrAlreadyExists
}

//
// Users
//

// FindUser returns the user for the given id (UUID).
func (c *strm) FindUser(id string) (*model.User, error) {
	var user model.User
	if err := c.db.One("ID", id, &user); err != nil {
		return nil, errors.Wrap(err, "find user by id")
	}
	return &user, nil
}

// FindUserByMail returns the user for the given email.
func (c *strm) FindUserByMail(email string) (*model.User, error) {
	var user model.User
	if err := c.db.One("Email", email, &user); err != nil {
		return nil, errors.Wrap(err, "find user by mail")
	}
	return &user, nil
}

// FindUserByLinkedAccount returns the user linked to the given external account.
func (c *strm) FindUserByLinkedAccount(accountID string) (*model.User, error) {
	if accountID == "" {
		return nil, errors.Wrap(storm.ErrNotFound, "find user by linked account")
	}

	var user model.User
	if err := c.db.One("LinkedAccountID", accountID, &user); err != nil {
		return nil, errors.Wrap(err, "find user by linked account")
	}
	return &user, nil
}

// FindUsersByName returns the users whose name matches the given one, ignoring case.
func (c *strm) FindUsersByName(name string) ([]*model.User, error) {
	users := make([]*model.User, 0)
	if textmatch.Normalize(name) == "" {
		return users, nil
	}

	err := c.db.Select(q.NewFieldMatcher("Name", textMatcher{want: name, match: textmatch.Equal})).
		OrderBy("CreatedAt").
		Find(&users)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find users by name")
	}
	return users, nil
}

//
// Sessions
//

// FindSession returns the session for the given id (UUID).
func (c *strm) FindSession(id string) (*model.Session, error) {
	var session model.Session
	if err := c.db.One("ID", id, &session); err != nil {
		return nil, errors.Wrap(err, "find session by id")
	}
	return &session, nil
}

// FindSessionByUserID returns the session for the given id and user id.
func (c *strm) FindSessionByUserID(id, userID string) (*model.Session, error) {
	var session model.Session
	err := c.db.Select(q.Eq("ID", id), q.Eq("UserID", userID)).First(&session)
	if err != nil {
		return nil, errors.Wrap(err, "find session by id and user id")
	}
	return &session, nil
}

// FindSessionByAccessToken returns the session for the given access token.
func (c *strm) FindSessionByAccessToken(token string) (*model.Session, error) {
	var session model.Session
	if err := c.db.One("AccessToken", token, &session); err != nil {
		return nil, errors.Wrap(err, "find session by access token")
	}
	return &session, nil
}

// FindSessionByTokens returns the session for the given access and refresh token.
func (c *strm) FindSessionByTokens(access, refresh string) (*model.Session, error) {
	var session model.Session
	err := c.db.Select(q.Eq("AccessToken", access), q.Eq("RefreshToken", refresh)).First(&session)
	if err != nil {
		return nil, errors.Wrap(err, "find session by tokens")
	}
	return &session, nil
}

// FindSessionsByUserID returns all the sessions for the given user id.
func (c *strm) FindSessionsByUserID(userID string) ([]*model.Session, error) {
	sessions := make([]*model.Session, 0)
	err := c.db.Select(q.Eq("UserID", userID)).OrderBy("CreatedAt").Find(&sessions)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find sessions by user id")
	}
	return sessions, nil
}

// FindActiveSessionsByUserID returns all active sessions for the given user id.
func (c *strm) FindActiveSessionsByUserID(userID string) ([]*model.Session, error) {
	sessions := make([]*model.Session, 0)
	err := c.db.Select(q.Eq("UserID", userID), q.Gt("ExpireAt", time.Now())).OrderBy("CreatedAt").Find(&sessions)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find sessions by user id")
	}
	return sessions, nil
}

//
// Drafts
//

// FindDraftByUserID returns the draft for the given id and user id (UUID).
func (c *strm) FindDraftByUserID(id, userID string) (*model.Draft, error) {
	var draft model.Draft
	err := c.db.Select(q.Eq("ID", id), q.Eq("UserID", userID)).First(&draft)
	if err != nil {
		return nil, errors.Wrap(err, "could not find draft by user id")
	}
	return &draft, nil
}

// FindDraftsByUserID returns all the drafts of the given user, last edited first.
func (c *strm) FindDraftsByUserID(userID string) ([]*model.Draft, error) {
	drafts := make([]*model.Draft, 0)
	err := c.db.Select(q.Eq("UserID", userID)).OrderBy("UpdatedAt").Reverse().Find(&drafts)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find drafts")
	}
	return drafts, nil
}

// DeleteDraft deletes the draft matching the given parameters.
func (c *strm) DeleteDraft(id, userID string) error {
	err := c.db.Select(q.Eq("ID", id), q.Eq("UserID", userID)).Delete(&model.Draft{})
	return errors.Wrap(err, "could not delete draft")
}

//
// Capsules
//

// FindCapsule returns the capsule for the given id (UUID).
func (c *strm) FindCapsule(id string) (*model.Capsule, error) {
	var capsule model.Capsule
	if err := c.db.One("ID", id, &capsule); err != nil {
		return nil, errors.Wrap(err, "could not find capsule")
	}
	return &capsule, nil
}

// FindCapsulesBySender returns the capsules sent by the given user, soonest unlock first.
func (c *strm) FindCapsulesBySender(userID, query string) ([]*model.Capsule, error) {
	return c.findCapsules("SenderID", userID, query)
}

// FindCapsulesByRecipient returns the capsules received by the given user, soonest unlock first.
func (c *strm) FindCapsulesByRecipient(userID, query string) ([]*model.Capsule, error) {
	return c.findCapsules("RecipientID", userID, query)
}

func (c *strm) findCapsules(field, userID, query string) ([]*model.Capsule, error) {
	matchers := []q.Matcher{q.Eq(field, userID)}
	if textmatch.Normalize(query) != "" {
		matchers = append(matchers, q.NewFieldMatcher("Title", textMatcher{want: query, match: textmatch.Contains}))
	}

	capsules := make([]*model.Capsule, 0)
	err := c.db.Select(matchers...).OrderBy("UnlocksAt").Find(&capsules)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find capsules")
	}
	return capsules, nil
}

// A textMatcher compares a string field using the textmatch rules.
type textMatcher struct {
	want  string
	match func(field, want string) bool
}

func (m textMatcher) MatchField(v interface{}) (bool, error) {
	s, ok := v.(string)
	if !ok {
		return false, nil
	}
	return m.match(s, m.want), nil
}
