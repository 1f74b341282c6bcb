package database

import (
	"github.com/mdouchement/timecapsule/internal/model"
)

type (
	// A Client can interacts with the database.
	Client interface {
		// Save inserts or updates the entry in database with the given model.
		Save(m model.Model) error
		// Delete deletes the entry in database with the given model.
		Delete(m model.Model) error
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool
		// IsAlreadyExists returns true if err is a duplicated unique field error.
		IsAlreadyExists(err error) bool

		UserInteraction
		SessionInteraction
		DraftInteraction
		CapsuleInteraction
	}

	// An UserInteraction defines all the methods used to interact with a user record.
	UserInteraction interface {
		// FindUser returns the user for the given id (UUID).
		FindUser(id string) (*model.User, error)
		// FindUserByMail returns the user for the given email.
		FindUserByMail(email string) (*model.User, error)
		// FindUserByLinkedAccount returns the user linked to the given external account.
		FindUserByLinkedAccount(accountID string) (*model.User, error)
		// FindUsersByName returns the users whose name matches the given one, ignoring case.
		FindUsersByName(name string) ([]*model.User, error)
	}

	// An SessionInteraction defines all the methods used to interact with a session record.
	SessionInteraction interface {
		// FindSession returns the session for the given id (UUID).
		FindSession(id string) (*model.Session, error)
		// FindSessionByUserID returns the session for the given id and user id.
		FindSessionByUserID(id, userID string) (*model.Session, error)
		// FindActiveSessionsByUserID returns all active sessions for the given user id.
		FindActiveSessionsByUserID(userID string) ([]*model.Session, error)
		// FindSessionsByUserID returns all sessions for the given user id.
		FindSessionsByUserID(userID string) ([]*model.Session, error)
		// FindSessionByAccessToken returns the session for the given access token.
		FindSessionByAccessToken(token string) (*model.Session, error)
		// FindSessionByTokens returns the session for the given access and refresh token.
		FindSessionByTokens(access, refresh string) (*model.Session, error)
	}

	// A DraftInteraction defines all the methods used to interact with a draft record(s).
	DraftInteraction interface {
		// FindDraftByUserID returns the draft for the given id and user id (UUID).
		FindDraftByUserID(id, userID string) (*model.Draft, error)
		// FindDraftsByUserID returns all the drafts of the given user, last edited first.
		FindDraftsByUserID(userID string) ([]*model.Draft, error)
		// DeleteDraft deletes the draft matching the given parameters.
		DeleteDraft(id, userID string) error
	}

	// A CapsuleInteraction defines all the methods used to interact with a capsule record(s).
	CapsuleInteraction interface {
		// FindCapsule returns the capsule for the given id (UUID).
		FindCapsule(id string) (*model.Capsule, error)
		// FindCapsulesBySender returns the capsules sent by the given user, soonest unlock first.
		// A non-empty query filters the capsules on their title.
		FindCapsulesBySender(userID, query string) ([]*model.Capsule, error)
		// FindCapsulesByRecipient returns the capsules received by the given user, soonest unlock first.
		// A non-empty query filters the capsules on their title.
		FindCapsulesByRecipient(userID, query string) ([]*model.Capsule, error)
	}
)
