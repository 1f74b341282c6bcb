package service

import (
	"github.com/mdouchement/timecapsule/internal/database"
	"github.com/mdouchement/timecapsule/internal/model"
	"github.com/mdouchement/timecapsule/internal/tcerror"
	"github.com/mdouchement/timecapsule/pkg/textmatch"
	"github.com/pkg/errors"
)

type (
	// A RecipientResolver finds the user designated by a free-form reference.
	RecipientResolver interface {
		Resolve(reference string) (*model.User, error)
	}

	// A RecipientLookup is one step of the resolution.
	// It returns a nil user when nothing matches.
	RecipientLookup func(db database.Client, reference string) (*model.User, error)

	recipientChain struct {
		db      database.Client
		lookups []RecipientLookup
	}
)

// NewRecipientResolver returns a resolver trying, in order, the user id, the linked account and the user name.
func NewRecipientResolver(db database.Client) RecipientResolver {
	return NewRecipientChain(db, RecipientByID, RecipientByLinkedAccount, RecipientByName)
}

// NewRecipientChain returns a resolver using the first lookup that matches.
func NewRecipientChain(db database.Client, lookups ...RecipientLookup) RecipientResolver {
	return &recipientChain{
		db:      db,
		lookups: lookups,
	}
}

func (r *recipientChain) Resolve(reference string) (*model.User, error) {
	reference = textmatch.Bound(reference)
	if reference == "" {
		return nil, tcerror.Validation("missing-recipient", "Please provide a recipient.")
	}

	for _, lookup := range r.lookups {
		user, err := lookup(r.db, reference)
		if err != nil {
			return nil, err
		}
		if user != nil {
			return user, nil
		}
	}

	return nil, tcerror.NotFound("recipient-not-found", "No user matches the given recipient.")
}

// RecipientByID matches the user id.
func RecipientByID(db database.Client, reference string) (*model.User, error) {
	user, err := db.FindUser(reference)
	return orNil(db, user, err)
}

// RecipientByLinkedAccount matches the external account linked to a user.
func RecipientByLinkedAccount(db database.Client, reference string) (*model.User, error) {
	user, err := db.FindUserByLinkedAccount(reference)
	return orNil(db, user, err)
}

// RecipientByName matches the user name, ignoring case.
// Several users sharing the name is an error.
func RecipientByName(db database.Client, reference string) (*model.User, error) {
	users, err := db.FindUsersByName(reference)
	if err != nil {
		return nil, errors.Wrap(err, "could not resolve recipient")
	}

	switch len(users) {
	case 0:
		return nil, nil
	case 1:
		return users[0], nil
	default:
		return nil, tcerror.Validation("ambiguous-recipient", "Several users match the given name, use their identifier.")
	}
}

func orNil(db database.Client, user *model.User, err error) (*model.User, error) {
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "could not resolve recipient")
	}
	return user, nil
}
