package service

import (
	"strings"
	"unicode/utf8"

	"github.com/mdouchement/timecapsule/internal/database"
	"github.com/mdouchement/timecapsule/internal/model"
	"github.com/mdouchement/timecapsule/internal/tcerror"
	"github.com/pkg/errors"
)

type (
	// A DraftService handles the drafts of a user.
	DraftService struct {
		db database.Client
	}

	// DraftParams are the fields of a draft sent by the client.
	// Nil fields are left unchanged on update.
	DraftParams struct {
		Title         *string
		Body          *string
		RecipientHint *string
	}
)

// NewDraft returns a new DraftService.
func NewDraft(db database.Client) *DraftService {
	return &DraftService{db: db}
}

// Create persists a new draft owned by user.
func (s *DraftService) Create(user *model.User, params DraftParams) (*model.Draft, error) {
	if params.Body == nil {
		return nil, errEmptyBody
	}

	draft := &model.Draft{UserID: user.ID}
	if err := apply(draft, params); err != nil {
		return nil, err
	}

	if err := s.db.Save(draft); err != nil {
		return nil, tcerror.Persistence(err, "could not persist draft")
	}
	return draft, nil
}

// Update overwrites the given fields of the draft.
func (s *DraftService) Update(user *model.User, id string, params DraftParams) (*model.Draft, error) {
	draft, err := s.Find(user, id)
	if err != nil {
		return nil, err
	}

	if err = apply(draft, params); err != nil {
		return nil, err
	}

	if err = s.db.Save(draft); err != nil {
		return nil, tcerror.Persistence(err, "could not persist draft")
	}
	return draft, nil
}

// Find returns the draft of user for the given id.
func (s *DraftService) Find(user *model.User, id string) (*model.Draft, error) {
	draft, err := s.db.FindDraftByUserID(id, user.ID)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, tcerror.NotFound("draft-not-found", "No draft exists with the provided identifier.")
		}
		return nil, errors.Wrap(err, "could not get draft")
	}
	return draft, nil
}

var errEmptyBody = tcerror.Validation("empty-body", "Body can't be empty.")

func apply(draft *model.Draft, params DraftParams) error {
	if params.Title != nil {
		if err := validateTitle(*params.Title); err != nil {
			return err
		}
		draft.Title = *params.Title
	}

	if params.Body != nil {
		if err := validateBody(*params.Body); err != nil {
			return err
		}
		draft.Body = *params.Body
	}

	if params.RecipientHint != nil {
		draft.RecipientHint = strings.TrimSpace(*params.RecipientHint)
	}
	return nil
}

func validateTitle(title string) error {
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return tcerror.Validation("title-too-long", "Title is too long.")
	}
	return nil
}

func validateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return errEmptyBody
	}
	if len(body) > MaxBodyLength {
		return tcerror.Validation("body-too-long", "Body is too long.")
	}
	return nil
}
