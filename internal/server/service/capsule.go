package service

import (
	"net/http"
	"strings"
	"time"

	"github.com/mdouchement/timecapsule/internal/database"
	"github.com/mdouchement/timecapsule/internal/model"
	"github.com/mdouchement/timecapsule/internal/tcerror"
	"github.com/mdouchement/timecapsule/pkg/disclosure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Capsule boxes.
const (
	BoxSent     = "sent"
	BoxReceived = "received"
)

type (
	// A CapsuleService handles the sealing and the opening of capsules.
	CapsuleService struct {
		db         database.Client
		recipients RecipientResolver
		engine     disclosure.Engine
		clock      Clock
	}

	// SealParams are used to seal a capsule.
	// The content comes from the draft when DraftID is set.
	SealParams struct {
		DraftID            string    `json:"draft_id"`
		Title              string    `json:"title"`
		Body               string    `json:"body"`
		Recipient          string    `json:"recipient"`
		UnlocksAt          time.Time `json:"unlocks_at"`
		Anonymous          bool      `json:"anonymous"`
		RevealDelaySeconds *int      `json:"reveal_delay_seconds"`
	}
)

// NewCapsule returns a new CapsuleService.
func NewCapsule(db database.Client, recipients RecipientResolver, engine disclosure.Engine, clock Clock) *CapsuleService {
	return &CapsuleService{
		db:         db,
		recipients: recipients,
		engine:     engine,
		clock:      clock,
	}
}

// Engine returns the engine used to compute the capsule statuses.
func (s *CapsuleService) Engine() disclosure.Engine {
	return s.engine
}

// Now returns the current instant of the service clock.
func (s *CapsuleService) Now() time.Time {
	return s.clock.now()
}

// Seal creates a capsule sent by user. The source draft is deleted once the capsule is persisted.
func (s *CapsuleService) Seal(user *model.User, params SealParams) (*model.Capsule, error) {
	now := s.clock.now()

	var draft *model.Draft
	if params.DraftID != "" {
		var err error
		draft, err = NewDraft(s.db).Find(user, params.DraftID)
		if err != nil {
			return nil, err
		}

		params.Title = draft.Title
		params.Body = draft.Body
		if strings.TrimSpace(params.Recipient) == "" {
			params.Recipient = draft.RecipientHint
		}
	}

	if err := validateTitle(params.Title); err != nil {
		return nil, err
	}
	if err := validateBody(params.Body); err != nil {
		return nil, err
	}

	if params.UnlocksAt.IsZero() {
		return nil, tcerror.Validation("missing-unlock", "Please provide the unlock date.")
	}
	if !params.UnlocksAt.After(now) {
		return nil, tcerror.Validation("unlock-in-past", "The unlock date must be in the future.")
	}

	capsule := &model.Capsule{
		SenderID:  user.ID,
		Title:     params.Title,
		Body:      params.Body,
		UnlocksAt: params.UnlocksAt.UTC(),
		Anonymous: params.Anonymous,
	}

	if params.Anonymous {
		delay := 0
		if params.RevealDelaySeconds != nil {
			delay = *params.RevealDelaySeconds
		}
		if err := disclosure.ValidateRevealDelay(delay); err != nil {
			return nil, tcerror.Validation("invalid-reveal-delay", "The reveal delay must be between 0 and 72 hours.")
		}
		capsule.RevealDelaySeconds = &delay
	}

	recipient, err := s.recipients.Resolve(params.Recipient)
	if err != nil {
		return nil, err
	}
	capsule.RecipientID = recipient.ID

	if err = s.db.Save(capsule); err != nil {
		return nil, tcerror.Persistence(err, "could not persist capsule")
	}

	if draft != nil {
		if err = s.db.DeleteDraft(draft.ID, user.ID); err != nil && !s.db.IsNotFound(err) {
			logrus.WithError(err).WithField("draft_id", draft.ID).Warn("could not delete sealed draft")
		}
	}

	return capsule, nil
}

// List returns the capsules of the given box.
func (s *CapsuleService) List(user *model.User, box, query string) ([]*model.Capsule, error) {
	var (
		capsules []*model.Capsule
		err      error
	)

	switch box {
	case BoxSent:
		capsules, err = s.db.FindCapsulesBySender(user.ID, query)
	case "", BoxReceived:
		capsules, err = s.db.FindCapsulesByRecipient(user.ID, query)
	default:
		return nil, tcerror.NewWithTagCode(http.StatusBadRequest, "invalid-parameters", "Unknown box.")
	}

	if err != nil {
		return nil, errors.Wrap(err, "could not list capsules")
	}

	for _, capsule := range capsules {
		s.observe(capsule)
	}
	return capsules, nil
}

// Find returns the capsule for the given id if user is its sender or its recipient.
// The first time the sender is observed as revealed, the reveal is persisted.
func (s *CapsuleService) Find(user *model.User, id string) (*model.Capsule, error) {
	capsule, err := s.find(user, id)
	if err != nil {
		return nil, err
	}

	s.observe(capsule)
	return capsule, nil
}

// Open records the opening of a ready capsule by its recipient.
func (s *CapsuleService) Open(user *model.User, id string) (*model.Capsule, error) {
	capsule, err := s.find(user, id)
	if err != nil {
		return nil, err
	}

	if capsule.RecipientID != user.ID {
		return nil, tcerror.NewWithTagCode(http.StatusForbidden, "not-recipient", "Only the recipient can open this capsule.")
	}

	now := s.clock.now()
	switch s.engine.Status(capsule.Disclosure(), now) {
	case disclosure.Opened:
		return nil, tcerror.Validation("already-opened", "This capsule is already opened.")
	case disclosure.Locked, disclosure.UnlockingSoon:
		return nil, tcerror.Validation("capsule-sealed", "This capsule can't be opened yet.")
	}

	capsule.Open(now)
	if err = s.db.Save(capsule); err != nil {
		return nil, tcerror.Persistence(err, "could not persist capsule")
	}

	s.observe(capsule)
	return capsule, nil
}

// Sender returns the identity of the capsule sender.
func (s *CapsuleService) Sender(capsule *model.Capsule) disclosure.Identity {
	user, err := s.db.FindUser(capsule.SenderID)
	if err != nil {
		if !s.db.IsNotFound(err) {
			logrus.WithError(err).WithField("user_id", capsule.SenderID).Warn("could not get capsule sender")
		}
		return disclosure.Identity{ID: capsule.SenderID}
	}
	return user.Identity()
}

func (s *CapsuleService) find(user *model.User, id string) (*model.Capsule, error) {
	capsule, err := s.db.FindCapsule(id)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, errCapsuleNotFound
		}
		return nil, errors.Wrap(err, "could not get capsule")
	}

	if capsule.SenderID != user.ID && capsule.RecipientID != user.ID {
		return nil, errCapsuleNotFound
	}
	return capsule, nil
}

// observe persists the first observed reveal of the capsule sender.
// A failure is only logged, the reveal will be observed again later.
func (s *CapsuleService) observe(capsule *model.Capsule) {
	if !capsule.ObserveReveal(s.clock.now()) {
		return
	}

	if err := s.db.Save(capsule); err != nil {
		logrus.WithError(err).WithField("capsule_id", capsule.ID).Warn("could not persist sender reveal")
	}
}

var errCapsuleNotFound = tcerror.NotFound("capsule-not-found", "No capsule exists with the provided identifier.")
