package service

import (
	"net/http"
	"strings"

	argon2 "github.com/mdouchement/simple-argon2"
	"github.com/mdouchement/timecapsule/internal/database"
	"github.com/mdouchement/timecapsule/internal/model"
	"github.com/mdouchement/timecapsule/internal/server/serializer"
	"github.com/mdouchement/timecapsule/internal/server/session"
	"github.com/mdouchement/timecapsule/internal/tcerror"
	"github.com/mdouchement/timecapsule/pkg/textmatch"
	"github.com/pkg/errors"
)

type (
	// A UserService handles the user accounts.
	UserService struct {
		db       database.Client
		sessions session.Manager
		clock    Clock
	}

	// RegisterParams are used to register a user.
	RegisterParams struct {
		Params
		Email           string `json:"email"`
		Name            string `json:"name"`
		Password        string `json:"password"`
		LinkedAccountID string `json:"linked_account_id"`
		Avatar          string `json:"avatar"`
	}

	// LoginParams are used to login a user.
	LoginParams struct {
		Params
		Email    string `json:"email"`
		Password string `json:"password"`
	}
)

// NewUser returns a new UserService.
func NewUser(db database.Client, sessions session.Manager, clock Clock) *UserService {
	return &UserService{
		db:       db,
		sessions: sessions,
		clock:    clock,
	}
}

// Register creates a new user and its first session.
func (s *UserService) Register(params RegisterParams) (Render, error) {
	// Check if the email is free to use.
	u, err := s.db.FindUserByMail(params.Email)
	if err != nil && !s.db.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not get access to database")
	}
	if u != nil {
		return nil, tcerror.NewWithTagCode(http.StatusUnauthorized, "", "This email is already registered.")
	}

	if params.LinkedAccountID != "" {
		u, err = s.db.FindUserByLinkedAccount(params.LinkedAccountID)
		if err != nil && !s.db.IsNotFound(err) {
			return nil, errors.Wrap(err, "could not get access to database")
		}
		if u != nil {
			return nil, tcerror.Validation("linked-account-taken", "This account is already linked to another user.")
		}
	}

	user := &model.User{
		Email:           params.Email,
		Name:            textmatch.Bound(params.Name),
		LinkedAccountID: strings.TrimSpace(params.LinkedAccountID),
		Avatar:          params.Avatar,
	}

	// Crypt password
	user.Password, err = argon2.GenerateFromPasswordString(params.Password, argon2.Default)
	if err != nil {
		return nil, errors.Wrap(err, "could not store user password safe")
	}
	user.PasswordUpdatedAt = s.clock.now().Unix()

	// Persist the model
	if err := s.db.Save(user); err != nil {
		if s.db.IsAlreadyExists(err) {
			return nil, tcerror.NewWithTagCode(http.StatusUnauthorized, "", "This email is already registered.")
		}
		return nil, errors.Wrap(err, "could not persist user")
	}

	return s.authenticated(user, params.Params)
}

// Login authenticates a user and opens a new session.
func (s *UserService) Login(params LoginParams) (Render, error) {
	// Retrieve user
	user, err := s.db.FindUserByMail(params.Email)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, tcerror.Authentication("Invalid email or password.")
		}
		return nil, errors.Wrap(err, "could not get user")
	}

	// Verify password
	if err = argon2.CompareHashAndPasswordString(user.Password, params.Password); err != nil {
		if err == argon2.ErrMismatchedHashAndPassword {
			return nil, tcerror.Authentication("Invalid email or password.")
		}
		return nil, errors.Wrap(err, "could not validate password")
	}

	return s.authenticated(user, params.Params)
}

func (s *UserService) authenticated(u *model.User, params Params) (Render, error) {
	session := params.Session
	if session == nil {
		session = s.sessions.Generate(u.ID, params.UserAgent)
		if err := s.db.Save(session); err != nil {
			return nil, errors.Wrap(err, "could not create a session")
		}
	}

	return M{
		"user":    serializer.User(u),
		"session": serializer.SessionTokens(session, s.sessions.AccessTokenExpireAt(session)),
	}, nil
}
