package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/timecapsule/internal/database"
	"github.com/mdouchement/timecapsule/internal/server/serializer"
	sessionpkg "github.com/mdouchement/timecapsule/internal/server/session"
	"github.com/mdouchement/timecapsule/internal/tcerror"
	"github.com/pkg/errors"
)

type (
	sess struct {
		db       database.Client
		sessions sessionpkg.Manager
	}

	refreshSessionParams struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}

	deleteSessionParams struct {
		ID string `json:"uuid"`
	}
)

// List lists all active sessions for the current user.
func (s *sess) List(c echo.Context) error {
	sessions, err := s.db.FindActiveSessionsByUserID(currentUser(c).ID)
	if err != nil && !s.db.IsNotFound(err) {
		return errors.Wrap(err, "could not get active sessions")
	}

	return c.JSON(http.StatusOK, serializer.Sessions(sessions, currentSession(c).ID))
}

// Refresh obtains a new pair of access token and refresh token.
func (s *sess) Refresh(c echo.Context) error {
	// Filter params
	var params refreshSessionParams
	if err := c.Bind(&params); err != nil {
		return err
	}

	if params.AccessToken == "" || params.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, tcerror.NewWithTagCode(
			http.StatusBadRequest,
			"invalid-parameters",
			"Please provide all required parameters.",
		))
	}

	invalid := tcerror.NewWithTagCode(
		http.StatusBadRequest,
		"invalid-parameters",
		"The provided parameters are not valid.",
	)
	if !sessionpkg.WellFormed(params.AccessToken, sessionpkg.AccessTokenPrefix) ||
		!sessionpkg.WellFormed(params.RefreshToken, sessionpkg.RefreshTokenPrefix) {
		return c.JSON(http.StatusBadRequest, invalid)
	}

	// Retrieve session
	session, err := s.db.FindSessionByTokens(params.AccessToken, params.RefreshToken)
	if err != nil {
		if s.db.IsNotFound(err) {
			return c.JSON(http.StatusBadRequest, invalid)
		}
		return errors.Wrap(err, "could not get refresh session")
	}

	// Regenerate tokens
	if err = s.sessions.Regenerate(session); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"session": serializer.SessionTokens(session, s.sessions.AccessTokenExpireAt(session)),
	})
}

// Delete terminates the specified session by UUID.
func (s *sess) Delete(c echo.Context) error {
	// Filter params
	var params deleteSessionParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, tcerror.New("Could not get session UUID."))
	}

	if params.ID == "" {
		return c.JSON(http.StatusBadRequest, tcerror.New("Please provide the session identifier."))
	}

	if params.ID == currentSession(c).ID {
		return c.JSON(http.StatusBadRequest, tcerror.New("You can not delete your current session."))
	}

	// Retrieve session
	session, err := s.db.FindSessionByUserID(params.ID, currentUser(c).ID)
	if err != nil {
		if s.db.IsNotFound(err) {
			return c.JSON(http.StatusBadRequest, tcerror.New("No session exists with the provided identifier."))
		}
		return errors.Wrap(err, "could not get user session")
	}

	if err = s.db.Delete(session); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAll terminates all sessions, except the current one.
func (s *sess) DeleteAll(c echo.Context) error {
	sessions, err := s.db.FindSessionsByUserID(currentUser(c).ID)
	if err != nil && !s.db.IsNotFound(err) {
		return err
	}

	current := currentSession(c)
	for _, session := range sessions {
		if session.ID == current.ID {
			continue
		}

		if err = s.db.Delete(session); err != nil {
			return err
		}
	}

	return c.NoContent(http.StatusNoContent)
}
