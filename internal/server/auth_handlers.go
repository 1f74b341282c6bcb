package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/timecapsule/internal/database"
	"github.com/mdouchement/timecapsule/internal/server/service"
	"github.com/mdouchement/timecapsule/internal/tcerror"
	"github.com/pkg/errors"
)

// auth contains all authentication handlers.
type auth struct {
	db    database.Client
	users *service.UserService
}

///// Register
////
//

// Register handler is used to register the user.
func (h *auth) Register(c echo.Context) error {
	// Filter params
	var params service.RegisterParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusUnauthorized, tcerror.New("Could not get user's params."))
	}
	params.UserAgent = c.Request().UserAgent()

	params.Email = strings.TrimSpace(params.Email)
	if params.Email == "" {
		return c.JSON(http.StatusUnauthorized, tcerror.New("No email provided."))
	}
	if params.Password == "" {
		return c.JSON(http.StatusUnauthorized, tcerror.New("No password provided."))
	}
	if strings.TrimSpace(params.Name) == "" {
		return c.JSON(http.StatusUnauthorized, tcerror.New("No name provided."))
	}

	register, err := h.users.Register(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, register)
}

///// Login
////
//

// Login used for authenticates a user and opens a session.
func (h *auth) Login(c echo.Context) error {
	// Filter params
	var params service.LoginParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusUnauthorized, tcerror.New("Could not get credentials."))
	}
	params.UserAgent = c.Request().UserAgent()

	if params.Email == "" || params.Password == "" {
		return c.JSON(http.StatusUnauthorized, tcerror.New("No email or password provided."))
	}

	login, err := h.users.Login(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, login)
}

///// Logout
////
//

// Logout used for terminates the current session.
func (h *auth) Logout(c echo.Context) error {
	session := currentSession(c)
	if session != nil {
		err := h.db.Delete(session)
		if err != nil && !h.db.IsNotFound(err) {
			return errors.Wrap(err, "could not delete current session")
		}
	}

	return c.NoContent(http.StatusNoContent)
}
