package middlewares

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/timecapsule/internal/server/session"
	"github.com/mdouchement/timecapsule/internal/tcerror"
)

const (
	// CurrentUserContextKey is the key to retrieve the current_user from echo.Context.
	CurrentUserContextKey = "current_user"
	// CurrentSessionContextKey is the key to retrieve the current_session from echo.Context.
	CurrentSessionContextKey = "current_session"
)

// Session returns a bearer token auth middleware.
// It stores current_user and current_session into echo.Context
func Session(m session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := token(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return tcerror.Authentication("Invalid login credentials.")
			}

			user, session, err := m.UserFromToken(token)
			if err != nil {
				return err
			}

			c.Set(CurrentSessionContextKey, session)
			c.Set(CurrentUserContextKey, user)
			return next(c)
		}
	}
}

func token(authorization string) string {
	parts := strings.Split(authorization, " ")
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
