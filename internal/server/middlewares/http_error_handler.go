package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/timecapsule/internal/tcerror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// HTTPErrorHandler is a middleware that formats rendered errors.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		logrus.WithError(he.Internal).WithField("code", he.Code).Debug("echo error")
		_ = c.JSON(he.Code, echo.Map{
			"error": echo.Map{
				"message": he.Message,
			},
		})
		return
	}

	var te *tcerror.Error
	if errors.As(err, &te) {
		if status := tcerror.StatusCode(te); status < 500 {
			_ = c.JSON(status, te)
			return
		}
	}

	internal(err, c)
}

func internal(err error, c echo.Context) {
	id := uuid.Must(uuid.NewV4()).String()
	logrus.WithError(err).WithField("error_id", id).Error("unexpected error")

	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"error": echo.Map{
			"message": fmt.Sprintf("Unexpected error (id: %s)", id),
		},
	})
}
