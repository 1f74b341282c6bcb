package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/timecapsule/internal/model"
	"github.com/mdouchement/timecapsule/internal/server/serializer"
	"github.com/mdouchement/timecapsule/internal/server/service"
)

// capsule contains all capsule handlers.
type capsule struct {
	capsules *service.CapsuleService
}

// Seal creates a capsule from a draft or from the given content.
func (h *capsule) Seal(c echo.Context) error {
	var params service.SealParams
	if err := c.Bind(&params); err != nil {
		return err
	}

	capsule, err := h.capsules.Seal(currentUser(c), params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, serializer.Capsule(capsule, h.context(currentUser(c))))
}

// List returns the capsules of the requested box (received by default).
func (h *capsule) List(c echo.Context) error {
	user := currentUser(c)

	capsules, err := h.capsules.List(user, c.QueryParam("box"), c.QueryParam("q"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Capsules(capsules, h.context(user)))
}

// Show returns the requested capsule.
func (h *capsule) Show(c echo.Context) error {
	user := currentUser(c)

	capsule, err := h.capsules.Find(user, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Capsule(capsule, h.context(user)))
}

// Open records the opening of the requested capsule by its recipient.
func (h *capsule) Open(c echo.Context) error {
	user := currentUser(c)

	capsule, err := h.capsules.Open(user, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Capsule(capsule, h.context(user)))
}

func (h *capsule) context(user *model.User) serializer.CapsuleContext {
	return serializer.CapsuleContext{
		Engine:   h.capsules.Engine(),
		Now:      h.capsules.Now(),
		ViewerID: user.ID,
		Sender:   h.capsules.Sender,
	}
}
