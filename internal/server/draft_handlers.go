package server

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/timecapsule/internal/database"
	"github.com/mdouchement/timecapsule/internal/server/serializer"
	"github.com/mdouchement/timecapsule/internal/server/service"
	"github.com/mdouchement/timecapsule/internal/tcerror"
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// draft contains all draft handlers.
type draft struct {
	db     database.Client
	drafts *service.DraftService
}

// Create persists a new draft for the current user.
func (h *draft) Create(c echo.Context) error {
	params, err := draftParams(c)
	if err != nil {
		return err
	}

	draft, err := h.drafts.Create(currentUser(c), params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, serializer.Draft(draft))
}

// List returns the drafts of the current user, last edited first.
func (h *draft) List(c echo.Context) error {
	drafts, err := h.db.FindDraftsByUserID(currentUser(c).ID)
	if err != nil {
		return errors.Wrap(err, "could not list drafts")
	}

	return c.JSON(http.StatusOK, serializer.Drafts(drafts))
}

// Show returns the requested draft.
func (h *draft) Show(c echo.Context) error {
	draft, err := h.drafts.Find(currentUser(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Draft(draft))
}

// Update overwrites the fields present in the request body.
func (h *draft) Update(c echo.Context) error {
	params, err := draftParams(c)
	if err != nil {
		return err
	}

	draft, err := h.drafts.Update(currentUser(c), c.Param("id"), params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Draft(draft))
}

// Delete removes the requested draft.
func (h *draft) Delete(c echo.Context) error {
	user := currentUser(c)

	if _, err := h.drafts.Find(user, c.Param("id")); err != nil {
		return err
	}

	if err := h.db.DeleteDraft(c.Param("id"), user.ID); err != nil {
		return errors.Wrap(err, "could not delete draft")
	}
	return c.NoContent(http.StatusNoContent)
}

// draftParams reads the draft fields of the request.
// An absent field is distinguished from an empty one so updates only touch what the client sent.
func draftParams(c echo.Context) (params service.DraftParams, err error) {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return params, errors.Wrap(err, "could not read request body")
	}

	v, err := fastjson.ParseBytes(payload)
	if err != nil || v.Type() != fastjson.TypeObject {
		return params, tcerror.NewWithTagCode(http.StatusBadRequest, "invalid-parameters", "Invalid request body.")
	}

	for _, field := range []struct {
		key string
		dst **string
	}{
		{"title", &params.Title},
		{"body", &params.Body},
		{"recipient_hint", &params.RecipientHint},
	} {
		value := v.Get(field.key)
		if value == nil || value.Type() == fastjson.TypeNull {
			continue
		}

		b, err := value.StringBytes()
		if err != nil {
			return params, tcerror.Validation("invalid-"+field.key, "The field "+field.key+" must be a string.")
		}
		s := string(b)
		*field.dst = &s
	}

	return params, nil
}
