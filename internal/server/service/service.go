package service

import (
	"time"

	"github.com/mdouchement/timecapsule/internal/model"
)

// Limits applied to the user inputs.
const (
	// MaxTitleLength is the maximum number of runes of a title.
	MaxTitleLength = 200
	// MaxBodyLength is the maximum size in bytes of a body.
	MaxBodyLength = 64 << 10
)

type (
	// M is an arbitrary map.
	M map[string]any

	// A Render is an arbitrary payload serializable in JSON by the API.
	Render any

	// Params are the basic fields used in requests.
	Params struct {
		UserAgent string
		Session   *model.Session
	}

	// A Clock returns the current instant.
	Clock func() time.Time
)

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
