package model

import (
	"time"
)

type (
	// A Model is a record stored in database.
	Model interface {
		// GetID returns the record identity, empty until the first save.
		GetID() string
		// Stamp records a save at now. id is only assigned to a record without identity.
		Stamp(id string, now time.Time)
	}

	// A Base contains the fields shared by every record.
	Base struct {
		ID        string     `json:"uuid"       msgpack:"id"         storm:"id"`
		CreatedAt *time.Time `json:"created_at" msgpack:"created_at" storm:"index"`
		UpdatedAt *time.Time `json:"updated_at" msgpack:"updated_at" storm:"index"`
	}
)

// GetID returns the record identity.
func (m *Base) GetID() string {
	return m.ID
}

// Stamp sets UpdatedAt, and ID with CreatedAt on the first save.
func (m *Base) Stamp(id string, now time.Time) {
	if m.ID == "" {
		m.ID = id
		m.CreatedAt = &now
	}
	m.UpdatedAt = &now
}
