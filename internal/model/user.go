package model

import (
	"github.com/mdouchement/timecapsule/pkg/disclosure"
)

// A User represents a database record.
type User struct {
	Base `msgpack:",inline" storm:"inline"`

	Email string `msgpack:"email" storm:"unique"`
	Name  string `msgpack:"name"  storm:"index"`
	// LinkedAccountID references the user in an external account provider.
	// Storm unique indexes ignore zero values so it can be left empty.
	LinkedAccountID string `msgpack:"linked_account_id,omitempty" storm:"unique"`
	Avatar          string `msgpack:"avatar,omitempty"`
	Password        string `msgpack:"password,omitempty"`

	PasswordUpdatedAt int64 `msgpack:"password_updated_at"`
}

// Identity returns what is displayed about the user when sending a capsule.
func (u *User) Identity() disclosure.Identity {
	return disclosure.Identity{
		ID:     u.ID,
		Name:   u.Name,
		Avatar: u.Avatar,
	}
}
