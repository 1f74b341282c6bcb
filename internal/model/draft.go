package model

// A Draft is an in-progress capsule.
// Its UpdatedAt is the last time the draft was edited.
type Draft struct {
	Base `msgpack:",inline" storm:"inline"`

	UserID        string `msgpack:"user_id" storm:"index"`
	Title         string `msgpack:"title"`
	Body          string `msgpack:"body"`
	RecipientHint string `msgpack:"recipient_hint,omitempty"`
}
