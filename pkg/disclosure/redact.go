package disclosure

const (
	// AnonymousName replaces the sender name while hidden.
	AnonymousName = "Anonymous"
	// AnonymousAvatar replaces the sender avatar while hidden.
	AnonymousAvatar = "anonymous"
)

// An Identity is what is displayed about a sender.
type Identity struct {
	ID     string `json:"uuid"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Placeholder is the identity displayed for a hidden sender.
var Placeholder = Identity{Name: AnonymousName, Avatar: AnonymousAvatar}

// Redact returns id when it can be displayed, Placeholder otherwise.
func Redact(id Identity, anonymous, revealed bool) Identity {
	if anonymous && !revealed {
		return Placeholder
	}
	return id
}
