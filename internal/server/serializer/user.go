package serializer

import "github.com/mdouchement/timecapsule/internal/model"

// User serializes the render of a user.
func User(m *model.User) map[string]interface{} {
	r := map[string]interface{}{
		"uuid":       m.ID,
		"created_at": m.CreatedAt.UTC(),
		"updated_at": m.UpdatedAt.UTC(),
		"email":      m.Email,
		"name":       m.Name,
		"avatar":     m.Avatar,
	}

	if m.LinkedAccountID != "" {
		r["linked_account_id"] = m.LinkedAccountID
	}

	return r
}
