package serializer

import "github.com/mdouchement/timecapsule/internal/model"

// Draft serializes the render of a draft.
func Draft(m *model.Draft) map[string]interface{} {
	return map[string]interface{}{
		"uuid":           m.ID,
		"created_at":     m.CreatedAt,
		"updated_at":     m.UpdatedAt,
		"title":          m.Title,
		"body":           m.Body,
		"recipient_hint": m.RecipientHint,
	}
}

// Drafts serializes the render of drafts.
func Drafts(m []*model.Draft) []map[string]interface{} {
	drafts := make([]map[string]interface{}, len(m))
	for i, d := range m {
		drafts[i] = Draft(d)
	}
	return drafts
}
