package client

import (
	"context"

	"github.com/mdouchement/timecapsule/internal/autosave"
	"github.com/mdouchement/timecapsule/pkg/libtc"
)

// A draftStore persists autosaved drafts through the timecapsule API.
// The owner is the user of the client session so the ownerID given by the controller is not sent.
type draftStore struct {
	client libtc.Client
}

// NewDraftStore returns an autosave.Store backed by the given client.
func NewDraftStore(client libtc.Client) autosave.Store {
	return &draftStore{client: client}
}

func (s *draftStore) CreateDraft(ctx context.Context, _ string, c autosave.Content) (string, error) {
	draft, err := s.client.CreateDraft(ctx, toDraft(c))
	if err != nil {
		return "", err
	}
	return draft.ID, nil
}

func (s *draftStore) UpdateDraft(ctx context.Context, id string, c autosave.Content) error {
	_, err := s.client.UpdateDraft(ctx, id, toDraft(c))
	return err
}

func toDraft(c autosave.Content) libtc.Draft {
	return libtc.Draft{
		Title:         c.Title,
		Body:          c.Body,
		RecipientHint: c.RecipientHint,
	}
}

func toContent(d libtc.Draft) autosave.Content {
	return autosave.Content{
		Title:         d.Title,
		Body:          d.Body,
		RecipientHint: d.RecipientHint,
	}
}
