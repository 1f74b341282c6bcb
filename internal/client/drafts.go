package client

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
)

// Drafts lists the drafts of the current user, newest first.
func Drafts() error {
	client, cfg, err := connect()
	if err != nil {
		return err
	}

	drafts, err := client.ListDrafts(context.Background())
	if err != nil {
		return errors.Wrap(err, "could not list drafts")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUPDATED\tTITLE\tTO")
	for _, d := range drafts {
		var updated string
		if d.UpdatedAt != nil {
			updated = d.UpdatedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, updated, truncate(d.Title, 40), d.RecipientHint)
	}
	if err = w.Flush(); err != nil {
		return err
	}

	return persist(client, cfg)
}

// DeleteDraft discards a draft.
func DeleteDraft(id string) error {
	client, cfg, err := connect()
	if err != nil {
		return err
	}

	if err = client.DeleteDraft(context.Background(), id); err != nil {
		return errors.Wrap(err, "could not delete draft")
	}
	fmt.Println("Draft deleted")

	return persist(client, cfg)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
