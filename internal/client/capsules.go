package client

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mdouchement/timecapsule/internal/client/tui"
	"github.com/mdouchement/timecapsule/pkg/disclosure"
	"github.com/pkg/errors"
	"github.com/sanity-io/litter"
)

// Capsules lists the capsules of the given box.
func Capsules(box, query string) error {
	client, cfg, err := connect()
	if err != nil {
		return err
	}

	capsules, err := client.ListCapsules(context.Background(), box, query)
	if err != nil {
		return errors.Wrap(err, "could not list capsules")
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tCOUNTDOWN\tTITLE\tFROM")
	for _, c := range capsules {
		columns := tui.CapsuleColumns(c, disclosure.Default.Evaluate(c.Disclosure(), now))
		fmt.Fprintf(w, "%s\t%s\n", c.ID, strings.Join(columns, "\t"))
	}
	if err = w.Flush(); err != nil {
		return err
	}

	return persist(client, cfg)
}

// Show displays a capsule.
func Show(id string, raw bool) error {
	client, cfg, err := connect()
	if err != nil {
		return err
	}

	capsule, err := client.GetCapsule(context.Background(), id)
	if err != nil {
		return errors.Wrap(err, "could not get capsule")
	}

	if raw {
		fmt.Println(litter.Sdump(capsule))
	} else {
		fmt.Print(tui.Describe(capsule, time.Now()))
	}

	return persist(client, cfg)
}

// Open opens a ready capsule and displays its content.
func Open(id string) error {
	client, cfg, err := connect()
	if err != nil {
		return err
	}

	capsule, err := client.OpenCapsule(context.Background(), id)
	if err != nil {
		return errors.Wrap(err, "could not open capsule")
	}
	fmt.Print(tui.Describe(capsule, time.Now()))

	return persist(client, cfg)
}
