package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mdouchement/timecapsule/pkg/libtc"
	"github.com/pkg/errors"
)

// SealOptions are the options of the seal command.
type SealOptions struct {
	DraftID     string
	To          string
	Title       string
	Body        string // "-" reads the body from stdin
	Unlock      string
	Anonymous   bool
	RevealDelay time.Duration
}

// Seal turns a draft or an inline message into a capsule.
func Seal(opts SealOptions) error {
	params, err := sealParams(opts, os.Stdin, time.Now())
	if err != nil {
		return err
	}

	client, cfg, err := connect()
	if err != nil {
		return err
	}

	capsule, err := client.Seal(context.Background(), params)
	if err != nil {
		return errors.Wrap(err, "could not seal capsule")
	}

	fmt.Printf("Capsule %s sealed until %s (%s)\n",
		capsule.ID,
		capsule.UnlocksAt.Local().Format(time.RFC1123),
		capsule.Countdown,
	)
	return persist(client, cfg)
}

func sealParams(opts SealOptions, stdin io.Reader, now time.Time) (libtc.SealParams, error) {
	params := libtc.SealParams{
		DraftID:   opts.DraftID,
		Title:     opts.Title,
		Body:      opts.Body,
		Recipient: opts.To,
		Anonymous: opts.Anonymous,
	}

	if params.Body == "-" {
		body, err := io.ReadAll(stdin)
		if err != nil {
			return params, errors.Wrap(err, "could not read body from stdin")
		}
		params.Body = string(body)
	}

	if params.DraftID == "" && strings.TrimSpace(params.Body) == "" {
		return params, errors.New("a draft or a body is required")
	}

	unlocksAt, err := parseUnlock(opts.Unlock, now)
	if err != nil {
		return params, err
	}
	params.UnlocksAt = unlocksAt

	if opts.Anonymous && opts.RevealDelay > 0 {
		seconds := int(opts.RevealDelay / time.Second)
		params.RevealDelaySeconds = &seconds
	}

	return params, nil
}

// parseUnlock accepts a duration relative to now ("72h", "+30m") or a date in any format understood by dateparse.
func parseUnlock(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("an unlock date is required")
	}

	if d, err := time.ParseDuration(strings.TrimPrefix(s, "+")); err == nil {
		return now.Add(d).UTC(), nil
	}

	t, err := dateparse.ParseIn(s, now.Location())
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "could not parse unlock date %q", s)
	}
	return t.UTC(), nil
}
