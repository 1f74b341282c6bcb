//
// disclosure computes the time-derived state of a sealed capsule: whether it can be opened
// and whether its anonymous sender can be shown. Every function is a pure function of the
// record and the given instant, so callers may re-evaluate them as often as they render.
//

// Evaluate a capsule
//
//	opened := time.Date(2026, 12, 25, 9, 0, 0, 0, time.UTC)
//	delay := 3600
//
//	r := disclosure.Record{
//		UnlocksAt:          time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC),
//		OpenedAt:           &opened,
//		Anonymous:          true,
//		RevealDelaySeconds: &delay,
//	}
//
//	now := time.Now()
//	fmt.Println(disclosure.Default.Status(r, now))        // opened
//	fmt.Println(disclosure.IsRevealed(r, now))            // true after 10:00 UTC
//	fmt.Println(disclosure.RevealCountdownText(r, now))   // "Reveals in 42m" before that
//
// Hide the sender
//
//	sender := disclosure.Identity{ID: user.ID, Name: user.Name}
//	shown := disclosure.Redact(sender, r.Anonymous, disclosure.IsRevealed(r, now))
package disclosure
