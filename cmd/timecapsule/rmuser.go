package main

import (
	"fmt"

	"github.com/mdouchement/timecapsule/internal/database"
	"github.com/pkg/errors"
)

// removeUser deletes the user registered with email, its sessions, its drafts and the capsules it sent or received.
func removeUser(db database.Client, email string) error {
	user, err := db.FindUserByMail(email)
	if err != nil {
		if db.IsNotFound(err) {
			fmt.Println("No account for this email")
			return nil
		}
		return errors.Wrap(err, "find user by mail")
	}

	fmt.Println("User found:", user.ID)

	sessions, err := db.FindSessionsByUserID(user.ID)
	if err != nil {
		return errors.Wrap(err, "find sessions")
	}
	for _, session := range sessions {
		if err = db.Delete(session); err != nil {
			return errors.Wrap(err, "delete session")
		}
	}
	fmt.Println("Sessions removed:", len(sessions))

	drafts, err := db.FindDraftsByUserID(user.ID)
	if err != nil {
		return errors.Wrap(err, "find drafts")
	}
	for _, draft := range drafts {
		if err = db.Delete(draft); err != nil {
			return errors.Wrap(err, "delete draft")
		}
	}
	fmt.Println("Drafts removed:", len(drafts))

	sent, err := db.FindCapsulesBySender(user.ID, "")
	if err != nil {
		return errors.Wrap(err, "find sent capsules")
	}
	received, err := db.FindCapsulesByRecipient(user.ID, "")
	if err != nil {
		return errors.Wrap(err, "find received capsules")
	}

	removed := map[string]bool{}
	for _, capsule := range append(sent, received...) {
		if removed[capsule.ID] {
			// Sent to oneself.
			continue
		}
		if err = db.Delete(capsule); err != nil {
			return errors.Wrap(err, "delete capsule")
		}
		removed[capsule.ID] = true
	}
	fmt.Println("Capsules removed:", len(removed))

	if err = db.Delete(user); err != nil {
		return errors.Wrap(err, "delete user")
	}
	fmt.Println("User removed")

	return nil
}
