package main

import (
	"fmt"
	"os"

	"github.com/mdouchement/timecapsule/internal/autosave"
	"github.com/mdouchement/timecapsule/internal/client"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"
)

func main() {
	c := &cobra.Command{
		Use:     "tcc",
		Short:   "Time capsule client",
		Version: fmt.Sprintf("%s - build %.7s @ %s", version, revision, date),
		Args:    cobra.NoArgs,
	}
	c.AddCommand(registerCmd)
	c.AddCommand(loginCmd)
	c.AddCommand(logoutCmd)
	c.AddCommand(draftsCmd())
	c.AddCommand(composeCmd())
	c.AddCommand(sealCmd())
	c.AddCommand(capsulesCmd())
	c.AddCommand(showCmd())
	c.AddCommand(openCmd)
	c.AddCommand(watchCmd())

	if err := c.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var (
	registerCmd = &cobra.Command{
		Use:   "register",
		Short: "Create an account on a timecapsule server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Register()
		},
	}

	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Login to the timecapsule server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Login()
		},
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Logout from a timecapsule server session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Logout()
		},
	}

	openCmd = &cobra.Command{
		Use:   "open ID",
		Short: "Open a ready capsule",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Open(args[0])
		},
	}
)

func draftsCmd() *cobra.Command {
	var remove string

	c := &cobra.Command{
		Use:   "drafts",
		Short: "List your drafts",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			if remove != "" {
				return client.DeleteDraft(remove)
			}
			return client.Drafts()
		},
	}
	c.Flags().StringVarP(&remove, "delete", "d", "", "Delete the given draft")
	return c
}

func composeCmd() *cobra.Command {
	var opts autosave.Options

	c := &cobra.Command{
		Use:   "compose [DRAFT_ID]",
		Short: "Write a new draft or resume an existing one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			return client.Compose(id, opts)
		},
	}
	c.Flags().DurationVarP(&opts.Debounce, "debounce", "", autosave.DefaultOptions.Debounce, "Quiet time after the last keystroke before saving")
	c.Flags().DurationVarP(&opts.SavedDisplay, "saved-display", "", autosave.DefaultOptions.SavedDisplay, "How long the saved status is displayed")
	c.Flags().DurationVarP(&opts.ErrorDisplay, "error-display", "", autosave.DefaultOptions.ErrorDisplay, "How long the error status is displayed")
	return c
}

func sealCmd() *cobra.Command {
	var opts client.SealOptions

	c := &cobra.Command{
		Use:   "seal",
		Short: "Seal a draft or a message until a future date",
		Example: `  tcc seal --draft 0d9bd6b5-a3a0-4e59-a8c1-1d2b5f1c1b0e --unlock 2030-01-01
  echo "Happy birthday" | tcc seal --to bob --title "30" --body - --unlock 720h --anonymous --reveal-delay 24h`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Seal(opts)
		},
	}
	c.Flags().StringVarP(&opts.DraftID, "draft", "d", "", "Draft to seal")
	c.Flags().StringVarP(&opts.To, "to", "t", "", "Recipient (id, linked account or name), defaults to the draft recipient")
	c.Flags().StringVarP(&opts.Title, "title", "", "", "Title of the capsule")
	c.Flags().StringVarP(&opts.Body, "body", "b", "", "Message of the capsule, - reads stdin")
	c.Flags().StringVarP(&opts.Unlock, "unlock", "u", "", "Unlock date or duration from now")
	c.Flags().BoolVarP(&opts.Anonymous, "anonymous", "a", false, "Hide your identity to the recipient")
	c.Flags().DurationVarP(&opts.RevealDelay, "reveal-delay", "", 0, "Time after opening before your identity is revealed")
	return c
}

func capsulesCmd() *cobra.Command {
	var box, query string

	c := &cobra.Command{
		Use:   "capsules",
		Short: "List your capsules",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Capsules(box, query)
		},
	}
	c.Flags().StringVarP(&box, "box", "", "received", "Box to list (received or sent)")
	c.Flags().StringVarP(&query, "query", "q", "", "Filter on title")
	return c
}

func showCmd() *cobra.Command {
	var raw bool

	c := &cobra.Command{
		Use:   "show ID",
		Short: "Show a capsule",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Show(args[0], raw)
		},
	}
	c.Flags().BoolVarP(&raw, "raw", "", false, "Dump the capsule as received from the server")
	return c
}

func watchCmd() *cobra.Command {
	var box string

	c := &cobra.Command{
		Use:   "watch",
		Short: "Watch your capsules unlocking",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Watch(box)
		},
	}
	c.Flags().StringVarP(&box, "box", "", "received", "Box to watch (received or sent)")
	return c
}

