package client

import (
	"context"
	"fmt"
	"runtime"

	"github.com/gcla/gowid"
	"github.com/gdamore/tcell/v2"
	"github.com/mdouchement/timecapsule/internal/autosave"
	"github.com/mdouchement/timecapsule/internal/client/tui"
	"github.com/pkg/errors"
)

// Compose runs the draft editor. An empty draftID starts a new draft.
// The draft is saved while typing according to the given timings.
func Compose(draftID string, opts autosave.Options) error {
	defer logPanic()

	client, cfg, err := connect()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := tui.Logger()
	notify := make(chan struct{}, 1)
	options := []autosave.Option{
		autosave.WithOptions(opts),
		autosave.WithLogger(logger),
		autosave.WithContext(ctx),
		autosave.WithObserver(func(autosave.Status, error) {
			select {
			case notify <- struct{}{}:
			default:
			}
		}),
	}

	var content autosave.Content
	if draftID != "" {
		draft, err := client.GetDraft(ctx, draftID)
		if err != nil {
			return errors.Wrap(err, "could not get draft")
		}
		content = toContent(draft)
		options = append(options, autosave.WithDraft(draft.ID, content))
	}

	controller := autosave.New(NewDraftStore(client), cfg.UserID, options...)
	defer controller.Close()

	ui, err := tui.NewComposer(content, tui.ComposerEvents{
		Title:         controller.SetTitle,
		RecipientHint: controller.SetRecipientHint,
		Body:          controller.SetBody,
	})
	if err != nil {
		return err
	}
	defer ui.Cleanup()

	go func() {
		for {
			select {
			case <-notify:
				ui.DisplaySaveStatus(controller.Status(), controller.Err())
			case <-ctx.Done():
				return
			}
		}
	}()

	var quitErr error
	ui.Bind(tcell.KeyCtrlS, func(gowid.IApp) {
		go func() {
			if err := controller.Flush(ctx); err != nil {
				ui.DisplayStatus(err.Error())
			}
		}()
	})
	ui.Bind(tcell.KeyCtrlQ, func(gowid.IApp) {
		go func() {
			quitErr = controller.Flush(ctx)
			ui.Quit()
		}()
	})

	ui.Run()
	controller.Close()

	if quitErr != nil {
		return errors.Wrap(quitErr, "could not save draft")
	}
	if id := controller.DraftID(); id != "" {
		fmt.Printf("Draft %s saved\n", id)
	} else {
		fmt.Println("Nothing to save")
	}

	return persist(client, cfg)
}

func logPanic() {
	if r := recover(); r != nil {
		var err error
		switch r := r.(type) {
		case error:
			err = r
		default:
			err = fmt.Errorf("%v", r)
		}
		stack := make([]byte, 4<<10)
		length := runtime.Stack(stack, true)

		tui.Logger().Printf("[PANIC RECOVER] %s %s\n", err, stack[:length])
	}
}
