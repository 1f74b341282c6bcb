// Package autosave persists an in-progress draft while it is being edited.
//
// Edits are applied to the in-memory content immediately and reach the store through a debounce,
// so a burst of keystrokes results in a single store call. At most one store call runs at a time
// and the remote identity of a draft is created exactly once per Controller.
package autosave

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mdouchement/timecapsule/internal/tcerror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrClosed is returned when flushing a closed Controller.
var ErrClosed = errors.New("autosave: controller closed")

// DefaultOptions are the timings used when none are provided.
var DefaultOptions = Options{
	Debounce:     800 * time.Millisecond,
	SavedDisplay: 2 * time.Second,
	ErrorDisplay: 3 * time.Second,
}

type (
	// A Content is the editable part of a draft.
	Content struct {
		Title         string
		Body          string
		RecipientHint string
	}

	// A Store is the remote draft store.
	// Each call either fully succeeds or fully fails.
	Store interface {
		// CreateDraft persists a new draft and returns its identity.
		CreateDraft(ctx context.Context, ownerID string, c Content) (string, error)
		// UpdateDraft overwrites the draft identified by id.
		UpdateDraft(ctx context.Context, id string, c Content) error
	}

	// Options holds the Controller timings.
	Options struct {
		// Debounce is the quiet window after the last edit before saving.
		Debounce time.Duration
		// SavedDisplay is how long Saved is displayed before going back to Idle.
		SavedDisplay time.Duration
		// ErrorDisplay is how long Error is displayed before going back to Idle.
		ErrorDisplay time.Duration
	}

	// An Option configures a Controller.
	Option func(*Controller)

	// A Controller synchronizes one editing session of a draft with a Store.
	Controller struct {
		store     Store
		ownerID   string
		opts      Options
		scheduler Scheduler
		logger    logrus.FieldLogger
		observer  func(Status, error)
		ctx       context.Context

		mu       sync.Mutex
		content  Content
		draftID  string
		rev      uint64 // incremented on every edit
		savedRev uint64 // rev of the last content accepted by the store
		phase    phase
		inflight chan struct{} // closed when the running store call completes

		timer       Timer
		debounceGen uint64

		status      Status
		err         error
		statusTimer Timer
		statusGen   uint64
	}

	attempt struct {
		content Content
		id      string
		rev     uint64
		done    chan struct{}
	}
)

// WithOptions overrides the default timings. Zero fields keep their default value.
func WithOptions(o Options) Option {
	return func(c *Controller) {
		if o.Debounce > 0 {
			c.opts.Debounce = o.Debounce
		}
		if o.SavedDisplay > 0 {
			c.opts.SavedDisplay = o.SavedDisplay
		}
		if o.ErrorDisplay > 0 {
			c.opts.ErrorDisplay = o.ErrorDisplay
		}
	}
}

// WithScheduler replaces the runtime timers.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		c.scheduler = s
	}
}

// WithLogger sets the logger used to report failed saves.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithObserver registers f to be called on every status change.
// f is called with the Controller locked and must not call the Controller back.
func WithObserver(f func(Status, error)) Option {
	return func(c *Controller) {
		c.observer = f
	}
}

// WithDraft resumes the editing of an already persisted draft.
func WithDraft(id string, content Content) Option {
	return func(c *Controller) {
		c.draftID = id
		c.content = content
	}
}

// WithContext sets the context given to the store calls triggered by the debounce.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		c.ctx = ctx
	}
}

// New returns a new Controller.
func New(store Store, ownerID string, options ...Option) *Controller {
	c := &Controller{
		store:     store,
		ownerID:   ownerID,
		opts:      DefaultOptions,
		scheduler: RealScheduler,
		logger:    logrus.StandardLogger(),
		ctx:       context.Background(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Content returns the current content, including edits not saved yet.
func (c *Controller) Content() Content {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

// DraftID returns the remote identity of the draft or an empty string if it has never been saved.
func (c *Controller) DraftID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draftID
}

// Status returns the current save status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Err returns the error of the last completed save, nil if it succeeded.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// SetBody replaces the body of the draft.
func (c *Controller) SetBody(text string) {
	c.edit(func(content *Content) { content.Body = text })
}

// SetTitle replaces the title of the draft.
func (c *Controller) SetTitle(text string) {
	c.edit(func(content *Content) { content.Title = text })
}

// SetRecipientHint replaces the recipient typed by the user.
func (c *Controller) SetRecipientHint(text string) {
	c.edit(func(content *Content) { content.RecipientHint = text })
}

// Flush cancels the debounce and saves the current content now.
// If a save is running, Flush waits for it before saving what changed meanwhile.
// Persistence failures are only reported through the Error status;
// validation, not found and authentication errors raised by the store are returned.
// Content of a failed attempt stays unsaved so a later Flush sends it again.
func (c *Controller) Flush(ctx context.Context) error {
	for {
		c.mu.Lock()
		if c.phase == phaseClosed {
			c.mu.Unlock()
			return ErrClosed
		}

		if c.rev == c.savedRev && c.inflight == nil {
			c.apply(evCancel)
			c.mu.Unlock()
			return nil
		}

		next, act := transition(c.phase, evFlush)
		c.phase = next

		switch act {
		case actWait:
			done := c.inflight
			c.mu.Unlock()

			select {
			case <-done:
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		case actPersist:
			c.disarm()
			a, ok := c.begin()
			c.mu.Unlock()

			if !ok {
				return nil
			}
			return c.run(ctx, a)
		default:
			c.mu.Unlock()
			return nil
		}
	}
}

// Close cancels pending timers. Running store calls are not interrupted
// but their completion no longer changes the status.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.apply(evClose)
	c.disarm()
	if c.statusTimer != nil {
		c.statusTimer.Stop()
		c.statusTimer = nil
	}
}

////////////////////
//                //
// Internals      //
//                //
////////////////////

func (c *Controller) edit(f func(*Content)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == phaseClosed {
		return
	}

	f(&c.content)
	c.rev++
	c.apply(evEdit)
}

// apply performs the transition of e for timer actions. Must be called with c.mu held.
func (c *Controller) apply(e event) action {
	next, act := transition(c.phase, e)
	c.phase = next

	switch act {
	case actArm:
		c.arm()
	case actDisarm:
		c.disarm()
	}
	return act
}

func (c *Controller) arm() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.debounceGen++
	gen := c.debounceGen
	c.timer = c.scheduler.AfterFunc(c.opts.Debounce, func() {
		c.fire(gen)
	})
}

func (c *Controller) disarm() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.debounceGen++
}

func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.debounceGen {
		// Superseded by a newer edit or cancelled.
		c.mu.Unlock()
		return
	}
	c.timer = nil

	act := c.apply(evFire)
	if act != actPersist {
		c.mu.Unlock()
		return
	}

	a, ok := c.begin()
	c.mu.Unlock()
	if !ok {
		return
	}

	if err := c.run(c.ctx, a); err != nil {
		c.logger.WithError(err).Warn("draft rejected by the store")
	}
}

// begin snapshots the content for a store call. Must be called with c.mu held and c.phase in flight.
// The content is read now rather than when the timer was armed so the latest edit is always the one saved.
func (c *Controller) begin() (attempt, bool) {
	if strings.TrimSpace(c.content.Body) == "" {
		c.apply(evDone)
		return attempt{}, false
	}

	a := attempt{
		content: c.content,
		id:      c.draftID,
		rev:     c.rev,
		done:    make(chan struct{}),
	}
	c.inflight = a.done
	c.setStatus(Saving, nil)
	return a, true
}

// run performs the store call of a and records its outcome.
// Only validation, not found and authentication errors are returned, other failures surface through the Error status.
func (c *Controller) run(ctx context.Context, a attempt) error {
	id, err := c.call(ctx, a)
	if err != nil {
		c.logger.WithError(err).WithField("draft_id", a.id).Error("could not save draft")
	}
	c.complete(a, id, err)

	if tcerror.IsValidation(err) || tcerror.IsNotFound(err) || tcerror.IsAuthentication(err) {
		return err
	}
	return nil
}

// complete records the outcome of a and releases the in-flight guard.
func (c *Controller) complete(a attempt, id string, err error) {
	c.mu.Lock()
	defer close(a.done)
	defer c.mu.Unlock()

	c.inflight = nil
	switch {
	case err == nil && c.draftID == "":
		// The identity is recorded before anything else so later saves are updates.
		c.draftID = id
	case tcerror.IsNotFound(err) && a.id != "" && c.draftID == a.id:
		// The draft was deleted elsewhere, the next attempt creates a new one.
		c.draftID = ""
	}

	if c.phase == phaseClosed {
		return
	}

	if err == nil {
		c.savedRev = a.rev
		c.setStatus(Saved, nil)
		c.revertAfter(c.opts.SavedDisplay)
	} else {
		c.setStatus(Error, err)
		c.revertAfter(c.opts.ErrorDisplay)
	}

	if c.rev != a.rev {
		c.apply(evSettle)
	} else {
		c.apply(evDone)
	}
}

func (c *Controller) call(ctx context.Context, a attempt) (id string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("draft store panicked: %v", r)
		}
	}()

	if a.id == "" {
		id, err = c.store.CreateDraft(ctx, c.ownerID, a.content)
		if err == nil && id == "" {
			err = errors.New("draft store returned an empty identity")
		}
		return id, err
	}
	return a.id, c.store.UpdateDraft(ctx, a.id, a.content)
}

// setStatus must be called with c.mu held.
func (c *Controller) setStatus(s Status, err error) {
	c.status = s
	if s != Idle {
		c.err = err
	}
	c.statusGen++
	if c.statusTimer != nil {
		c.statusTimer.Stop()
		c.statusTimer = nil
	}

	if c.observer != nil {
		c.observer(s, c.err)
	}
}

func (c *Controller) revertAfter(d time.Duration) {
	gen := c.statusGen
	c.statusTimer = c.scheduler.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if gen != c.statusGen || c.phase == phaseClosed {
			return
		}
		c.setStatus(Idle, nil)
	})
}
