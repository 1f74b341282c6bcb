package autosave

// The scheduling side of a Controller is a small state machine.
// All decisions about arming timers or calling the store are read from the transitions table.

type (
	phase  int
	event  int
	action int

	step struct {
		next phase
		act  action
	}
)

const (
	phaseIdle phase = iota
	// A debounce timer is armed.
	phasePending
	// A store call is running.
	phaseInFlight
	// A store call is running and a debounce timer is armed.
	phaseInFlightPending
	phaseClosed
)

const (
	evEdit event = iota
	// The debounce timer fired.
	evFire
	evFlush
	// Nothing left to save, the pending timer must go.
	evCancel
	// The store call completed and no newer content exists.
	evDone
	// The store call completed and the content changed meanwhile.
	evSettle
	evClose
)

const (
	actNone action = iota
	// (Re)arm the debounce timer.
	actArm
	// Start a store call.
	actPersist
	// Ignore the trigger, a store call is already running.
	actDrop
	// Wait for the running store call to complete.
	actWait
	// Stop the debounce timer.
	actDisarm
)

var transitions = map[phase]map[event]step{
	phaseIdle: {
		evEdit:   {phasePending, actArm},
		evFire:   {phaseIdle, actNone}, // stale timer
		evFlush:  {phaseInFlight, actPersist},
		evCancel: {phaseIdle, actNone},
		evClose:  {phaseClosed, actNone},
	},
	phasePending: {
		evEdit:   {phasePending, actArm},
		evFire:   {phaseInFlight, actPersist},
		evFlush:  {phaseInFlight, actPersist},
		evCancel: {phaseIdle, actDisarm},
		evClose:  {phaseClosed, actDisarm},
	},
	phaseInFlight: {
		evEdit:   {phaseInFlightPending, actArm},
		evFire:   {phaseInFlight, actDrop},
		evFlush:  {phaseInFlight, actWait},
		evDone:   {phaseIdle, actNone},
		evSettle: {phasePending, actArm},
		evClose:  {phaseClosed, actNone},
	},
	phaseInFlightPending: {
		evEdit:   {phaseInFlightPending, actArm},
		evFire:   {phaseInFlight, actDrop},
		evFlush:  {phaseInFlightPending, actWait},
		evDone:   {phasePending, actNone},
		evSettle: {phasePending, actNone},
		evClose:  {phaseClosed, actDisarm},
	},
}

// transition returns the next phase and the action to perform.
// Unlisted pairs keep the current phase and do nothing. A closed controller never leaves phaseClosed.
func transition(p phase, e event) (phase, action) {
	if s, ok := transitions[p][e]; ok {
		return s.next, s.act
	}
	return p, actNone
}
