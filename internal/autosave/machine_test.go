package autosave

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name  string
		from  phase
		event event
		next  phase
		act   action
	}{
		{"edit arms the debounce", phaseIdle, evEdit, phasePending, actArm},
		{"edit rearms the debounce", phasePending, evEdit, phasePending, actArm},
		{"debounce starts a save", phasePending, evFire, phaseInFlight, actPersist},
		{"stale debounce", phaseIdle, evFire, phaseIdle, actNone},
		{"edit while saving", phaseInFlight, evEdit, phaseInFlightPending, actArm},
		{"debounce while saving is dropped", phaseInFlightPending, evFire, phaseInFlight, actDrop},
		{"flush waits for the running save", phaseInFlight, evFlush, phaseInFlight, actWait},
		{"save completed", phaseInFlight, evDone, phaseIdle, actNone},
		{"save completed with newer content", phaseInFlight, evSettle, phasePending, actArm},
		{"save completed with an armed debounce", phaseInFlightPending, evSettle, phasePending, actNone},
		{"cancel", phasePending, evCancel, phaseIdle, actDisarm},
		{"close", phasePending, evClose, phaseClosed, actDisarm},
		{"unknown pair", phaseIdle, evDone, phaseIdle, actNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, act := transition(tt.from, tt.event)
			assert.Equal(t, tt.next, next)
			assert.Equal(t, tt.act, act)
		})
	}
}

func TestTransition_ClosedIsTerminal(t *testing.T) {
	for e := evEdit; e <= evClose; e++ {
		next, act := transition(phaseClosed, e)
		assert.Equal(t, phaseClosed, next)
		assert.Equal(t, actNone, act)
	}
}

func TestTransition_NeverTwoStoreCalls(t *testing.T) {
	for _, p := range []phase{phaseInFlight, phaseInFlightPending} {
		for e := evEdit; e <= evClose; e++ {
			_, act := transition(p, e)
			assert.NotEqual(t, actPersist, act)
		}
	}
}
