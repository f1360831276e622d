package app

import (
	"fmt"

	"oneshot/internal/shared/errors"
)

// State is a phase of the single connection lifecycle.
type State int

const (
	StateInit State = iota
	StateBound
	StateListening
	StateAccepted
	StateReceived
	StateSent
	StateClosed
	StateError
)

var stateNames = [...]string{
	StateInit:      "INIT",
	StateBound:     "BOUND",
	StateListening: "LISTENING",
	StateAccepted:  "ACCEPTED",
	StateReceived:  "RECEIVED",
	StateSent:      "SENT",
	StateClosed:    "CLOSED",
	StateError:     "ERROR",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateClosed || s == StateError
}

// expect checks the current state before an operation runs. Caller holds r.mu.
func (r *Responder) expect(op string, want ...State) error {
	for _, s := range want {
		if r.state == s {
			return nil
		}
	}
	return errors.NewError(errors.KindLifecycle, op, " not allowed in state ", r.state.String())
}

// transition moves to the next phase. Caller holds r.mu.
func (r *Responder) transition(to State) {
	r.log.Debug().Str("from", r.state.String()).Str("to", to.String()).Msg("state transition")
	r.state = to
}

// State returns the current lifecycle phase.
func (r *Responder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
