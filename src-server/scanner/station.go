// Package scanner drives a scan station: the gate-side loop that reads
// codes, submits claims and shows the outcome to staff.
package scanner

import (
	"errors"
	"fmt"
	"sync"
)

type State string

const (
	STATE_IDLE            = State("idle")
	STATE_INITIALIZING    = State("initializing")
	STATE_SCANNING        = State("scanning")
	STATE_AWAITING_RESULT = State("awaitingResult")
	STATE_SHOWING_RESULT  = State("showingResult")
)

type Event string

const (
	EVENT_START  = Event("start")
	EVENT_READY  = Event("ready")
	EVENT_FAIL   = Event("fail")
	EVENT_SCAN   = Event("scan")
	EVENT_RESULT = Event("result")
	EVENT_RESET  = Event("reset")
	EVENT_STOP   = Event("stop")
)

var ErrIllegalTransition = errors.New("illegal transition")

var transitions = map[State]map[Event]State{
	STATE_IDLE: {
		EVENT_START: STATE_INITIALIZING,
	},
	STATE_INITIALIZING: {
		EVENT_READY: STATE_SCANNING,
		EVENT_FAIL:  STATE_IDLE,
		EVENT_STOP:  STATE_IDLE,
	},
	STATE_SCANNING: {
		EVENT_SCAN: STATE_AWAITING_RESULT,
		EVENT_FAIL: STATE_IDLE,
		EVENT_STOP: STATE_IDLE,
	},
	STATE_AWAITING_RESULT: {
		EVENT_RESULT: STATE_SHOWING_RESULT,
		EVENT_STOP:   STATE_IDLE,
	},
	STATE_SHOWING_RESULT: {
		EVENT_RESET: STATE_SCANNING,
		EVENT_STOP:  STATE_IDLE,
	},
}

// Station is the scan station state machine. It is safe for concurrent use.
type Station struct {
	mu    sync.Mutex
	state State
}

func NewStation() *Station {
	return &Station{state: STATE_IDLE}
}

func (s *Station) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Fire applies ev. An illegal transition leaves the state unchanged.
func (s *Station) Fire(ev Event) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := transitions[s.state][ev]
	if !ok {
		return s.state, fmt.Errorf("%w: %s on %s", ErrIllegalTransition, ev, s.state)
	}
	s.state = next
	return next, nil
}
