package bot

import "github.com/milk9111/hexfall/hazard"

// StateID identifies a behavioral state.
type StateID string

// EventID identifies an event that may move the agent between states.
type EventID string

const (
	StateExploring StateID = "exploring"
	StateFleeing   StateID = "fleeing"
	StateConfused  StateID = "confused"
)

const (
	EventInDanger         EventID = "in_danger"
	EventDangerCleared    EventID = "danger_cleared"
	EventMistakeConfused  EventID = "mistake_confused"
	EventConfusionExpired EventID = "confusion_expired"
)

// FSMDef is the transition table of the controller.
type FSMDef struct {
	Initial     StateID
	Transitions map[StateID]map[EventID]StateID
}

var defaultFSM = &FSMDef{
	Initial: StateExploring,
	Transitions: map[StateID]map[EventID]StateID{
		StateExploring: {
			EventInDanger:        StateFleeing,
			EventMistakeConfused: StateConfused,
		},
		StateFleeing: {
			EventDangerCleared:   StateExploring,
			EventMistakeConfused: StateConfused,
		},
		// Confused ignores hazards and only leaves when its timer runs out.
		StateConfused: {
			EventConfusionExpired: StateExploring,
		},
	},
}

// DefaultFSM returns the Exploring / Fleeing / Confused machine.
func DefaultFSM() *FSMDef {
	return defaultFSM
}

// Next is the pure transition function. It reports false when ev does not
// move the machine out of cur.
func (f *FSMDef) Next(cur StateID, ev EventID) (StateID, bool) {
	if f == nil {
		return cur, false
	}
	transitions, ok := f.Transitions[cur]
	if !ok {
		return cur, false
	}
	next, ok := transitions[ev]
	if !ok || next == cur {
		return cur, false
	}
	return next, true
}

// Run folds events over cur and returns the resulting state.
func (f *FSMDef) Run(cur StateID, events []EventID) StateID {
	for _, ev := range events {
		if next, ok := f.Next(cur, ev); ok {
			cur = next
		}
	}
	return cur
}

// sensorEvents turns a hazard scan into FSM events.
func sensorEvents(set hazard.Set) []EventID {
	if set.InDanger() {
		return []EventID{EventInDanger}
	}
	return []EventID{EventDangerCleared}
}
