package bot

import (
	"testing"

	"github.com/milk9111/hexfall/hazard"
	"github.com/stretchr/testify/assert"
)

func TestFSMNext(t *testing.T) {
	cases := []struct {
		from StateID
		ev   EventID
		want StateID
		ok   bool
	}{
		{StateExploring, EventInDanger, StateFleeing, true},
		{StateExploring, EventDangerCleared, StateExploring, false},
		{StateExploring, EventMistakeConfused, StateConfused, true},
		{StateExploring, EventConfusionExpired, StateExploring, false},
		{StateFleeing, EventDangerCleared, StateExploring, true},
		{StateFleeing, EventInDanger, StateFleeing, false},
		{StateFleeing, EventMistakeConfused, StateConfused, true},
		{StateConfused, EventInDanger, StateConfused, false},
		{StateConfused, EventDangerCleared, StateConfused, false},
		{StateConfused, EventMistakeConfused, StateConfused, false},
		{StateConfused, EventConfusionExpired, StateExploring, true},
	}
	fsm := DefaultFSM()
	for _, c := range cases {
		t.Run(string(c.from)+"/"+string(c.ev), func(t *testing.T) {
			got, ok := fsm.Next(c.from, c.ev)
			assert.Equal(t, c.want, got)
			assert.Equal(t, c.ok, ok)
		})
	}
}

func TestFSMRun(t *testing.T) {
	fsm := DefaultFSM()
	assert.Equal(t, StateConfused, fsm.Run(StateExploring, []EventID{EventInDanger, EventMistakeConfused, EventDangerCleared}))
	assert.Equal(t, StateExploring, fsm.Run(StateFleeing, []EventID{EventDangerCleared, EventDangerCleared}))

	var nilFSM *FSMDef
	got, ok := nilFSM.Next(StateFleeing, EventDangerCleared)
	assert.Equal(t, StateFleeing, got)
	assert.False(t, ok)
}

func TestSensorEvents(t *testing.T) {
	assert.Equal(t, []EventID{EventDangerCleared}, sensorEvents(hazard.Set{}))
	danger := hazard.Set{Dangerous: []hazard.Sighting{{Dangerous: true}}}
	assert.Equal(t, []EventID{EventInDanger}, sensorEvents(danger))
}
