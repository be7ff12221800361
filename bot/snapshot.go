package bot

import (
	"github.com/milk9111/hexfall/hazard"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mistake is a deliberate error picked by error injection.
type Mistake string

const (
	MistakeNone           Mistake = ""
	MistakeApproachHazard Mistake = "approach_hazard"
	MistakeConfuse        Mistake = "confuse"
	MistakeRandomWander   Mistake = "random_wander"
)

var mistakes = [3]Mistake{MistakeApproachHazard, MistakeConfuse, MistakeRandomWander}

// Snapshot is a read-only view of an agent for debug drawing and traces.
type Snapshot struct {
	ID   int
	Time float64

	Position    r3.Vec
	Yaw         float64
	Target      r3.Vec
	WanderPoint r3.Vec
	LastSafe    r3.Vec

	State       StateID
	Grounded    bool
	FastFalling bool
	Recovering  bool
	InDanger    bool

	Hazards         int
	DangerousNearby int
	DetectionRadius float64

	// Danger, Rolled and Mistake describe the decision tick the snapshot
	// was taken on.
	Danger  hazard.Edge
	Rolled  bool
	Mistake Mistake
	Tier    string
}

// Stats counts decision ticks and error injection outcomes.
type Stats struct {
	Decisions   int
	Rolls       int
	Errors      int
	Transitions int
	Onsets      int
	Stalls      int
	Recoveries  int
}

// Tracer receives a Snapshot after every decision tick.
type Tracer interface {
	Trace(s Snapshot)
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(s Snapshot)

func (f TracerFunc) Trace(s Snapshot) { f(s) }
