// Package world defines the read-only view of the physics simulation the bot
// controller consumes: downward probes, sphere overlaps and force application on
// the agent's own body.
package world

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// EntityID identifies an entity for the lifetime of a round.
type EntityID uint64

// Tag classifies entities the way the level author labelled them.
type Tag string

const (
	TagNone   Tag = ""
	TagGround Tag = "Ground"
	TagHazard Tag = "Hexagon"
	TagAgent  Tag = "Agent"
)

// Layer is a bitmask filter for probes.
type Layer uint32

const (
	LayerGround Layer = 1 << iota
	LayerHazard
	LayerAgent

	LayerWalkable = LayerGround | LayerHazard
	LayerAll      = ^Layer(0)
)

// ForceMode selects how a force passed to Body.AddForce is integrated.
type ForceMode int

const (
	// ForceContinuous is integrated over the step as newtons.
	ForceContinuous ForceMode = iota
	// ForceImpulse changes momentum instantly.
	ForceImpulse
	// ForceVelocityChange changes velocity instantly, ignoring mass.
	ForceVelocityChange
)

func (m ForceMode) String() string {
	switch m {
	case ForceContinuous:
		return "continuous"
	case ForceImpulse:
		return "impulse"
	case ForceVelocityChange:
		return "velocity_change"
	default:
		return "unknown"
	}
}

// Entity is a handle on something in the world.
type Entity interface {
	ID() EntityID
	Tag() Tag
	Position() r3.Vec
}

// PhaseSignaler is implemented by hazard entities whose visual state can be
// inspected. ok is false when the material cannot be read.
type PhaseSignaler interface {
	PhaseColor() (c color.RGBA, ok bool)
}

// Hit describes the surface found by a downward probe.
type Hit struct {
	Distance float64
	Point    r3.Vec
	Normal   r3.Vec
	Tag      Tag
	Entity   Entity
}

// Querier answers read-only queries against the current simulation frame.
type Querier interface {
	// ProbeGround casts straight down from origin and reports the first
	// surface within maxDistance on a layer in mask.
	ProbeGround(origin r3.Vec, maxDistance float64, mask Layer) (Hit, bool)
	// QueryNearby returns every entity overlapping the sphere.
	QueryNearby(origin r3.Vec, radius float64) []Entity
}

// Body is the physical body of a single agent.
type Body interface {
	Position() r3.Vec
	Velocity() r3.Vec
	SetVelocity(v r3.Vec)
	Yaw() float64
	SetYaw(yaw float64)
	Mass() float64
	AddForce(f r3.Vec, mode ForceMode)
}

// SlopeAngle returns the angle between a surface normal and straight up, in degrees.
func SlopeAngle(normal r3.Vec) float64 {
	n := r3.Norm(normal)
	if n == 0 {
		return 90
	}
	cos := normal.Y / n
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi
}
