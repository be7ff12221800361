// Package nav decides whether a point is an acceptable destination and
// searches for wander and flee targets around an agent.
package nav

import (
	"github.com/milk9111/hexfall/common"
	"github.com/milk9111/hexfall/world"
	"gonum.org/v1/gonum/spatial/r3"
)

type Config struct {
	WanderRadius   float64
	WanderAttempts int
	// VerticalSearchDistance is how far above and below a candidate the
	// validator looks for ground.
	VerticalSearchDistance float64
	MaxSlopeAngle          float64
	EdgeProbeDistance      float64
	// MaxEdgeMisses is the number of cardinal edge probes allowed to miss
	// ground before a point counts as isolated.
	MaxEdgeMisses     int
	FallbackOffset    float64
	Jitter            float64
	FleeRadiusFactors []float64
}

// Validator checks candidate points against the world.
type Validator struct {
	q   world.Querier
	cfg Config
}

func NewValidator(q world.Querier, cfg Config) *Validator {
	return &Validator{q: q, cfg: cfg}
}

func (v *Validator) SetConfig(cfg Config) {
	v.cfg = cfg
}

func (v *Validator) probe(point r3.Vec) (world.Hit, bool) {
	if v == nil || v.q == nil {
		return world.Hit{}, false
	}
	up := v.cfg.VerticalSearchDistance
	origin := r3.Add(point, r3.Scale(up, common.Up))
	return v.q.ProbeGround(origin, 2*up, world.LayerWalkable)
}

// IsValid is the strict test: ground within the vertical search distance, an
// acceptable slope, and no more than MaxEdgeMisses cardinal edge probes
// falling off the floor.
func (v *Validator) IsValid(point r3.Vec) bool {
	hit, ok := v.probe(point)
	if !ok {
		return false
	}
	if world.SlopeAngle(hit.Normal) > v.cfg.MaxSlopeAngle {
		return false
	}
	misses := 0
	for _, dir := range common.Cardinals {
		if _, ok := v.probe(r3.Add(point, r3.Scale(v.cfg.EdgeProbeDistance, dir))); !ok {
			misses++
		}
	}
	return misses <= v.cfg.MaxEdgeMisses
}

// IsBasicallySafe only asks for ground under the point.
func (v *Validator) IsBasicallySafe(point r3.Vec) bool {
	_, ok := v.probe(point)
	return ok
}
