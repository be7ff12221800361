// Package hazard scans the surroundings of an agent for collapsing tiles and
// decides which of them are close and far enough along to flee from.
package hazard

import (
	"math"
	"sort"

	"github.com/milk9111/hexfall/world"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sighting is one hazard entity seen during a scan.
type Sighting struct {
	Entity   world.Entity
	Position r3.Vec
	Distance float64
	Phase    Phase
	// Readable is false when the phase color could not be inspected.
	Readable bool
	// Dangerous marks sightings inside the safe distance with a dangerous or
	// unreadable phase.
	Dangerous bool
}

// Set is the hazard picture produced by one scan. It holds non-owning
// references that are only meaningful until the next scan.
type Set struct {
	All       []Sighting
	Dangerous []Sighting
}

func (s Set) InDanger() bool {
	return len(s.Dangerous) > 0
}

// DangerPositions returns the positions of the dangerous sightings.
func (s Set) DangerPositions() []r3.Vec {
	out := make([]r3.Vec, 0, len(s.Dangerous))
	for _, h := range s.Dangerous {
		out = append(out, h.Position)
	}
	return out
}

// Nearest returns the closest sighting of any phase.
func (s Set) Nearest() (Sighting, bool) {
	if len(s.All) == 0 {
		return Sighting{}, false
	}
	return s.All[0], true
}

// Edge is the change of the danger flag caused by a scan.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeOnset
	EdgeCleared
)

func (e Edge) String() string {
	switch e {
	case EdgeOnset:
		return "onset"
	case EdgeCleared:
		return "cleared"
	default:
		return "none"
	}
}

type Config struct {
	DetectionRadius  float64
	SafeDistance     float64
	SafeHazardRadius float64
	// ProbeDistance bounds the probe beneath the agent used by
	// IsStandingOnCriticalHazard.
	ProbeDistance float64
}

// Perception owns the danger flag of a single agent.
type Perception struct {
	q   world.Querier
	cfg Config

	inDanger bool
	last     Set
}

func New(q world.Querier, cfg Config) *Perception {
	return &Perception{q: q, cfg: cfg}
}

func (p *Perception) SetConfig(cfg Config) {
	if p == nil {
		return
	}
	p.cfg = cfg
}

func (p *Perception) Config() Config {
	return p.cfg
}

// Scan rebuilds the hazard set around pos and updates the danger flag.
func (p *Perception) Scan(pos r3.Vec) (Set, Edge) {
	if p == nil || p.q == nil {
		return Set{}, EdgeNone
	}

	var set Set
	for _, e := range p.q.QueryNearby(pos, p.cfg.DetectionRadius) {
		if e == nil || e.Tag() != world.TagHazard {
			continue
		}
		hp := e.Position()
		s := Sighting{
			Entity:   e,
			Position: hp,
			Distance: r3.Norm(r3.Sub(hp, pos)),
			Phase:    PhaseUnknown,
		}
		if sig, ok := e.(world.PhaseSignaler); ok {
			if c, readable := sig.PhaseColor(); readable {
				s.Readable = true
				s.Phase = Classify(c)
			}
		}
		// Unreadable hazards inside the safe distance are dangerous on proximity alone.
		if s.Distance < p.cfg.SafeDistance && (!s.Readable || s.Phase.Dangerous()) {
			s.Dangerous = true
		}
		set.All = append(set.All, s)
	}

	sort.SliceStable(set.All, func(i, j int) bool { return set.All[i].Distance < set.All[j].Distance })
	for _, s := range set.All {
		if s.Dangerous {
			set.Dangerous = append(set.Dangerous, s)
		}
	}

	edge := EdgeNone
	now := set.InDanger()
	switch {
	case now && !p.inDanger:
		edge = EdgeOnset
	case !now && p.inDanger:
		edge = EdgeCleared
	}
	p.inDanger = now
	p.last = set
	return set, edge
}

// InDanger reports the flag raised by the latest scan.
func (p *Perception) InDanger() bool {
	return p != nil && p.inDanger
}

// Last returns the set produced by the latest scan.
func (p *Perception) Last() Set {
	if p == nil {
		return Set{}
	}
	return p.last
}

// IsStandingOnCriticalHazard probes directly beneath pos. It is true only when
// the hit is a hazard whose color reads as critical.
func (p *Perception) IsStandingOnCriticalHazard(pos r3.Vec) bool {
	if p == nil || p.q == nil {
		return false
	}
	hit, ok := p.q.ProbeGround(pos, p.cfg.ProbeDistance, world.LayerAll)
	if !ok || hit.Tag != world.TagHazard || hit.Entity == nil {
		return false
	}
	sig, ok := hit.Entity.(world.PhaseSignaler)
	if !ok {
		return false
	}
	c, readable := sig.PhaseColor()
	return readable && Classify(c) == PhaseCritical
}

// HasSafeHazardNearby reports a readable safe-phase hazard between 1 unit and
// radius away. A non-positive radius uses the configured SafeHazardRadius.
func (p *Perception) HasSafeHazardNearby(pos r3.Vec, radius float64) bool {
	if p == nil || p.q == nil {
		return false
	}
	if radius <= 0 {
		radius = p.cfg.SafeHazardRadius
	}
	for _, e := range p.q.QueryNearby(pos, radius) {
		if e == nil || e.Tag() != world.TagHazard {
			continue
		}
		d := r3.Norm(r3.Sub(e.Position(), pos))
		if d < 1 || d > radius || math.IsNaN(d) {
			continue
		}
		sig, ok := e.(world.PhaseSignaler)
		if !ok {
			continue
		}
		if c, readable := sig.PhaseColor(); readable && Classify(c) == PhaseSafe {
			return true
		}
	}
	return false
}
