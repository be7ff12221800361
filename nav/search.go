package nav

import (
	"math"

	"github.com/milk9111/hexfall/common"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tier records which relaxation level produced a target.
type Tier int

const (
	TierFlee Tier = iota
	TierStrict
	TierPermissive
	TierCardinal
	TierJitter
)

func (t Tier) String() string {
	switch t {
	case TierFlee:
		return "flee"
	case TierStrict:
		return "strict"
	case TierPermissive:
		return "permissive"
	case TierCardinal:
		return "cardinal"
	case TierJitter:
		return "jitter"
	default:
		return "unknown"
	}
}

// Searcher proposes destinations. It always returns a point.
type Searcher struct {
	v   *Validator
	rng common.Rand
}

func NewSearcher(v *Validator, rng common.Rand) *Searcher {
	return &Searcher{v: v, rng: rng}
}

func (s *Searcher) Validator() *Validator {
	return s.v
}

// FindWanderTarget returns a destination around origin.
func (s *Searcher) FindWanderTarget(origin r3.Vec) r3.Vec {
	p, _ := s.Wander(origin)
	return p
}

// Wander runs the tiered search: random strict candidates, then the first of
// those candidates that merely has ground, then cardinal fallbacks, then a
// small jitter around origin.
func (s *Searcher) Wander(origin r3.Vec) (r3.Vec, Tier) {
	cfg := s.v.cfg
	attempts := cfg.WanderAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var permissive r3.Vec
	havePermissive := false
	for i := 0; i < attempts; i++ {
		c := s.randomPoint(origin, cfg.WanderRadius)
		if s.v.IsValid(c) {
			return c, TierStrict
		}
		if !havePermissive && s.v.IsBasicallySafe(c) {
			permissive = c
			havePermissive = true
		}
	}
	if havePermissive {
		return permissive, TierPermissive
	}

	for _, dir := range common.Cardinals {
		c := r3.Add(origin, r3.Scale(cfg.FallbackOffset, dir))
		if s.v.IsBasicallySafe(c) {
			return c, TierCardinal
		}
	}

	return s.Jitter(origin), TierJitter
}

// FindFleeTarget returns a destination away from the given hazards.
func (s *Searcher) FindFleeTarget(origin r3.Vec, hazards []r3.Vec) r3.Vec {
	p, _ := s.Flee(origin, hazards)
	return p
}

// Flee steers along the horizontal sum of the vectors pointing away from each
// hazard, trying each radius factor of the wander radius in order. When no
// radius validates it falls back to Wander.
func (s *Searcher) Flee(origin r3.Vec, hazards []r3.Vec) (r3.Vec, Tier) {
	var away r3.Vec
	for _, h := range hazards {
		away = r3.Add(away, common.Horizontal(r3.Sub(origin, h)))
	}
	dir, ok := common.FlatDirection(away)
	if !ok {
		return s.Wander(origin)
	}
	cfg := s.v.cfg
	for _, f := range cfg.FleeRadiusFactors {
		c := r3.Add(origin, r3.Scale(f*cfg.WanderRadius, dir))
		if s.v.IsValid(c) {
			return c, TierFlee
		}
	}
	return s.Wander(origin)
}

// FindNudgeTarget returns the first cardinal point dist away that has ground,
// or a jitter around origin when none qualify.
func (s *Searcher) FindNudgeTarget(origin r3.Vec, dist float64) (r3.Vec, bool) {
	for _, dir := range common.Cardinals {
		c := r3.Add(origin, r3.Scale(dist, dir))
		if s.v.IsBasicallySafe(c) {
			return c, true
		}
	}
	return s.Jitter(origin), false
}

// ProbeDirection reports whether there is ground dist along dir from origin.
func (s *Searcher) ProbeDirection(origin, dir r3.Vec, dist float64) bool {
	return s.v.IsBasicallySafe(r3.Add(origin, r3.Scale(dist, dir)))
}

// Jitter returns origin offset by up to cfg.Jitter on each horizontal axis.
func (s *Searcher) Jitter(origin r3.Vec) r3.Vec {
	j := s.v.cfg.Jitter
	return r3.Vec{
		X: origin.X + (s.rng.Float64()*2-1)*j,
		Y: origin.Y,
		Z: origin.Z + (s.rng.Float64()*2-1)*j,
	}
}

func (s *Searcher) randomPoint(origin r3.Vec, radius float64) r3.Vec {
	angle := s.rng.Float64() * 2 * math.Pi
	dist := s.rng.Float64() * radius
	return r3.Vec{
		X: origin.X + math.Cos(angle)*dist,
		Y: origin.Y,
		Z: origin.Z + math.Sin(angle)*dist,
	}
}
