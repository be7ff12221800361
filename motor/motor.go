// Package motor moves an agent's body toward its target every physics step:
// ground detection, adherence, fast-fall, steering, edge repulsion and the
// stall watchdog.
package motor

import (
	"math"

	"github.com/milk9111/hexfall/common"
	"github.com/milk9111/hexfall/nav"
	"github.com/milk9111/hexfall/world"
	"gonum.org/v1/gonum/spatial/r3"
)

type Config struct {
	MoveSpeed          float64
	MoveForce          float64
	MaxSpeedMultiplier float64
	RotationSpeed      float64
	ArriveDistance     float64

	HalfHeight          float64
	GroundCheckDistance float64
	GroundProbeOffset   float64
	MaxSlopeAngle       float64
	AdherenceForce      float64
	FastFallMultiplier  float64

	BoundaryCheck          float64
	EdgeRepulsionForce     float64
	EdgeRedirectDistance   float64
	DirectionProbeDistance float64

	StallSpeed         float64
	StallDuration      float64
	StallNudgeDistance float64
}

// SurfaceChecker tells the motor whether the surface under a point is a
// hazard about to disappear.
type SurfaceChecker interface {
	IsStandingOnCriticalHazard(pos r3.Vec) bool
}

// Report is what happened during one Step.
type Report struct {
	// Target is the target after edge redirection or a watchdog nudge.
	Target   r3.Vec
	Grounded bool

	BecameAirborne bool
	Landed         bool

	EdgeAvoided bool
	EdgeDir     r3.Vec
	Stalled     bool

	FastFallApplied  bool
	AdherenceApplied bool
	// Steer is the applied steering direction scaled by its attenuation.
	Steer r3.Vec
}

// TargetChanged reports whether the motor replaced the target it was given.
func (r Report) TargetChanged() bool {
	return r.EdgeAvoided || r.Stalled
}

// Motor is the locomotion state of one agent.
type Motor struct {
	body    world.Body
	q       world.Querier
	search  *nav.Searcher
	surface SurfaceChecker
	cfg     Config

	started     bool
	grounded    bool
	fastFalling bool
	adherence   bool
	groundHit   world.Hit

	lastGrounded r3.Vec
	stallTime    float64
}

func New(body world.Body, q world.Querier, search *nav.Searcher, surface SurfaceChecker, cfg Config) *Motor {
	return &Motor{
		body:         body,
		q:            q,
		search:       search,
		surface:      surface,
		cfg:          cfg,
		adherence:    true,
		lastGrounded: body.Position(),
	}
}

func (m *Motor) SetConfig(cfg Config) {
	m.cfg = cfg
}

func (m *Motor) Grounded() bool { return m.grounded }

func (m *Motor) FastFalling() bool { return m.fastFalling }

func (m *Motor) AdherenceEnabled() bool { return m.adherence }

// LastGroundedPosition is where the body last stood before leaving the ground.
func (m *Motor) LastGroundedPosition() r3.Vec { return m.lastGrounded }

// StallTime is how long the body has been creeping below StallSpeed.
func (m *Motor) StallTime() float64 { return m.stallTime }

// Step runs one physics step toward target.
func (m *Motor) Step(dt float64, target r3.Vec) Report {
	pos := m.body.Position()
	hit, grounded := m.checkGround(pos)
	rep := Report{Target: target, Grounded: grounded}

	if m.started {
		rep.BecameAirborne = m.grounded && !grounded
		rep.Landed = !m.grounded && grounded
	}
	m.started = true
	m.grounded = grounded
	if grounded {
		m.groundHit = hit
		m.lastGrounded = pos
	}

	m.updateFall(pos, &rep)

	if grounded {
		if dir, ok := m.edgeCheck(pos); ok {
			m.body.AddForce(r3.Scale(-m.cfg.EdgeRepulsionForce*m.mass(), dir), world.ForceContinuous)
			away := r3.Add(pos, r3.Scale(-m.cfg.EdgeRedirectDistance, dir))
			away.Y = target.Y
			rep.Target = away
			rep.EdgeAvoided = true
			rep.EdgeDir = dir
		}
		m.steer(dt, pos, rep.Target, &rep)
	}

	m.clampSpeed()
	m.watchdog(dt, pos, &rep)
	return rep
}

// checkGround samples the center and four offset probes and keeps the
// closest hit with an acceptable slope.
func (m *Motor) checkGround(pos r3.Vec) (world.Hit, bool) {
	o := m.cfg.GroundProbeOffset
	probes := [5]r3.Vec{
		pos,
		r3.Add(pos, r3.Vec{X: o}),
		r3.Add(pos, r3.Vec{X: -o}),
		r3.Add(pos, r3.Vec{Z: o}),
		r3.Add(pos, r3.Vec{Z: -o}),
	}
	var best world.Hit
	found := false
	for _, p := range probes {
		hit, ok := m.q.ProbeGround(p, m.cfg.GroundCheckDistance, world.LayerWalkable)
		if !ok || world.SlopeAngle(hit.Normal) > m.cfg.MaxSlopeAngle {
			continue
		}
		if !found || hit.Distance < best.Distance {
			best = hit
			found = true
		}
	}
	return best, found
}

// updateFall keeps fast-fall and adherence mutually exclusive. Fast-fall is
// armed whenever the body is airborne and only disarms once it stands on
// something that is not a critical hazard.
func (m *Motor) updateFall(pos r3.Vec, rep *Report) {
	if !m.grounded {
		m.fastFalling = true
		m.adherence = false
	} else if m.fastFalling {
		if m.surface == nil || !m.surface.IsStandingOnCriticalHazard(pos) {
			m.fastFalling = false
			m.adherence = true
		}
	}

	mass := m.mass()
	switch {
	case m.fastFalling:
		f := r3.Vec{Y: common.Gravity * m.cfg.FastFallMultiplier * mass}
		m.body.AddForce(f, world.ForceContinuous)
		rep.FastFallApplied = true
	case m.grounded && m.adherence:
		gap := m.groundHit.Distance - m.cfg.HalfHeight
		if gap > 0 {
			m.body.AddForce(r3.Vec{Y: -gap * m.cfg.AdherenceForce * mass}, world.ForceContinuous)
			rep.AdherenceApplied = true
		}
	}
}

// edgeCheck returns the first cardinal direction with no floor at the
// boundary check distance. Only one direction is handled per step.
func (m *Motor) edgeCheck(pos r3.Vec) (r3.Vec, bool) {
	for _, dir := range common.Cardinals {
		probe := r3.Add(pos, r3.Scale(m.cfg.BoundaryCheck, dir))
		if _, ok := m.q.ProbeGround(probe, m.cfg.GroundCheckDistance, world.LayerWalkable); !ok {
			return dir, true
		}
	}
	return r3.Vec{}, false
}

// steer pushes toward target. An unsafe heading is replaced by the closest
// compass direction that has floor, or halved when none has; it is never
// dropped.
func (m *Motor) steer(dt float64, pos, target r3.Vec, rep *Report) {
	to := common.Horizontal(r3.Sub(target, pos))
	if r3.Norm(to) < m.cfg.ArriveDistance {
		return
	}
	dir, ok := common.FlatDirection(to)
	if !ok {
		return
	}

	scale := 1.0
	if !m.search.ProbeDirection(pos, dir, m.cfg.DirectionProbeDistance) {
		best := math.Inf(-1)
		var bestDir r3.Vec
		for _, d := range common.Compass8 {
			if !m.search.ProbeDirection(pos, d, m.cfg.DirectionProbeDistance) {
				continue
			}
			if dot := r3.Dot(d, dir); dot > best {
				best = dot
				bestDir = d
			}
		}
		if math.IsInf(best, -1) {
			scale = 0.5
		} else {
			dir = bestDir
		}
	}

	m.body.AddForce(r3.Scale(m.cfg.MoveForce*scale*m.mass(), dir), world.ForceContinuous)
	m.body.SetYaw(common.LerpAngle(m.body.Yaw(), common.Yaw(dir), m.cfg.RotationSpeed*dt))
	rep.Steer = r3.Scale(scale, dir)
}

func (m *Motor) clampSpeed() {
	v := m.body.Velocity()
	h := common.Horizontal(v)
	limit := m.cfg.MoveSpeed * m.cfg.MaxSpeedMultiplier
	if n := r3.Norm(h); n > limit && n > 0 {
		h = r3.Scale(limit/n, h)
		m.body.SetVelocity(r3.Vec{X: h.X, Y: v.Y, Z: h.Z})
	}
}

func (m *Motor) watchdog(dt float64, pos r3.Vec, rep *Report) {
	if !m.grounded {
		m.stallTime = 0
		return
	}
	if r3.Norm(common.Horizontal(m.body.Velocity())) >= m.cfg.StallSpeed {
		m.stallTime = 0
		return
	}
	m.stallTime += dt
	if m.stallTime <= m.cfg.StallDuration {
		return
	}
	m.stallTime = 0
	nudge, _ := m.search.FindNudgeTarget(pos, m.cfg.StallNudgeDistance)
	nudge.Y = rep.Target.Y
	rep.Target = nudge
	rep.Stalled = true
}

func (m *Motor) mass() float64 {
	if mass := m.body.Mass(); mass > 0 {
		return mass
	}
	return 1
}
