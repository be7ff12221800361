// Package bot is the hazard-avoidance controller: a reactive state machine
// driving a physical body across a collapsing floor.
package bot

import (
	"io"
	"log"
	"math"
	"math/rand"

	"github.com/milk9111/hexfall/common"
	"github.com/milk9111/hexfall/hazard"
	"github.com/milk9111/hexfall/motor"
	"github.com/milk9111/hexfall/nav"
	"github.com/milk9111/hexfall/sched"
	"github.com/milk9111/hexfall/world"
	"gonum.org/v1/gonum/spatial/r3"
)

// TransitionHook is called after every state change.
type TransitionHook func(from, to StateID, ev EventID)

type Option func(*Agent)

func WithLogger(l *log.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.log = l
		}
	}
}

func WithRand(r common.Rand) Option {
	return func(a *Agent) {
		if r != nil {
			a.rng = r
		}
	}
}

func WithTracer(t Tracer) Option {
	return func(a *Agent) { a.tracer = t }
}

func WithID(id int) Option {
	return func(a *Agent) { a.id = id }
}

func WithTransitionHook(fn TransitionHook) Option {
	return func(a *Agent) { a.onTransition = fn }
}

// Agent controls one body. It is not safe for concurrent use; FixedUpdate
// must be called from the simulation loop that owns the body.
type Agent struct {
	id     int
	body   world.Body
	q      world.Querier
	rng    common.Rand
	log    *log.Logger
	tracer Tracer
	fsm    *FSMDef
	cfg    Tuning

	perception *hazard.Perception
	validator  *nav.Validator
	search     *nav.Searcher
	motor      *motor.Motor
	sched      *sched.Scheduler

	onTransition TransitionHook

	state       StateID
	target      r3.Vec
	wanderPoint r3.Vec
	lastSafe    r3.Vec
	lastTier    nav.Tier

	lastError  float64
	lastWander float64

	decisionLoop *sched.Handle
	recovery     *sched.Handle
	confusion    *sched.Handle

	stats     Stats
	destroyed bool
}

// New creates an agent in the Exploring state. Until the first decision
// tick its target is its own position.
func New(body world.Body, q world.Querier, tuning Tuning, opts ...Option) *Agent {
	a := &Agent{
		body:         body,
		q:            q,
		rng:          rand.New(rand.NewSource(1)),
		log:          log.New(io.Discard, "", 0),
		fsm:          DefaultFSM(),
		cfg:          tuning,
		sched:        sched.New(),
		lastError:  math.Inf(-1),
		lastWander: math.Inf(-1),
	}
	for _, opt := range opts {
		opt(a)
	}

	pos := body.Position()
	a.state = a.fsm.Initial
	a.target = pos
	a.wanderPoint = pos
	a.lastSafe = pos

	a.perception = hazard.New(q, tuning.Perception)
	a.validator = nav.NewValidator(q, tuning.Search)
	a.search = nav.NewSearcher(a.validator, a.rng)
	a.motor = motor.New(body, q, a.search, a.perception, tuning.Motor)
	a.startDecisionLoop()
	return a
}

func (a *Agent) ID() int { return a.id }

func (a *Agent) Body() world.Body { return a.body }

func (a *Agent) State() StateID { return a.state }

func (a *Agent) Target() r3.Vec { return a.target }

func (a *Agent) WanderPoint() r3.Vec { return a.wanderPoint }

func (a *Agent) LastSafePosition() r3.Vec { return a.lastSafe }

func (a *Agent) Grounded() bool { return a.motor.Grounded() }

func (a *Agent) FastFalling() bool { return a.motor.FastFalling() }

func (a *Agent) AdherenceEnabled() bool { return a.motor.AdherenceEnabled() }

func (a *Agent) InDanger() bool { return a.perception.InDanger() }

func (a *Agent) Recovering() bool { return a.recovery.Active() }

func (a *Agent) Destroyed() bool { return a.destroyed }

func (a *Agent) Stats() Stats { return a.stats }

func (a *Agent) Tuning() Tuning { return a.cfg }

// Now is the agent's simulation clock.
func (a *Agent) Now() float64 { return a.sched.Now() }

// IsOnCriticalHazard reports whether the agent stands on a tile about to go.
func (a *Agent) IsOnCriticalHazard() bool {
	return a.perception.IsStandingOnCriticalHazard(a.body.Position())
}

// HasSafeHazardNearby reports a safe-phase tile within the configured radius.
func (a *Agent) HasSafeHazardNearby() bool {
	return a.perception.HasSafeHazardNearby(a.body.Position(), 0)
}

// SetTuning swaps every constant at runtime. The decision loop is restarted
// when its interval changes.
func (a *Agent) SetTuning(t Tuning) {
	if a.destroyed {
		return
	}
	restart := t.Decision.Interval != a.cfg.Decision.Interval
	a.cfg = t
	a.perception.SetConfig(t.Perception)
	a.validator.SetConfig(t.Search)
	a.motor.SetConfig(t.Motor)
	if restart {
		a.decisionLoop.Cancel()
		a.startDecisionLoop()
	}
	a.log.Printf("bot: agent=%d tuning updated", a.id)
}

// FixedUpdate runs one physics step: locomotion every call, and whatever
// timed routines are due.
func (a *Agent) FixedUpdate(dt float64) {
	if a.destroyed {
		return
	}
	rep := a.motor.Step(dt, a.target)
	if rep.TargetChanged() {
		a.target = rep.Target
	}
	if rep.Stalled {
		a.stats.Stalls++
		a.log.Printf("bot: agent=%d stalled, nudging to (%.2f, %.2f)", a.id, a.target.X, a.target.Z)
	}
	if rep.BecameAirborne {
		a.lastSafe = a.motor.LastGroundedPosition()
		a.startRecovery()
	}
	a.sched.Advance(dt)
}

// Destroy stops every routine. The agent ignores further updates.
func (a *Agent) Destroy() {
	if a.destroyed {
		return
	}
	a.destroyed = true
	a.sched.CancelAll()
	a.log.Printf("bot: agent=%d destroyed in state %s", a.id, a.state)
}

// Snapshot returns the current debug view.
func (a *Agent) Snapshot() Snapshot {
	last := a.perception.Last()
	return Snapshot{
		ID:              a.id,
		Time:            a.sched.Now(),
		Position:        a.body.Position(),
		Yaw:             a.body.Yaw(),
		Target:          a.target,
		WanderPoint:     a.wanderPoint,
		LastSafe:        a.lastSafe,
		State:           a.state,
		Grounded:        a.motor.Grounded(),
		FastFalling:     a.motor.FastFalling(),
		Recovering:      a.recovery.Active(),
		InDanger:        a.perception.InDanger(),
		Hazards:         len(last.All),
		DangerousNearby: len(last.Dangerous),
		DetectionRadius: a.cfg.Perception.DetectionRadius,
		Tier:            a.lastTier.String(),
	}
}

func (a *Agent) startDecisionLoop() {
	interval := a.cfg.Decision.Interval
	a.decisionLoop = a.sched.Every("decide", interval, func() bool {
		a.decide()
		return false
	})
}

// startRecovery nudges horizontal velocity back toward the last grounded
// position in fixed increments. It ends when the body lands, or when it is
// back over ground near that position after at least one nudge; the
// horizontal velocity is zeroed then and the fall speed is left alone.
func (a *Agent) startRecovery() {
	a.recovery.Cancel()
	goal := a.lastSafe
	d := a.cfg.Decision
	a.stats.Recoveries++
	a.log.Printf("bot: agent=%d airborne, recovering toward (%.2f, %.2f)", a.id, goal.X, goal.Z)

	nudges := 0
	a.recovery = a.sched.Every("recover", d.RecoveryStep, func() bool {
		if a.motor.Grounded() {
			a.log.Printf("bot: agent=%d landed", a.id)
			return true
		}
		pos := a.body.Position()
		v := a.body.Velocity()
		to := common.Horizontal(r3.Sub(goal, pos))
		if nudges > 0 && r3.Norm(to) <= d.RecoveryArriveDistance && a.validator.IsBasicallySafe(pos) {
			a.body.SetVelocity(r3.Vec{Y: v.Y})
			a.log.Printf("bot: agent=%d reached last safe position", a.id)
			return true
		}
		dir, ok := common.FlatDirection(to)
		if !ok {
			nudges++
			return false
		}
		h := common.Horizontal(v)
		want := r3.Scale(a.cfg.Motor.MoveSpeed, dir)
		h = r3.Add(h, r3.Scale(d.RecoveryBlend, r3.Sub(want, h)))
		a.body.SetVelocity(r3.Vec{X: h.X, Y: v.Y, Z: h.Z})
		nudges++
		return false
	})
}
