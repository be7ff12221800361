package bot

import (
	"math"

	"github.com/milk9111/hexfall/common"
	"github.com/milk9111/hexfall/hazard"
	"gonum.org/v1/gonum/spatial/r3"
)

// decide is one decision tick. Nothing is decided while airborne; the
// previous target is kept.
func (a *Agent) decide() {
	if a.destroyed || !a.motor.Grounded() {
		return
	}
	a.stats.Decisions++

	pos := a.body.Position()
	set, edge := a.perception.Scan(pos)
	switch edge {
	case hazard.EdgeOnset:
		a.stats.Onsets++
		a.log.Printf("bot: agent=%d danger onset, %d dangerous nearby", a.id, len(set.Dangerous))
	case hazard.EdgeCleared:
		a.log.Printf("bot: agent=%d danger cleared", a.id)
	}

	pending := sensorEvents(set)
	a.while(set, pos)
	before := a.stats.Transitions
	a.processEvents(pending, set, pos)

	rolled, mistake := a.injectError(set, pos, a.stats.Transitions != before)

	if a.tracer != nil {
		s := a.Snapshot()
		s.Danger = edge
		s.Rolled = rolled
		s.Mistake = mistake
		a.tracer.Trace(s)
	}
}

// while runs the per-tick action of the current state.
func (a *Agent) while(set hazard.Set, pos r3.Vec) {
	d := a.cfg.Decision
	switch a.state {
	case StateExploring:
		if set.InDanger() {
			return
		}
		expired := a.sched.Now()-a.lastWander >= d.WanderInterval
		arrived := common.HorizontalDistance(pos, a.wanderPoint) <= d.ArriveDistance
		if expired || arrived {
			a.wander(pos)
		}
	case StateFleeing:
		if set.InDanger() {
			a.flee(set, pos)
		}
	case StateConfused:
		if a.rng.Float64() < d.ConfusedWanderChance {
			a.wander(pos)
		}
	}
}

func (a *Agent) processEvents(events []EventID, set hazard.Set, pos r3.Vec) {
	for _, ev := range events {
		next, ok := a.fsm.Next(a.state, ev)
		if !ok {
			continue
		}
		from := a.state
		a.exit(from)
		a.state = next
		a.stats.Transitions++
		a.log.Printf("bot: agent=%d %s -> %s (%s)", a.id, from, next, ev)
		a.enter(next, set, pos)
		if a.onTransition != nil {
			a.onTransition(from, next, ev)
		}
	}
}

func (a *Agent) enter(s StateID, set hazard.Set, pos r3.Vec) {
	switch s {
	case StateExploring:
		// The confusion timer can expire mid-air; the target is kept and the
		// first grounded tick picks a new one.
		if !a.motor.Grounded() {
			a.lastWander = math.Inf(-1)
			return
		}
		a.wander(pos)
	case StateFleeing:
		a.flee(set, pos)
	case StateConfused:
		a.armConfusion()
	}
}

func (a *Agent) exit(s StateID) {
	if s == StateConfused {
		a.confusion.Cancel()
		a.confusion = nil
	}
}

// armConfusion (re)starts the timer that ends the Confused state.
func (a *Agent) armConfusion() {
	a.confusion.Cancel()
	a.confusion = a.sched.After("confusion", a.cfg.Decision.ConfusionDuration, func() {
		a.confusion = nil
		pos := a.body.Position()
		a.processEvents([]EventID{EventConfusionExpired}, a.perception.Last(), pos)
	})
}

func (a *Agent) wander(pos r3.Vec) {
	target, tier := a.search.Wander(pos)
	a.wanderPoint = target
	a.target = target
	a.lastTier = tier
	a.lastWander = a.sched.Now()
}

func (a *Agent) flee(set hazard.Set, pos r3.Vec) {
	target, tier := a.search.Flee(pos, set.DangerPositions())
	a.target = target
	a.lastTier = tier
}

// injectError rolls once per tick against the error probability once the
// cooldown since the last error has passed. A mistake never sends the agent
// somewhere that fails strict validation, and a confuse mistake is dropped on
// a tick whose sensors already changed the state.
func (a *Agent) injectError(set hazard.Set, pos r3.Vec, transitioned bool) (bool, Mistake) {
	d := a.cfg.Decision
	now := a.sched.Now()
	if now-a.lastError < d.ErrorCooldown {
		return false, MistakeNone
	}
	a.stats.Rolls++
	if a.rng.Float64() >= d.ErrorProbability {
		return true, MistakeNone
	}
	a.lastError = now
	a.stats.Errors++

	m := mistakes[a.rng.Intn(len(mistakes))]
	switch m {
	case MistakeApproachHazard:
		h, ok := set.Nearest()
		if !ok {
			break
		}
		step := r3.Scale(d.MistakeFraction, common.Horizontal(r3.Sub(h.Position, pos)))
		p := r3.Add(pos, step)
		if a.validator.IsValid(p) {
			a.target = p
			a.log.Printf("bot: agent=%d mistake %s toward entity %d", a.id, m, h.Entity.ID())
		}
	case MistakeConfuse:
		if transitioned {
			break
		}
		if a.state == StateConfused {
			a.armConfusion()
		} else {
			a.processEvents([]EventID{EventMistakeConfused}, set, pos)
		}
		a.log.Printf("bot: agent=%d mistake %s", a.id, m)
	case MistakeRandomWander:
		a.wander(pos)
		a.log.Printf("bot: agent=%d mistake %s", a.id, m)
	}
	return true, m
}
