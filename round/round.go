// Package round plays one match: bots on a collapsing arena until one is
// left standing or the tick limit is reached.
package round

import (
	"io"
	"log"
	"math/rand"

	"github.com/milk9111/hexfall/arena"
	"github.com/milk9111/hexfall/bot"
	"github.com/milk9111/hexfall/config"
)

// Result describes an eliminated agent.
type Result struct {
	Agent    int
	Time     float64
	Snapshot bot.Snapshot
	Stats    bot.Stats
}

type Option func(*Round)

func WithLogger(l *log.Logger) Option {
	return func(r *Round) {
		if l != nil {
			r.log = l
		}
	}
}

func WithTracer(t bot.Tracer) Option {
	return func(r *Round) { r.tracer = t }
}

// WithEliminationHook is called after an agent has been destroyed.
func WithEliminationHook(fn func(Result)) Option {
	return func(r *Round) { r.onEliminated = fn }
}

type Round struct {
	cfg    config.Config
	arena  *arena.Arena
	agents []*bot.Agent
	byBody map[*arena.Body]*bot.Agent

	log          *log.Logger
	tracer       bot.Tracer
	onEliminated func(Result)

	tick    int
	results []Result
}

func New(cfg config.Config, opts ...Option) (*Round, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Round{
		cfg:    cfg,
		byBody: make(map[*arena.Body]*bot.Agent),
		log:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(r)
	}

	a, err := arena.New(cfg.ArenaConfig(), arena.WithLogger(r.log))
	if err != nil {
		return nil, err
	}
	a.OnEliminated = r.eliminate
	r.arena = a

	tuning := cfg.Tuning()
	spawns := a.SpawnPoints(cfg.Sim.Agents, rand.New(rand.NewSource(cfg.Sim.Seed)))
	for i, pos := range spawns {
		body := a.SpawnAgent(pos)
		opts := []bot.Option{
			bot.WithID(i),
			bot.WithLogger(r.log),
			bot.WithRand(rand.New(rand.NewSource(cfg.Sim.Seed + int64(i) + 1))),
		}
		if r.tracer != nil {
			opts = append(opts, bot.WithTracer(r.tracer))
		}
		agent := bot.New(body, a, tuning, opts...)
		r.agents = append(r.agents, agent)
		r.byBody[body] = agent
	}
	r.log.Printf("round: %d agents on %d tiles, seed %d", len(r.agents), len(a.Tiles()), cfg.Sim.Seed)
	return r, nil
}

func (r *Round) Arena() *arena.Arena { return r.arena }

func (r *Round) Agents() []*bot.Agent { return r.agents }

func (r *Round) Config() config.Config { return r.cfg }

func (r *Round) Tick() int { return r.tick }

func (r *Round) Time() float64 { return r.arena.Time() }

// Results lists eliminated agents in the order they fell.
func (r *Round) Results() []Result { return r.results }

// Alive returns the agents still in play.
func (r *Round) Alive() []*bot.Agent {
	out := make([]*bot.Agent, 0, len(r.agents))
	for _, a := range r.agents {
		if !a.Destroyed() {
			out = append(out, a)
		}
	}
	return out
}

// Done reports whether the round is over: the tick limit is hit, or at most
// one agent is left in a multi-agent round.
func (r *Round) Done() bool {
	if r.cfg.Sim.MaxTicks > 0 && r.tick >= r.cfg.Sim.MaxTicks {
		return true
	}
	alive := len(r.Alive())
	if len(r.agents) > 1 {
		return alive <= 1
	}
	return alive == 0
}

// Step advances every agent and the arena by one fixed step.
func (r *Round) Step() {
	dt := r.cfg.Sim.Dt
	for _, a := range r.agents {
		a.FixedUpdate(dt)
	}
	r.arena.Step(dt)
	r.tick++
}

// Run steps until Done and returns the number of ticks played.
func (r *Round) Run() int {
	for !r.Done() {
		r.Step()
	}
	return r.tick
}

// SetConfig pushes new agent tuning into live agents. Arena and sim
// settings only apply to the next round.
func (r *Round) SetConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	tuning := cfg.Tuning()
	for _, a := range r.Alive() {
		a.SetTuning(tuning)
	}
	r.cfg.Agent = cfg.Agent
	r.cfg.Perception = cfg.Perception
	r.cfg.Search = cfg.Search
	r.cfg.Decision = cfg.Decision
	return nil
}

func (r *Round) eliminate(b *arena.Body) {
	agent, ok := r.byBody[b]
	if !ok {
		return
	}
	snap := agent.Snapshot()
	agent.Destroy()
	res := Result{Agent: agent.ID(), Time: r.arena.Time(), Snapshot: snap, Stats: agent.Stats()}
	r.results = append(r.results, res)
	r.log.Printf("round: agent %d eliminated at t=%.2f", res.Agent, res.Time)
	if r.onEliminated != nil {
		r.onEliminated(res)
	}
}
