// Package arena is the reference world the bots play in: stacked hexagonal
// floors on a Chipmunk space whose tiles collapse after being stepped on.
package arena

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hexfall/common"
	"github.com/milk9111/hexfall/world"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrNoLevels    = errors.New("arena: no levels configured")
	ErrUnknownBody = errors.New("arena: unknown body")
)

const (
	categoryTile uint = 1 << iota
	categoryAgent
	categoryQuery
)

// Tiles never collide with agents; they are only found by queries.
var (
	tileFilter  = cp.NewShapeFilter(0, categoryTile, categoryQuery)
	agentFilter = cp.NewShapeFilter(0, categoryAgent, categoryAgent|categoryQuery)
	floorQuery  = cp.NewShapeFilter(0, categoryQuery, categoryTile)
	nearbyQuery = cp.NewShapeFilter(0, categoryQuery, categoryTile|categoryAgent)
)

// pointSlop is the half-size of the box used to gather tiles around a point.
const pointSlop = 1e-3

// Level is one floor of the arena.
type Level struct {
	Height           float64
	Hazard           bool
	WarnDuration     float64
	CriticalDuration float64
}

type Config struct {
	TileRadius      float64
	Gap             float64
	Rings           int
	AgentRadius     float64
	AgentHalfHeight float64
	// AgentFootprint is the horizontal offset of the four outer support
	// points around the body's centre.
	AgentFootprint float64
	AgentMass       float64
	Damping         float64
	KillHeight      float64
	Levels          []Level
}

type Option func(*Arena)

func WithLogger(l *log.Logger) Option {
	return func(a *Arena) {
		if l != nil {
			a.log = l
		}
	}
}

// Arena owns the cp space, the tiles and the agent bodies.
type Arena struct {
	cfg   Config
	space *cp.Space
	log   *log.Logger

	tiles  []*Tile
	bodies []*Body
	nextID world.EntityID
	time   float64

	// OnEliminated is called once for every body that falls below KillHeight.
	// It must not call Remove.
	OnEliminated func(b *Body)
	// OnTileRemoved is called when a tile disappears.
	OnTileRemoved func(t *Tile)
}

func New(cfg Config, opts ...Option) (*Arena, error) {
	if len(cfg.Levels) == 0 {
		return nil, ErrNoLevels
	}
	if cfg.TileRadius <= 0 {
		return nil, fmt.Errorf("arena: tile radius must be > 0, got %v", cfg.TileRadius)
	}
	if cfg.AgentMass <= 0 {
		cfg.AgentMass = 1
	}

	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})
	if cfg.Damping > 0 {
		space.SetDamping(cfg.Damping)
	}

	a := &Arena{
		cfg:   cfg,
		space: space,
		log:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.buildFloors()
	return a, nil
}

func (a *Arena) Config() Config { return a.cfg }

// Space returns the underlying Chipmunk space.
func (a *Arena) Space() *cp.Space { return a.space }

func (a *Arena) Time() float64 { return a.time }

func (a *Arena) Tiles() []*Tile { return a.tiles }

func (a *Arena) Bodies() []*Body { return a.bodies }

// Alive returns the bodies that have not been eliminated.
func (a *Arena) Alive() []*Body {
	out := make([]*Body, 0, len(a.bodies))
	for _, b := range a.bodies {
		if !b.eliminated {
			out = append(out, b)
		}
	}
	return out
}

// TileCount counts live tiles per phase.
func (a *Arena) TileCount(p TilePhase) int {
	n := 0
	for _, t := range a.tiles {
		if t.phase == p {
			n++
		}
	}
	return n
}

func (a *Arena) buildFloors() {
	spacing := a.cfg.TileRadius + a.cfg.Gap/math.Sqrt(3)
	n := a.cfg.Rings
	for li, lv := range a.cfg.Levels {
		for q := -n; q <= n; q++ {
			for r := -n; r <= n; r++ {
				if abs(q+r) > n {
					continue
				}
				x, z := axialCenter(q, r, spacing)
				a.nextID++
				t := &Tile{
					id:       a.nextID,
					level:    li,
					q:        q,
					r:        r,
					center:   r3.Vec{X: x, Y: lv.Height, Z: z},
					radius:   a.cfg.TileRadius,
					hazard:   lv.Hazard,
					warn:     lv.WarnDuration,
					critical: lv.CriticalDuration,
				}
				verts := hexVerts(x, z, a.cfg.TileRadius)
				shape := cp.NewPolyShapeRaw(a.space.StaticBody, len(verts), verts, 0)
				shape.SetFilter(tileFilter)
				shape.UserData = t
				a.space.AddShape(shape)
				t.shape = shape
				a.tiles = append(a.tiles, t)
			}
		}
	}
	a.log.Printf("arena: built %d tiles on %d levels", len(a.tiles), len(a.cfg.Levels))
}

// SpawnAgent adds a body standing at pos.
func (a *Arena) SpawnAgent(pos r3.Vec) *Body {
	mass := a.cfg.AgentMass
	radius := a.cfg.AgentRadius
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: pos.X, Y: pos.Z})
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFilter(agentFilter)
	shape.SetElasticity(0.3)
	shape.SetFriction(0)

	a.nextID++
	b := &Body{id: a.nextID, body: body, shape: shape, radius: radius, y: pos.Y}
	shape.UserData = b
	body.UserData = b
	a.space.AddBody(body)
	a.space.AddShape(shape)
	a.bodies = append(a.bodies, b)
	return b
}

// SpawnPoints returns n standing positions on shuffled tiles of the top
// level. Tiles are reused once every tile holds a spawn.
func (a *Arena) SpawnPoints(n int, rng common.Rand) []r3.Vec {
	var top []*Tile
	for _, t := range a.tiles {
		if t.level == 0 && !t.Removed() {
			top = append(top, t)
		}
	}
	for i := len(top) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		top[i], top[j] = top[j], top[i]
	}
	out := make([]r3.Vec, 0, n)
	for i := 0; i < n && len(top) > 0; i++ {
		c := top[i%len(top)].center
		c.Y += a.cfg.AgentHalfHeight
		out = append(out, c)
	}
	return out
}

// Remove takes a body out of the space without firing OnEliminated.
func (a *Arena) Remove(b *Body) error {
	for i, other := range a.bodies {
		if other != b {
			continue
		}
		if !b.eliminated {
			a.detach(b)
		}
		a.bodies = append(a.bodies[:i], a.bodies[i+1:]...)
		return nil
	}
	return ErrUnknownBody
}

func (a *Arena) detach(b *Body) {
	b.eliminated = true
	b.grounded = false
	b.support = nil
	a.space.RemoveShape(b.shape)
	a.space.RemoveBody(b.body)
}

// Step advances the world by dt: horizontal physics in the cp space, then
// vertical motion, tile contact and decay, then eliminations.
func (a *Arena) Step(dt float64) {
	a.space.Step(dt)
	a.time += dt

	for _, b := range a.bodies {
		if b.eliminated {
			continue
		}
		b.body.SetForce(cp.Vector{})
		a.integrateVertical(b, dt)
		if b.support != nil && b.support.touch() {
			a.log.Printf("arena: tile %d on level %d starts to collapse", b.support.id, b.support.level)
		}
	}

	for _, t := range a.tiles {
		if t.advance(dt) {
			a.removeTile(t)
		}
	}

	for _, b := range a.bodies {
		if b.eliminated || b.y >= a.cfg.KillHeight {
			continue
		}
		a.detach(b)
		a.log.Printf("arena: body %d eliminated at t=%.2f", b.id, a.time)
		if a.OnEliminated != nil {
			a.OnEliminated(b)
		}
	}
}

// integrateVertical applies gravity and the accumulated vertical force, and
// lands the body on the highest tile top it crosses. A top between the feet
// and the centre lifts the body onto it, matching the controller's probes
// that start at the centre.
func (a *Arena) integrateVertical(b *Body, dt float64) {
	half := a.cfg.AgentHalfHeight
	pos := b.body.Position()
	feet := b.y - half

	m := b.body.Mass()
	b.vy += (common.Gravity + b.fy/m) * dt
	b.fy = 0
	nextFeet := feet + b.vy*dt

	b.grounded = false
	b.support = nil
	if t, ok := a.supportBelow(pos.X, pos.Y, b.y); ok && b.vy <= 0 && nextFeet <= t.center.Y {
		b.y = t.center.Y + half
		b.vy = 0
		b.grounded = true
		b.support = t
		return
	}
	b.y = nextFeet + half
}

func (a *Arena) removeTile(t *Tile) {
	if t.shape != nil {
		a.space.RemoveShape(t.shape)
		t.shape = nil
	}
	a.log.Printf("arena: tile %d on level %d removed", t.id, t.level)
	if a.OnTileRemoved != nil {
		a.OnTileRemoved(t)
	}
}

// supportBelow returns the highest tile under any point of the body's
// footprint whose top is at or below maxTop.
func (a *Arena) supportBelow(x, z, maxTop float64) (*Tile, bool) {
	o := a.cfg.AgentFootprint
	points := [5]cp.Vector{
		{X: x, Y: z},
		{X: x + o, Y: z},
		{X: x - o, Y: z},
		{X: x, Y: z + o},
		{X: x, Y: z - o},
	}
	var best *Tile
	for _, p := range points {
		a.tilesAt(p, func(t *Tile) {
			if t.center.Y > maxTop {
				return
			}
			if best == nil || t.center.Y > best.center.Y {
				best = t
			}
		})
	}
	return best, best != nil
}

// tilesAt calls fn for every live tile whose hexagon contains p, on any
// level.
func (a *Arena) tilesAt(p cp.Vector, fn func(t *Tile)) {
	bb := cp.NewBBForCircle(p, pointSlop)
	a.space.BBQuery(bb, floorQuery, func(shape *cp.Shape, data interface{}) {
		t, ok := shape.UserData.(*Tile)
		if !ok || t.Removed() {
			return
		}
		if shape.PointQuery(p).Distance > 0 {
			return
		}
		fn(t)
	}, nil)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
