// Package worldtest provides an in-memory world.Querier and world.Body for tests.
package worldtest

import (
	"image/color"

	"github.com/milk9111/hexfall/world"
	"gonum.org/v1/gonum/spatial/r3"
)

// Surface is the top of whatever lies under a probed column.
type Surface struct {
	Height float64
	Normal r3.Vec
	Tag    world.Tag
	Entity world.Entity
}

// GroundFunc reports the surface under (x, z).
type GroundFunc func(x, z float64) (Surface, bool)

// Flat is an infinite plane at height h.
func Flat(h float64) GroundFunc {
	return func(x, z float64) (Surface, bool) {
		return Surface{Height: h, Tag: world.TagGround}, true
	}
}

// Disc is a flat disc of radius r centered on (cx, cz).
func Disc(cx, cz, r, h float64) GroundFunc {
	return func(x, z float64) (Surface, bool) {
		dx, dz := x-cx, z-cz
		if dx*dx+dz*dz > r*r {
			return Surface{}, false
		}
		return Surface{Height: h, Tag: world.TagGround}, true
	}
}

// Void has no ground anywhere.
func Void() GroundFunc {
	return func(x, z float64) (Surface, bool) { return Surface{}, false }
}

// World is a scripted Querier.
type World struct {
	Ground   GroundFunc
	Entities []world.Entity

	Probes  int
	Queries int
}

func New(ground GroundFunc, entities ...world.Entity) *World {
	return &World{Ground: ground, Entities: entities}
}

func (w *World) ProbeGround(origin r3.Vec, maxDistance float64, mask world.Layer) (world.Hit, bool) {
	w.Probes++
	if w.Ground == nil {
		return world.Hit{}, false
	}
	s, ok := w.Ground(origin.X, origin.Z)
	if !ok || s.Height > origin.Y {
		return world.Hit{}, false
	}
	d := origin.Y - s.Height
	if d > maxDistance {
		return world.Hit{}, false
	}
	layer := world.LayerGround
	if s.Tag == world.TagHazard {
		layer = world.LayerHazard
	}
	if mask&layer == 0 {
		return world.Hit{}, false
	}
	normal := s.Normal
	if normal == (r3.Vec{}) {
		normal = r3.Vec{Y: 1}
	}
	return world.Hit{
		Distance: d,
		Point:    r3.Vec{X: origin.X, Y: s.Height, Z: origin.Z},
		Normal:   normal,
		Tag:      s.Tag,
		Entity:   s.Entity,
	}, true
}

func (w *World) QueryNearby(origin r3.Vec, radius float64) []world.Entity {
	w.Queries++
	var out []world.Entity
	for _, e := range w.Entities {
		if r3.Norm(r3.Sub(e.Position(), origin)) <= radius {
			out = append(out, e)
		}
	}
	return out
}

// Tile is a hazard-capable entity with a fixed phase color.
type Tile struct {
	EntityID world.EntityID
	Pos      r3.Vec
	Color    color.RGBA
	// Unreadable hides the color from PhaseColor.
	Unreadable bool
	EntityTag  world.Tag
}

func (t *Tile) ID() world.EntityID { return t.EntityID }

func (t *Tile) Tag() world.Tag {
	if t.EntityTag == world.TagNone {
		return world.TagHazard
	}
	return t.EntityTag
}

func (t *Tile) Position() r3.Vec { return t.Pos }

func (t *Tile) PhaseColor() (color.RGBA, bool) {
	if t.Unreadable {
		return color.RGBA{}, false
	}
	return t.Color, true
}

// Prop is a plain entity without a phase signal.
type Prop struct {
	EntityID  world.EntityID
	Pos       r3.Vec
	EntityTag world.Tag
}

func (p *Prop) ID() world.EntityID { return p.EntityID }
func (p *Prop) Tag() world.Tag { return p.EntityTag }
func (p *Prop) Position() r3.Vec { return p.Pos }

var (
	Green  = color.RGBA{R: 40, G: 220, B: 60, A: 255}
	Yellow = color.RGBA{R: 250, G: 230, B: 20, A: 255}
	Red    = color.RGBA{R: 240, G: 20, B: 20, A: 255}
	White  = color.RGBA{R: 245, G: 245, B: 245, A: 255}
	Purple = color.RGBA{R: 128, G: 0, B: 128, A: 255}
)
