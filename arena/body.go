package arena

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/hexfall/world"
	"gonum.org/v1/gonum/spatial/r3"
)

// Body is an agent's physical body. The cp body carries the horizontal
// plane (X, Z); height and vertical velocity are integrated by the arena.
type Body struct {
	id     world.EntityID
	body   *cp.Body
	shape  *cp.Shape
	radius float64

	y, vy float64
	fy    float64
	yaw   float64

	grounded   bool
	support    *Tile
	eliminated bool
}

func (b *Body) ID() world.EntityID { return b.id }

func (b *Body) Tag() world.Tag { return world.TagAgent }

func (b *Body) Position() r3.Vec {
	p := b.body.Position()
	return r3.Vec{X: p.X, Y: b.y, Z: p.Y}
}

// SetPosition teleports the body and clears its velocity.
func (b *Body) SetPosition(pos r3.Vec) {
	b.body.SetPosition(cp.Vector{X: pos.X, Y: pos.Z})
	b.body.SetVelocityVector(cp.Vector{})
	b.y = pos.Y
	b.vy = 0
}

func (b *Body) Velocity() r3.Vec {
	v := b.body.Velocity()
	return r3.Vec{X: v.X, Y: b.vy, Z: v.Y}
}

func (b *Body) SetVelocity(v r3.Vec) {
	b.body.SetVelocityVector(cp.Vector{X: v.X, Y: v.Z})
	b.vy = v.Y
}

func (b *Body) Yaw() float64 { return b.yaw }

func (b *Body) SetYaw(yaw float64) { b.yaw = yaw }

func (b *Body) Mass() float64 { return b.body.Mass() }

func (b *Body) Radius() float64 { return b.radius }

// Grounded reports whether the last arena step left the body on a tile.
func (b *Body) Grounded() bool { return b.grounded }

// Support is the tile under the body after the last step, or nil.
func (b *Body) Support() *Tile { return b.support }

func (b *Body) Eliminated() bool { return b.eliminated }

func (b *Body) AddForce(f r3.Vec, mode world.ForceMode) {
	if b.eliminated {
		return
	}
	m := b.body.Mass()
	switch mode {
	case world.ForceContinuous:
		b.body.ApplyForceAtWorldPoint(cp.Vector{X: f.X, Y: f.Z}, b.body.Position())
		b.fy += f.Y
	case world.ForceImpulse:
		b.body.ApplyImpulseAtWorldPoint(cp.Vector{X: f.X, Y: f.Z}, b.body.Position())
		b.vy += f.Y / m
	case world.ForceVelocityChange:
		v := b.body.Velocity()
		b.body.SetVelocityVector(cp.Vector{X: v.X + f.X, Y: v.Y + f.Z})
		b.vy += f.Y
	}
}
