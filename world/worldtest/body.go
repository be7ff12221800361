package worldtest

import (
	"github.com/milk9111/hexfall/world"
	"gonum.org/v1/gonum/spatial/r3"
)

// AppliedForce records one AddForce call.
type AppliedForce struct {
	Force r3.Vec
	Mode  world.ForceMode
}

// Body is a point mass that records every force it receives.
type Body struct {
	Pos     r3.Vec
	Vel     r3.Vec
	Heading float64
	M       float64

	Forces []AppliedForce
}

func NewBody(pos r3.Vec) *Body {
	return &Body{Pos: pos, M: 1}
}

func (b *Body) Position() r3.Vec { return b.Pos }
func (b *Body) Velocity() r3.Vec { return b.Vel }
func (b *Body) SetVelocity(v r3.Vec) { b.Vel = v }
func (b *Body) Yaw() float64 { return b.Heading }
func (b *Body) SetYaw(yaw float64) { b.Heading = yaw }
func (b *Body) Mass() float64 { return b.M }
func (b *Body) AddForce(f r3.Vec, mode world.ForceMode) {
	b.Forces = append(b.Forces, AppliedForce{Force: f, Mode: mode})
}

// Integrate applies the recorded forces over dt, moves the body and clears
// the record. Gravity is not applied.
func (b *Body) Integrate(dt float64) {
	m := b.M
	if m <= 0 {
		m = 1
	}
	for _, f := range b.Forces {
		switch f.Mode {
		case world.ForceContinuous:
			b.Vel = r3.Add(b.Vel, r3.Scale(dt/m, f.Force))
		case world.ForceImpulse:
			b.Vel = r3.Add(b.Vel, r3.Scale(1/m, f.Force))
		case world.ForceVelocityChange:
			b.Vel = r3.Add(b.Vel, f.Force)
		}
	}
	b.Forces = b.Forces[:0]
	b.Pos = r3.Add(b.Pos, r3.Scale(dt, b.Vel))
}

// Sum totals the recorded forces of the given mode.
func (b *Body) Sum(mode world.ForceMode) r3.Vec {
	var s r3.Vec
	for _, f := range b.Forces {
		if f.Mode == mode {
			s = r3.Add(s, f.Force)
		}
	}
	return s
}
