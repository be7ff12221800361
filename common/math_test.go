package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestFlatDirection(t *testing.T) {
	cases := []struct {
		name string
		in   r3.Vec
		want r3.Vec
		ok   bool
	}{
		{"x_axis", r3.Vec{X: 3, Y: 5}, East, true},
		{"negative_z", r3.Vec{Z: -0.5}, South, true},
		{"vertical_only", r3.Vec{Y: -4}, r3.Vec{}, false},
		{"zero", r3.Vec{}, r3.Vec{}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := FlatDirection(c.in)
			assert.Equal(t, c.ok, ok)
			assert.InDelta(t, c.want.X, got.X, 1e-9)
			assert.InDelta(t, c.want.Z, got.Z, 1e-9)
			assert.Zero(t, got.Y)
		})
	}
}

func TestLerpAngleTakesShortestArc(t *testing.T) {
	from := math.Pi - 0.1
	to := -math.Pi + 0.1
	mid := LerpAngle(from, to, 0.5)
	assert.InDelta(t, math.Pi, math.Abs(mid), 1e-9)
	assert.InDelta(t, to, LerpAngle(from, to, 1), 1e-9)
	assert.InDelta(t, from, LerpAngle(from, to, 0), 1e-9)
}

func TestWrapAngle(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"pi_stays", math.Pi, math.Pi},
		{"minus_pi_flips", -math.Pi, math.Pi},
		{"one_turn", 2*math.Pi + 0.5, 0.5},
		{"many_turns_back", -7*math.Pi - 0.25, math.Pi - 0.25},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, WrapAngle(c.in), 1e-9)
		})
	}

	for _, in := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		assert.True(t, math.IsNaN(WrapAngle(in)), "%v", in)
	}
}

func TestCompass8IsUnit(t *testing.T) {
	for i, d := range Compass8 {
		assert.InDelta(t, 1, r3.Norm(d), 1e-9, "direction %d", i)
		assert.Zero(t, d.Y)
	}
}

func TestYaw(t *testing.T) {
	assert.InDelta(t, 0, Yaw(North), 1e-9)
	assert.InDelta(t, math.Pi/2, Yaw(East), 1e-9)
	assert.InDelta(t, -math.Pi/2, Yaw(West), 1e-9)
}
