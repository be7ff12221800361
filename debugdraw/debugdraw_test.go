package debugdraw

import (
	"testing"

	"github.com/milk9111/hexfall/bot"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
	"golang.org/x/image/colornames"
)

func TestCameraToScreen(t *testing.T) {
	cam := Camera{X: 1, Z: 1, Scale: 10, Width: 200, Height: 100}
	cases := []struct {
		name   string
		p      r3.Vec
		wx, wy float32
	}{
		{"center", r3.Vec{X: 1, Z: 1}, 100, 50},
		{"east", r3.Vec{X: 2, Z: 1}, 110, 50},
		{"north_is_up", r3.Vec{X: 1, Z: 2}, 100, 40},
		{"height_ignored", r3.Vec{X: 1, Y: 30, Z: 1}, 100, 50},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			x, y := cam.ToScreen(c.p)
			assert.InDelta(t, c.wx, x, 1e-4)
			assert.InDelta(t, c.wy, y, 1e-4)
		})
	}
}

func TestStateColor(t *testing.T) {
	assert.Equal(t, colornames.Deepskyblue, StateColor(bot.StateExploring))
	assert.NotEqual(t, StateColor(bot.StateExploring), StateColor(bot.StateFleeing))
	assert.NotEqual(t, StateColor(bot.StateFleeing), StateColor(bot.StateConfused))
	assert.Equal(t, colornames.White, StateColor("bogus"))
}

func TestDim(t *testing.T) {
	c := colornames.Limegreen
	assert.Equal(t, c, dim(c, 0))
	d := dim(c, 1)
	assert.Less(t, d.G, c.G)
	assert.Equal(t, uint8(255), d.A)
}
