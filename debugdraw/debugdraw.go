// Package debugdraw renders a top-down debug view of the arena and the bots:
// tile phases, detection radius, current target and state.
package debugdraw

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/hexfall/arena"
	"github.com/milk9111/hexfall/bot"
	"golang.org/x/image/colornames"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera maps the horizontal plane to screen pixels, +Z up.
type Camera struct {
	X, Z          float64
	Scale         float64
	Width, Height int
}

func (c Camera) ToScreen(p r3.Vec) (float32, float32) {
	sx := (p.X-c.X)*c.Scale + float64(c.Width)/2
	sy := -(p.Z-c.Z)*c.Scale + float64(c.Height)/2
	return float32(sx), float32(sy)
}

func StateColor(s bot.StateID) color.RGBA {
	switch s {
	case bot.StateExploring:
		return colornames.Deepskyblue
	case bot.StateFleeing:
		return colornames.Magenta
	case bot.StateConfused:
		return colornames.Orchid
	default:
		return colornames.White
	}
}

// dim fades lower levels so the top floor stays readable.
func dim(c color.RGBA, level int) color.RGBA {
	if level == 0 {
		return c
	}
	f := math.Pow(0.45, float64(level))
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: 255,
	}
}

// DrawArena draws every live tile, bottom level first.
func DrawArena(screen *ebiten.Image, a *arena.Arena, cam Camera) {
	if screen == nil || a == nil {
		return
	}
	levels := len(a.Config().Levels)
	for level := levels - 1; level >= 0; level-- {
		for _, t := range a.Tiles() {
			if t.Level() != level || t.Removed() {
				continue
			}
			drawTile(screen, t, cam)
		}
	}
}

func drawTile(screen *ebiten.Image, t *arena.Tile, cam Camera) {
	c, _ := t.PhaseColor()
	c = dim(c, t.Level())

	cx, cy := cam.ToScreen(t.Position())
	inner := float32(r3.Norm(r3.Sub(t.Corners()[0], t.Position())) * cam.Scale * math.Sqrt(3) / 2)
	vector.FillCircle(screen, cx, cy, inner, c, true)

	corners := t.Corners()
	for i := range corners {
		x0, y0 := cam.ToScreen(corners[i])
		x1, y1 := cam.ToScreen(corners[(i+1)%len(corners)])
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, c, true)
	}
}

// DrawAgent draws the body, its detection radius and a line to its target.
func DrawAgent(screen *ebiten.Image, s bot.Snapshot, radius float64, cam Camera) {
	if screen == nil {
		return
	}
	c := StateColor(s.State)
	x, y := cam.ToScreen(s.Position)

	vector.StrokeCircle(screen, x, y, float32(s.DetectionRadius*cam.Scale), 1, color.RGBA{R: c.R, G: c.G, B: c.B, A: 90}, true)

	tx, ty := cam.ToScreen(s.Target)
	vector.StrokeLine(screen, x, y, tx, ty, 1, colornames.White, true)
	vector.FillCircle(screen, tx, ty, 3, colornames.White, true)

	body := c
	if !s.Grounded {
		body = colornames.Gray
	}
	vector.FillCircle(screen, x, y, float32(radius*cam.Scale), body, true)

	hx := x + float32(math.Sin(s.Yaw)*radius*cam.Scale)
	hy := y - float32(math.Cos(s.Yaw)*radius*cam.Scale)
	vector.StrokeLine(screen, x, y, hx, hy, 2, colornames.Black, true)

	label := fmt.Sprintf("%d %s", s.ID, s.State)
	if s.FastFalling {
		label += " falling"
	}
	ebitenutil.DebugPrintAt(screen, label, int(x)+8, int(y)-8)
}
