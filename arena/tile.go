package arena

import (
	"image/color"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hexfall/common"
	"github.com/milk9111/hexfall/world"
	"golang.org/x/image/colornames"
	"gonum.org/v1/gonum/spatial/r3"
)

// TilePhase is the decay stage of a floor tile.
type TilePhase int

const (
	TileIntact TilePhase = iota
	TileWarning
	TileCritical
	TileRemoved
)

func (p TilePhase) String() string {
	switch p {
	case TileIntact:
		return "intact"
	case TileWarning:
		return "warning"
	case TileCritical:
		return "critical"
	case TileRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

var (
	colorIntact        = colornames.Limegreen
	colorWarningStart  = colornames.Yellow
	colorWarningEnd    = colornames.Orange
	colorCriticalStart = colornames.Orangered
	colorCriticalEnd   = colornames.Red
	colorSolid         = colornames.Gainsboro
)

// Tile is one hexagon of the floor. Hazard tiles start decaying the first
// time an agent stands on them and disappear after their level's delays.
type Tile struct {
	id     world.EntityID
	level  int
	q, r   int
	center r3.Vec
	radius float64
	hazard bool
	shape  *cp.Shape

	phase    TilePhase
	timer    float64
	warn     float64
	critical float64
}

func (t *Tile) ID() world.EntityID { return t.id }

func (t *Tile) Tag() world.Tag {
	if t.hazard {
		return world.TagHazard
	}
	return world.TagGround
}

// Position is the center of the tile's top face.
func (t *Tile) Position() r3.Vec { return t.center }

func (t *Tile) Level() int { return t.level }

func (t *Tile) Axial() (q, r int) { return t.q, t.r }

func (t *Tile) Phase() TilePhase { return t.phase }

func (t *Tile) Hazard() bool { return t.hazard }

func (t *Tile) Removed() bool { return t.phase == TileRemoved }

// Progress is how far the tile is through its current phase, in [0, 1].
func (t *Tile) Progress() float64 {
	switch t.phase {
	case TileWarning:
		return progress(t.timer, t.warn)
	case TileCritical:
		return progress(t.timer, t.critical)
	case TileRemoved:
		return 1
	}
	return 0
}

// PhaseColor is the visual state agents read to judge the tile.
func (t *Tile) PhaseColor() (color.RGBA, bool) {
	if !t.hazard {
		return colorSolid, true
	}
	switch t.phase {
	case TileWarning:
		return lerpColor(colorWarningStart, colorWarningEnd, t.Progress()), true
	case TileCritical, TileRemoved:
		return lerpColor(colorCriticalStart, colorCriticalEnd, t.Progress()), true
	}
	return colorIntact, true
}

// Corners returns the six vertices of the top face, counter-clockwise.
func (t *Tile) Corners() [6]r3.Vec {
	var out [6]r3.Vec
	for i, v := range hexVerts(t.center.X, t.center.Z, t.radius) {
		out[i] = r3.Vec{X: v.X, Y: t.center.Y, Z: v.Y}
	}
	return out
}

// touch starts the decay of an intact hazard tile.
func (t *Tile) touch() bool {
	if !t.hazard || t.phase != TileIntact {
		return false
	}
	t.phase = TileWarning
	t.timer = 0
	return true
}

// advance steps the decay timer and reports whether the tile must be removed.
func (t *Tile) advance(dt float64) bool {
	switch t.phase {
	case TileWarning:
		t.timer += dt
		if t.timer >= t.warn {
			t.phase = TileCritical
			t.timer = 0
		}
	case TileCritical:
		t.timer += dt
		if t.timer >= t.critical {
			t.phase = TileRemoved
			return true
		}
	}
	return false
}

func progress(timer, total float64) float64 {
	if total <= 0 {
		return 1
	}
	return common.Clamp01(timer / total)
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(common.Lerp(float64(x), float64(y), t)))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// hexVerts is a flat-topped hexagon in the cp plane (X, Z as Y).
func hexVerts(cx, cz, radius float64) []cp.Vector {
	verts := make([]cp.Vector, 6)
	for i := range verts {
		a := float64(i) * math.Pi / 3
		verts[i] = cp.Vector{X: cx + radius*math.Cos(a), Y: cz + radius*math.Sin(a)}
	}
	return verts
}

// axialCenter maps axial hex coordinates to the horizontal plane.
func axialCenter(q, r int, spacing float64) (x, z float64) {
	x = spacing * 1.5 * float64(q)
	z = spacing * math.Sqrt(3) * (float64(r) + float64(q)/2)
	return x, z
}
