package hazard

import (
	"image/color"
	"testing"

	"github.com/milk9111/hexfall/world"
	"github.com/milk9111/hexfall/world/worldtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var testConfig = Config{
	DetectionRadius:  8,
	SafeDistance:     3,
	SafeHazardRadius: 4,
	ProbeDistance:    1.5,
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		color color.RGBA
		want  Phase
	}{
		{"green", worldtest.Green, PhaseSafe},
		{"blue", color.RGBA{R: 30, G: 60, B: 220, A: 255}, PhaseSafe},
		{"near_white", worldtest.White, PhaseSafe},
		{"yellow", worldtest.Yellow, PhaseWarning},
		{"orange", color.RGBA{R: 255, G: 165, A: 255}, PhaseWarning},
		{"dark_orange", color.RGBA{R: 255, G: 100, A: 255}, PhaseWarning},
		{"red", worldtest.Red, PhaseCritical},
		{"purple", worldtest.Purple, PhaseUnknown},
		{"black", color.RGBA{A: 255}, PhaseUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Classify(c.color))
		})
	}
}

func TestScanClassifiesDanger(t *testing.T) {
	origin := r3.Vec{Y: 0.5}
	cases := []struct {
		name          string
		tile          *worldtest.Tile
		wantSeen      bool
		wantDangerous bool
	}{
		{"critical_close", &worldtest.Tile{EntityID: 1, Pos: r3.Vec{X: 2}, Color: worldtest.Red}, true, true},
		{"warning_close", &worldtest.Tile{EntityID: 1, Pos: r3.Vec{Z: 1.5}, Color: worldtest.Yellow}, true, true},
		{"critical_far", &worldtest.Tile{EntityID: 1, Pos: r3.Vec{X: 5}, Color: worldtest.Red}, true, false},
		{"safe_close", &worldtest.Tile{EntityID: 1, Pos: r3.Vec{X: 1}, Color: worldtest.Green}, true, false},
		{"unreadable_close", &worldtest.Tile{EntityID: 1, Pos: r3.Vec{X: 1}, Unreadable: true}, true, true},
		{"unreadable_far", &worldtest.Tile{EntityID: 1, Pos: r3.Vec{X: 4}, Unreadable: true}, true, false},
		{"unknown_color_close", &worldtest.Tile{EntityID: 1, Pos: r3.Vec{X: 1}, Color: worldtest.Purple}, true, true},
		{"out_of_range", &worldtest.Tile{EntityID: 1, Pos: r3.Vec{X: 9}, Color: worldtest.Red}, false, false},
		{"not_a_hazard", &worldtest.Tile{EntityID: 1, Pos: r3.Vec{X: 1}, Color: worldtest.Red, EntityTag: world.TagGround}, false, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := worldtest.New(worldtest.Flat(0), c.tile)
			p := New(w, testConfig)

			set, edge := p.Scan(origin)
			if c.wantSeen {
				require.Len(t, set.All, 1)
			} else {
				require.Empty(t, set.All)
			}
			assert.Equal(t, c.wantDangerous, set.InDanger())
			assert.Equal(t, c.wantDangerous, p.InDanger())
			if c.wantDangerous {
				assert.Equal(t, EdgeOnset, edge)
				assert.Equal(t, []r3.Vec{c.tile.Pos}, set.DangerPositions())
			} else {
				assert.Equal(t, EdgeNone, edge)
			}
		})
	}
}

func TestScanEdges(t *testing.T) {
	tile := &worldtest.Tile{EntityID: 7, Pos: r3.Vec{X: 2}, Color: worldtest.Red}
	w := worldtest.New(worldtest.Flat(0), tile)
	p := New(w, testConfig)

	_, edge := p.Scan(r3.Vec{})
	assert.Equal(t, EdgeOnset, edge)
	_, edge = p.Scan(r3.Vec{})
	assert.Equal(t, EdgeNone, edge, "danger held")

	tile.Color = worldtest.Green
	_, edge = p.Scan(r3.Vec{})
	assert.Equal(t, EdgeCleared, edge)
	assert.False(t, p.InDanger())

	tile.Color = worldtest.Red
	_, edge = p.Scan(r3.Vec{})
	assert.Equal(t, EdgeOnset, edge, "danger returns")
	assert.Equal(t, "onset", edge.String())
}

func TestScanSortsByDistance(t *testing.T) {
	w := worldtest.New(worldtest.Flat(0),
		&worldtest.Tile{EntityID: 1, Pos: r3.Vec{X: 6}, Color: worldtest.Green},
		&worldtest.Tile{EntityID: 2, Pos: r3.Vec{X: 1}, Color: worldtest.Red},
		&worldtest.Tile{EntityID: 3, Pos: r3.Vec{X: -2.5}, Color: worldtest.Yellow},
	)
	p := New(w, testConfig)
	set, _ := p.Scan(r3.Vec{})

	require.Len(t, set.All, 3)
	assert.Equal(t, world.EntityID(2), set.All[0].Entity.ID())
	assert.Equal(t, world.EntityID(3), set.All[1].Entity.ID())
	assert.Equal(t, world.EntityID(1), set.All[2].Entity.ID())
	assert.Len(t, set.Dangerous, 2)

	nearest, ok := set.Nearest()
	require.True(t, ok)
	assert.Equal(t, world.EntityID(2), nearest.Entity.ID())
	assert.Equal(t, set, p.Last())
}

func TestIsStandingOnCriticalHazard(t *testing.T) {
	cases := []struct {
		name string
		tile *worldtest.Tile
		tag  world.Tag
		want bool
	}{
		{"critical", &worldtest.Tile{Color: worldtest.Red}, world.TagHazard, true},
		{"warning", &worldtest.Tile{Color: worldtest.Yellow}, world.TagHazard, false},
		{"unreadable", &worldtest.Tile{Unreadable: true}, world.TagHazard, false},
		{"solid_ground", &worldtest.Tile{Color: worldtest.Red}, world.TagGround, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ground := func(x, z float64) (worldtest.Surface, bool) {
				return worldtest.Surface{Height: 0, Tag: c.tag, Entity: c.tile}, true
			}
			p := New(worldtest.New(ground), testConfig)
			assert.Equal(t, c.want, p.IsStandingOnCriticalHazard(r3.Vec{Y: 0.5}))
		})
	}

	t.Run("airborne", func(t *testing.T) {
		p := New(worldtest.New(worldtest.Void()), testConfig)
		assert.False(t, p.IsStandingOnCriticalHazard(r3.Vec{Y: 0.5}))
	})
}

func TestHasSafeHazardNearby(t *testing.T) {
	cases := []struct {
		name string
		tile *worldtest.Tile
		want bool
	}{
		{"safe_in_band", &worldtest.Tile{Pos: r3.Vec{X: 2}, Color: worldtest.Green}, true},
		{"safe_too_close", &worldtest.Tile{Pos: r3.Vec{X: 0.5}, Color: worldtest.Green}, false},
		{"safe_too_far", &worldtest.Tile{Pos: r3.Vec{X: 5}, Color: worldtest.Green}, false},
		{"warning_in_band", &worldtest.Tile{Pos: r3.Vec{X: 2}, Color: worldtest.Yellow}, false},
		{"unreadable_in_band", &worldtest.Tile{Pos: r3.Vec{X: 2}, Unreadable: true}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := New(worldtest.New(worldtest.Flat(0), c.tile), testConfig)
			assert.Equal(t, c.want, p.HasSafeHazardNearby(r3.Vec{}, 0))
		})
	}
}
