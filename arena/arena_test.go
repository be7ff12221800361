package arena

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/milk9111/hexfall/hazard"
	"github.com/milk9111/hexfall/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const dt = 0.02

func testConfig() Config {
	return Config{
		TileRadius:      1,
		Gap:             0.1,
		Rings:           2,
		AgentRadius:     0.45,
		AgentHalfHeight: 0.5,
		AgentMass:       1,
		Damping:         1,
		KillHeight:      -10,
		Levels: []Level{
			{Height: 0, Hazard: true, WarnDuration: 0.5, CriticalDuration: 0.5},
			{Height: -5},
		},
	}
}

func newArena(t *testing.T, cfg Config) *Arena {
	t.Helper()
	a, err := New(cfg)
	require.NoError(t, err)
	return a
}

func steps(a *Arena, seconds float64) {
	for i := 0; i < int(seconds/dt+0.5); i++ {
		a.Step(dt)
	}
}

func TestNewValidates(t *testing.T) {
	cfg := testConfig()
	cfg.Levels = nil
	_, err := New(cfg)
	assert.True(t, errors.Is(err, ErrNoLevels))

	cfg = testConfig()
	cfg.TileRadius = 0
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestBuildFloors(t *testing.T) {
	a := newArena(t, testConfig())
	// 3n(n+1)+1 tiles per level
	require.Len(t, a.Tiles(), 2*19)
	assert.Equal(t, 2*19, a.TileCount(TileIntact))

	ids := map[world.EntityID]bool{}
	for _, tile := range a.Tiles() {
		assert.False(t, ids[tile.ID()], "duplicate id %d", tile.ID())
		ids[tile.ID()] = true
		if tile.Level() == 0 {
			assert.Equal(t, world.TagHazard, tile.Tag())
		} else {
			assert.Equal(t, world.TagGround, tile.Tag())
		}
	}
}

func TestProbeGround(t *testing.T) {
	a := newArena(t, testConfig())

	cases := []struct {
		name     string
		origin   r3.Vec
		max      float64
		mask     world.Layer
		ok       bool
		tag      world.Tag
		distance float64
	}{
		{"top_level", r3.Vec{Y: 0.5}, 1.1, world.LayerWalkable, true, world.TagHazard, 0.5},
		{"stacked_highest_wins", r3.Vec{X: 0.3, Y: 0.5, Z: -0.2}, 10, world.LayerAll, true, world.TagHazard, 0.5},
		{"hazard_masked_out", r3.Vec{Y: 0.5}, 10, world.LayerGround, true, world.TagGround, 5.5},
		{"too_far", r3.Vec{Y: 3}, 1.1, world.LayerWalkable, false, "", 0},
		{"outside_floor", r3.Vec{X: 50, Y: 0.5}, 100, world.LayerAll, false, "", 0},
		{"between_levels", r3.Vec{Y: -1}, 10, world.LayerAll, true, world.TagGround, 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hit, ok := a.ProbeGround(c.origin, c.max, c.mask)
			require.Equal(t, c.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, c.tag, hit.Tag)
			assert.InDelta(t, c.distance, hit.Distance, 1e-9)
			assert.Equal(t, 0.0, world.SlopeAngle(hit.Normal))
			require.NotNil(t, hit.Entity)
		})
	}
}

func TestBodyLandsOnTile(t *testing.T) {
	cfg := testConfig()
	cfg.Levels[0].Hazard = false
	a := newArena(t, cfg)
	b := a.SpawnAgent(r3.Vec{Y: 3})
	require.False(t, b.Grounded())

	steps(a, 2)
	require.True(t, b.Grounded())
	assert.InDelta(t, 0.5, b.Position().Y, 1e-9)
	assert.Equal(t, 0.0, b.Velocity().Y)
	require.NotNil(t, b.Support())
	assert.Equal(t, 0, b.Support().Level())
}

func TestFootprintSupportsOverhang(t *testing.T) {
	cases := []struct {
		name      string
		footprint float64
		grounded  bool
	}{
		{"centre_only_falls", 0, false},
		{"outer_point_holds", 0.3, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Rings = 0
			cfg.Levels = []Level{{Height: 0}}
			cfg.AgentFootprint = c.footprint
			a := newArena(t, cfg)

			// The centre hangs past the east vertex at x = 1.
			b := a.SpawnAgent(r3.Vec{X: 1.1, Y: 0.5})
			_, underCentre := a.ProbeGround(b.Position(), 1.1, world.LayerAll)
			require.False(t, underCentre)

			steps(a, 0.2)
			assert.Equal(t, c.grounded, b.Grounded())
			if c.grounded {
				assert.InDelta(t, 0.5, b.Position().Y, 1e-9)
			} else {
				assert.Less(t, b.Position().Y, 0.5)
			}
		})
	}
}

func TestTileDecayAndRemoval(t *testing.T) {
	cfg := testConfig()
	cfg.Levels[0].CriticalDuration = 0.45
	a := newArena(t, cfg)
	var removed []*Tile
	a.OnTileRemoved = func(tile *Tile) { removed = append(removed, tile) }

	b := a.SpawnAgent(r3.Vec{Y: 0.5})
	a.Step(dt)
	tile := b.Support()
	require.NotNil(t, tile)
	require.Equal(t, TileWarning, tile.Phase())

	c, ok := tile.PhaseColor()
	require.True(t, ok)
	assert.Equal(t, hazard.PhaseWarning, hazard.Classify(c))

	steps(a, 0.5)
	require.Equal(t, TileCritical, tile.Phase())
	c, _ = tile.PhaseColor()
	assert.Equal(t, hazard.PhaseCritical, hazard.Classify(c))

	steps(a, 0.5)
	require.True(t, tile.Removed())
	require.Len(t, removed, 1)
	assert.Equal(t, tile, removed[0])

	// the body drops to the solid level below
	steps(a, 2)
	require.True(t, b.Grounded())
	assert.Equal(t, 1, b.Support().Level())
	assert.InDelta(t, -4.5, b.Position().Y, 1e-9)
}

func TestIntactAndSolidColors(t *testing.T) {
	a := newArena(t, testConfig())
	for _, tile := range a.Tiles() {
		c, ok := tile.PhaseColor()
		require.True(t, ok)
		assert.Equal(t, hazard.PhaseSafe, hazard.Classify(c), "tile %d", tile.ID())
	}
}

func TestElimination(t *testing.T) {
	cfg := testConfig()
	cfg.Levels = cfg.Levels[:1]
	cfg.KillHeight = -3
	a := newArena(t, cfg)

	var eliminated []*Body
	a.OnEliminated = func(b *Body) { eliminated = append(eliminated, b) }
	b := a.SpawnAgent(r3.Vec{X: 40, Y: 0.5})

	steps(a, 2)
	require.Len(t, eliminated, 1)
	assert.Equal(t, b, eliminated[0])
	assert.True(t, b.Eliminated())
	assert.Empty(t, a.Alive())

	b.AddForce(r3.Vec{X: 10}, world.ForceContinuous)
	steps(a, 1)
	assert.Len(t, eliminated, 1)

	require.NoError(t, a.Remove(b))
	assert.ErrorIs(t, a.Remove(b), ErrUnknownBody)
}

func TestForces(t *testing.T) {
	a := newArena(t, testConfig())
	b := a.SpawnAgent(r3.Vec{Y: 0.5})
	a.Step(dt)

	b.AddForce(r3.Vec{X: 10}, world.ForceContinuous)
	a.Step(dt)
	assert.InDelta(t, 10*dt, b.Velocity().X, 1e-9)

	b.AddForce(r3.Vec{Z: 1}, world.ForceVelocityChange)
	assert.InDelta(t, 1, b.Velocity().Z, 1e-9)

	b.SetVelocity(r3.Vec{})
	b.AddForce(r3.Vec{Y: 3}, world.ForceImpulse)
	assert.InDelta(t, 3, b.Velocity().Y, 1e-9)
}

func TestQueryNearby(t *testing.T) {
	a := newArena(t, testConfig())
	self := a.SpawnAgent(r3.Vec{Y: 0.5})
	other := a.SpawnAgent(r3.Vec{X: 2, Y: 0.5})

	got := a.QueryNearby(self.Position(), 3)
	require.NotEmpty(t, got)
	var agents, tiles int
	prev := -1.0
	for _, e := range got {
		d := r3.Norm(r3.Sub(e.Position(), self.Position()))
		assert.LessOrEqual(t, d, 3.0)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
		switch e.Tag() {
		case world.TagAgent:
			agents++
		case world.TagHazard:
			tiles++
		}
	}
	assert.Equal(t, 2, agents, "self and %d", other.ID())
	assert.Greater(t, tiles, 1)

	p := hazard.New(a, hazard.Config{DetectionRadius: 3, SafeDistance: 1, SafeHazardRadius: 3, ProbeDistance: 1.5})
	set, _ := p.Scan(self.Position())
	assert.Equal(t, tiles, len(set.All))
}

func TestSpawnPoints(t *testing.T) {
	a := newArena(t, testConfig())
	pts := a.SpawnPoints(5, rand.New(rand.NewSource(1)))
	require.Len(t, pts, 5)
	seen := map[r3.Vec]bool{}
	for _, p := range pts {
		assert.False(t, seen[p])
		seen[p] = true
		assert.InDelta(t, 0.5, p.Y, 1e-9)
		_, ok := a.ProbeGround(p, 1, world.LayerWalkable)
		assert.True(t, ok)
	}
}

func TestTilePhaseString(t *testing.T) {
	assert.Equal(t, "intact", TileIntact.String())
	assert.Equal(t, "removed", TileRemoved.String())
	assert.Equal(t, "unknown", TilePhase(9).String())
}
