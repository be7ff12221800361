package round

import (
	"math"
	"testing"

	"github.com/milk9111/hexfall/arena"
	"github.com/milk9111/hexfall/bot"
	"github.com/milk9111/hexfall/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() config.Config {
	c := config.Default()
	c.Sim.Agents = 3
	c.Sim.MaxTicks = 1500
	c.Arena.Rings = 3
	return c
}

func TestRoundRuns(t *testing.T) {
	var fled bool
	tracer := bot.TracerFunc(func(s bot.Snapshot) {
		require.False(t, math.IsNaN(s.Target.X) || math.IsNaN(s.Target.Z), "agent %d target undefined", s.ID)
		if s.State == bot.StateFleeing {
			fled = true
		}
	})
	var hooked int
	r, err := New(smallConfig(), WithTracer(tracer), WithEliminationHook(func(Result) { hooked++ }))
	require.NoError(t, err)
	require.Len(t, r.Agents(), 3)

	ticks := r.Run()
	assert.True(t, r.Done())
	assert.LessOrEqual(t, ticks, 1500)
	assert.True(t, fled, "decaying tiles under the agents should trigger a flee")
	assert.Equal(t, len(r.Agents())-len(r.Alive()), len(r.Results()))
	assert.Equal(t, len(r.Results()), hooked)
	for _, res := range r.Results() {
		assert.True(t, r.Agents()[res.Agent].Destroyed())
	}
}

func TestRoundIsDeterministic(t *testing.T) {
	play := func() []float64 {
		r, err := New(smallConfig())
		require.NoError(t, err)
		for i := 0; i < 400; i++ {
			r.Step()
		}
		var out []float64
		for _, a := range r.Agents() {
			p := a.Body().Position()
			out = append(out, p.X, p.Y, p.Z)
		}
		return out
	}
	assert.Equal(t, play(), play())
}

func TestSetConfig(t *testing.T) {
	r, err := New(smallConfig())
	require.NoError(t, err)

	c := smallConfig()
	c.Decision.ErrorProbability = 0.5
	require.NoError(t, r.SetConfig(c))
	for _, a := range r.Agents() {
		assert.Equal(t, 0.5, a.Tuning().Decision.ErrorProbability)
	}

	c.Decision.ErrorProbability = 2
	assert.ErrorIs(t, r.SetConfig(c), config.ErrInvalid)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	c := smallConfig()
	c.Sim.Agents = 0
	_, err := New(c)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

// The controller's five-point ground check and the arena's landing rule must
// agree, apart from the last few steps of a fall into probe range.
func TestGroundContactAgreesWithArena(t *testing.T) {
	cfg := config.Default()
	r, err := New(cfg)
	require.NoError(t, err)

	runs := make([]int, len(r.Agents()))
	longest := 0
	for !r.Done() {
		r.Step()
		for i, a := range r.Agents() {
			if a.Destroyed() {
				runs[i] = 0
				continue
			}
			body := a.Body().(*arena.Body)
			if a.Grounded() && !body.Grounded() {
				runs[i]++
			} else {
				runs[i] = 0
			}
			if runs[i] > longest {
				longest = runs[i]
			}
		}
	}
	assert.LessOrEqual(t, longest, 4)
}
