package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/milk9111/hexfall/bot"
	"github.com/milk9111/hexfall/hazard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNilRecorder(t *testing.T) {
	r, err := NewRecorder("")
	require.NoError(t, err)
	require.Nil(t, r)

	r.Trace(bot.Snapshot{})
	assert.NoError(t, r.WriteElimination(EliminationRow{}))
	assert.Zero(t, r.Rows())
	assert.NoError(t, r.Err())
	assert.NoError(t, r.Close())
}

func TestRecorderWritesTrace(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r, err := NewRecorder(dir)
	require.NoError(t, err)

	snaps := []bot.Snapshot{
		{ID: 1, Time: 0.25, State: bot.StateExploring, Position: r3.Vec{X: 1, Y: 0.5, Z: 2}, Grounded: true, Tier: "strict"},
		{ID: 1, Time: 0.5, State: bot.StateFleeing, InDanger: true, Hazards: 3, DangerousNearby: 1, Danger: hazard.EdgeOnset, Rolled: true},
		{ID: 2, Time: 0.5, State: bot.StateConfused, Rolled: true, Mistake: bot.MistakeConfuse},
	}
	for _, s := range snaps {
		r.Trace(s)
	}
	require.NoError(t, r.WriteElimination(EliminationRow{Time: 3, Agent: 2, State: "confused", Decisions: 12}))
	require.NoError(t, r.Err())
	assert.Equal(t, 3, r.Rows())
	require.NoError(t, r.Close())

	f, err := os.Open(filepath.Join(dir, "trace.csv"))
	require.NoError(t, err)
	defer f.Close()
	var rows []TraceRow
	require.NoError(t, gocsv.UnmarshalFile(f, &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, RowFromSnapshot(snaps[0]), rows[0])
	assert.Equal(t, "fleeing", rows[1].State)
	assert.True(t, rows[1].InDanger)
	assert.Equal(t, "onset", rows[1].Danger)
	assert.Equal(t, "none", rows[2].Danger)
	assert.Equal(t, "confuse", rows[2].Mistake)

	ef, err := os.Open(filepath.Join(dir, "eliminations.csv"))
	require.NoError(t, err)
	defer ef.Close()
	var elims []EliminationRow
	require.NoError(t, gocsv.UnmarshalFile(ef, &elims))
	require.Len(t, elims, 1)
	assert.Equal(t, 12, elims[0].Decisions)
}
