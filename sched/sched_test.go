package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryRunsOnInterval(t *testing.T) {
	s := New()
	var at []float64
	s.Every("tick", 0.25, func() bool {
		at = append(at, s.Now())
		return false
	})

	for i := 0; i < 45; i++ {
		s.Advance(0.02)
	}

	require.Len(t, at, 4)
	assert.InDelta(t, 0.02, at[0], 1e-9)
	for i := 1; i < len(at); i++ {
		assert.InDelta(t, 0.25, at[i]-at[i-1], 0.021)
	}
}

func TestEveryStopsWhenDone(t *testing.T) {
	s := New()
	runs := 0
	h := s.Every("three", 0.1, func() bool {
		runs++
		return runs == 3
	})
	for i := 0; i < 100; i++ {
		s.Advance(0.05)
	}
	assert.Equal(t, 3, runs)
	assert.False(t, h.Active())
	assert.Zero(t, s.Len())
}

func TestAfterFiresOnceAtDelay(t *testing.T) {
	s := New()
	fired := 0
	var firedAt float64
	s.After("confusion", 2, func() {
		fired++
		firedAt = s.Now()
	})

	steps := 0
	for fired == 0 && steps < 1000 {
		s.Advance(0.02)
		steps++
	}
	for i := 0; i < 200; i++ {
		s.Advance(0.02)
	}
	assert.Equal(t, 1, fired)
	assert.Equal(t, 100, steps)
	assert.InDelta(t, 2, firedAt, 1e-6)
}

func TestCancel(t *testing.T) {
	s := New()
	runs := 0
	h := s.Every("loop", 0, func() bool {
		runs++
		return false
	})
	s.Advance(0.1)
	s.Advance(0.1)
	h.Cancel()
	s.Advance(0.1)
	assert.Equal(t, 2, runs)
	assert.False(t, h.Active())

	var nilHandle *Handle
	nilHandle.Cancel()
	assert.False(t, nilHandle.Active())
}

func TestCancelAll(t *testing.T) {
	s := New()
	runs := 0
	a := s.Every("a", 0.1, func() bool { runs++; return false })
	b := s.After("b", 0.5, func() { runs += 100 })
	s.Advance(0.1)
	s.CancelAll()
	for i := 0; i < 20; i++ {
		s.Advance(0.1)
	}
	assert.Equal(t, 1, runs)
	assert.False(t, a.Active())
	assert.False(t, b.Active())
	assert.Zero(t, s.Len())
}

func TestRoutinesScheduledFromRoutinesWaitForNextAdvance(t *testing.T) {
	s := New()
	var order []string
	s.After("outer", 0, func() {
		order = append(order, "outer")
		s.After("inner", 0, func() { order = append(order, "inner") })
	})
	s.Advance(0.02)
	assert.Equal(t, []string{"outer"}, order)
	s.Advance(0.02)
	assert.Equal(t, []string{"outer", "inner"}, order)
}
