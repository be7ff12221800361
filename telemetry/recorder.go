// Package telemetry writes per-decision traces and round results as CSV.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/milk9111/hexfall/bot"
)

// TraceRow is one decision tick of one agent.
type TraceRow struct {
	Time        float64 `csv:"time"`
	Agent       int     `csv:"agent"`
	State       string  `csv:"state"`
	X           float64 `csv:"x"`
	Y           float64 `csv:"y"`
	Z           float64 `csv:"z"`
	TargetX     float64 `csv:"target_x"`
	TargetZ     float64 `csv:"target_z"`
	Grounded    bool    `csv:"grounded"`
	FastFalling bool    `csv:"fast_falling"`
	InDanger    bool    `csv:"in_danger"`
	Hazards     int     `csv:"hazards"`
	Dangerous   int     `csv:"dangerous"`
	Danger      string  `csv:"danger"`
	Rolled      bool    `csv:"rolled"`
	Mistake     string  `csv:"mistake"`
	Tier        string  `csv:"tier"`
}

// EliminationRow records an agent leaving the round.
type EliminationRow struct {
	Time        float64 `csv:"time"`
	Agent       int     `csv:"agent"`
	State       string  `csv:"state"`
	Decisions   int     `csv:"decisions"`
	Errors      int     `csv:"errors"`
	Transitions int     `csv:"transitions"`
	Onsets      int     `csv:"onsets"`
	Stalls      int     `csv:"stalls"`
	Recoveries  int     `csv:"recoveries"`
}

func RowFromSnapshot(s bot.Snapshot) TraceRow {
	return TraceRow{
		Time:        s.Time,
		Agent:       s.ID,
		State:       string(s.State),
		X:           s.Position.X,
		Y:           s.Position.Y,
		Z:           s.Position.Z,
		TargetX:     s.Target.X,
		TargetZ:     s.Target.Z,
		Grounded:    s.Grounded,
		FastFalling: s.FastFalling,
		InDanger:    s.InDanger,
		Hazards:     s.Hazards,
		Dangerous:   s.DangerousNearby,
		Danger:      s.Danger.String(),
		Rolled:      s.Rolled,
		Mistake:     string(s.Mistake),
		Tier:        s.Tier,
	}
}

// Recorder appends rows to trace.csv and eliminations.csv in dir. A nil
// Recorder discards everything.
type Recorder struct {
	mu sync.Mutex

	traceFile *os.File
	elimFile  *os.File

	traceHeaderWritten bool
	elimHeaderWritten  bool

	rows int
	err  error
}

// NewRecorder creates dir and the output files. It returns nil when dir is
// empty.
func NewRecorder(dir string) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "trace.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating trace.csv: %w", err)
	}
	r := &Recorder{traceFile: f}

	f, err = os.Create(filepath.Join(dir, "eliminations.csv"))
	if err != nil {
		r.traceFile.Close()
		return nil, fmt.Errorf("creating eliminations.csv: %w", err)
	}
	r.elimFile = f
	return r, nil
}

// Trace implements bot.Tracer. Write failures are kept and reported by Err.
func (r *Recorder) Trace(s bot.Snapshot) {
	if r == nil {
		return
	}
	if err := r.WriteTrace(RowFromSnapshot(s)); err != nil {
		r.mu.Lock()
		if r.err == nil {
			r.err = err
		}
		r.mu.Unlock()
	}
}

func (r *Recorder) WriteTrace(row TraceRow) error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	records := []TraceRow{row}
	if !r.traceHeaderWritten {
		if err := gocsv.Marshal(records, r.traceFile); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		r.traceHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, r.traceFile); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}
	r.rows++
	return nil
}

func (r *Recorder) WriteElimination(row EliminationRow) error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	records := []EliminationRow{row}
	if !r.elimHeaderWritten {
		if err := gocsv.Marshal(records, r.elimFile); err != nil {
			return fmt.Errorf("writing elimination: %w", err)
		}
		r.elimHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, r.elimFile); err != nil {
			return fmt.Errorf("writing elimination: %w", err)
		}
	}
	return nil
}

// Rows is the number of trace rows written.
func (r *Recorder) Rows() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows
}

// Err returns the first error swallowed by Trace.
func (r *Recorder) Err() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close flushes and closes the output files.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for _, f := range []*os.File{r.traceFile, r.elimFile} {
		if f == nil {
			continue
		}
		if err := f.Sync(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.traceFile = nil
	r.elimFile = nil
	return firstErr
}
