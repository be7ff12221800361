// Package sched runs cooperative timed routines on simulation time. Routines
// never run concurrently: they are resumed from Advance, which the owner calls
// once per physics step.
package sched

const timeEpsilon = 1e-9

// Handle controls a scheduled routine.
type Handle struct {
	name     string
	next     float64
	interval float64
	fn       func() bool

	cancelled bool
	finished  bool
}

// Cancel stops the routine; it will not run again.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.cancelled = true
}

// Active reports whether the routine is still waiting to run.
func (h *Handle) Active() bool {
	return h != nil && !h.cancelled && !h.finished
}

func (h *Handle) Name() string {
	if h == nil {
		return ""
	}
	return h.name
}

// Scheduler owns the routines of one agent.
type Scheduler struct {
	now      float64
	routines []*Handle
}

func New() *Scheduler {
	return &Scheduler{}
}

// Now is the simulation time in seconds.
func (s *Scheduler) Now() float64 {
	return s.now
}

// Every resumes fn on the next Advance and then every interval seconds until
// fn returns true or the handle is cancelled.
func (s *Scheduler) Every(name string, interval float64, fn func() (done bool)) *Handle {
	h := &Handle{name: name, next: s.now, interval: interval, fn: fn}
	s.routines = append(s.routines, h)
	return h
}

// After runs fn once, delay seconds from now.
func (s *Scheduler) After(name string, delay float64, fn func()) *Handle {
	h := &Handle{name: name, next: s.now + delay, fn: func() bool {
		fn()
		return true
	}}
	s.routines = append(s.routines, h)
	return h
}

// Advance moves the clock forward and resumes every routine that is due. A
// routine runs at most once per Advance.
func (s *Scheduler) Advance(dt float64) {
	s.now += dt

	due := append([]*Handle(nil), s.routines...)
	for _, h := range due {
		if !h.Active() || h.next > s.now+timeEpsilon {
			continue
		}
		if h.fn == nil || h.fn() {
			h.finished = true
			continue
		}
		h.next += h.interval
		if h.next <= s.now+timeEpsilon {
			h.next = s.now + h.interval
		}
	}

	live := s.routines[:0]
	for _, h := range s.routines {
		if h.Active() {
			live = append(live, h)
		}
	}
	for i := len(live); i < len(s.routines); i++ {
		s.routines[i] = nil
	}
	s.routines = live
}

// CancelAll stops every routine.
func (s *Scheduler) CancelAll() {
	for _, h := range s.routines {
		h.Cancel()
	}
	s.routines = nil
}

// Len is the number of routines still scheduled.
func (s *Scheduler) Len() int {
	n := 0
	for _, h := range s.routines {
		if h.Active() {
			n++
		}
	}
	return n
}
