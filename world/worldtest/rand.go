package worldtest

// Rand replays fixed sequences and satisfies common.Rand.
type Rand struct {
	Floats []float64
	Ints   []int

	fi, ii int
}

func (r *Rand) Float64() float64 {
	if len(r.Floats) == 0 {
		return 0
	}
	v := r.Floats[r.fi%len(r.Floats)]
	r.fi++
	return v
}

func (r *Rand) Intn(n int) int {
	if len(r.Ints) == 0 || n <= 0 {
		return 0
	}
	v := r.Ints[r.ii%len(r.Ints)]
	r.ii++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Draws reports how many floats have been consumed.
func (r *Rand) Draws() int { return r.fi }
