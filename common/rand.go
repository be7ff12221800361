package common

// Rand is the random source the controller draws from. *math/rand.Rand
// satisfies it; tests substitute scripted sequences.
type Rand interface {
	Float64() float64
	Intn(n int) int
}
