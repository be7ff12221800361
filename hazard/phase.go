package hazard

import "image/color"

// Phase is the discrete danger category read from a hazard's color.
type Phase int

const (
	PhaseSafe Phase = iota
	PhaseWarning
	PhaseCritical
	// PhaseUnknown is a readable color that matches no band.
	PhaseUnknown
)

func (p Phase) String() string {
	switch p {
	case PhaseSafe:
		return "safe"
	case PhaseWarning:
		return "warning"
	case PhaseCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Dangerous reports whether the phase should be avoided. Unknown colors count
// as dangerous.
func (p Phase) Dangerous() bool {
	return p != PhaseSafe
}

// Classify maps a phase color onto a Phase. Tiles fade green -> yellow -> red
// as they approach removal, so the bands are checked from most to least urgent.
func Classify(c color.RGBA) Phase {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	switch {
	case r >= 0.8 && g <= 0.3 && b <= 0.3:
		return PhaseCritical
	case r >= 0.7 && g < 0.45:
		return PhaseWarning
	case r >= 0.7 && g >= 0.6 && b < 0.4:
		return PhaseWarning
	case r >= 0.85 && g >= 0.85 && b >= 0.85:
		return PhaseSafe
	case g >= 0.6 && r < 0.5:
		return PhaseSafe
	case b >= 0.6 && r < 0.5:
		return PhaseSafe
	default:
		return PhaseUnknown
	}
}
