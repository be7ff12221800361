package bot

import (
	"github.com/milk9111/hexfall/hazard"
	"github.com/milk9111/hexfall/motor"
	"github.com/milk9111/hexfall/nav"
)

// DecisionConfig tunes the decision loop, error injection and recovery.
type DecisionConfig struct {
	Interval       float64
	WanderInterval float64
	ArriveDistance float64

	ConfusionDuration    float64
	ConfusedWanderChance float64

	ErrorProbability float64
	ErrorCooldown    float64
	// MistakeFraction is how far toward a hazard the approach mistake moves.
	MistakeFraction float64

	RecoveryStep           float64
	RecoveryBlend          float64
	RecoveryArriveDistance float64
}

// Tuning is every constant an agent runs with.
type Tuning struct {
	Motor      motor.Config
	Perception hazard.Config
	Search     nav.Config
	Decision   DecisionConfig
}
