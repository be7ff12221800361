package config

import (
	"github.com/milk9111/hexfall/arena"
	"github.com/milk9111/hexfall/bot"
	"github.com/milk9111/hexfall/hazard"
	"github.com/milk9111/hexfall/motor"
	"github.com/milk9111/hexfall/nav"
)

// Tuning converts the agent sections into controller constants.
func (c Config) Tuning() bot.Tuning {
	a := c.Agent
	d := c.Decision
	return bot.Tuning{
		Motor: motor.Config{
			MoveSpeed:              a.MoveSpeed,
			MoveForce:              a.MoveForce,
			MaxSpeedMultiplier:     a.MaxSpeedMultiplier,
			RotationSpeed:          a.RotationSpeed,
			ArriveDistance:         a.ArriveDistance,
			HalfHeight:             a.HalfHeight,
			GroundCheckDistance:    a.GroundCheckDistance,
			GroundProbeOffset:      a.GroundProbeOffset,
			MaxSlopeAngle:          a.MaxSlopeAngle,
			AdherenceForce:         a.AdherenceForce,
			FastFallMultiplier:     a.FastFallMultiplier,
			BoundaryCheck:          a.BoundaryCheck,
			EdgeRepulsionForce:     a.EdgeRepulsionForce,
			EdgeRedirectDistance:   a.EdgeRedirectDistance,
			DirectionProbeDistance: a.DirectionProbeDistance,
			StallSpeed:             a.StallSpeed,
			StallDuration:          a.StallDuration,
			StallNudgeDistance:     a.StallNudgeDistance,
		},
		Perception: hazard.Config{
			DetectionRadius:  c.Perception.DetectionRadius,
			SafeDistance:     c.Perception.SafeDistance,
			SafeHazardRadius: c.Perception.SafeHazardRadius,
			ProbeDistance:    c.Perception.ProbeDistance,
		},
		Search: nav.Config{
			WanderRadius:           c.Search.WanderRadius,
			WanderAttempts:         c.Search.WanderAttempts,
			VerticalSearchDistance: c.Search.VerticalSearchDistance,
			MaxSlopeAngle:          c.Search.MaxSlopeAngle,
			EdgeProbeDistance:      c.Search.EdgeProbeDistance,
			MaxEdgeMisses:          c.Search.MaxEdgeMisses,
			FallbackOffset:         c.Search.FallbackOffset,
			Jitter:                 c.Search.Jitter,
			FleeRadiusFactors:      append([]float64(nil), c.Search.FleeRadiusFactors...),
		},
		Decision: bot.DecisionConfig{
			Interval:               d.Interval,
			WanderInterval:         d.WanderInterval,
			ArriveDistance:         d.ArriveDistance,
			ConfusionDuration:      d.ConfusionDuration,
			ConfusedWanderChance:   d.ConfusedWanderChance,
			ErrorProbability:       d.ErrorProbability,
			ErrorCooldown:          d.ErrorCooldown,
			MistakeFraction:        d.MistakeFraction,
			RecoveryStep:           d.RecoveryStep,
			RecoveryBlend:          d.RecoveryBlend,
			RecoveryArriveDistance: d.RecoveryArriveDistance,
		},
	}
}

// ArenaConfig converts the arena section.
func (c Config) ArenaConfig() arena.Config {
	ar := c.Arena
	levels := make([]arena.Level, 0, len(ar.Levels))
	for _, l := range ar.Levels {
		levels = append(levels, arena.Level{
			Height:           l.Height,
			Hazard:           l.Hazard,
			WarnDuration:     l.WarnDuration,
			CriticalDuration: l.CriticalDuration,
		})
	}
	return arena.Config{
		TileRadius:      ar.TileRadius,
		Gap:             ar.Gap,
		Rings:           ar.Rings,
		AgentRadius:     ar.AgentRadius,
		AgentHalfHeight: c.Agent.HalfHeight,
		AgentFootprint:  c.Agent.GroundProbeOffset,
		AgentMass:       ar.AgentMass,
		Damping:         ar.Damping,
		KillHeight:      ar.KillHeight,
		Levels:          levels,
	}
}
