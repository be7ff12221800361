// Package config loads the YAML tuning shared by the viewer and the headless
// runner.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Agent      AgentConfig      `yaml:"agent"`
	Perception PerceptionConfig `yaml:"perception"`
	Search     SearchConfig     `yaml:"search"`
	Decision   DecisionConfig   `yaml:"decision"`
	Arena      ArenaConfig      `yaml:"arena"`
	Sim        SimConfig        `yaml:"sim"`
}

type AgentConfig struct {
	MoveSpeed              float64 `yaml:"move_speed"`
	MoveForce              float64 `yaml:"move_force"`
	MaxSpeedMultiplier     float64 `yaml:"max_speed_multiplier"`
	RotationSpeed          float64 `yaml:"rotation_speed"`
	ArriveDistance         float64 `yaml:"arrive_distance"`
	HalfHeight             float64 `yaml:"half_height"`
	GroundCheckDistance    float64 `yaml:"ground_check_distance"`
	GroundProbeOffset      float64 `yaml:"ground_probe_offset"`
	MaxSlopeAngle          float64 `yaml:"max_slope_angle"`
	AdherenceForce         float64 `yaml:"adherence_force"`
	FastFallMultiplier     float64 `yaml:"fast_fall_multiplier"`
	BoundaryCheck          float64 `yaml:"boundary_check"`
	EdgeRepulsionForce     float64 `yaml:"edge_repulsion_force"`
	EdgeRedirectDistance   float64 `yaml:"edge_redirect_distance"`
	DirectionProbeDistance float64 `yaml:"direction_probe_distance"`
	StallSpeed             float64 `yaml:"stall_speed"`
	StallDuration          float64 `yaml:"stall_duration"`
	StallNudgeDistance     float64 `yaml:"stall_nudge_distance"`
}

type PerceptionConfig struct {
	DetectionRadius  float64 `yaml:"detection_radius"`
	SafeDistance     float64 `yaml:"safe_distance"`
	SafeHazardRadius float64 `yaml:"safe_hazard_radius"`
	ProbeDistance    float64 `yaml:"probe_distance"`
}

type SearchConfig struct {
	WanderRadius           float64   `yaml:"wander_radius"`
	WanderAttempts         int       `yaml:"wander_attempts"`
	VerticalSearchDistance float64   `yaml:"vertical_search_distance"`
	MaxSlopeAngle          float64   `yaml:"max_slope_angle"`
	EdgeProbeDistance      float64   `yaml:"edge_probe_distance"`
	MaxEdgeMisses          int       `yaml:"max_edge_misses"`
	FallbackOffset         float64   `yaml:"fallback_offset"`
	Jitter                 float64   `yaml:"jitter"`
	FleeRadiusFactors      []float64 `yaml:"flee_radius_factors"`
}

type DecisionConfig struct {
	Interval               float64 `yaml:"interval"`
	WanderInterval         float64 `yaml:"wander_interval"`
	ArriveDistance         float64 `yaml:"arrive_distance"`
	ConfusionDuration      float64 `yaml:"confusion_duration"`
	ConfusedWanderChance   float64 `yaml:"confused_wander_chance"`
	ErrorProbability       float64 `yaml:"error_probability"`
	ErrorCooldown          float64 `yaml:"error_cooldown"`
	MistakeFraction        float64 `yaml:"mistake_fraction"`
	RecoveryStep           float64 `yaml:"recovery_step"`
	RecoveryBlend          float64 `yaml:"recovery_blend"`
	RecoveryArriveDistance float64 `yaml:"recovery_arrive_distance"`
}

type LevelConfig struct {
	Height           float64 `yaml:"height"`
	Hazard           bool    `yaml:"hazard"`
	WarnDuration     float64 `yaml:"warn_duration"`
	CriticalDuration float64 `yaml:"critical_duration"`
}

type ArenaConfig struct {
	TileRadius  float64       `yaml:"tile_radius"`
	Gap         float64       `yaml:"gap"`
	Rings       int           `yaml:"rings"`
	AgentRadius float64       `yaml:"agent_radius"`
	AgentMass   float64       `yaml:"agent_mass"`
	Damping     float64       `yaml:"damping"`
	KillHeight  float64       `yaml:"kill_height"`
	Levels      []LevelConfig `yaml:"levels"`
}

type SimConfig struct {
	Dt       float64 `yaml:"dt"`
	Seed     int64   `yaml:"seed"`
	Agents   int     `yaml:"agents"`
	MaxTicks int     `yaml:"max_ticks"`
}

// Default returns the embedded defaults.
func Default() Config {
	var c Config
	if err := yaml.Unmarshal(defaultsYAML, &c); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return c
}

// Load overlays the YAML file at path on the defaults. A missing file
// yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	c, err := LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

// LoadFile is Load without the missing-file fallback. Reloads use it so a
// file caught mid-save never resets live tuning to the defaults.
func LoadFile(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := Parse(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes data over c and validates the result.
func Parse(data []byte, c *Config) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return c.Validate()
}

// Validate reports every out-of-range field at once.
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalid, name, v))
		}
	}
	probability := func(name string, v float64) {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%w: %s must be in [0, 1], got %v", ErrInvalid, name, v))
		}
	}

	a := c.Agent
	positive("agent.move_speed", a.MoveSpeed)
	positive("agent.move_force", a.MoveForce)
	positive("agent.max_speed_multiplier", a.MaxSpeedMultiplier)
	positive("agent.ground_check_distance", a.GroundCheckDistance)
	positive("agent.boundary_check", a.BoundaryCheck)
	positive("agent.direction_probe_distance", a.DirectionProbeDistance)
	positive("agent.stall_duration", a.StallDuration)
	positive("agent.fast_fall_multiplier", a.FastFallMultiplier)
	if a.HalfHeight >= a.GroundCheckDistance {
		errs = append(errs, fmt.Errorf("%w: agent.half_height must be below agent.ground_check_distance", ErrInvalid))
	}

	p := c.Perception
	positive("perception.detection_radius", p.DetectionRadius)
	positive("perception.safe_distance", p.SafeDistance)
	if p.SafeDistance > p.DetectionRadius {
		errs = append(errs, fmt.Errorf("%w: perception.safe_distance exceeds detection_radius", ErrInvalid))
	}

	s := c.Search
	positive("search.wander_radius", s.WanderRadius)
	positive("search.vertical_search_distance", s.VerticalSearchDistance)
	if s.WanderAttempts < 1 {
		errs = append(errs, fmt.Errorf("%w: search.wander_attempts must be >= 1", ErrInvalid))
	}
	if s.MaxEdgeMisses < 0 || s.MaxEdgeMisses > 3 {
		errs = append(errs, fmt.Errorf("%w: search.max_edge_misses must be in [0, 3]", ErrInvalid))
	}
	if len(s.FleeRadiusFactors) == 0 {
		errs = append(errs, fmt.Errorf("%w: search.flee_radius_factors is empty", ErrInvalid))
	}

	d := c.Decision
	positive("decision.interval", d.Interval)
	positive("decision.confusion_duration", d.ConfusionDuration)
	positive("decision.recovery_step", d.RecoveryStep)
	probability("decision.error_probability", d.ErrorProbability)
	probability("decision.confused_wander_chance", d.ConfusedWanderChance)
	probability("decision.mistake_fraction", d.MistakeFraction)
	probability("decision.recovery_blend", d.RecoveryBlend)
	if d.ErrorCooldown < 0 {
		errs = append(errs, fmt.Errorf("%w: decision.error_cooldown must be >= 0", ErrInvalid))
	}

	ar := c.Arena
	positive("arena.tile_radius", ar.TileRadius)
	positive("arena.agent_radius", ar.AgentRadius)
	positive("arena.agent_mass", ar.AgentMass)
	if ar.Rings < 0 {
		errs = append(errs, fmt.Errorf("%w: arena.rings must be >= 0", ErrInvalid))
	}
	if len(ar.Levels) == 0 {
		errs = append(errs, fmt.Errorf("%w: arena.levels is empty", ErrInvalid))
	}
	for i, l := range ar.Levels {
		if l.Height <= ar.KillHeight {
			errs = append(errs, fmt.Errorf("%w: arena.levels[%d] is below kill_height", ErrInvalid, i))
		}
		if l.Hazard && (l.WarnDuration < 0 || l.CriticalDuration <= 0) {
			errs = append(errs, fmt.Errorf("%w: arena.levels[%d] needs warn_duration >= 0 and critical_duration > 0", ErrInvalid, i))
		}
	}

	positive("sim.dt", c.Sim.Dt)
	if c.Sim.Agents < 1 {
		errs = append(errs, fmt.Errorf("%w: sim.agents must be >= 1", ErrInvalid))
	}
	return errors.Join(errs...)
}
