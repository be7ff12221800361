// Command hexfall plays a headless round and reports how long the bots lasted.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/milk9111/hexfall/bot"
	"github.com/milk9111/hexfall/config"
	"github.com/milk9111/hexfall/round"
	"github.com/milk9111/hexfall/telemetry"
	"gonum.org/v1/gonum/stat"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML tuning (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config)")
	agents := flag.Int("agents", 0, "Number of bots (0 = use config)")
	maxTicks := flag.Int("ticks", 0, "Stop after N ticks (0 = use config)")
	outputDir := flag.String("out", "", "Output directory for trace.csv and eliminations.csv")
	verbose := flag.Bool("v", false, "Log every agent decision event")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Sim.Seed = *seed
	}
	if *agents > 0 {
		cfg.Sim.Agents = *agents
	}
	if *maxTicks > 0 {
		cfg.Sim.MaxTicks = *maxTicks
	}

	rec, err := telemetry.NewRecorder(*outputDir)
	if err != nil {
		slog.Error("failed to open output", "dir", *outputDir, "error", err)
		os.Exit(1)
	}

	onEliminated := func(res round.Result) {
		slog.Info("eliminated",
			"agent", res.Agent,
			"time", res.Time,
			"state", res.Snapshot.State,
			"errors", res.Stats.Errors,
			"transitions", res.Stats.Transitions,
		)
		if err := rec.WriteElimination(eliminationRow(res)); err != nil {
			slog.Warn("elimination row dropped", "error", err)
		}
	}

	r, err := round.New(cfg,
		round.WithLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug)),
		round.WithTracer(rec),
		round.WithEliminationHook(onEliminated),
	)
	if err != nil {
		slog.Error("failed to start round", "error", err)
		os.Exit(1)
	}

	slog.Info("starting headless round",
		"agents", len(r.Agents()),
		"seed", cfg.Sim.Seed,
		"dt", cfg.Sim.Dt,
		"max_ticks", cfg.Sim.MaxTicks,
	)
	ticks := r.Run()

	report(r, ticks)

	if err := rec.Close(); err != nil {
		slog.Error("failed to flush output", "error", err)
		os.Exit(1)
	}
}

func eliminationRow(res round.Result) telemetry.EliminationRow {
	return telemetry.EliminationRow{
		Time:        res.Time,
		Agent:       res.Agent,
		State:       string(res.Snapshot.State),
		Decisions:   res.Stats.Decisions,
		Errors:      res.Stats.Errors,
		Transitions: res.Stats.Transitions,
		Onsets:      res.Stats.Onsets,
		Stalls:      res.Stats.Stalls,
		Recoveries:  res.Stats.Recoveries,
	}
}

// report logs survival times, counting survivors at the final round time.
func report(r *round.Round, ticks int) {
	times := make([]float64, 0, len(r.Agents()))
	for _, res := range r.Results() {
		times = append(times, res.Time)
	}
	survivors := r.Alive()
	for range survivors {
		times = append(times, r.Time())
	}

	var errRate []float64
	for _, a := range r.Agents() {
		s := a.Stats()
		if s.Rolls > 0 {
			errRate = append(errRate, float64(s.Errors)/float64(s.Rolls))
		}
	}

	attrs := []any{
		"ticks", ticks,
		"time", r.Time(),
		"survivors", survivorIDs(survivors),
		"eliminated", len(r.Results()),
	}
	if len(times) > 0 {
		mean, std := stat.MeanStdDev(times, nil)
		attrs = append(attrs, "survival_mean", mean, "survival_std", std)
	}
	if len(errRate) > 0 {
		attrs = append(attrs, "error_rate", stat.Mean(errRate, nil))
	}
	slog.Info("round finished", attrs...)
}

func survivorIDs(agents []*bot.Agent) []int {
	ids := make([]int, 0, len(agents))
	for _, a := range agents {
		ids = append(ids, a.ID())
	}
	return ids
}
