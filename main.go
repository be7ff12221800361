package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/hexfall/config"
)

func main() {
	configPath := flag.String("config", "", "YAML tuning file (embedded defaults when empty)")
	watch := flag.Bool("watch", false, "reload -config on change and push agent tuning into the running round")
	seed := flag.Int64("seed", 0, "override sim.seed")
	agents := flag.Int("agents", 0, "override sim.agents")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	verbose := flag.Bool("v", false, "log agent decisions to stderr")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *seed != 0 {
		cfg.Sim.Seed = *seed
	}
	if *agents > 0 {
		cfg.Sim.Agents = *agents
	}

	var logger *log.Logger
	if *verbose {
		logger = log.New(os.Stderr, "", log.Lmicroseconds)
	}

	game, err := NewGame(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	if *watch && *configPath != "" {
		w, err := config.NewWatcher(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		defer w.Close()
		game.watch(*configPath, w)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("hexfall")
	ebiten.SetTPS(int(1 / cfg.Sim.Dt))

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
