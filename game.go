package main

import (
	"fmt"
	"io"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/hexfall/config"
	"github.com/milk9111/hexfall/debugdraw"
	"github.com/milk9111/hexfall/round"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	frames int
	paused bool

	cfg   config.Config
	log   *log.Logger
	round *round.Round
	cam   debugdraw.Camera

	cfgPath string
	watcher *config.Watcher
	status  string
}

func NewGame(cfg config.Config, logger *log.Logger) (*Game, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	g := &Game{cfg: cfg, log: logger}
	if err := g.restart(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) restart() error {
	r, err := round.New(g.cfg, round.WithLogger(g.log))
	if err != nil {
		return err
	}
	g.round = r
	g.cam = fitCamera(g.cfg.Arena)
	return nil
}

// fitCamera scales the floor so every ring fits the window height.
func fitCamera(a config.ArenaConfig) debugdraw.Camera {
	extent := (a.TileRadius*math.Sqrt(3) + a.Gap) * float64(a.Rings+1)
	return debugdraw.Camera{
		Scale:  float64(baseHeight) / (2 * extent),
		Width:  baseWidth,
		Height: baseHeight,
	}
}

func (g *Game) watch(path string, w *config.Watcher) {
	g.cfgPath = path
	g.watcher = w
}

// pollConfig drains pending reloads without blocking the frame.
func (g *Game) pollConfig() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case _, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			cfg, err := config.LoadFile(g.cfgPath)
			if err == nil {
				err = g.round.SetConfig(cfg)
			}
			if err != nil {
				g.status = fmt.Sprintf("reload failed: %v", err)
				log.Printf("config reload: %v", err)
				continue
			}
			g.cfg = cfg
			g.status = "reloaded " + g.cfgPath
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("config watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) Update() error {
	g.frames++
	g.pollConfig()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.restart(); err != nil {
			return err
		}
	}

	step := !g.paused || inpututil.IsKeyJustPressed(ebiten.KeyPeriod)
	if step && !g.round.Done() {
		g.round.Step()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	debugdraw.DrawArena(screen, g.round.Arena(), g.cam)
	for _, a := range g.round.Alive() {
		debugdraw.DrawAgent(screen, a.Snapshot(), g.cfg.Arena.AgentRadius, g.cam)
	}

	hud := fmt.Sprintf("FPS: %.2f  t=%.2f  tick=%d  alive=%d/%d",
		ebiten.ActualFPS(), g.round.Time(), g.round.Tick(), len(g.round.Alive()), len(g.round.Agents()))
	if g.paused {
		hud += "  [paused: '.' steps]"
	}
	if g.round.Done() {
		hud += "  round over, R restarts"
	}
	ebitenutil.DebugPrint(screen, hud)
	if g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, 0, 16)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
