// Package main runs the combat feel sandbox: a single window where every
// presentation system (impact springs, move choreography, particles, volley and
// lightning orchestration, camera shake, screen flash, hit stop, after-images)
// can be triggered from the keyboard.
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--config <path>      TOML tuning file (default data/combatfx.toml)
//	--scenario <name>    duel, skirmish or horde (default skirmish)
//	--seed <n>           random seed for particle sampling and shake
//	--log-level <level>  override [logging].level
//
// Controls:
//
//	1-0        - player moves (dash ... twin strike)
//	R/T        - enemy boss roar / frenzy
//	E/D/A/S    - enemy hit / death / attack / defense reactions
//	Q          - sword volley on all enemies
//	W          - lightning strike
//	K          - remove the next enemy
//	H / I      - hit stop / directional camera impact
//	F          - toggle screen flashes
//	[ / ]      - shake scale down / up
//	- / =      - particle density down / up
//	Tab        - next scenario
//	Backspace  - restart scenario
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/game"
	"github.com/gonewx/combatfx/pkg/scenes"
)

var (
	configFlag   = flag.String("config", "data/combatfx.toml", "TOML tuning file")
	scenarioFlag = flag.String("scenario", "skirmish", "Initial scenario: duel, skirmish or horde")
	seedFlag     = flag.Int64("seed", 1, "Random seed")
	levelFlag    = flag.String("log-level", "", "Override the configured log level")
)

// Sandbox implements ebiten.Game
type Sandbox struct {
	scenes *game.SceneManager
	tuning *config.Tuning
	dt     float64
	log    *zap.Logger
}

func (g *Sandbox) Update() error {
	if ebiten.IsWindowBeingClosed() {
		if !g.scenes.SaveOnExit() {
			g.log.Warn("player tuning not saved")
		}
		return ebiten.Termination
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.loadNextScenario()
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		if err := g.scenes.Reload(); err != nil {
			g.log.Error("restart scenario failed", zap.Error(err))
		}
	}

	g.scenes.Update(g.dt)
	return nil
}

func (g *Sandbox) Draw(screen *ebiten.Image) {
	g.scenes.Draw(screen)
}

func (g *Sandbox) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.tuning.Window.LogicalWidth, g.tuning.Window.LogicalHeight
}

func (g *Sandbox) loadNextScenario() {
	names := scenes.Scenarios()
	next := names[0]
	for i, name := range names {
		if name == g.scenes.CurrentName() {
			next = names[(i+1)%len(names)]
			break
		}
	}
	if err := g.scenes.Load(next); err != nil {
		g.log.Error("switch scenario failed", zap.String("scenario", next), zap.Error(err))
	}
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "combatfx:", err)
		os.Exit(1)
	}
}

func run() error {
	tuning, err := loadTuning(*configFlag)
	if err != nil {
		return err
	}
	if *levelFlag != "" {
		tuning.Logging.Level = *levelFlag
	}

	log, err := newLogger(tuning.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	assets, err := game.LoadAssetTable(tuning.Assets, log)
	if err != nil {
		return err
	}

	store := game.NewTuningStore(openStorage(tuning.Storage, log), log)

	sceneManager := game.NewSceneManager(log)
	sceneManager.SetSceneFactory(scenes.Factory(scenes.CombatSceneOptions{
		Tuning: tuning,
		Assets: assets,
		Store:  store,
		Logger: log,
		Seed:   *seedFlag,
	}))
	if err := sceneManager.Load(*scenarioFlag); err != nil {
		return err
	}

	tps := tuning.Window.TPS
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	ebiten.SetTPS(tps)
	ebiten.SetWindowSize(tuning.Window.Width, tuning.Window.Height)
	ebiten.SetWindowTitle(tuning.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	log.Info("sandbox starting",
		zap.String("scenario", *scenarioFlag),
		zap.Int("tps", tps),
		zap.Bool("persistentTuning", store.Persistent()))

	sandbox := &Sandbox{
		scenes: sceneManager,
		tuning: tuning,
		dt:     1.0 / float64(tps),
		log:    log,
	}
	if err := ebiten.RunGame(sandbox); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run game: %w", err)
	}
	log.Info("sandbox closed")
	return nil
}

// loadTuning 配置文件不存在时使用内置默认值
func loadTuning(path string) (*config.Tuning, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config.DefaultTuning(), nil
	}
	return config.LoadTuning(path)
}

// openStorage gdata 不可用时返回 nil，玩家设置降级为仅内存
func openStorage(cfg config.StorageConfig, log *zap.Logger) *gdata.Manager {
	if !cfg.Enabled || cfg.AppName == "" {
		return nil
	}
	manager, err := gdata.Open(gdata.Config{AppName: cfg.AppName})
	if err != nil {
		log.Warn("persistent storage unavailable, player tuning kept in memory", zap.Error(err))
		return nil
	}
	return manager
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
