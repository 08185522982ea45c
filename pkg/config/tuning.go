package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Tuning 顶层运行配置（data/combatfx.toml）
type Tuning struct {
	Window  WindowConfig  `toml:"window"`
	Logging LoggingConfig `toml:"logging"`
	Impact  ImpactConfig  `toml:"impact"`
	Shake   ShakeConfig   `toml:"shake"`
	Flash   FlashConfig   `toml:"flash"`
	Assets  AssetsConfig  `toml:"assets"`
	Storage StorageConfig `toml:"storage"`
}

type WindowConfig struct {
	Title         string `toml:"title"`
	Width         int    `toml:"width"`
	Height        int    `toml:"height"`
	LogicalWidth  int    `toml:"logical_width"`
	LogicalHeight int    `toml:"logical_height"`
	TPS           int    `toml:"tps"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console, json
}

// ImpactConfig 三个弹簧振子的常数
type ImpactConfig struct {
	MaxDelta        float64 `toml:"max_delta"` // 单帧 dt 上限（秒）
	TiltStiffness   float64 `toml:"tilt_stiffness"`
	TiltDamping     float64 `toml:"tilt_damping"`
	OffsetStiffness float64 `toml:"offset_stiffness"`
	OffsetDamping   float64 `toml:"offset_damping"`
	RotStiffness    float64 `toml:"rotation_stiffness"`
	RotDamping      float64 `toml:"rotation_damping"`
	BreathFrequency float64 `toml:"breath_frequency"`
	BreathAmplitude float64 `toml:"breath_amplitude"`
}

type ShakeConfig struct {
	MaxOffset    float64 `toml:"max_offset"`    // trauma=1 时的偏移（平面像素）
	ImpulseDecay float64 `toml:"impulse_decay"` // 冲击向量指数衰减率（1/秒）
	Threshold    float64 `toml:"threshold"`     // 低于该值视为结束
	Light        float64 `toml:"light"`
	Heavy        float64 `toml:"heavy"`
	DefaultDecay float64 `toml:"default_decay"`
}

type FlashConfig struct {
	RedAlpha   float64 `toml:"red_alpha"`
	WhiteAlpha float64 `toml:"white_alpha"`
}

type AssetsConfig struct {
	EffectsPath string `toml:"effects_path"`
	MovesPath   string `toml:"moves_path"`
}

type StorageConfig struct {
	AppName string `toml:"app_name"`
	Enabled bool   `toml:"enabled"`
}

// LoadTuning 读取 TOML 配置，缺省字段使用 defaults()
func LoadTuning(path string) (*Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultTuning()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate 检查会导致数值发散的配置
func (c *Tuning) Validate() error {
	if c.Impact.MaxDelta <= 0 {
		return fmt.Errorf("impact.max_delta must be positive")
	}
	if c.Impact.TiltDamping*c.Impact.MaxDelta >= 1 ||
		c.Impact.OffsetDamping*c.Impact.MaxDelta >= 1 ||
		c.Impact.RotDamping*c.Impact.MaxDelta >= 1 {
		return fmt.Errorf("damping * max_delta must stay below 1")
	}
	if c.Window.LogicalWidth <= 0 || c.Window.LogicalHeight <= 0 {
		return fmt.Errorf("window logical size must be positive")
	}
	if c.Shake.Threshold <= 0 {
		return fmt.Errorf("shake.threshold must be positive")
	}
	return nil
}

// DefaultTuning 返回内置默认配置
func DefaultTuning() *Tuning {
	return &Tuning{
		Window: WindowConfig{
			Title:         "combatfx sandbox",
			Width:         1280,
			Height:        720,
			LogicalWidth:  1280,
			LogicalHeight: 720,
			TPS:           60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Impact: DefaultImpactConfig(),
		Shake: ShakeConfig{
			MaxOffset:    12,
			ImpulseDecay: 8,
			Threshold:    0.001,
			Light:        0.3,
			Heavy:        0.8,
			DefaultDecay: 1.5,
		},
		Flash: FlashConfig{
			RedAlpha:   0.5,
			WhiteAlpha: 0.8,
		},
		Assets: AssetsConfig{
			EffectsPath: "data/effects.yaml",
			MovesPath:   "data/moves.yaml",
		},
		Storage: StorageConfig{
			AppName: "combatfx",
			Enabled: true,
		},
	}
}

// DefaultImpactConfig 调好的手感参数
func DefaultImpactConfig() ImpactConfig {
	return ImpactConfig{
		MaxDelta:        0.033,
		TiltStiffness:   25,
		TiltDamping:     6,
		OffsetStiffness: 10,
		OffsetDamping:   5,
		RotStiffness:    45,
		RotDamping:      6,
		BreathFrequency: 3.5,
		BreathAmplitude: 0.02,
	}
}
