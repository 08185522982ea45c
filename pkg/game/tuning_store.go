package game

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// PlayerTuning 玩家可调的观感设置
//
// 与 data/combatfx.toml 不同，这些设置跟随玩家保存，不随发布包分发。
type PlayerTuning struct {
	ShakeScale      float64 `yaml:"shakeScale"`      // 震屏强度倍率 0.0 ~ 1.0
	FlashEnabled    bool    `yaml:"flashEnabled"`    // 全屏闪光开关
	ParticleDensity float64 `yaml:"particleDensity"` // 粒子数量倍率 0.25 ~ 1.0
}

// DefaultPlayerTuning 返回默认设置
func DefaultPlayerTuning() *PlayerTuning {
	return &PlayerTuning{
		ShakeScale:      1,
		FlashEnabled:    true,
		ParticleDensity: 1,
	}
}

// 存储路径常量
const (
	tuningObject   = "tuning"
	tuningProperty = "player"

	minParticleDensity = 0.25
)

// TuningStore 玩家观感设置的加载与保存
type TuningStore struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存）
	tuning       *PlayerTuning
	logger       *zap.Logger
}

// NewTuningStore 创建设置存储并尝试加载已保存的设置
//
// 加载失败不是致命错误：记录警告并使用默认值。
func NewTuningStore(gdataManager *gdata.Manager, logger *zap.Logger) *TuningStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	ts := &TuningStore{
		gdataManager: gdataManager,
		tuning:       DefaultPlayerTuning(),
		logger:       logger.Named("tuning"),
	}
	if err := ts.Load(); err != nil {
		ts.logger.Warn("failed to load player tuning, using defaults", zap.Error(err))
	}
	return ts
}

// Load 从 gdata 加载设置
//
// gdataManager 为 nil 或尚未保存过时使用默认值
func (ts *TuningStore) Load() error {
	if ts.gdataManager == nil {
		ts.tuning = DefaultPlayerTuning()
		return nil
	}
	if !ts.gdataManager.ObjectPropExists(tuningObject, tuningProperty) {
		ts.tuning = DefaultPlayerTuning()
		return nil
	}

	data, err := ts.gdataManager.LoadObjectProp(tuningObject, tuningProperty)
	if err != nil {
		ts.tuning = DefaultPlayerTuning()
		return fmt.Errorf("failed to load tuning: %w", err)
	}

	loaded := DefaultPlayerTuning()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		ts.tuning = DefaultPlayerTuning()
		return fmt.Errorf("failed to unmarshal tuning: %w", err)
	}
	loaded.ShakeScale = clampUnit(loaded.ShakeScale)
	loaded.ParticleDensity = clampDensity(loaded.ParticleDensity)

	ts.tuning = loaded
	ts.logger.Debug("player tuning loaded")
	return nil
}

// Save 保存设置到 gdata，降级模式下直接返回 nil
func (ts *TuningStore) Save() error {
	if ts.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(ts.tuning)
	if err != nil {
		return fmt.Errorf("failed to marshal tuning: %w", err)
	}
	if err := ts.gdataManager.SaveObjectProp(tuningObject, tuningProperty, data); err != nil {
		return fmt.Errorf("failed to save tuning: %w", err)
	}

	ts.logger.Debug("player tuning saved")
	return nil
}

// Tuning 返回当前设置
func (ts *TuningStore) Tuning() *PlayerTuning {
	return ts.tuning
}

// Persistent 是否能持久化
func (ts *TuningStore) Persistent() bool {
	return ts.gdataManager != nil
}

// SetShakeScale 设置震屏倍率，限制在 0.0 ~ 1.0
//
// 仅修改内存，需调用 Save() 持久化（以下 Set 方法相同）
func (ts *TuningStore) SetShakeScale(scale float64) {
	ts.tuning.ShakeScale = clampUnit(scale)
}

// SetFlashEnabled 设置闪光开关
func (ts *TuningStore) SetFlashEnabled(enabled bool) {
	ts.tuning.FlashEnabled = enabled
}

// SetParticleDensity 设置粒子密度，限制在 0.25 ~ 1.0
func (ts *TuningStore) SetParticleDensity(density float64) {
	ts.tuning.ParticleDensity = clampDensity(density)
}

func clampUnit(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampDensity(v float64) float64 {
	if v != v || v < minParticleDensity {
		return minParticleDensity
	}
	if v > 1 {
		return 1
	}
	return v
}
