package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/combatfx/internal/particle"
	"github.com/gonewx/combatfx/pkg/utils"
)

// EffectKind 特效种类标签，作为配方表的键
type EffectKind string

// 内置特效种类
const (
	EffectFire            EffectKind = "fire"
	EffectIce             EffectKind = "ice"
	EffectLightning       EffectKind = "lightning"
	EffectHeal            EffectKind = "heal"
	EffectHit             EffectKind = "hit"
	EffectCoin            EffectKind = "coin"
	EffectImpactSpark     EffectKind = "impact_spark"
	EffectWolfSlash       EffectKind = "wolf_slash"
	EffectSilkTrail       EffectKind = "silk_trail"
	EffectVolley          EffectKind = "volley"
	EffectLightningStrike EffectKind = "lightning_strike"
	EffectPlaceholder     EffectKind = "placeholder"
)

// ParticleShape 粒子绘制形状
type ParticleShape string

const (
	ShapeCircle ParticleShape = "circle"
	ShapeSquare ParticleShape = "square"
	ShapeLine   ParticleShape = "line"
	ShapeBlade  ParticleShape = "blade"
)

// ErrInvalidRecipe 表示配方数值不合法
var ErrInvalidRecipe = errors.New("invalid effect recipe")

// EmitterRecipe 持续发射器参数
type EmitterRecipe struct {
	// Rate 每秒发射数量
	Rate float64 `yaml:"rate"`
	// Duration 发射器存活时间（秒），0 表示不按时间结束
	// 非循环发射器的 Duration 与 MaxCount 至少要有一个大于 0
	Duration float64 `yaml:"duration"`
	// MaxCount 非循环发射器的总发射上限，0 表示不限
	MaxCount int `yaml:"maxCount"`
	// Looping 为 true 时只能被外部销毁
	Looping bool `yaml:"looping"`
}

// EffectRecipe 一种视觉预设的纯数据描述
//
// 生成粒子时，各个区间字段独立均匀采样。
// 角度为战斗平面中的弧度（Y 轴向上，π/2 朝上）。
type EffectRecipe struct {
	Kind EffectKind `yaml:"-"`

	Lifetime      particle.Range `yaml:"lifetime"`
	Size          particle.Range `yaml:"size"`
	EndSizeScale  float64        `yaml:"endSizeScale"`
	StartColor    utils.Color    `yaml:"startColor"`
	EndColor      utils.Color    `yaml:"endColor"`
	Speed         particle.Range `yaml:"speed"`
	Angle         particle.Range `yaml:"angle"`
	Gravity       utils.Vec2     `yaml:"gravity"`
	RotationSpeed particle.Range `yaml:"rotationSpeed"`
	Shape         ParticleShape  `yaml:"shape"`

	// AlignToVelocity 速度超过阈值时让旋转跟随速度方向
	AlignToVelocity bool `yaml:"alignToVelocity"`

	// Orchestrated 为 true 时由 VfxOrchestrator 驱动，而不是简单物理积分
	Orchestrated bool `yaml:"orchestrated"`

	// BurstCount 请求未指定数量时的默认爆发数量
	BurstCount int `yaml:"burstCount"`

	Emitter EmitterRecipe `yaml:"emitter"`
}

// Validate 验证配方有效性
func (r EffectRecipe) Validate() error {
	if r.Lifetime.Min <= 0 {
		return fmt.Errorf("%w: %s: lifetime must be positive, got %v", ErrInvalidRecipe, r.Kind, r.Lifetime)
	}
	if r.Size.Min < 0 {
		return fmt.Errorf("%w: %s: size must be non-negative, got %v", ErrInvalidRecipe, r.Kind, r.Size)
	}
	if r.EndSizeScale < 0 {
		return fmt.Errorf("%w: %s: endSizeScale must be non-negative", ErrInvalidRecipe, r.Kind)
	}
	if r.Emitter.Rate < 0 || r.Emitter.Duration < 0 || r.Emitter.MaxCount < 0 {
		return fmt.Errorf("%w: %s: emitter values must be non-negative", ErrInvalidRecipe, r.Kind)
	}
	if r.Emitter.Rate > 0 && !r.Emitter.Looping && r.Emitter.Duration == 0 && r.Emitter.MaxCount == 0 {
		return fmt.Errorf("%w: %s: non-looping emitter needs a duration or maxCount", ErrInvalidRecipe, r.Kind)
	}
	if r.BurstCount < 0 {
		return fmt.Errorf("%w: %s: burstCount must be non-negative", ErrInvalidRecipe, r.Kind)
	}
	switch r.Shape {
	case ShapeCircle, ShapeSquare, ShapeLine, ShapeBlade:
	default:
		return fmt.Errorf("%w: %s: unknown shape %q", ErrInvalidRecipe, r.Kind, r.Shape)
	}
	return nil
}

// RecipeTable 特效种类 → 配方 的只读注册表
//
// 启动时构建一次，之后只做查找。查不到的种类返回占位配方，
// 保证一次生成请求不会因为缺少预设而失败。
type RecipeTable struct {
	recipes     map[EffectKind]EffectRecipe
	placeholder EffectRecipe
}

// NewRecipeTable 由配方列表构建注册表，逐条校验
func NewRecipeTable(recipes map[EffectKind]EffectRecipe) (*RecipeTable, error) {
	t := &RecipeTable{
		recipes:     make(map[EffectKind]EffectRecipe, len(recipes)),
		placeholder: placeholderRecipe(),
	}
	for kind, r := range recipes {
		r.Kind = kind
		if r.EndSizeScale == 0 {
			r.EndSizeScale = 0.3
		}
		if r.Shape == "" {
			r.Shape = ShapeCircle
		}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		t.recipes[kind] = r
	}
	if p, ok := t.recipes[EffectPlaceholder]; ok {
		t.placeholder = p
	}
	return t, nil
}

// Lookup 查找配方；第二个返回值为 false 时返回的是占位配方
func (t *RecipeTable) Lookup(kind EffectKind) (EffectRecipe, bool) {
	if t != nil {
		if r, ok := t.recipes[kind]; ok {
			return r, true
		}
	}
	p := placeholderRecipe()
	if t != nil {
		p = t.placeholder
	}
	p.Kind = kind
	return p, false
}

// Kinds 返回所有已注册的种类（有序）
func (t *RecipeTable) Kinds() []EffectKind {
	kinds := make([]EffectKind, 0, len(t.recipes))
	for k := range t.recipes {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Len 返回已注册配方数量
func (t *RecipeTable) Len() int { return len(t.recipes) }

// effectRecipesFile 配方文件结构
//
// 配置文件位置: data/effects.yaml
type effectRecipesFile struct {
	Effects map[EffectKind]EffectRecipe `yaml:"effects"`
}

// LoadEffectRecipes 加载特效配方
//
// 文件中的条目覆盖同名的内置配方，未出现的种类保留内置值。
//
// 参数:
//   - path: 配置文件路径（如 "data/effects.yaml"）
func LoadEffectRecipes(path string) (*RecipeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read effect recipes: %w", err)
	}
	return ParseEffectRecipes(data)
}

// ParseEffectRecipes 从 YAML 字节解析配方并与内置配方合并
func ParseEffectRecipes(data []byte) (*RecipeTable, error) {
	var file effectRecipesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse effect recipes: %w", err)
	}

	merged := DefaultEffectRecipes()
	for kind, r := range file.Effects {
		merged[kind] = r
	}

	table, err := NewRecipeTable(merged)
	if err != nil {
		return nil, fmt.Errorf("invalid effect recipes: %w", err)
	}
	return table, nil
}

// DefaultRecipeTable 仅包含内置配方的注册表
func DefaultRecipeTable() *RecipeTable {
	t, err := NewRecipeTable(DefaultEffectRecipes())
	if err != nil {
		// 内置配方在测试中全部校验过
		panic(err)
	}
	return t
}

// placeholderRecipe 缺少预设时使用的洋红色小圆点
func placeholderRecipe() EffectRecipe {
	return EffectRecipe{
		Kind:          EffectPlaceholder,
		Lifetime:      particle.Between(0.3, 0.5),
		Size:          particle.Between(6, 10),
		EndSizeScale:  0.3,
		StartColor:    utils.RGBA(1, 0, 1, 1),
		EndColor:      utils.RGBA(1, 0, 1, 0),
		Speed:         particle.Between(20, 60),
		Angle:         particle.Between(0, 2*math.Pi),
		RotationSpeed: particle.Fixed(0),
		Shape:         ShapeCircle,
		BurstCount:    4,
		Emitter:       EmitterRecipe{Rate: 10, Duration: 0.5},
	}
}

// DefaultEffectRecipes 内置视觉预设
func DefaultEffectRecipes() map[EffectKind]EffectRecipe {
	return map[EffectKind]EffectRecipe{
		EffectFire: {
			Lifetime:      particle.Between(0.5, 1.0),
			Size:          particle.Between(20, 50),
			StartColor:    utils.RGBA(1, 0.8, 0.2, 1),
			EndColor:      utils.RGBA(1, 0.3, 0, 0),
			Speed:         particle.Between(50, 120),
			Angle:         particle.Between(math.Pi/3, 2*math.Pi/3),
			Gravity:       utils.Vec2{X: 0, Y: 80},
			RotationSpeed: particle.Between(-5, 5),
			Shape:         ShapeCircle,
			BurstCount:    20,
			Emitter:       EmitterRecipe{Rate: 40, Duration: 1.5},
		},
		EffectIce: {
			Lifetime:      particle.Between(0.4, 0.8),
			Size:          particle.Between(5, 15),
			StartColor:    utils.RGBA(0.8, 0.95, 1, 1),
			EndColor:      utils.RGBA(0.5, 0.8, 1, 0),
			Speed:         particle.Between(30, 80),
			Angle:         particle.Between(0, 2*math.Pi),
			Gravity:       utils.Vec2{X: 0, Y: -30},
			RotationSpeed: particle.Between(-3, 3),
			Shape:         ShapeSquare,
			BurstCount:    15,
			Emitter:       EmitterRecipe{Rate: 30, Duration: 1},
		},
		EffectLightning: {
			Lifetime:      particle.Between(0.1, 0.3),
			Size:          particle.Between(3, 8),
			StartColor:    utils.RGBA(0.8, 0.8, 1, 1),
			EndColor:      utils.RGBA(0.5, 0.5, 1, 0),
			Speed:         particle.Between(100, 200),
			Angle:         particle.Between(0, 2*math.Pi),
			RotationSpeed: particle.Between(-10, 10),
			Shape:         ShapeLine,
			BurstCount:    12,
			Emitter:       EmitterRecipe{Rate: 60, Duration: 0.5},
		},
		EffectHeal: {
			Lifetime:      particle.Between(0.5, 1.0),
			Size:          particle.Between(5, 12),
			StartColor:    utils.RGBA(1, 0.95, 0.3, 1),
			EndColor:      utils.RGBA(0.6, 1, 0.4, 0),
			Speed:         particle.Between(30, 60),
			Angle:         particle.Between(math.Pi/2-0.5, math.Pi/2+0.5),
			Gravity:       utils.Vec2{X: 0, Y: 50},
			RotationSpeed: particle.Fixed(0),
			Shape:         ShapeCircle,
			BurstCount:    12,
			Emitter:       EmitterRecipe{Rate: 20, Duration: 1.2},
		},
		EffectHit: {
			Lifetime:      particle.Between(0.3, 0.5),
			Size:          particle.Between(5, 15),
			StartColor:    utils.RGBA(1, 0.2, 0.2, 1),
			EndColor:      utils.RGBA(0.6, 0, 0, 0),
			Speed:         particle.Between(80, 150),
			Angle:         particle.Between(0, 2*math.Pi),
			Gravity:       utils.Vec2{X: 0, Y: -100},
			RotationSpeed: particle.Between(-8, 8),
			Shape:         ShapeSquare,
			BurstCount:    10,
			Emitter:       EmitterRecipe{Rate: 30, Duration: 0.3},
		},
		EffectCoin: {
			Lifetime:      particle.Between(0.6, 1.0),
			Size:          particle.Between(8, 15),
			StartColor:    utils.RGBA(1, 0.85, 0.2, 1),
			EndColor:      utils.RGBA(1, 0.7, 0.1, 0),
			Speed:         particle.Between(40, 80),
			Angle:         particle.Between(math.Pi/2-0.6, math.Pi/2+0.6),
			Gravity:       utils.Vec2{X: 0, Y: -80},
			RotationSpeed: particle.Between(-15, 15),
			Shape:         ShapeCircle,
			BurstCount:    8,
			Emitter:       EmitterRecipe{Rate: 15, Duration: 0.6},
		},
		EffectImpactSpark: {
			Lifetime:        particle.Between(0.15, 0.35),
			Size:            particle.Between(4, 10),
			StartColor:      utils.RGBA(1, 1, 0.8, 1),
			EndColor:        utils.RGBA(1, 0.5, 0.1, 0),
			Speed:           particle.Between(150, 300),
			Angle:           particle.Between(0, 2*math.Pi),
			Gravity:         utils.Vec2{X: 0, Y: -200},
			RotationSpeed:   particle.Fixed(0),
			Shape:           ShapeLine,
			AlignToVelocity: true,
			BurstCount:      5,
		},
		EffectWolfSlash: {
			Lifetime:        particle.Between(0.2, 0.35),
			Size:            particle.Between(30, 60),
			EndSizeScale:    1.4,
			StartColor:      utils.RGBA(0.9, 0.95, 1, 0.9),
			EndColor:        utils.RGBA(0.4, 0.6, 1, 0),
			Speed:           particle.Between(20, 60),
			Angle:           particle.Between(0, 2*math.Pi),
			RotationSpeed:   particle.Between(-2, 2),
			Shape:           ShapeBlade,
			AlignToVelocity: true,
			BurstCount:      3,
		},
		EffectSilkTrail: {
			Lifetime:      particle.Between(0.8, 1.2),
			Size:          particle.Between(3, 6),
			EndSizeScale:  0.8,
			StartColor:    utils.RGBA(0.95, 0.95, 0.95, 0.8),
			EndColor:      utils.RGBA(0.8, 0.8, 0.8, 0),
			Speed:         particle.Between(0, 10),
			Angle:         particle.Between(0, 2*math.Pi),
			RotationSpeed: particle.Fixed(0),
			Shape:         ShapeLine,
			BurstCount:    2,
		},
		EffectVolley: {
			Lifetime:      particle.Fixed(2.2),
			Size:          particle.Fixed(32),
			EndSizeScale:  1,
			StartColor:    utils.RGBA(0.7, 0.95, 1, 1),
			EndColor:      utils.RGBA(1, 1, 1, 1),
			Speed:         particle.Fixed(0),
			Angle:         particle.Fixed(0),
			RotationSpeed: particle.Fixed(0),
			Shape:         ShapeBlade,
			Orchestrated:  true,
			BurstCount:    12,
		},
		EffectLightningStrike: {
			Lifetime:      particle.Fixed(0.6),
			Size:          particle.Fixed(4),
			EndSizeScale:  1,
			StartColor:    utils.RGBA(0.85, 0.9, 1, 1),
			EndColor:      utils.RGBA(0.5, 0.6, 1, 0),
			Speed:         particle.Fixed(0),
			Angle:         particle.Fixed(0),
			RotationSpeed: particle.Fixed(0),
			Shape:         ShapeLine,
			Orchestrated:  true,
			BurstCount:    1,
		},
	}
}
