package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// MoveKind 招式种类（外部"播放这个招式"命令中的语义标签）
type MoveKind string

// 内置招式
const (
	MoveHit               MoveKind = "hit"
	MoveDeath             MoveKind = "death"
	MoveAttack            MoveKind = "attack"
	MoveDefense           MoveKind = "defense"
	MoveDash              MoveKind = "dash"
	MoveWolfBite          MoveKind = "wolf_bite"
	MoveWolfPounce        MoveKind = "wolf_pounce"
	MoveSiriusFrenzy      MoveKind = "sirius_frenzy"
	MoveSkitterApproach   MoveKind = "skitter_approach"
	MoveSpiritMultiShadow MoveKind = "spirit_multi_shadow"
	MoveDemonCast         MoveKind = "demon_cast"
	MoveAscend            MoveKind = "ascend"
	MoveCultivatorCombo   MoveKind = "cultivator_combo"
	MoveTwinStrike        MoveKind = "twin_strike"
	MoveBossRoar          MoveKind = "boss_roar"
	MoveBossFrenzy        MoveKind = "boss_frenzy"
)

// ErrUnknownMove 表示配置或命令引用了未注册的招式
var ErrUnknownMove = errors.New("unknown move")

// MoveSpec 招式的可调参数
type MoveSpec struct {
	// Duration 动作计时器初值（秒）。0 表示纯冲量反应，不进入动作状态
	Duration float64 `yaml:"duration"`

	// Protected 为 true 时，动作进行中的新命令被忽略
	Protected bool `yaml:"protected"`

	// StageThresholds 按已用时间比例触发的阶段阈值（升序，(0,1)）
	StageThresholds []float64 `yaml:"stageThresholds"`

	// StageEffect 每次跨过阈值时请求的二次特效
	StageEffect EffectKind `yaml:"stageEffect"`

	// StageBurst 二次特效的爆发数量
	StageBurst int `yaml:"stageBurst"`

	// Speed 追击类动作的目标速度（世界单位/秒），0 表示使用内置值
	Speed float64 `yaml:"speed"`

	// StrikeHold 距离门控动作到位后的停留时间（秒）
	StrikeHold float64 `yaml:"strikeHold"`
}

// Validate 验证招式参数
func (m MoveSpec) Validate(kind MoveKind) error {
	if m.Duration < 0 {
		return fmt.Errorf("move %s: negative duration", kind)
	}
	if m.StageBurst < 0 || m.Speed < 0 || m.StrikeHold < 0 {
		return fmt.Errorf("move %s: negative burst, speed or hold", kind)
	}
	prev := 0.0
	for _, th := range m.StageThresholds {
		if th <= prev || th >= 1 {
			return fmt.Errorf("move %s: stage thresholds must be ascending within (0,1), got %v", kind, m.StageThresholds)
		}
		prev = th
	}
	return nil
}

// MoveTable 招式种类 → 参数 的只读表
type MoveTable struct {
	moves map[MoveKind]MoveSpec
}

// Lookup 查找招式
func (t *MoveTable) Lookup(kind MoveKind) (MoveSpec, error) {
	if t == nil {
		return MoveSpec{}, fmt.Errorf("%w: %s", ErrUnknownMove, kind)
	}
	spec, ok := t.moves[kind]
	if !ok {
		return MoveSpec{}, fmt.Errorf("%w: %s", ErrUnknownMove, kind)
	}
	return spec, nil
}

// Kinds 返回所有招式（有序）
func (t *MoveTable) Kinds() []MoveKind {
	kinds := make([]MoveKind, 0, len(t.moves))
	for k := range t.moves {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// DefaultMoveTable 内置招式表
func DefaultMoveTable() *MoveTable {
	return &MoveTable{moves: defaultMoves()}
}

func defaultMoves() map[MoveKind]MoveSpec {
	return map[MoveKind]MoveSpec{
		MoveHit:     {},
		MoveDeath:   {},
		MoveAttack:  {},
		MoveDefense: {},
		// Dash 的计时器在触发时按距离计算：距离/速度 + StrikeHold
		MoveDash:              {Speed: 25, StrikeHold: 0.5, StageEffect: EffectWolfSlash, StageBurst: 3},
		MoveWolfBite:          {Duration: 0.8, Speed: 12},
		MoveWolfPounce:        {Duration: 0.8, StageEffect: EffectImpactSpark, StageBurst: 8},
		MoveSiriusFrenzy:      {Duration: 0.9, Protected: true, StageEffect: EffectWolfSlash, StageBurst: 2},
		MoveSkitterApproach:   {Duration: 1.2, Speed: 11, StageEffect: EffectSilkTrail, StageBurst: 2},
		MoveSpiritMultiShadow: {Duration: 1.0, Protected: true, Speed: 28},
		MoveDemonCast:         {Duration: 0.6},
		MoveAscend:            {Duration: 3.5, Protected: true},
		MoveCultivatorCombo:   {Duration: 0.5, Protected: true, StageEffect: EffectWolfSlash, StageBurst: 8},
		MoveTwinStrike: {
			Duration:        0.9,
			Protected:       true,
			Speed:           18,
			StageThresholds: []float64{0.3, 0.6},
			StageEffect:     EffectImpactSpark,
			StageBurst:      5,
		},
		MoveBossRoar:   {Duration: 1.2},
		MoveBossFrenzy: {Duration: 0.8},
	}
}

// moveTableFile 招式配置文件结构
//
// 配置文件位置: data/moves.yaml
type moveTableFile struct {
	Moves map[MoveKind]MoveSpec `yaml:"moves"`
}

// LoadMoveTable 加载招式表，文件条目覆盖内置值
//
// 文件中出现未知招式时返回 ErrUnknownMove：新增招式需要在编排器中实现对应的动作逻辑。
func LoadMoveTable(path string) (*MoveTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read move table: %w", err)
	}
	return ParseMoveTable(data)
}

// ParseMoveTable 从 YAML 字节解析招式表
func ParseMoveTable(data []byte) (*MoveTable, error) {
	var file moveTableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse move table: %w", err)
	}

	moves := defaultMoves()
	for kind, spec := range file.Moves {
		if _, known := moves[kind]; !known {
			return nil, fmt.Errorf("invalid move table: %w: %s", ErrUnknownMove, kind)
		}
		if err := spec.Validate(kind); err != nil {
			return nil, fmt.Errorf("invalid move table: %w", err)
		}
		moves[kind] = spec
	}
	return &MoveTable{moves: moves}, nil
}
