package components

import (
	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/utils"
)

// ActionType 正在执行的动作原型
type ActionType int

const (
	ActionNone ActionType = iota
	ActionDash
	ActionWolfBite
	ActionWolfPounce
	ActionSiriusFrenzy
	ActionSkitterApproach
	ActionSpiritMultiShadow
	ActionDemonCast
	ActionAscend
	ActionCultivatorCombo
	ActionTwinStrike
	ActionBossFrenzy
)

var actionTypeNames = [...]string{
	"none", "dash", "wolf_bite", "wolf_pounce", "sirius_frenzy", "skitter_approach",
	"spirit_multi_shadow", "demon_cast", "ascend", "cultivator_combo", "twin_strike", "boss_frenzy",
}

func (a ActionType) String() string {
	if a < 0 || int(a) >= len(actionTypeNames) {
		return "unknown"
	}
	return actionTypeNames[a]
}

// PhysicalImpactComponent 参战单位的冲击弹簧状态
//
// 三个相互独立的阻尼振子：
//   - 倾斜 TiltAmount（限制在 [-1, 1]）
//   - 位置偏移 CurrentOffset（相对 HomePosition，世界单位）
//   - 回旋 SpecialRotation（绕竖直轴，弧度）
//
// 动作状态机字段由 ChoreographerSystem 写入，积分由 PhysicalImpactSystem 完成。
// ActionTimer 为 0 即表示空闲，永远不为负。
type PhysicalImpactComponent struct {
	HomePosition   utils.Vec3
	CurrentOffset  utils.Vec3
	OffsetVelocity utils.Vec3

	TiltAmount   float64
	TiltVelocity float64

	SpecialRotation         float64
	SpecialRotationVelocity float64

	// 动作状态
	ActionType      ActionType
	ActionMove      config.MoveKind
	ActionTimer     float64
	ActionDuration  float64 // 当前阶段的计时器初值，用于计算进度
	ActionStage     int
	ActionDirection float64 // 1 向右（玩家），-1 向左（敌人）
	Protected       bool

	// 分阶段阈值（按已用时间比例），StageFired 为每个阈值的一次性标记
	StageThresholds []float64
	StageFired      []bool
	StageEffect     config.EffectKind
	StageBurst      int

	// 距离门控：触发时根据与目标的实时距离计算一次
	TargetOffsetDist float64
	TargetEntity     ecs.EntityID
	LastKnownTarget  utils.Vec3
	HasTarget        bool
	TargetVector     utils.Vec3 // 指向目标的单位向量（连招使用）
	MoveSpeed        float64

	TrailTimer float64

	// 以下为本帧动作叠加量，每帧由编排器重写
	OffsetDampingOverride float64 // 0 表示使用默认阻尼
	ActionTiltOffset      float64
	ActionPosOffset       utils.Vec3
	SuppressTilt          bool // 冲刺时不显示倾斜与回旋

	// IsActing 由模拟器每帧输出
	IsActing bool
}
