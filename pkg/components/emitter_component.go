package components

import (
	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/utils"
)

// EmitterComponent 持续发射器
//
// 每帧 Timer 累加 dt，Timer >= 1/Rate 时扣除一个间隔并生成一个粒子。
// 非循环发射器在 Elapsed >= Duration(Duration > 0) 或 EmittedCount >= MaxCount(MaxCount > 0)
// 时自行结束；循环发射器只能被外部销毁。
type EmitterComponent struct {
	Kind config.EffectKind

	Rate         float64
	Timer        float64
	MaxCount     int
	EmittedCount int
	Looping      bool
	Duration     float64
	Elapsed      float64

	// Owner 生成该发射器的实体；Owner 存活且有位置时发射器跟随其移动，
	// Owner 被移除后发射器随之结束
	Owner ecs.EntityID

	// Target 新粒子继承的目标
	Target ParticleTarget

	// VelocityOverride 非 nil 时覆盖配方中的速度/角度采样
	VelocityOverride *utils.Vec2

	// Finished 已结束并请求销毁
	Finished bool
}
