package components

import "github.com/gonewx/combatfx/pkg/utils"

// AfterImageComponent 残影配置
//
// 单位移动速度超过 SpeedThreshold 时，每隔 SnapshotInterval 留下一个残影。
// ForceSnapshot 由顿帧等事件置位，下一帧无条件留一个残影。
type AfterImageComponent struct {
	SpeedThreshold   float64 // 世界单位/秒
	SnapshotInterval float64
	GhostTTL         float64
	Color            utils.Color

	Timer         float64
	Active        bool
	ForceSnapshot bool

	LastPosition utils.Vec3
	HasLast      bool
}

// GhostComponent 残影实例，寿命由 LifetimeComponent 管理
type GhostComponent struct {
	Translation utils.Vec3
	Roll        float64
	Color       utils.Color
	Alpha       float64
}
