package components

import "github.com/gonewx/combatfx/pkg/utils"

// LightningBoltComponent 一道落雷的折线(战斗平面坐标)
type LightningBoltComponent struct {
	Points   []utils.Vec2
	Branches [][]utils.Vec2
	Color    utils.Color
	Width    float64
	Age      float64
	Lifetime float64
	Alpha    float64
}

// DecalComponent 地面焦痕，寿命由 LifetimeComponent 管理
type DecalComponent struct {
	Radius float64
	Color  utils.Color
}
