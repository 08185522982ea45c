package components

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/combatfx/pkg/utils"
)

// RenderTransformComponent 每帧输出给渲染层的最终变换
//
// Translation 为世界坐标；GeoM 为对应的 2D 屏幕变换
// （倾斜旋转 · 回旋缩放 · 平移），渲染层直接用于 DrawImageOptions。
type RenderTransformComponent struct {
	Translation utils.Vec3
	Roll        float64 // 屏幕平面内的倾斜角（弧度）
	Yaw         float64 // 绕竖直轴的回旋角（弧度）
	GeoM        ebiten.GeoM
}
