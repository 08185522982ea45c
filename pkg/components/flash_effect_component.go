package components

import "github.com/gonewx/combatfx/pkg/utils"

// ScreenFlashComponent 全屏闪光叠加层
//
// Alpha 在 Duration 内从 StartAlpha 线性变化到 EndAlpha，结束后实体被销毁。
//
// 使用场景：受击红闪、顿帧白闪、落雷白闪
type ScreenFlashComponent struct {
	Color      utils.Color
	StartAlpha float64
	EndAlpha   float64

	// Duration 持续时间（秒）
	Duration float64

	// Elapsed 已经过的时间（秒）
	Elapsed float64

	// Alpha 本帧透明度
	Alpha float64
}
