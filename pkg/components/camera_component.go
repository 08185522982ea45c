package components

import "github.com/gonewx/combatfx/pkg/utils"

// CameraComponent 摄像机
//
// Translation 为摄像机在战斗平面中的平移(像素)，渲染层整体减去该偏移。
type CameraComponent struct {
	Translation utils.Vec2
}

// ActiveCameraComponent 标记当前生效的摄像机，屏幕震动只作用在它上面
type ActiveCameraComponent struct{}

// CameraShakeComponent 摄像机震动状态
//
// 首次收到震动/冲击事件时挂到摄像机上，同时记录 BaseTranslation；
// Trauma 与 Impulse 都低于阈值后摄像机精确回到 BaseTranslation，组件被移除。
type CameraShakeComponent struct {
	Trauma float64 // [0, 1]
	Decay  float64 // 每秒线性衰减量

	Impulse      utils.Vec2 // 冲击向量(像素)，独立指数衰减
	ImpulseDecay float64    // 指数衰减率(1/秒)

	Offset          utils.Vec2 // 本帧实际偏移
	BaseTranslation utils.Vec2
}
