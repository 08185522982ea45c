// Package utils 提供战斗表现层常用的数学与坐标工具。
//
// coordinates.go 是唯一定义坐标缩放常量的地方。
//
// # 坐标系统概述
//
//   - **世界坐标**：3D 表现层的坐标，单位为"世界单位"。角色站位如 (3.5, 0.8, 0)。
//   - **战斗平面坐标**：逻辑 2D 平面，单位为像素，原点在画面中心，Y 轴向上。
//     粒子、冲击火花等 2D 特效都在这个平面上模拟。
//   - **屏幕坐标**：固定逻辑分辨率（默认 1280x720）下的像素坐标，原点在左上角，
//     Y 轴向下。窗口缩放由 ebiten 的 Layout 处理，与这里无关。
//
// # 核心转换公式
//
//	plane  = world.XY * PixelsPerUnit
//	screen = (W/2 + plane.X, H/2 - plane.Y)
//	ground = (plane.X / PixelsPerUnit, height, -plane.Y / PixelsPerUnit)
//
// ground 用于"平面路径 + 高度弧线"的 3D 伴随物体（如万剑的飞剑模型），
// 平面 Y 映射为纵深 -Z，高度单独给出。
package utils

import (
	"errors"
	"math"
)

// PixelsPerUnit 每个世界单位对应的战斗平面像素数
const PixelsPerUnit = 100.0

// 默认逻辑分辨率
const (
	DefaultLogicalWidth  = 1280
	DefaultLogicalHeight = 720
)

// ErrDegenerateBridge 表示桥接器的缩放或分辨率无效
var ErrDegenerateBridge = errors.New("coordinate bridge has non-positive scale or resolution")

// CoordinateBridge 在世界坐标、战斗平面坐标、屏幕坐标之间做无状态转换
//
// 值类型，可以随意复制；所有方法都是纯函数。
type CoordinateBridge struct {
	PixelsPerUnit float64
	LogicalWidth  float64
	LogicalHeight float64
}

// DefaultBridge 返回 100 px/unit、1280x720 的桥接器
func DefaultBridge() CoordinateBridge {
	return CoordinateBridge{
		PixelsPerUnit: PixelsPerUnit,
		LogicalWidth:  DefaultLogicalWidth,
		LogicalHeight: DefaultLogicalHeight,
	}
}

// NewCoordinateBridge 使用指定逻辑分辨率创建桥接器
func NewCoordinateBridge(width, height int) (CoordinateBridge, error) {
	if width <= 0 || height <= 0 {
		return CoordinateBridge{}, ErrDegenerateBridge
	}
	return CoordinateBridge{
		PixelsPerUnit: PixelsPerUnit,
		LogicalWidth:  float64(width),
		LogicalHeight: float64(height),
	}, nil
}

func (b CoordinateBridge) scale() float64 {
	if b.PixelsPerUnit <= 0 || math.IsNaN(b.PixelsPerUnit) {
		return PixelsPerUnit
	}
	return b.PixelsPerUnit
}

// WorldToPlane 世界坐标 → 战斗平面坐标（忽略纵深 Z）
func (b CoordinateBridge) WorldToPlane(w Vec3) Vec2 {
	s := b.scale()
	return Vec2{X: w.X * s, Y: w.Y * s}
}

// PlaneToWorld 战斗平面坐标 → 世界坐标（Z 取 0），WorldToPlane 的逆
func (b CoordinateBridge) PlaneToWorld(p Vec2) Vec3 {
	return b.PlaneToWorldDepth(p, 0)
}

// PlaneToWorldDepth 战斗平面坐标 + 纵深 → 世界坐标
//
// 与 WorldToPlane 同一套约定：平面 X/Y 对应世界 X/Y，depth 落在 Z 上，
// 所以 WorldToPlane(PlaneToWorldDepth(p, d)) == p。
func (b CoordinateBridge) PlaneToWorldDepth(p Vec2, depth float64) Vec3 {
	s := b.scale()
	return Vec3{X: p.X / s, Y: p.Y / s, Z: depth}
}

// PlaneToScreen 战斗平面坐标 → 逻辑屏幕像素坐标
func (b CoordinateBridge) PlaneToScreen(p Vec2) (float64, float64) {
	return b.LogicalWidth/2 + p.X, b.LogicalHeight/2 - p.Y
}

// ScreenToPlane 逻辑屏幕像素坐标 → 战斗平面坐标
func (b CoordinateBridge) ScreenToPlane(sx, sy float64) Vec2 {
	return Vec2{X: sx - b.LogicalWidth/2, Y: b.LogicalHeight/2 - sy}
}

// WorldToScreen 世界坐标直接转为逻辑屏幕坐标
func (b CoordinateBridge) WorldToScreen(w Vec3) (float64, float64) {
	return b.PlaneToScreen(b.WorldToPlane(w))
}
