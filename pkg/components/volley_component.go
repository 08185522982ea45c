package components

import "github.com/gonewx/combatfx/pkg/utils"

// VolleyComponent 万剑类编排特效的逐粒子状态
//
// 阶段副作用(召唤轻震、命中火花与重震)通过一次性标记保证每个粒子只触发一次。
type VolleyComponent struct {
	Elapsed  float64
	StartPos utils.Vec2

	LockPos      utils.Vec2
	LockCaptured bool

	// LockHeading 进入锁定阶段时的朝向，转向目标从这里开始
	LockHeading     float64
	HeadingCaptured bool

	CallShakeFired bool
	ImpactFired    bool

	// Phase 当前阶段，仅用于调试与渲染层选择贴图
	Phase int
	// Progress 本地进度 [0, 1]
	Progress float64
}

// Particle3DComponent 与 2D 粒子同路径的 3D 伴随物体
//
// 由编排器用与 2D 相同的本地进度计算，保证两种表现不脱节。
type Particle3DComponent struct {
	Position utils.Vec3
	Forward  utils.Vec3 // 朝向(单位向量，跟随速度方向)
	Scale    float64
	Visible  bool

	// 上一帧位置，用于推导朝向
	PrevPosition utils.Vec3
	HasPrev      bool
}
