package components

import (
	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/utils"
)

// TargetMode 粒子目标的种类
type TargetMode int

const (
	TargetNone TargetMode = iota
	TargetPoint
	TargetEntity
	TargetGroup
)

// TargetMember 目标组中的一员：实体弱引用 + 生成请求时的快照位置
type TargetMember struct {
	Entity   ecs.EntityID
	Position utils.Vec2
}

// ParticleTarget 粒子目标(带标签的变体)
//
//   - TargetPoint: 固定平面坐标 Point
//   - TargetEntity: 单个实体 Entity，每帧按 ID 查找位置
//   - TargetGroup: 一组目标 Group，Index 为分配到的成员下标(轮询分配)
//
// 目标永远只是 ID，粒子不拥有目标实体。
type ParticleTarget struct {
	Mode   TargetMode
	Point  utils.Vec2
	Entity ecs.EntityID
	Group  []TargetMember
	Index  int
}

// ParticleComponent 单个粒子的运行时状态(纯数据)
//
// 位置存放在同一实体的 PositionComponent 中；ParticleSystem 是唯一修改
// 粒子物理状态的系统，其他系统只读取位置。
type ParticleComponent struct {
	Kind config.EffectKind

	// 运动
	Velocity utils.Vec2 // 像素/秒
	Gravity  utils.Vec2 // 像素/秒²

	// 旋转(弧度)
	Rotation        float64
	RotationSpeed   float64
	AlignToVelocity bool

	// 生命周期(秒)
	Age      float64
	Lifetime float64

	// 外观，按 Age/Lifetime 线性插值
	StartSize  float64
	EndSize    float64
	Size       float64
	StartColor utils.Color
	EndColor   utils.Color
	Color      utils.Color
	Shape      config.ParticleShape

	// 目标与重定向
	Target         ParticleTarget
	ResolvedTarget utils.Vec2 // 最近一次解析到的目标位置
	HasResolved    bool
	Fizzled        bool // 目标全部失效且没有可用的最后位置

	// Seed 每个粒子的随机种子 [0, 1)，编排器用它错开各粒子的进度
	Seed float64

	// Orchestrated 为 true 时位置由 VfxOrchestrator 按阶段函数给出
	Orchestrated bool
	// Hidden 编排粒子在本地进度 <= 0 时不显示
	Hidden bool

	// Expired 已请求销毁，保证每个粒子只销毁一次
	Expired bool

	// Emitter 产生该粒子的发射器(可能为 InvalidEntity)
	Emitter ecs.EntityID
}
