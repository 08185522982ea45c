// Package events 定义战斗表现层的入站请求、帧内请求队列和出站通知。
//
// 外部战斗逻辑与各系统都只向 Queue 追加请求；CombatScene 按固定顺序
// 在同一帧内取出并分发，保证本帧排队的冲量在本帧积分之前生效。
package events

import (
	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/utils"
)

// SpawnMode 生成方式
type SpawnMode int

const (
	// SpawnBurst 立即生成 Count 个粒子，不留下发射器
	SpawnBurst SpawnMode = iota
	// SpawnEmitter 创建持续发射器
	SpawnEmitter
)

// SpawnEffectRequest 特效生成请求
type SpawnEffectRequest struct {
	Kind   config.EffectKind
	Origin utils.Vec2 // 战斗平面坐标
	Count  int        // 0 表示使用配方的 BurstCount
	Mode   SpawnMode
	Target components.ParticleTarget

	// VelocityOverride 非 nil 时所有粒子使用该初速度
	VelocityOverride *utils.Vec2

	// Owner 发起者(发射器跟随它移动；编排特效的施法者)
	Owner ecs.EntityID
}

// Burst 构造爆发请求
func Burst(kind config.EffectKind, origin utils.Vec2, count int) SpawnEffectRequest {
	return SpawnEffectRequest{Kind: kind, Origin: origin, Count: count, Mode: SpawnBurst}
}

// Emitter 构造持续发射器请求
func Emitter(kind config.EffectKind, origin utils.Vec2) SpawnEffectRequest {
	return SpawnEffectRequest{Kind: kind, Origin: origin, Mode: SpawnEmitter}
}

// AtPoint 设置固定点目标
func (r SpawnEffectRequest) AtPoint(p utils.Vec2) SpawnEffectRequest {
	r.Target = components.ParticleTarget{Mode: components.TargetPoint, Point: p}
	return r
}

// AtEntity 设置单实体目标
func (r SpawnEffectRequest) AtEntity(id ecs.EntityID) SpawnEffectRequest {
	r.Target = components.ParticleTarget{Mode: components.TargetEntity, Entity: id}
	return r
}

// AtGroup 设置目标组，粒子按轮询分配到各成员
func (r SpawnEffectRequest) AtGroup(members []components.TargetMember) SpawnEffectRequest {
	r.Target = components.ParticleTarget{Mode: components.TargetGroup, Group: members}
	return r
}

// WithVelocity 设置初速度覆盖
func (r SpawnEffectRequest) WithVelocity(v utils.Vec2) SpawnEffectRequest {
	r.VelocityOverride = &v
	return r
}

// ScreenEffectKind 屏幕效果种类
type ScreenEffectKind int

const (
	ScreenShake ScreenEffectKind = iota
	ScreenFlash
	ScreenImpact
)

// ScreenEffectRequest 屏幕效果请求(Shake | Flash | Impact)
type ScreenEffectRequest struct {
	Kind ScreenEffectKind

	// Shake
	Trauma float64
	Decay  float64

	// Flash
	Color    utils.Color
	Duration float64

	// Impact: Impulse 为平面像素偏移，Duration 决定指数衰减速度
	Impulse utils.Vec2
}

// Shake 构造震动请求
func Shake(trauma, decay float64) ScreenEffectRequest {
	return ScreenEffectRequest{Kind: ScreenShake, Trauma: trauma, Decay: decay}
}

// LightShake 轻震
func LightShake() ScreenEffectRequest { return Shake(0.3, 1.5) }

// HeavyShake 重震
func HeavyShake() ScreenEffectRequest { return Shake(0.8, 1.5) }

// Flash 构造闪光请求，Color.A 为起始透明度
func Flash(color utils.Color, duration float64) ScreenEffectRequest {
	return ScreenEffectRequest{Kind: ScreenFlash, Color: color, Duration: duration}
}

// RedFlash 受击红闪
func RedFlash(duration float64) ScreenEffectRequest {
	return Flash(utils.RGBA(1, 0, 0, 0.5), duration)
}

// WhiteFlash 白闪
func WhiteFlash(duration float64) ScreenEffectRequest {
	return Flash(utils.RGBA(1, 1, 1, 0.8), duration)
}

// Impact 构造冲击请求
func Impact(impulse utils.Vec2, duration float64) ScreenEffectRequest {
	return ScreenEffectRequest{Kind: ScreenImpact, Impulse: impulse, Duration: duration}
}

// HitStopRequest 顿帧请求
type HitStopRequest struct {
	Duration float64 // 真实时间(秒)
	Speed    float64 // 时间缩放，通常 0.05 ~ 0.1
}

// ImpulseRequest 直接作用在冲击弹簧上的速度增量
type ImpulseRequest struct {
	Target   ecs.EntityID
	Tilt     float64
	Offset   utils.Vec3
	Rotation float64
}
