package systems

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/utils"
)

// 判定"正在动作"的阈值
const (
	actingOffsetEpsilon   = 0.05
	actingVelocityEpsilon = 0.5
)

// PhysicalImpactSystem 冲击弹簧模拟器
//
// 每帧对所有带 PhysicalImpactComponent 的单位积分三个独立的阻尼振子，
// 并输出 RenderTransformComponent。积分顺序固定为：
// 弹簧力 → 速度乘以 (1 - 阻尼·dt) → 速度积分到位置。
// 这不是物理上精确的阻尼弹簧，但手感参数是按这个顺序调出来的。
type PhysicalImpactSystem struct {
	entityManager *ecs.EntityManager
	cfg           config.ImpactConfig
	bridge        utils.CoordinateBridge
	logger        *zap.Logger
}

// NewPhysicalImpactSystem 创建冲击模拟系统
func NewPhysicalImpactSystem(em *ecs.EntityManager, cfg config.ImpactConfig, bridge utils.CoordinateBridge, logger *zap.Logger) *PhysicalImpactSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxDelta <= 0 {
		cfg = config.DefaultImpactConfig()
	}
	return &PhysicalImpactSystem{
		entityManager: em,
		cfg:           cfg,
		bridge:        bridge,
		logger:        logger.Named("impact"),
	}
}

// ClampDelta 返回本系统实际使用的 dt；非正数或 NaN 返回 0
func (s *PhysicalImpactSystem) ClampDelta(dt float64) float64 {
	return clampDelta(dt, s.cfg.MaxDelta)
}

func clampDelta(dt, max float64) float64 {
	if math.IsNaN(dt) || dt <= 0 {
		return 0
	}
	if dt > max {
		return max
	}
	return dt
}

// ApplyImpulse 在现有速度上叠加冲量
//
// 目标不存在或没有冲击组件时静默忽略(战斗中单位随时可能死亡)。
func (s *PhysicalImpactSystem) ApplyImpulse(target ecs.EntityID, tiltDv float64, offsetDv utils.Vec3, rotationDv float64) {
	impact, ok := ecs.GetComponent[*components.PhysicalImpactComponent](s.entityManager, target)
	if !ok {
		s.logger.Debug("impulse target missing", zap.Uint64("entity", uint64(target)))
		return
	}
	if !isFinite(tiltDv) || !offsetDv.IsFinite() || !isFinite(rotationDv) {
		s.logger.Warn("non-finite impulse dropped", zap.Uint64("entity", uint64(target)))
		return
	}
	impact.TiltVelocity += tiltDv
	impact.OffsetVelocity = impact.OffsetVelocity.Add(offsetDv)
	impact.SpecialRotationVelocity += rotationDv
}

// Update 积分所有单位的冲击状态
func (s *PhysicalImpactSystem) Update(deltaTime float64) {
	dt := s.ClampDelta(deltaTime)
	if dt == 0 {
		return
	}

	entities := ecs.GetEntitiesWith1[*components.PhysicalImpactComponent](s.entityManager)
	for _, id := range entities {
		impact, ok := ecs.GetComponent[*components.PhysicalImpactComponent](s.entityManager, id)
		if !ok {
			continue
		}
		s.integrate(impact, dt)
		s.publish(id, impact, dt)
	}
}

func (s *PhysicalImpactSystem) integrate(impact *components.PhysicalImpactComponent, dt float64) {
	cfg := s.cfg

	// 1. 倾斜弹簧
	impact.TiltVelocity += -cfg.TiltStiffness * impact.TiltAmount * dt
	impact.TiltVelocity *= 1 - cfg.TiltDamping*dt
	impact.TiltAmount += impact.TiltVelocity * dt

	// 2. 位置弹簧：动作计时器运行期间禁用回归力，由动作自己控制速度
	damping := cfg.OffsetDamping
	if impact.OffsetDampingOverride > 0 {
		damping = impact.OffsetDampingOverride
	}
	if impact.ActionTimer <= 0 {
		force := impact.CurrentOffset.Scale(-cfg.OffsetStiffness)
		impact.OffsetVelocity = impact.OffsetVelocity.Add(force.Scale(dt))
	}
	impact.OffsetVelocity = impact.OffsetVelocity.Scale(1 - damping*dt)
	impact.CurrentOffset = impact.CurrentOffset.Add(impact.OffsetVelocity.Scale(dt))

	// 3. 回旋弹簧
	impact.SpecialRotationVelocity += -cfg.RotStiffness * impact.SpecialRotation * dt
	impact.SpecialRotationVelocity *= 1 - cfg.RotDamping*dt
	impact.SpecialRotation += impact.SpecialRotationVelocity * dt

	impact.TiltAmount = utils.Clamp(impact.TiltAmount, -1, 1)

	// 数值保护：任何一个振子出现 NaN/Inf 时归零，避免污染变换
	if !isFinite(impact.TiltAmount) || !isFinite(impact.TiltVelocity) {
		impact.TiltAmount, impact.TiltVelocity = 0, 0
	}
	if !impact.CurrentOffset.IsFinite() || !impact.OffsetVelocity.IsFinite() {
		impact.CurrentOffset, impact.OffsetVelocity = utils.Vec3{}, utils.Vec3{}
	}
	if !isFinite(impact.SpecialRotation) || !isFinite(impact.SpecialRotationVelocity) {
		impact.SpecialRotation, impact.SpecialRotationVelocity = 0, 0
	}

	impact.IsActing = impact.ActionTimer > 0 ||
		impact.CurrentOffset.Len() > actingOffsetEpsilon ||
		impact.OffsetVelocity.Len() > actingVelocityEpsilon
}

// publish 合成最终变换：平移(home + offset + 动作叠加 + 呼吸) · 倾斜 · 回旋
func (s *PhysicalImpactSystem) publish(id ecs.EntityID, impact *components.PhysicalImpactComponent, dt float64) {
	breathY := 0.0
	if breath, ok := ecs.GetComponent[*components.BreathAnimationComponent](s.entityManager, id); ok {
		breath.Timer += dt
		if !impact.IsActing {
			breathY = math.Sin(breath.Timer*breath.Frequency) * breath.Amplitude
		}
	}

	roll := impact.ActionTiltOffset
	yaw := 0.0
	if !impact.SuppressTilt {
		// 回旋越强，倾斜越弱，两者叠加时画面不会扭成一团
		roll += impact.TiltAmount / (1 + math.Abs(impact.SpecialRotation)*5)
		yaw = impact.SpecialRotation
	}

	translation := impact.HomePosition.
		Add(impact.CurrentOffset).
		Add(impact.ActionPosOffset).
		Add(utils.Vec3{Y: breathY})

	transform, ok := ecs.GetComponent[*components.RenderTransformComponent](s.entityManager, id)
	if !ok {
		transform = &components.RenderTransformComponent{}
		ecs.AddComponent(s.entityManager, id, transform)
	}
	transform.Translation = translation
	transform.Roll = roll
	transform.Yaw = yaw
	transform.GeoM = s.composeGeoM(translation, roll, yaw)

	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id); ok {
		plane := s.bridge.WorldToPlane(translation)
		pos.X, pos.Y = plane.X, plane.Y
	}
}

// composeGeoM 生成 2D 屏幕变换
//
// 回旋是绕竖直轴的转动，在 2D 中表现为水平方向的缩放；
// 屏幕 Y 轴向下，所以倾斜角取反。
func (s *PhysicalImpactSystem) composeGeoM(translation utils.Vec3, roll, yaw float64) ebiten.GeoM {
	var g ebiten.GeoM
	sx := math.Cos(yaw)
	if math.Abs(sx) < 0.05 {
		sx = math.Copysign(0.05, sx)
	}
	g.Scale(sx, 1)
	g.Rotate(-roll)
	screenX, screenY := s.bridge.WorldToScreen(translation)
	g.Translate(screenX, screenY)
	return g
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
