package systems

import (
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/events"
	"github.com/gonewx/combatfx/pkg/utils"
)

// 万剑阶段边界(本地进度)
const (
	volleyRallyEnd = 0.2
	volleyOrbitEnd = 0.45
	volleyLockEnd  = 0.55

	// 锁定阶段前 40% 用来转向目标，之后保持对准
	volleyTurnShare = 0.4

	volleyModelScale = 0.32
)

// volleyHub 第 2 阶段环绕的中心(战斗平面)
var volleyHub = utils.Vec2{X: 0, Y: 250}

// VfxOrchestratorSystem 编排特效
//
// 负责那些位置不由简单物理决定的粒子：万剑的四段飞行路径(以及同步的 3D 伴随物体)、
// 落雷的折线。粒子的寿命、外观和销毁仍由 ParticleSystem 负责，这里只写位置与朝向。
type VfxOrchestratorSystem struct {
	entityManager *ecs.EntityManager
	bridge        utils.CoordinateBridge
	queue         *events.Queue
	dispatcher    *events.Dispatcher
	rng           *rand.Rand
	logger        *zap.Logger
}

// NewVfxOrchestratorSystem 创建编排系统
func NewVfxOrchestratorSystem(em *ecs.EntityManager, bridge utils.CoordinateBridge, queue *events.Queue, dispatcher *events.Dispatcher, rng *rand.Rand, logger *zap.Logger) *VfxOrchestratorSystem {
	if queue == nil {
		queue = events.NewQueue()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VfxOrchestratorSystem{
		entityManager: em,
		bridge:        bridge,
		queue:         queue,
		dispatcher:    dispatcher,
		rng:           rng,
		logger:        logger.Named("orchestrator"),
	}
}

// AttachOrchestrated 为新生成的编排粒子挂上对应的状态组件
func (s *VfxOrchestratorSystem) AttachOrchestrated(id ecs.EntityID, p *components.ParticleComponent, req events.SpawnEffectRequest) {
	switch p.Kind {
	case config.EffectVolley:
		p.Hidden = true
		ecs.AddComponent(s.entityManager, id, &components.VolleyComponent{StartPos: req.Origin})
		ecs.AddComponent(s.entityManager, id, &components.Particle3DComponent{Scale: volleyModelScale})
	case config.EffectLightningStrike:
		s.attachLightning(id, p, req)
	default:
		// 未知编排类型：原地淡出
		s.logger.Warn("no choreography for orchestrated kind", zap.String("kind", string(p.Kind)))
		p.Velocity = utils.Vec2{}
	}
}

// Update 推进所有编排粒子
func (s *VfxOrchestratorSystem) Update(dt float64) {
	if dt <= 0 || math.IsNaN(dt) {
		return
	}
	s.updateVolleys(dt)
	s.updateLightning()
}

func (s *VfxOrchestratorSystem) updateVolleys(dt float64) {
	entities := ecs.GetEntitiesWith3[
		*components.ParticleComponent,
		*components.VolleyComponent,
		*components.PositionComponent,
	](s.entityManager)

	for _, id := range entities {
		p, _ := ecs.GetComponent[*components.ParticleComponent](s.entityManager, id)
		if p.Expired {
			continue
		}
		volley, _ := ecs.GetComponent[*components.VolleyComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		volley.Elapsed += dt
		prev := utils.Vec2{X: pos.X, Y: pos.Y}
		pose := s.volleyPose(id, p, volley)

		p.Hidden = !pose.visible
		if pose.visible {
			if v := pose.pos.Sub(prev).Scale(1 / dt); v.Len() > alignMinSpeed {
				p.Velocity = v
				if !pose.aimed {
					p.Rotation = v.Angle()
				}
			}
			if pose.aimed {
				p.Rotation = pose.rot
			}
			pos.X, pos.Y = pose.pos.X, pose.pos.Y
		}

		if model, ok := ecs.GetComponent[*components.Particle3DComponent](s.entityManager, id); ok {
			s.syncModel(model, pose.pos, volley.Progress, pose.visible)
		}
	}
}

// volleyPoseResult 一帧的位置与朝向
//
// aimed 为 false 时朝向交给速度方向决定。
type volleyPoseResult struct {
	pos     utils.Vec2
	rot     float64
	aimed   bool
	visible bool
}

// volleyPose 按本地进度计算万剑粒子的平面位置与朝向
//
// 每个粒子的本地进度按 Seed 错开：local = clamp(prog*1.6 - seed*0.6, 0, 1)，
// local <= 0 时粒子还没出场。
func (s *VfxOrchestratorSystem) volleyPose(id ecs.EntityID, p *components.ParticleComponent, v *components.VolleyComponent) volleyPoseResult {
	prog := utils.Clamp(p.Age/p.Lifetime, 0, 1)
	local := utils.Clamp(prog*1.6-p.Seed*0.6, 0, 1)
	v.Progress = local
	if local <= 0 {
		v.Phase = 0
		return volleyPoseResult{pos: v.StartPos}
	}

	switch {
	case local < volleyRallyEnd:
		// 1. 从施法者身前升起，飞向集结点
		v.Phase = 1
		t := local / volleyRallyEnd
		from := v.StartPos.Add(utils.Vec2{Y: -50})
		rally := utils.Vec2{X: -100 + (p.Seed-0.5)*100, Y: 300}
		if p.Seed < 0.1 && !v.CallShakeFired {
			v.CallShakeFired = true
			s.queue.PushScreen(events.Shake(0.2, 1.5))
		}
		return volleyPoseResult{pos: from.Lerp(rally, utils.Smoothstep(t)), visible: true}

	case local < volleyOrbitEnd:
		// 2. 绕空中的中心旋转
		v.Phase = 2
		at := orbitPosition((local-volleyRallyEnd)/(volleyOrbitEnd-volleyRallyEnd), p.Seed)
		return volleyPoseResult{pos: at, visible: true}

	case local < volleyLockEnd:
		// 3. 停在轨道末端，剑尖从环绕方向转向目标
		v.Phase = 3
		if !v.HeadingCaptured {
			v.HeadingCaptured = true
			v.LockHeading = p.Rotation
		}
		t := (local - volleyOrbitEnd) / (volleyLockEnd - volleyOrbitEnd)
		at := orbitPosition(1, p.Seed).Add(utils.Vec2{Y: 20 * utils.Smoothstep(t)})
		target, ok := ResolveParticleTarget(s.entityManager, p)
		if !ok {
			return volleyPoseResult{pos: at, visible: true}
		}
		bearing := target.Sub(at).Angle()
		rot := utils.LerpAngle(v.LockHeading, bearing, utils.Smoothstep(t/volleyTurnShare))
		return volleyPoseResult{pos: at, rot: rot, aimed: true, visible: true}
	}

	// 4. 从锁定点沿贝塞尔曲线俯冲到目标
	v.Phase = 4
	if !v.LockCaptured {
		v.LockCaptured = true
		v.LockPos = orbitPosition(1, p.Seed).Add(utils.Vec2{Y: 20})
	}
	target, ok := ResolveParticleTarget(s.entityManager, p)
	if !ok {
		// 没有目标：笔直落向锁定点正下方的地面
		target = utils.Vec2{X: v.LockPos.X, Y: -200}
	}

	t := (local - volleyLockEnd) / (1 - volleyLockEnd)
	eased := t * t
	p0 := v.LockPos
	p1 := v.LockPos.Add(utils.Vec2{Y: 150})
	p2 := target.Add(utils.Vec2{Y: 200})
	at := utils.CubicBezier(p0, p1, p2, target, eased)

	if t > 0.95 && p.Seed < 0.2 && !v.ImpactFired {
		v.ImpactFired = true
		s.queue.PushSpawn(events.Burst(config.EffectImpactSpark, target, 5))
		s.queue.PushScreen(events.HeavyShake())
		s.dispatcher.Dispatch(events.Notification{
			Type:     events.StrikeLanded,
			Entity:   id,
			Tag:      string(p.Kind),
			Position: target,
		})
	}
	return volleyPoseResult{pos: at, visible: true}
}

// orbitPosition 第 2 阶段的环绕轨道，t ∈ [0, 1]
func orbitPosition(t, seed float64) utils.Vec2 {
	angle := t*37 + seed*2*math.Pi
	r := 50 + math.Sin(25*t)*15
	return volleyHub.Add(utils.Vec2{
		X: math.Cos(angle) * r,
		Y: math.Sin(angle)*r*0.3 + 45,
	})
}

// volleyLift 3D 伴随物体离开战斗平面的纵深：升起 → 悬停 → 俯冲回到平面
func volleyLift(local float64) float64 {
	switch {
	case local < 0.15:
		return 0.8 + (local/0.15)*4.2
	case local < 0.6:
		return 5 + math.Sin(local*20)*0.1
	default:
		k := (local - 0.6) / 0.4
		return 5 * (1 - k*k*k)
	}
}

// syncModel 3D 伴随物体与 2D 粒子共用同一个本地进度
//
// 世界 X/Y 直接取自平面位置，投影回平面时与 2D 粒子重合。
func (s *VfxOrchestratorSystem) syncModel(m *components.Particle3DComponent, plane utils.Vec2, local float64, visible bool) {
	m.Visible = visible
	m.Scale = volleyModelScale
	if !visible {
		m.HasPrev = false
		return
	}
	m.Position = s.bridge.PlaneToWorldDepth(plane, volleyLift(local))
	if m.HasPrev {
		if d := m.Position.Sub(m.PrevPosition); d.Len() > 1e-6 {
			m.Forward = d.NormalizeOr(m.Forward)
		}
	}
	m.PrevPosition = m.Position
	m.HasPrev = true
}
