package systems

import (
	"math"

	"go.uber.org/zap"

	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/events"
	"github.com/gonewx/combatfx/pkg/utils"
)

// 编排常量(世界单位/秒)
const (
	// 没有目标也没有显式距离时，对手默认站位的 |x|
	defaultOpponentX = 3.5
	// 距离门控动作的命中判定距离
	strikeDistance = 0.5
	// 连招与双斩停在目标前方的距离
	comboStandOff = 0.8

	comboRunDuration    = 0.5
	comboSlashDuration  = 0.6
	comboReturnDuration = 0.7

	frenzyStageLength   = 0.3
	frenzyTrailInterval = 0.03
	skitterTrailPeriod  = 0.05
)

// ChoreographerSystem 招式编排器
//
// 每帧先执行 PlayAnimationCommandComponent 命令，再推进所有单位的动作状态机。
// 它只写冲击组件的速度、目标量与本帧叠加量，积分交给 PhysicalImpactSystem，
// 因此必须在模拟器之前运行。二次特效与屏幕效果只以请求形式排入 Queue。
type ChoreographerSystem struct {
	entityManager *ecs.EntityManager
	impact        *PhysicalImpactSystem
	moves         *config.MoveTable
	queue         *events.Queue
	dispatcher    *events.Dispatcher
	bridge        utils.CoordinateBridge
	logger        *zap.Logger
}

// NewChoreographerSystem 创建编排器
//
// dispatcher 可以为 nil(不发出通知)。
func NewChoreographerSystem(
	em *ecs.EntityManager,
	impact *PhysicalImpactSystem,
	moves *config.MoveTable,
	queue *events.Queue,
	dispatcher *events.Dispatcher,
	logger *zap.Logger,
) *ChoreographerSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	if moves == nil {
		moves = config.DefaultMoveTable()
	}
	if queue == nil {
		queue = events.NewQueue()
	}
	return &ChoreographerSystem{
		entityManager: em,
		impact:        impact,
		moves:         moves,
		queue:         queue,
		dispatcher:    dispatcher,
		bridge:        impact.bridge,
		logger:        logger.Named("choreographer"),
	}
}

// Update 执行命令并推进动作状态机
func (s *ChoreographerSystem) Update(deltaTime float64) {
	s.processCommands()

	dt := s.impact.ClampDelta(deltaTime)
	if dt == 0 {
		return
	}

	entities := ecs.GetEntitiesWith1[*components.PhysicalImpactComponent](s.entityManager)
	for _, id := range entities {
		impact, ok := ecs.GetComponent[*components.PhysicalImpactComponent](s.entityManager, id)
		if !ok {
			continue
		}

		// 本帧叠加量每帧重写
		impact.OffsetDampingOverride = 0
		impact.ActionTiltOffset = 0
		impact.ActionPosOffset = utils.Vec3{}
		impact.SuppressTilt = false

		if impact.ActionType == components.ActionNone && impact.ActionTimer <= 0 {
			continue
		}

		s.refreshTarget(impact)

		impact.ActionTimer -= dt
		if impact.ActionTimer < 0 {
			impact.ActionTimer = 0
		}

		s.step(id, impact, dt)
		s.fireStageThresholds(id, impact)

		if impact.ActionTimer <= 0 {
			s.finish(id, impact)
		}
	}
}

// processCommands 执行并移除所有挂起的招式命令
func (s *ChoreographerSystem) processCommands() {
	entities := ecs.GetEntitiesWith1[*components.PlayAnimationCommandComponent](s.entityManager)
	for _, id := range entities {
		cmd, ok := ecs.GetComponent[*components.PlayAnimationCommandComponent](s.entityManager, id)
		if !ok {
			continue
		}
		ecs.RemoveComponent[*components.PlayAnimationCommandComponent](s.entityManager, id)

		impact, ok := ecs.GetComponent[*components.PhysicalImpactComponent](s.entityManager, id)
		if !ok {
			s.logger.Debug("command on entity without impact state",
				zap.Uint64("entity", uint64(id)), zap.String("move", string(cmd.Move)))
			continue
		}

		spec, err := s.moves.Lookup(cmd.Move)
		if err != nil {
			s.logger.Warn("command dropped", zap.Uint64("entity", uint64(id)), zap.Error(err))
			continue
		}

		if impact.ActionTimer > 0 && impact.Protected {
			s.logger.Debug("command ignored, protected action in flight",
				zap.Uint64("entity", uint64(id)),
				zap.String("move", string(cmd.Move)),
				zap.Stringer("current", impact.ActionType))
			continue
		}

		s.start(id, impact, *cmd, spec)
	}
}

// PlayMove 立即执行一个招式命令(等价于挂命令组件后调用 Update)
func (s *ChoreographerSystem) PlayMove(id ecs.EntityID, move config.MoveKind, target ecs.EntityID) {
	ecs.AddComponent(s.entityManager, id, &components.PlayAnimationCommandComponent{Move: move, Target: target})
	s.processCommands()
}

// start 初始化一个招式
func (s *ChoreographerSystem) start(id ecs.EntityID, impact *components.PhysicalImpactComponent, cmd components.PlayAnimationCommandComponent, spec config.MoveSpec) {
	// 被打断的非保护动作先收尾
	if impact.ActionType != components.ActionNone || impact.ActionTimer > 0 {
		s.finish(id, impact)
	}

	dir := s.direction(id)
	impact.ActionMove = cmd.Move
	impact.ActionDirection = dir
	impact.ActionStage = 0
	impact.Protected = spec.Protected
	impact.StageThresholds = spec.StageThresholds
	impact.StageFired = make([]bool, len(spec.StageThresholds))
	impact.StageEffect = spec.StageEffect
	impact.StageBurst = spec.StageBurst
	impact.MoveSpeed = spec.Speed
	impact.TrailTimer = 0
	impact.TargetEntity = cmd.Target

	s.resolveDistance(impact, cmd, dir)

	duration := spec.Duration
	actionType := components.ActionNone

	switch cmd.Move {
	case config.MoveHit:
		s.impact.ApplyImpulse(id, 15*dir, utils.Vec3{X: -2 * dir}, 0)
	case config.MoveDeath:
		s.impact.ApplyImpulse(id, 45*dir, utils.Vec3{X: -5 * dir, Y: 2}, 0)
	case config.MoveAttack:
		s.impact.ApplyImpulse(id, -40*dir, utils.Vec3{X: 20 * dir}, 0)
	case config.MoveDefense:
		s.impact.ApplyImpulse(id, -5*dir, utils.Vec3{}, 0)
		impact.SpecialRotation, impact.SpecialRotationVelocity = 0, 0

	case config.MoveDash:
		actionType = components.ActionDash
		speed := impact.MoveSpeed
		if speed <= 0 {
			speed = 25
			impact.MoveSpeed = speed
		}
		// 没有固定时长：跑完全程所需时间 + 到位后的停留
		duration = impact.TargetOffsetDist/speed + spec.StrikeHold
		impact.OffsetVelocity = utils.Vec3{}
		impact.TiltVelocity = 0
		impact.SpecialRotation, impact.SpecialRotationVelocity = 0, 0

	case config.MoveWolfBite:
		actionType = components.ActionWolfBite
		impact.TiltVelocity = -25 * dir
		impact.OffsetVelocity = utils.Vec3{X: 22 * dir}
		impact.SpecialRotation, impact.SpecialRotationVelocity = 0, 0

	case config.MoveWolfPounce:
		actionType = components.ActionWolfPounce
		impact.OffsetVelocity = utils.Vec3{}
		impact.TiltVelocity = 0

	case config.MoveSiriusFrenzy:
		actionType = components.ActionSiriusFrenzy
		impact.OffsetVelocity = utils.Vec3{}
		impact.TiltVelocity = 0

	case config.MoveSkitterApproach:
		actionType = components.ActionSkitterApproach
		impact.TiltVelocity = -1 * dir
		impact.OffsetVelocity = utils.Vec3{X: 14 * dir}

	case config.MoveSpiritMultiShadow:
		actionType = components.ActionSpiritMultiShadow
		impact.TiltVelocity = 50
		impact.OffsetVelocity = utils.Vec3{X: 22 * dir}
		impact.SpecialRotationVelocity = 120

	case config.MoveDemonCast:
		actionType = components.ActionDemonCast
		impact.TiltVelocity = 0
		impact.SpecialRotation, impact.SpecialRotationVelocity = 0, 0

	case config.MoveBossRoar:
		actionType = components.ActionDemonCast
		impact.SpecialRotationVelocity += 100

	case config.MoveAscend:
		actionType = components.ActionAscend
		impact.OffsetVelocity = utils.Vec3{}
		impact.TiltVelocity = 0
		impact.SpecialRotation, impact.SpecialRotationVelocity = 0, 0

	case config.MoveCultivatorCombo:
		actionType = components.ActionCultivatorCombo
		duration = comboRunDuration
		impact.CurrentOffset = utils.Vec3{}
		impact.OffsetVelocity = utils.Vec3{}
		impact.SpecialRotation, impact.SpecialRotationVelocity = 0, 0

	case config.MoveTwinStrike:
		actionType = components.ActionTwinStrike
		impact.OffsetVelocity = utils.Vec3{}
		impact.SpecialRotation, impact.SpecialRotationVelocity = 0, 0

	case config.MoveBossFrenzy:
		actionType = components.ActionBossFrenzy
		impact.OffsetVelocity = impact.OffsetVelocity.Add(utils.Vec3{X: 35 * dir})
	}

	if duration <= 0 {
		// 纯冲量反应：不进入动作状态
		impact.ActionType = components.ActionNone
		impact.ActionTimer = 0
		impact.ActionDuration = 0
		impact.Protected = false
		return
	}

	impact.ActionType = actionType
	impact.ActionTimer = duration
	impact.ActionDuration = duration

	s.logger.Debug("move started",
		zap.Uint64("entity", uint64(id)),
		zap.String("move", string(cmd.Move)),
		zap.Float64("duration", duration),
		zap.Float64("distance", impact.TargetOffsetDist))
}

// resolveDistance 在触发时计算一次位移距离与目标方向
func (s *ChoreographerSystem) resolveDistance(impact *components.PhysicalImpactComponent, cmd components.PlayAnimationCommandComponent, dir float64) {
	home := impact.HomePosition
	target, alive := s.targetWorld(cmd.Target)

	switch {
	case cmd.TargetDistance > 0:
		impact.TargetOffsetDist = cmd.TargetDistance
		if !alive {
			target = home.Add(utils.Vec3{X: cmd.TargetDistance * dir})
		}
	case alive:
		impact.TargetOffsetDist = math.Abs(target.X - home.X)
	default:
		fallback := utils.Vec3{X: defaultOpponentX * dir, Y: home.Y, Z: home.Z}
		impact.TargetOffsetDist = math.Abs(fallback.X - home.X)
		target = fallback
	}

	impact.HasTarget = alive
	impact.LastKnownTarget = target
	impact.TargetVector = target.Sub(home).NormalizeOr(utils.Vec3{X: dir})
}

// refreshTarget 目标存活时刷新其最后已知位置
func (s *ChoreographerSystem) refreshTarget(impact *components.PhysicalImpactComponent) {
	if impact.TargetEntity == ecs.InvalidEntity {
		return
	}
	if pos, ok := s.targetWorld(impact.TargetEntity); ok {
		impact.LastKnownTarget = pos
		impact.HasTarget = true
		return
	}
	impact.HasTarget = false
}

// targetWorld 返回目标实体当前的世界坐标
func (s *ChoreographerSystem) targetWorld(target ecs.EntityID) (utils.Vec3, bool) {
	if !s.entityManager.Exists(target) {
		return utils.Vec3{}, false
	}
	if other, ok := ecs.GetComponent[*components.PhysicalImpactComponent](s.entityManager, target); ok {
		return other.HomePosition.Add(other.CurrentOffset), true
	}
	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, target); ok {
		return s.bridge.PlaneToWorld(utils.Vec2{X: pos.X, Y: pos.Y}), true
	}
	return utils.Vec3{}, false
}

// direction 玩家向右 +1，敌人向左 -1
func (s *ChoreographerSystem) direction(id ecs.EntityID) float64 {
	if c, ok := ecs.GetComponent[*components.CombatantComponent](s.entityManager, id); ok && c.Side == components.SideEnemy {
		return -1
	}
	return 1
}

func (s *ChoreographerSystem) step(id ecs.EntityID, impact *components.PhysicalImpactComponent, dt float64) {
	switch impact.ActionType {
	case components.ActionDash:
		s.stepDash(id, impact, dt)
	case components.ActionWolfBite:
		s.stepWolfBite(impact)
	case components.ActionWolfPounce:
		s.stepWolfPounce(id, impact)
	case components.ActionSiriusFrenzy:
		s.stepSiriusFrenzy(id, impact, dt)
	case components.ActionSkitterApproach:
		s.stepSkitter(id, impact, dt)
	case components.ActionSpiritMultiShadow:
		s.stepSpiritMultiShadow(impact)
	case components.ActionDemonCast:
		impact.OffsetDampingOverride = 30
		impact.OffsetVelocity = utils.Vec3{}
	case components.ActionAscend:
		s.stepAscend(impact)
	case components.ActionCultivatorCombo:
		s.stepCultivatorCombo(id, impact)
	case components.ActionTwinStrike:
		s.stepTwinStrike(impact)
	}
}

// distLeft 距离门控动作剩余的 x 方向距离
func distLeft(impact *components.PhysicalImpactComponent) float64 {
	return impact.TargetOffsetDist - math.Abs(impact.CurrentOffset.X)
}

// progress 当前阶段的已用时间比例 [0, 1]
func progress(impact *components.PhysicalImpactComponent) float64 {
	if impact.ActionDuration <= 0 {
		return 1
	}
	return utils.Clamp(1-impact.ActionTimer/impact.ActionDuration, 0, 1)
}

func (s *ChoreographerSystem) stepDash(id ecs.EntityID, impact *components.PhysicalImpactComponent, dt float64) {
	dir := impact.ActionDirection
	left := distLeft(impact)

	if left < strikeDistance && impact.ActionStage == 0 {
		impact.ActionStage = 1
		s.strike(id, impact, impact.StageEffect, impact.StageBurst, utils.Vec2{})
	}

	speed := impact.MoveSpeed
	if left < 1 {
		speed *= math.Max(left, 0.3)
	}
	// 本帧积分后恰好停在目标距离上，不越过
	damping := s.impact.cfg.OffsetDamping
	if left <= 0 {
		speed = 0
	} else if maxSpeed := left / (dt * (1 - damping*dt)); speed > maxSpeed {
		speed = maxSpeed
	}

	impact.OffsetVelocity = utils.Vec3{X: speed * dir}
	impact.SuppressTilt = true
}

func (s *ChoreographerSystem) stepWolfBite(impact *components.PhysicalImpactComponent) {
	dir := impact.ActionDirection
	left := distLeft(impact)

	scalar := 1.0
	if left <= 0 {
		scalar = 0
	} else if left < 1 {
		scalar = math.Max(left, 0.2)
	}

	impact.ActionTiltOffset = math.Sin(impact.ActionTimer*12.5) * 0.4
	impact.ActionPosOffset = utils.Vec3{Y: math.Sin(progress(impact) * math.Pi)}
	impact.OffsetDampingOverride = 8
	impact.OffsetVelocity = utils.Vec3{X: impact.MoveSpeed * dir * scalar}
	impact.SpecialRotation, impact.SpecialRotationVelocity = 0, 0
}

func (s *ChoreographerSystem) stepWolfPounce(id ecs.EntityID, impact *components.PhysicalImpactComponent) {
	dir := impact.ActionDirection
	t := progress(impact)
	impact.OffsetDampingOverride = 8

	const windup = 0.15
	if t < windup {
		wt := t / windup
		impact.ActionPosOffset = utils.Vec3{X: -0.5 * dir * wt}
		impact.ActionTiltOffset = -0.1 * dir * wt
		impact.OffsetVelocity = utils.Vec3{}
		return
	}

	jt := (t - windup) / (1 - windup)
	height := math.Min(impact.TargetOffsetDist*0.4, 2.5)
	impact.ActionPosOffset = utils.Vec3{Y: 4 * height * jt * (1 - jt)}
	impact.ActionTiltOffset = (0.5 - jt) * 0.4 * dir
	impact.OffsetVelocity = utils.Vec3{X: impact.TargetOffsetDist / impact.ActionDuration * 1.3 * dir}

	if jt > 0.95 && impact.ActionStage == 0 {
		impact.ActionStage = 1
		s.strike(id, impact, impact.StageEffect, impact.StageBurst, utils.Vec2{Y: -50})
	}
}

func (s *ChoreographerSystem) stepSiriusFrenzy(id ecs.EntityID, impact *components.PhysicalImpactComponent, dt float64) {
	dir := impact.ActionDirection
	elapsed := impact.ActionDuration - impact.ActionTimer
	stage := int(elapsed / frenzyStageLength)
	stageT := math.Mod(elapsed, frenzyStageLength) / frenzyStageLength

	if stage != impact.ActionStage && stage < 3 {
		impact.ActionStage = stage
		s.queue.PushScreen(events.Shake(0.7, 4.0))
	}

	var stageDir utils.Vec3
	switch stage {
	case 0:
		stageDir = utils.Vec3{X: dir, Y: 0.5}
		impact.ActionTiltOffset = -0.3 * dir
	case 1:
		stageDir = utils.Vec3{X: dir, Y: -0.8}
		impact.ActionTiltOffset = 0.4 * dir
	default:
		stageDir = utils.Vec3{X: dir}
	}
	stageDir = stageDir.NormalizeOr(utils.Vec3{X: dir})

	current := impact.HomePosition.Add(impact.CurrentOffset)
	braking := math.Min(math.Abs(impact.LastKnownTarget.X-current.X), 1)
	speed := 32 * (1 - stageT) * braking

	impact.OffsetDampingOverride = 4.5
	impact.OffsetVelocity = stageDir.Scale(speed)

	impact.TrailTimer += dt
	if impact.TrailTimer >= frenzyTrailInterval {
		impact.TrailTimer = 0
		req := events.Burst(impact.StageEffect, s.bridge.WorldToPlane(current), impact.StageBurst).
			WithVelocity(stageDir.XY().Scale(45))
		req.Owner = id
		s.queue.PushSpawn(req)
	}
}

func (s *ChoreographerSystem) stepSkitter(id ecs.EntityID, impact *components.PhysicalImpactComponent, dt float64) {
	dir := impact.ActionDirection
	phase := impact.ActionTimer * 30

	impact.ActionPosOffset = utils.Vec3{
		Y: -math.Abs(math.Sin(phase)) * 0.05,
		Z: math.Cos(phase) * 0.12,
	}
	impact.OffsetDampingOverride = 15

	scalar := utils.Clamp(distLeft(impact), 0, 1)
	pulse := math.Abs(math.Sin(phase*0.4)) + 0.6
	impact.OffsetVelocity = utils.Vec3{X: impact.MoveSpeed * dir * pulse * scalar}

	if scalar <= 0.1 {
		return
	}
	impact.TrailTimer += dt
	if impact.TrailTimer >= skitterTrailPeriod {
		impact.TrailTimer = 0
		feet := s.bridge.WorldToPlane(impact.HomePosition.Add(impact.CurrentOffset)).Add(utils.Vec2{Y: -30})
		req := events.Burst(impact.StageEffect, feet, impact.StageBurst)
		req.Owner = id
		s.queue.PushSpawn(req)
	}
}

func (s *ChoreographerSystem) stepSpiritMultiShadow(impact *components.PhysicalImpactComponent) {
	speed := impact.MoveSpeed
	if distLeft(impact) < strikeDistance {
		speed = 0
	}
	impact.ActionPosOffset = utils.Vec3{Y: math.Sin(impact.ActionTimer*25) * 0.1}
	impact.OffsetDampingOverride = 6
	impact.OffsetVelocity = utils.Vec3{X: speed * impact.ActionDirection}
}

func (s *ChoreographerSystem) stepAscend(impact *components.PhysicalImpactComponent) {
	const height = 0.8
	p := progress(impact)

	y := height
	switch {
	case p < 0.2:
		y = utils.Smoothstep(p/0.2) * height
	case p > 0.8:
		y = utils.Smoothstep((1-p)/0.2) * height
	}
	impact.ActionPosOffset = utils.Vec3{Y: y}
	impact.ActionTiltOffset = -0.1 * impact.ActionDirection
	impact.OffsetVelocity = utils.Vec3{}
}

// stepCultivatorCombo 跑近 → 两次挥斩 → 返回
//
// 每个阶段自带计时器；阶段切换时重置 ActionTimer，最后一个阶段的计时器
// 归零后由 Update 统一收尾。
func (s *ChoreographerSystem) stepCultivatorCombo(id ecs.EntityID, impact *components.PhysicalImpactComponent) {
	reach := math.Max(impact.TargetOffsetDist-comboStandOff, 0)
	toEnemy := impact.TargetVector
	toEnemy2D := toEnemy.XY().NormalizeOr(utils.Vec2{X: impact.ActionDirection})
	impact.OffsetVelocity = utils.Vec3{}

	switch impact.ActionStage {
	case 0:
		t := progress(impact)
		impact.CurrentOffset = toEnemy.Scale(reach * utils.Smoothstep(t))
		if impact.ActionTimer <= 0 {
			s.enterComboStage(impact, 1, comboSlashDuration)
			s.strike(id, impact, impact.StageEffect, impact.StageBurst, toEnemy2D.Scale(60))
		}

	case 1, 2:
		elapsed := comboSlashDuration - impact.ActionTimer
		var rot float64
		if elapsed < 0.3 {
			rot = -0.5 * elapsed / 0.3
		} else {
			rot = -0.5 + (elapsed-0.3)/0.3*2
		}
		var kick float64
		if elapsed < 0.2 {
			kick = elapsed / 0.2 * 0.5
		} else {
			kick = 0.5 - (elapsed-0.2)/0.4*0.6
		}
		swing := impact.ActionDirection
		if impact.ActionStage == 2 {
			swing = -swing
		}
		impact.SpecialRotation = rot * swing * 0.75 * math.Pi
		impact.SpecialRotationVelocity = 0
		impact.CurrentOffset = toEnemy.Scale(reach + kick)

		if impact.ActionTimer <= 0 {
			if impact.ActionStage == 1 {
				s.enterComboStage(impact, 2, comboSlashDuration)
				s.strike(id, impact, impact.StageEffect, impact.StageBurst, toEnemy2D.Scale(70))
			} else {
				s.enterComboStage(impact, 3, comboReturnDuration)
			}
		}

	default:
		t := progress(impact)
		impact.CurrentOffset = toEnemy.Scale(reach * (1 - utils.Smoothstep(t)))
		impact.SpecialRotation = utils.Lerp(impact.SpecialRotation, 0, t)
		impact.SpecialRotationVelocity = 0
		if impact.ActionTimer <= 0 {
			impact.CurrentOffset = utils.Vec3{}
			impact.SpecialRotation = 0
			impact.TiltAmount, impact.TiltVelocity = 0, 0
		}
	}
}

func (s *ChoreographerSystem) enterComboStage(impact *components.PhysicalImpactComponent, stage int, duration float64) {
	impact.ActionStage = stage
	impact.ActionTimer = duration
	impact.ActionDuration = duration
}

// stepTwinStrike 冲近、停留两次命中、返回；命中由阶段阈值触发
func (s *ChoreographerSystem) stepTwinStrike(impact *components.PhysicalImpactComponent) {
	reach := math.Max(impact.TargetOffsetDist-comboStandOff, 0)
	p := progress(impact)

	var f float64
	switch {
	case p < 0.25:
		f = utils.Smoothstep(p / 0.25)
	case p < 0.75:
		f = 1
	default:
		f = 1 - utils.Smoothstep((p-0.75)/0.25)
	}
	impact.CurrentOffset = impact.TargetVector.Scale(reach * f)
	impact.OffsetVelocity = utils.Vec3{}
}

// fireStageThresholds 跨过阈值时触发阶段特效，每个阈值每次动作只触发一次
func (s *ChoreographerSystem) fireStageThresholds(id ecs.EntityID, impact *components.PhysicalImpactComponent) {
	if len(impact.StageThresholds) == 0 {
		return
	}
	p := progress(impact)
	toEnemy := impact.TargetVector.XY().NormalizeOr(utils.Vec2{X: impact.ActionDirection})
	for i, th := range impact.StageThresholds {
		if i >= len(impact.StageFired) || impact.StageFired[i] || p < th {
			continue
		}
		impact.StageFired[i] = true
		impact.ActionStage++
		s.strike(id, impact, impact.StageEffect, impact.StageBurst, toEnemy.Scale(60))
		if impact.HasTarget {
			s.queue.PushImpulse(events.ImpulseRequest{
				Target: impact.TargetEntity,
				Tilt:   15 * impact.ActionDirection,
				Offset: utils.Vec3{X: 2 * impact.ActionDirection},
			})
		}
	}
}

// strike 在单位当前位置(加偏移)请求命中特效并发出通知
func (s *ChoreographerSystem) strike(id ecs.EntityID, impact *components.PhysicalImpactComponent, kind config.EffectKind, count int, offset utils.Vec2) {
	at := s.bridge.WorldToPlane(impact.HomePosition.Add(impact.CurrentOffset)).Add(offset)
	if kind != "" {
		req := events.Burst(kind, at, count)
		req.Owner = id
		s.queue.PushSpawn(req)
	}
	s.dispatcher.Dispatch(events.Notification{
		Type:     events.StrikeLanded,
		Entity:   id,
		Tag:      string(impact.ActionMove),
		Position: at,
	})
}

// finish 动作结束：回到空闲并清除所有阶段标记
func (s *ChoreographerSystem) finish(id ecs.EntityID, impact *components.PhysicalImpactComponent) {
	move := impact.ActionMove
	wasActive := impact.ActionType != components.ActionNone

	impact.ActionType = components.ActionNone
	impact.ActionTimer = 0
	impact.ActionDuration = 0
	impact.ActionStage = 0
	impact.Protected = false
	impact.StageThresholds = nil
	impact.StageFired = nil
	impact.TrailTimer = 0

	if wasActive {
		s.logger.Debug("move finished", zap.Uint64("entity", uint64(id)), zap.String("move", string(move)))
		s.dispatcher.Dispatch(events.Notification{
			Type:   events.ActionFinished,
			Entity: id,
			Tag:    string(move),
		})
	}
}
