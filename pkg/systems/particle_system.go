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

const (
	// 有目标的普通粒子的转向加速度(像素/秒²)
	homingAcceleration = 1200.0
	// 到达目标的判定半径(像素)
	arrivalRadius = 12.0
	// 目标全部失效后，粒子最多再存活的时间
	fizzleGrace = 0.2
	// 速度低于该值时不做朝向对齐
	alignMinSpeed = 1.0
	// 单个发射器单帧最多发射的粒子数
	maxEmitPerFrame = 64
)

// OrchestratedAttacher receives particles whose recipe is orchestrated.
// The particle system still owns their lifetime, appearance and culling;
// the attacher owns their position.
type OrchestratedAttacher interface {
	AttachOrchestrated(id ecs.EntityID, p *components.ParticleComponent, req events.SpawnEffectRequest)
}

// ParticleSystem manages emitters and individual particles.
//
// Each frame it:
//  1. drains spawn requests from the queue (bursts and emitters)
//  2. advances emitters and spawns their particles
//  3. advances particles (motion, homing, appearance) and culls expired ones
//
// Every particle is destroyed exactly once: the Expired flag is set together
// with DestroyEntity and checked before any further processing.
type ParticleSystem struct {
	EntityManager *ecs.EntityManager
	Recipes       *config.RecipeTable

	queue      *events.Queue
	dispatcher *events.Dispatcher
	rng        *rand.Rand
	logger     *zap.Logger

	attacher OrchestratedAttacher
	density  float64
}

// NewParticleSystem creates a new ParticleSystem instance.
// A nil recipe table falls back to the built-in presets; a nil rng is seeded with 1.
func NewParticleSystem(em *ecs.EntityManager, recipes *config.RecipeTable, queue *events.Queue, dispatcher *events.Dispatcher, rng *rand.Rand, logger *zap.Logger) *ParticleSystem {
	if recipes == nil {
		recipes = config.DefaultRecipeTable()
	}
	if queue == nil {
		queue = events.NewQueue()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParticleSystem{
		EntityManager: em,
		Recipes:       recipes,
		queue:         queue,
		dispatcher:    dispatcher,
		rng:           rng,
		logger:        logger.Named("particles"),
		density:       1,
	}
}

// SetOrchestrator registers the receiver of orchestrated particles.
func (ps *ParticleSystem) SetOrchestrator(a OrchestratedAttacher) {
	ps.attacher = a
}

// SetDensity scales burst counts and emitter rates (player setting).
func (ps *ParticleSystem) SetDensity(d float64) {
	if d <= 0 || math.IsNaN(d) {
		d = 1
	}
	ps.density = d
}

// Update processes pending requests, emitters and particles for the current frame.
func (ps *ParticleSystem) Update(dt float64) {
	for _, req := range ps.queue.DrainSpawns() {
		ps.Spawn(req)
	}
	if dt <= 0 || math.IsNaN(dt) {
		return
	}
	ps.updateEmitters(dt)
	ps.updateParticles(dt)
}

// Spawn handles one spawn request immediately and returns the created entities
// (particles for a burst, the emitter entity for an emitter request).
func (ps *ParticleSystem) Spawn(req events.SpawnEffectRequest) []ecs.EntityID {
	recipe, ok := ps.Recipes.Lookup(req.Kind)
	if !ok {
		ps.logger.Warn("unknown effect kind, using placeholder", zap.String("kind", string(req.Kind)))
	}

	if req.Mode == events.SpawnEmitter {
		return []ecs.EntityID{ps.spawnEmitter(req, recipe)}
	}

	count := req.Count
	if count <= 0 {
		count = recipe.BurstCount
	}
	count = ps.scaleCount(count)

	ids := make([]ecs.EntityID, 0, count)
	for i := 0; i < count; i++ {
		ids = append(ids, ps.spawnParticle(recipe, req, req.Origin, i, ecs.InvalidEntity))
	}

	ps.logger.Debug("burst spawned",
		zap.String("kind", string(recipe.Kind)),
		zap.Int("count", count),
		zap.Float64("x", req.Origin.X),
		zap.Float64("y", req.Origin.Y))
	return ids
}

func (ps *ParticleSystem) scaleCount(count int) int {
	if count <= 0 {
		return 1
	}
	scaled := int(math.Round(float64(count) * ps.density))
	if scaled < 1 {
		scaled = 1
	}
	return scaled
}

func (ps *ParticleSystem) spawnEmitter(req events.SpawnEffectRequest, recipe config.EffectRecipe) ecs.EntityID {
	id := ps.EntityManager.CreateEntity()
	rate := recipe.Emitter.Rate
	if rate <= 0 {
		rate = 10
	}
	emitter := &components.EmitterComponent{
		Kind:     recipe.Kind,
		Rate:     rate * ps.density,
		MaxCount: recipe.Emitter.MaxCount,
		Looping:  recipe.Emitter.Looping,
		Duration: recipe.Emitter.Duration,
		Owner:    req.Owner,
		Target:   req.Target,
	}
	if req.VelocityOverride != nil {
		v := *req.VelocityOverride
		emitter.VelocityOverride = &v
	}
	ecs.AddComponent(ps.EntityManager, id, emitter)
	ecs.AddComponent(ps.EntityManager, id, &components.PositionComponent{X: req.Origin.X, Y: req.Origin.Y})

	ps.logger.Debug("emitter spawned", zap.String("kind", string(recipe.Kind)), zap.Uint64("entity", uint64(id)))
	return id
}

// spawnParticle 按配方采样一个粒子；seq 用于目标组的轮询分配
func (ps *ParticleSystem) spawnParticle(recipe config.EffectRecipe, req events.SpawnEffectRequest, origin utils.Vec2, seq int, emitterID ecs.EntityID) ecs.EntityID {
	id := ps.EntityManager.CreateEntity()

	size := recipe.Size.Sample(ps.rng)
	speed := recipe.Speed.Sample(ps.rng)
	angle := recipe.Angle.Sample(ps.rng)

	p := &components.ParticleComponent{
		Kind:            recipe.Kind,
		Velocity:        utils.FromAngle(angle, speed),
		Gravity:         recipe.Gravity,
		RotationSpeed:   recipe.RotationSpeed.Sample(ps.rng),
		AlignToVelocity: recipe.AlignToVelocity,
		Lifetime:        recipe.Lifetime.Sample(ps.rng),
		StartSize:       size,
		EndSize:         size * recipe.EndSizeScale,
		Size:            size,
		StartColor:      recipe.StartColor,
		EndColor:        recipe.EndColor,
		Color:           recipe.StartColor,
		Shape:           recipe.Shape,
		Target:          req.Target,
		Seed:            ps.rng.Float64(),
		Orchestrated:    recipe.Orchestrated,
		Emitter:         emitterID,
	}
	if req.VelocityOverride != nil {
		p.Velocity = *req.VelocityOverride
	}
	if p.Lifetime <= 0 {
		p.Lifetime = 0.01
	}
	if n := len(p.Target.Group); n > 0 {
		p.Target.Index = seq % n
	}
	if p.AlignToVelocity && p.Velocity.Len() > alignMinSpeed {
		p.Rotation = p.Velocity.Angle()
	}

	ecs.AddComponent(ps.EntityManager, id, p)
	ecs.AddComponent(ps.EntityManager, id, &components.PositionComponent{X: origin.X, Y: origin.Y})

	if p.Orchestrated {
		if ps.attacher != nil {
			ps.attacher.AttachOrchestrated(id, p, req)
		} else {
			ps.logger.Warn("orchestrated effect without orchestrator, falling back to plain particles",
				zap.String("kind", string(recipe.Kind)))
			p.Orchestrated = false
		}
	}
	return id
}

// updateEmitters advances every emitter, spawning particles at its rate.
func (ps *ParticleSystem) updateEmitters(dt float64) {
	emitterEntities := ecs.GetEntitiesWith2[
		*components.EmitterComponent,
		*components.PositionComponent,
	](ps.EntityManager)

	for _, emitterID := range emitterEntities {
		emitter, ok := ecs.GetComponent[*components.EmitterComponent](ps.EntityManager, emitterID)
		if !ok || emitter.Finished {
			continue
		}
		position, ok := ecs.GetComponent[*components.PositionComponent](ps.EntityManager, emitterID)
		if !ok {
			continue
		}

		// 发起者被移除时发射器随之结束，循环发射器也不例外
		if emitter.Owner != ecs.InvalidEntity && !ps.EntityManager.Exists(emitter.Owner) {
			emitter.Finished = true
			ps.EntityManager.DestroyEntity(emitterID)
			ps.logger.Debug("emitter owner gone",
				zap.String("kind", string(emitter.Kind)), zap.Uint64("owner", uint64(emitter.Owner)))
			continue
		}

		// 跟随发起者移动
		if ps.EntityManager.Exists(emitter.Owner) {
			if ownerPos, ok := ecs.GetComponent[*components.PositionComponent](ps.EntityManager, emitter.Owner); ok {
				position.X, position.Y = ownerPos.X, ownerPos.Y
			}
		}

		emitter.Elapsed += dt
		emitter.Timer += dt

		recipe, _ := ps.Recipes.Lookup(emitter.Kind)
		req := events.SpawnEffectRequest{
			Kind:             emitter.Kind,
			Target:           emitter.Target,
			VelocityOverride: emitter.VelocityOverride,
			Owner:            emitter.Owner,
		}
		origin := utils.Vec2{X: position.X, Y: position.Y}

		if emitter.Rate > 0 {
			interval := 1 / emitter.Rate
			spawned := 0
			for emitter.Timer >= interval && spawned < maxEmitPerFrame {
				if emitter.MaxCount > 0 && emitter.EmittedCount >= emitter.MaxCount {
					break
				}
				emitter.Timer -= interval
				ps.spawnParticle(recipe, req, origin, emitter.EmittedCount, emitterID)
				emitter.EmittedCount++
				spawned++
			}
			if spawned == maxEmitPerFrame {
				emitter.Timer = 0
			}
		}

		if emitter.Looping {
			continue
		}
		if (emitter.Duration > 0 && emitter.Elapsed >= emitter.Duration) ||
			(emitter.MaxCount > 0 && emitter.EmittedCount >= emitter.MaxCount) {
			emitter.Finished = true
			ps.EntityManager.DestroyEntity(emitterID)
		}
	}
}

// updateParticles advances particles and destroys expired ones.
func (ps *ParticleSystem) updateParticles(dt float64) {
	particleEntities := ecs.GetEntitiesWith2[
		*components.ParticleComponent,
		*components.PositionComponent,
	](ps.EntityManager)

	for _, particleID := range particleEntities {
		particle, ok := ecs.GetComponent[*components.ParticleComponent](ps.EntityManager, particleID)
		if !ok || particle.Expired {
			continue
		}
		position, ok := ecs.GetComponent[*components.PositionComponent](ps.EntityManager, particleID)
		if !ok {
			continue
		}

		particle.Age += dt
		if particle.Age >= particle.Lifetime {
			ps.expire(particleID, particle)
			continue
		}

		// 编排粒子的位置由编排器给出
		if !particle.Orchestrated {
			if ps.steer(particleID, particle, position, dt) {
				continue
			}
			particle.Velocity = particle.Velocity.Add(particle.Gravity.Scale(dt))
			position.X += particle.Velocity.X * dt
			position.Y += particle.Velocity.Y * dt
		}

		if particle.AlignToVelocity && particle.Velocity.Len() > alignMinSpeed {
			particle.Rotation = particle.Velocity.Angle()
		} else {
			particle.Rotation += particle.RotationSpeed * dt
		}

		t := utils.Clamp(particle.Age/particle.Lifetime, 0, 1)
		particle.Size = utils.Lerp(particle.StartSize, particle.EndSize, t)
		particle.Color = utils.LerpColor(particle.StartColor, particle.EndColor, t)
	}
}

// steer 有目标的普通粒子向目标加速；到达目标时销毁并返回 true
func (ps *ParticleSystem) steer(id ecs.EntityID, particle *components.ParticleComponent, position *components.PositionComponent, dt float64) bool {
	if particle.Target.Mode == components.TargetNone {
		return false
	}
	wasFizzled := particle.Fizzled
	target, ok := ResolveParticleTarget(ps.EntityManager, particle)
	if particle.Fizzled && !wasFizzled {
		ps.fizzle(id, particle, utils.Vec2{X: position.X, Y: position.Y})
	}
	if !ok {
		return false
	}

	here := utils.Vec2{X: position.X, Y: position.Y}
	to := target.Sub(here)
	if to.Len() <= arrivalRadius {
		ps.expire(id, particle)
		return true
	}
	particle.Velocity = particle.Velocity.Add(to.NormalizeOr(utils.Vec2{}).Scale(homingAcceleration * dt))
	return false
}

func (ps *ParticleSystem) fizzle(id ecs.EntityID, particle *components.ParticleComponent, at utils.Vec2) {
	if remaining := particle.Age + fizzleGrace; remaining < particle.Lifetime {
		particle.Lifetime = remaining
	}
	ps.dispatcher.Dispatch(events.Notification{
		Type:     events.EffectFizzled,
		Entity:   id,
		Tag:      string(particle.Kind),
		Position: at,
	})
}

// expire 销毁粒子，重复调用无效
func (ps *ParticleSystem) expire(id ecs.EntityID, particle *components.ParticleComponent) {
	if particle.Expired {
		return
	}
	particle.Expired = true
	ps.EntityManager.DestroyEntity(id)
}

// ParticleCount 返回存活(未过期)的粒子数量
func (ps *ParticleSystem) ParticleCount() int {
	n := 0
	for _, id := range ecs.GetEntitiesWith1[*components.ParticleComponent](ps.EntityManager) {
		if p, ok := ecs.GetComponent[*components.ParticleComponent](ps.EntityManager, id); ok && !p.Expired {
			n++
		}
	}
	return n
}
