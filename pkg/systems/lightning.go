package systems

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/events"
	"github.com/gonewx/combatfx/pkg/utils"
)

// 落雷参数(平面像素)
const (
	boltHeight        = 520.0
	boltSubdivisions  = 5
	boltDisplacement  = 60.0
	branchSubdivision = 3
	decalTTL          = 4.0
	decalFadeOut      = 1.0
	decalRadius       = 36.0
)

// attachLightning 生成落雷折线、焦痕和伴随的屏幕效果
//
// 落点优先取粒子目标，没有目标时落在请求的原点上。
func (s *VfxOrchestratorSystem) attachLightning(id ecs.EntityID, p *components.ParticleComponent, req events.SpawnEffectRequest) {
	strike := req.Origin
	if target, ok := ResolveParticleTarget(s.entityManager, p); ok {
		strike = target
	}
	top := strike.Add(utils.Vec2{X: (s.rng.Float64()*2 - 1) * 40, Y: boltHeight})

	points := midpointBolt(s.rng, top, strike, boltSubdivisions, boltDisplacement)
	bolt := &components.LightningBoltComponent{
		Points:   points,
		Branches: boltBranches(s.rng, points),
		Color:    p.StartColor,
		Width:    p.StartSize,
		Lifetime: p.Lifetime,
		Alpha:    1,
	}
	ecs.AddComponent(s.entityManager, id, bolt)
	p.Hidden = true
	p.Velocity = utils.Vec2{}
	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id); ok {
		pos.X, pos.Y = strike.X, strike.Y
	}

	decal := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, decal, &components.DecalComponent{
		Radius: decalRadius,
		Color:  utils.RGBA(0.1, 0.1, 0.12, 0.7),
	})
	ecs.AddComponent(s.entityManager, decal, &components.PositionComponent{X: strike.X, Y: strike.Y})
	ecs.AddComponent(s.entityManager, decal, &components.LifetimeComponent{MaxLifetime: decalTTL, FadeOut: decalFadeOut})

	s.queue.PushScreen(events.WhiteFlash(0.15))
	s.queue.PushScreen(events.Shake(0.6, 2))
	s.queue.PushSpawn(events.Burst(config.EffectLightning, strike, 0))
	s.dispatcher.Dispatch(events.Notification{
		Type:     events.StrikeLanded,
		Entity:   id,
		Tag:      string(p.Kind),
		Position: strike,
	})

	s.logger.Debug("lightning strike",
		zap.Float64("x", strike.X), zap.Float64("y", strike.Y), zap.Int("points", len(points)))
}

// updateLightning 折线随粒子寿命淡出
func (s *VfxOrchestratorSystem) updateLightning() {
	entities := ecs.GetEntitiesWith2[*components.ParticleComponent, *components.LightningBoltComponent](s.entityManager)
	for _, id := range entities {
		p, _ := ecs.GetComponent[*components.ParticleComponent](s.entityManager, id)
		bolt, _ := ecs.GetComponent[*components.LightningBoltComponent](s.entityManager, id)
		bolt.Age = p.Age
		if bolt.Lifetime > 0 {
			bolt.Alpha = utils.Clamp(1-bolt.Age/bolt.Lifetime, 0, 1)
		}
	}
}

// midpointBolt 中点位移法生成折线
//
// 每轮把每段一分为二，中点沿该段法线随机偏移；偏移幅度每轮减半。
// n 轮之后得到 2^n + 1 个点，首尾固定为 from 和 to。
func midpointBolt(rng *rand.Rand, from, to utils.Vec2, subdivisions int, displacement float64) []utils.Vec2 {
	points := []utils.Vec2{from, to}
	offset := displacement
	for i := 0; i < subdivisions; i++ {
		next := make([]utils.Vec2, 0, len(points)*2-1)
		for j := 0; j < len(points)-1; j++ {
			a, b := points[j], points[j+1]
			seg := b.Sub(a)
			normal := utils.Vec2{X: -seg.Y, Y: seg.X}.NormalizeOr(utils.Vec2{X: 1})
			mid := a.Lerp(b, 0.5).Add(normal.Scale((rng.Float64()*2 - 1) * offset))
			next = append(next, a, mid)
		}
		next = append(next, points[len(points)-1])
		points = next
		offset *= 0.5
	}
	return points
}

// boltBranches 从主干中段随机分出 1~3 条短支
func boltBranches(rng *rand.Rand, trunk []utils.Vec2) [][]utils.Vec2 {
	if len(trunk) < 4 {
		return nil
	}
	count := 1 + rng.Intn(3)
	branches := make([][]utils.Vec2, 0, count)
	for i := 0; i < count; i++ {
		k := 1 + rng.Intn(len(trunk)-2)
		start := trunk[k]
		heading := trunk[k+1].Sub(start).Angle() + (rng.Float64()*2-1)*0.6
		length := 60 + rng.Float64()*60
		end := start.Add(utils.FromAngle(heading, length))
		branches = append(branches, midpointBolt(rng, start, end, branchSubdivision, boltDisplacement*0.3))
	}
	return branches
}
