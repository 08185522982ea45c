package systems

import (
	"math"

	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/events"
	"github.com/gonewx/combatfx/pkg/utils"
)

const frameDT = 1.0 / 60.0

// combatRig 测试用的最小系统组合：编排器 + 冲击模拟器
type combatRig struct {
	em      *ecs.EntityManager
	queue   *events.Queue
	disp    *events.Dispatcher
	impact  *PhysicalImpactSystem
	choreo  *ChoreographerSystem
	notices []events.Notification
}

func newCombatRig() *combatRig {
	r := &combatRig{
		em:    ecs.NewEntityManager(),
		queue: events.NewQueue(),
		disp:  events.NewDispatcher(),
	}
	r.impact = NewPhysicalImpactSystem(r.em, config.DefaultImpactConfig(), utils.DefaultBridge(), nil)
	r.choreo = NewChoreographerSystem(r.em, r.impact, config.DefaultMoveTable(), r.queue, r.disp, nil)
	record := events.ListenerFunc(func(n events.Notification) { r.notices = append(r.notices, n) })
	r.disp.Subscribe(events.StrikeLanded, record)
	r.disp.Subscribe(events.ActionFinished, record)
	return r
}

// spawnCombatant 创建一个站在 home 的参战单位
func (r *combatRig) spawnCombatant(side components.Side, home utils.Vec3) ecs.EntityID {
	id := r.em.CreateEntity()
	ecs.AddComponent(r.em, id, &components.CombatantComponent{Side: side})
	ecs.AddComponent(r.em, id, &components.PhysicalImpactComponent{HomePosition: home})
	ecs.AddComponent(r.em, id, &components.PositionComponent{})
	return id
}

func (r *combatRig) impactOf(id ecs.EntityID) *components.PhysicalImpactComponent {
	c, _ := ecs.GetComponent[*components.PhysicalImpactComponent](r.em, id)
	return c
}

func (r *combatRig) command(id ecs.EntityID, move config.MoveKind, target ecs.EntityID, dist float64) {
	ecs.AddComponent(r.em, id, &components.PlayAnimationCommandComponent{
		Move:           move,
		Target:         target,
		TargetDistance: dist,
	})
}

// frame 按场景中的顺序跑一帧：冲量 → 编排 → 积分
func (r *combatRig) frame(dt float64) {
	for _, imp := range r.queue.DrainImpulses() {
		r.impact.ApplyImpulse(imp.Target, imp.Tilt, imp.Offset, imp.Rotation)
	}
	r.choreo.Update(dt)
	r.impact.Update(dt)
}

func (r *combatRig) spawnsOf(kind config.EffectKind) int {
	n := 0
	for _, req := range r.queue.DrainSpawns() {
		if req.Kind == kind {
			n++
		}
	}
	return n
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
