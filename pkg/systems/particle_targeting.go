package systems

import (
	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/utils"
)

// ResolveParticleTarget 返回粒子本帧应飞向的战斗平面位置
//
// 目标只按 ID 弱引用：
//   - 单实体目标失效后使用最后一次解析到的位置，并标记 Fizzled
//   - 目标组成员失效后按顺序改投下一个存活成员(Index 随之更新)；
//     全部失效时使用最后已知位置，再没有就用成员生成时的快照位置
//
// 粒子永远不会退回原点：没有任何可用位置时返回 false，由调用方按无目标处理。
func ResolveParticleTarget(em *ecs.EntityManager, p *components.ParticleComponent) (utils.Vec2, bool) {
	switch p.Target.Mode {
	case components.TargetPoint:
		p.ResolvedTarget, p.HasResolved = p.Target.Point, true
		return p.Target.Point, true

	case components.TargetEntity:
		if pos, ok := entityPlanePosition(em, p.Target.Entity); ok {
			p.ResolvedTarget, p.HasResolved = pos, true
			return pos, true
		}
		p.Fizzled = true
		return p.ResolvedTarget, p.HasResolved

	case components.TargetGroup:
		n := len(p.Target.Group)
		if n == 0 {
			return p.ResolvedTarget, p.HasResolved
		}
		for i := 0; i < n; i++ {
			idx := (p.Target.Index + i) % n
			if pos, ok := entityPlanePosition(em, p.Target.Group[idx].Entity); ok {
				p.Target.Index = idx
				p.ResolvedTarget, p.HasResolved = pos, true
				return pos, true
			}
		}
		p.Fizzled = true
		if !p.HasResolved {
			p.ResolvedTarget, p.HasResolved = p.Target.Group[p.Target.Index%n].Position, true
		}
		return p.ResolvedTarget, true
	}
	return utils.Vec2{}, false
}

// entityPlanePosition 存活实体的战斗平面位置
func entityPlanePosition(em *ecs.EntityManager, id ecs.EntityID) (utils.Vec2, bool) {
	if !em.Exists(id) {
		return utils.Vec2{}, false
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](em, id)
	if !ok {
		return utils.Vec2{}, false
	}
	return utils.Vec2{X: pos.X, Y: pos.Y}, true
}
