package systems

import (
	"testing"

	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/utils"
)

func TestAfterImage_FastMovementLeavesGhosts(t *testing.T) {
	em := ecs.NewEntityManager()
	after := NewAfterImageSystem(em)
	lifetime := NewLifetimeSystem(em)

	unit := em.CreateEntity()
	ecs.AddComponent(em, unit, NewAfterImageComponent())
	tr := &components.RenderTransformComponent{}
	ecs.AddComponent(em, unit, tr)

	// 以 25 单位/秒移动 0.5 秒
	for i := 0; i < 30; i++ {
		tr.Translation = tr.Translation.Add(utils.Vec3{X: 25 * frameDT})
		after.Update(frameDT)
		lifetime.Update(frameDT)
		em.RemoveMarkedEntities()
	}

	ghosts := ecs.GetEntitiesWith1[*components.GhostComponent](em)
	if len(ghosts) < 3 {
		t.Fatalf("expected several ghosts at dash speed, got %d", len(ghosts))
	}
	for _, id := range ghosts {
		g, _ := ecs.GetComponent[*components.GhostComponent](em, id)
		if g.Alpha < 0 || g.Alpha > 0.6 {
			t.Errorf("ghost alpha out of range: %f", g.Alpha)
		}
	}
}

func TestAfterImage_SlowMovementLeavesNone(t *testing.T) {
	em := ecs.NewEntityManager()
	after := NewAfterImageSystem(em)

	unit := em.CreateEntity()
	ecs.AddComponent(em, unit, NewAfterImageComponent())
	tr := &components.RenderTransformComponent{}
	ecs.AddComponent(em, unit, tr)

	for i := 0; i < 60; i++ {
		tr.Translation = tr.Translation.Add(utils.Vec3{X: 2 * frameDT})
		after.Update(frameDT)
	}

	if n := len(ecs.GetEntitiesWith1[*components.GhostComponent](em)); n != 0 {
		t.Errorf("slow movement should not leave ghosts, got %d", n)
	}
}
