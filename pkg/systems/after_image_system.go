package systems

import (
	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/utils"
)

// NewAfterImageComponent 返回默认残影参数(青色半透明)
func NewAfterImageComponent() *components.AfterImageComponent {
	return &components.AfterImageComponent{
		SpeedThreshold:   10,
		SnapshotInterval: 0.1,
		GhostTTL:         0.5,
		Color:            utils.RGBA(0, 0.8, 1, 0.6),
	}
}

// AfterImageSystem 高速移动的单位留下残影
type AfterImageSystem struct {
	entityManager *ecs.EntityManager
}

// NewAfterImageSystem 创建残影系统
func NewAfterImageSystem(em *ecs.EntityManager) *AfterImageSystem {
	return &AfterImageSystem{entityManager: em}
}

// Update 按渲染位移估计速度并生成残影，同时淡出已有残影
func (s *AfterImageSystem) Update(dt float64) {
	if dt <= 0 {
		return
	}

	sources := ecs.GetEntitiesWith2[*components.AfterImageComponent, *components.RenderTransformComponent](s.entityManager)
	for _, id := range sources {
		ai, _ := ecs.GetComponent[*components.AfterImageComponent](s.entityManager, id)
		tr, _ := ecs.GetComponent[*components.RenderTransformComponent](s.entityManager, id)

		speed := 0.0
		if ai.HasLast {
			speed = tr.Translation.Sub(ai.LastPosition).Len() / dt
		}
		ai.LastPosition = tr.Translation
		ai.HasLast = true
		ai.Active = speed > ai.SpeedThreshold
		ai.Timer += dt

		if ai.ForceSnapshot || (ai.Active && ai.Timer >= ai.SnapshotInterval) {
			ai.ForceSnapshot = false
			ai.Timer = 0
			s.spawnGhost(tr, ai)
		}
	}

	ghosts := ecs.GetEntitiesWith2[*components.GhostComponent, *components.LifetimeComponent](s.entityManager)
	for _, id := range ghosts {
		ghost, _ := ecs.GetComponent[*components.GhostComponent](s.entityManager, id)
		life, _ := ecs.GetComponent[*components.LifetimeComponent](s.entityManager, id)
		if life.MaxLifetime > 0 {
			ghost.Alpha = ghost.Color.A * utils.Clamp(1-life.CurrentLifetime/life.MaxLifetime, 0, 1)
		}
	}
}

func (s *AfterImageSystem) spawnGhost(tr *components.RenderTransformComponent, ai *components.AfterImageComponent) {
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.GhostComponent{
		Translation: tr.Translation,
		Roll:        tr.Roll,
		Color:       ai.Color,
		Alpha:       ai.Color.A,
	})
	ecs.AddComponent(s.entityManager, id, &components.LifetimeComponent{MaxLifetime: ai.GhostTTL})
}
