package systems

import (
	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/utils"
)

// LifetimeSystem 管理残影、焦痕等定时实体的生命周期
type LifetimeSystem struct {
	entityManager *ecs.EntityManager
}

// NewLifetimeSystem 创建一个新的生命周期系统
func NewLifetimeSystem(em *ecs.EntityManager) *LifetimeSystem {
	return &LifetimeSystem{
		entityManager: em,
	}
}

// Update 更新所有拥有生命周期组件的实体
//
// 过期实体只标记删除一次；实际清理在帧末 RemoveMarkedEntities。
func (s *LifetimeSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith1[*components.LifetimeComponent](s.entityManager)

	for _, id := range entities {
		lifetime, ok := ecs.GetComponent[*components.LifetimeComponent](s.entityManager, id)
		if !ok || lifetime.IsExpired {
			continue
		}

		lifetime.CurrentLifetime += deltaTime

		if lifetime.CurrentLifetime >= lifetime.MaxLifetime {
			lifetime.IsExpired = true
			s.entityManager.DestroyEntity(id)
		}
	}
}

// Remaining 返回实体剩余寿命(秒)；没有生命周期组件时返回 -1
func (s *LifetimeSystem) Remaining(id ecs.EntityID) float64 {
	lifetime, ok := ecs.GetComponent[*components.LifetimeComponent](s.entityManager, id)
	if !ok {
		return -1
	}
	if r := lifetime.MaxLifetime - lifetime.CurrentLifetime; r > 0 {
		return r
	}
	return 0
}

// Alpha 返回淡出阶段的透明度；没有生命周期组件时返回 1
func (s *LifetimeSystem) Alpha(id ecs.EntityID) float64 {
	lifetime, ok := ecs.GetComponent[*components.LifetimeComponent](s.entityManager, id)
	if !ok || lifetime.FadeOut <= 0 {
		return 1
	}
	remaining := lifetime.MaxLifetime - lifetime.CurrentLifetime
	return utils.Clamp(remaining/lifetime.FadeOut, 0, 1)
}
