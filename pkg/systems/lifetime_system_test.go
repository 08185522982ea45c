package systems

import (
	"math"
	"reflect"
	"testing"

	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/ecs"
)

func TestLifetimeUpdate(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewLifetimeSystem(em)

	// 创建测试实体
	id := em.CreateEntity()
	em.AddComponent(id, &components.LifetimeComponent{MaxLifetime: 4.0})

	// 模拟1秒更新
	system.Update(1.0)

	lifetimeComp, _ := em.GetComponent(id, reflect.TypeOf(&components.LifetimeComponent{}))
	lifetime := lifetimeComp.(*components.LifetimeComponent)

	if lifetime.CurrentLifetime != 1.0 {
		t.Errorf("Expected CurrentLifetime=1.0, got %f", lifetime.CurrentLifetime)
	}
	if lifetime.IsExpired {
		t.Error("Entity should not be expired yet")
	}
	if r := system.Remaining(id); r != 3.0 {
		t.Errorf("Expected 3s remaining, got %f", r)
	}
}

func TestLifetimeExpiration(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewLifetimeSystem(em)

	id := em.CreateEntity()
	em.AddComponent(id, &components.LifetimeComponent{MaxLifetime: 0.5})

	// 模拟超过最大生命周期
	system.Update(0.6)

	lifetimeComp, _ := em.GetComponent(id, reflect.TypeOf(&components.LifetimeComponent{}))
	lifetime := lifetimeComp.(*components.LifetimeComponent)
	if !lifetime.IsExpired {
		t.Error("Entity should be expired")
	}

	// 同一帧内再次更新不会重复标记
	system.Update(0.1)
	if n := em.RemoveMarkedEntities(); n != 1 {
		t.Errorf("Expected exactly one removal, got %d", n)
	}

	if em.HasComponent(id, reflect.TypeOf(&components.LifetimeComponent{})) {
		t.Error("Expired entity should be removed")
	}
	if r := system.Remaining(id); r != -1 {
		t.Errorf("Removed entity should report -1, got %f", r)
	}
}

func TestLifetimeGhostAndDecalExpireIndependently(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewLifetimeSystem(em)

	// 残影 0.5 秒，焦痕 4 秒
	ghost := em.CreateEntity()
	em.AddComponent(ghost, &components.GhostComponent{})
	em.AddComponent(ghost, &components.LifetimeComponent{MaxLifetime: 0.5})

	decal := em.CreateEntity()
	em.AddComponent(decal, &components.DecalComponent{Radius: 36})
	em.AddComponent(decal, &components.LifetimeComponent{MaxLifetime: 4.0})

	for i := 0; i < 60; i++ {
		system.Update(frameDT)
		em.RemoveMarkedEntities()
	}

	if em.Exists(ghost) {
		t.Error("ghost should be gone after 1s")
	}
	if !em.Exists(decal) {
		t.Error("decal should still be on the ground after 1s")
	}
}

func TestLifetimeAlphaFadesOut(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewLifetimeSystem(em)

	decal := em.CreateEntity()
	em.AddComponent(decal, &components.LifetimeComponent{MaxLifetime: 4.0, FadeOut: 1.0})
	plain := em.CreateEntity()
	em.AddComponent(plain, &components.LifetimeComponent{MaxLifetime: 4.0})

	tests := []struct {
		name    string
		elapsed float64
		want    float64
	}{
		{"淡出前", 2.0, 1.0},
		{"淡出一半", 1.5, 0.5},
		{"临近结束", 0.25, 0.25},
	}
	for _, tt := range tests {
		system.Update(tt.elapsed)
		if got := system.Alpha(decal); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: Alpha = %f, want %f", tt.name, got, tt.want)
		}
	}
	if got := system.Alpha(plain); got != 1 {
		t.Errorf("no fade-out should stay opaque, got %f", got)
	}
	if got := system.Alpha(em.CreateEntity()); got != 1 {
		t.Errorf("entity without lifetime should be opaque, got %f", got)
	}
}
