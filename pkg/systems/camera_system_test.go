package systems

import (
	"math/rand"
	"testing"

	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/events"
	"github.com/gonewx/combatfx/pkg/utils"
)

func newShakeSystem() (*ecs.EntityManager, *CameraShakeSystem) {
	em := ecs.NewEntityManager()
	cs := NewCameraShakeSystem(em, config.DefaultTuning().Shake, rand.New(rand.NewSource(7)), nil)
	return em, cs
}

// TestCameraShake_NewCameraShakeSystem 测试震动系统的创建
func TestCameraShake_NewCameraShakeSystem(t *testing.T) {
	em, cs := newShakeSystem()

	if cs.CameraEntity() == ecs.InvalidEntity {
		t.Fatal("Camera entity not created")
	}
	if !ecs.HasComponent[*components.ActiveCameraComponent](em, cs.CameraEntity()) {
		t.Error("default camera should be active")
	}
	if cs.IsShaking() {
		t.Error("camera should be still on creation")
	}
}

// TestCameraShake_EndsExactlyAtBase 震动结束后摄像机精确回到原位，组件被移除
func TestCameraShake_EndsExactlyAtBase(t *testing.T) {
	em, cs := newShakeSystem()
	camera, _ := ecs.GetComponent[*components.CameraComponent](em, cs.CameraEntity())
	camera.Translation = utils.Vec2{X: 13.25, Y: -4.5}
	base := camera.Translation

	cs.Apply([]events.ScreenEffectRequest{events.Shake(1.0, 0.45)})
	if !cs.IsShaking() {
		t.Fatal("shake component should be attached")
	}

	moved := false
	for i := 0; i < 180; i++ { // 3 秒
		cs.Update(frameDT)
		if camera.Translation != base {
			moved = true
		}
	}

	if !moved {
		t.Error("camera should have moved while shaking")
	}
	if cs.IsShaking() {
		t.Error("shake component should be removed after trauma decays")
	}
	if camera.Translation != base {
		t.Errorf("camera should be restored exactly to %+v, got %+v", base, camera.Translation)
	}
}

func TestCameraShake_MergesWithinFrame(t *testing.T) {
	em, cs := newShakeSystem()

	cs.Apply([]events.ScreenEffectRequest{
		events.Shake(0.3, 2.0),
		events.Shake(0.8, 4.0),
		events.Flash(utils.ColorWhite, 0.1), // 忽略
	})

	shake, ok := ecs.GetComponent[*components.CameraShakeComponent](em, cs.CameraEntity())
	if !ok {
		t.Fatal("shake should be attached")
	}
	if shake.Trauma != 0.8 || shake.Decay != 2.0 {
		t.Errorf("expected max trauma 0.8 and min decay 2.0, got %f / %f", shake.Trauma, shake.Decay)
	}

	// 已在震动时，较弱的震动不会降低 trauma
	cs.Apply([]events.ScreenEffectRequest{events.Shake(0.1, 1.0)})
	if shake.Trauma != 0.8 || shake.Decay != 1.0 {
		t.Errorf("merge with existing shake: got trauma %f decay %f", shake.Trauma, shake.Decay)
	}
}

func TestCameraShake_ImpactDecaysByDuration(t *testing.T) {
	em, cs := newShakeSystem()
	cs.Apply([]events.ScreenEffectRequest{events.Impact(utils.Vec2{X: 20}, 0.5)})

	shake, _ := ecs.GetComponent[*components.CameraShakeComponent](em, cs.CameraEntity())
	if shake.ImpulseDecay != 8 {
		t.Errorf("impulse decay should be 4/duration = 8, got %f", shake.ImpulseDecay)
	}

	cs.Update(frameDT)
	camera, _ := ecs.GetComponent[*components.CameraComponent](em, cs.CameraEntity())
	if camera.Translation.X <= 0 {
		t.Errorf("impact should push the camera along +x, got %+v", camera.Translation)
	}

	for i := 0; i < 300; i++ {
		cs.Update(frameDT)
	}
	if cs.IsShaking() || !camera.Translation.IsZero() {
		t.Errorf("impact should settle back to base, translation %+v", camera.Translation)
	}
}

func TestCameraShake_IntensityZeroDisablesTrauma(t *testing.T) {
	em, cs := newShakeSystem()
	cs.SetIntensity(0)
	cs.Apply([]events.ScreenEffectRequest{events.HeavyShake()})
	cs.Update(frameDT)

	camera, _ := ecs.GetComponent[*components.CameraComponent](em, cs.CameraEntity())
	if !camera.Translation.IsZero() {
		t.Errorf("disabled shake must not move the camera, got %+v", camera.Translation)
	}
	if cs.IsShaking() {
		t.Error("zero-trauma shake should end on the first update")
	}
}

func TestCameraShake_NoActiveCamera(t *testing.T) {
	em, cs := newShakeSystem()
	ecs.RemoveComponent[*components.ActiveCameraComponent](em, cs.CameraEntity())

	cs.Apply([]events.ScreenEffectRequest{events.HeavyShake()})
	if cs.IsShaking() {
		t.Error("shake must not attach to an inactive camera")
	}
}
