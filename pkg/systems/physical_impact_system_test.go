package systems

import (
	"math"
	"testing"

	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/utils"
)

func TestPhysicalImpact_TiltStaysBounded(t *testing.T) {
	r := newCombatRig()
	id := r.spawnCombatant(components.SidePlayer, utils.Vec3{X: -3.5})

	// 连续的大冲量
	for i := 0; i < 120; i++ {
		r.impact.ApplyImpulse(id, 500, utils.Vec3{}, 0)
		r.impact.Update(frameDT)
		if tilt := r.impactOf(id).TiltAmount; tilt < -1 || tilt > 1 {
			t.Fatalf("frame %d: tilt %f escaped [-1, 1]", i, tilt)
		}
	}
}

func TestPhysicalImpact_SpringReturnsHome(t *testing.T) {
	r := newCombatRig()
	id := r.spawnCombatant(components.SidePlayer, utils.Vec3{X: -3.5, Y: 0.8})
	r.impact.ApplyImpulse(id, 15, utils.Vec3{X: -2}, 10)

	for i := 0; i < 600; i++ {
		r.impact.Update(frameDT)
	}

	c := r.impactOf(id)
	if c.CurrentOffset.Len() > 0.01 {
		t.Errorf("offset should settle near zero, got %+v", c.CurrentOffset)
	}
	if math.Abs(c.TiltAmount) > 0.01 || math.Abs(c.SpecialRotation) > 0.01 {
		t.Errorf("tilt/rotation should settle, got %f / %f", c.TiltAmount, c.SpecialRotation)
	}
	if c.IsActing {
		t.Error("settled unit should not be acting")
	}
}

func TestPhysicalImpact_OffsetSpringDisabledWhileTimerRuns(t *testing.T) {
	r := newCombatRig()
	id := r.spawnCombatant(components.SidePlayer, utils.Vec3{})
	c := r.impactOf(id)
	c.CurrentOffset = utils.Vec3{X: 2}
	c.ActionTimer = 1

	r.impact.Update(frameDT)

	// 没有速度也没有回归力，偏移保持不变
	if c.CurrentOffset.X != 2 {
		t.Errorf("offset should hold while action timer runs, got %f", c.CurrentOffset.X)
	}
	if !c.IsActing {
		t.Error("unit with a running timer is acting")
	}
}

func TestPhysicalImpact_ClampsLargeDelta(t *testing.T) {
	r := newCombatRig()
	id := r.spawnCombatant(components.SidePlayer, utils.Vec3{})
	r.impact.ApplyImpulse(id, 0, utils.Vec3{X: 10}, 0)

	r.impact.Update(5) // 卡顿帧按 0.033 处理

	got := r.impactOf(id).CurrentOffset.X
	if got <= 0 || got > 10*0.033 {
		t.Errorf("large dt should be clamped, offset moved %f", got)
	}

	before := r.impactOf(id).CurrentOffset
	r.impact.Update(0)
	r.impact.Update(math.NaN())
	if r.impactOf(id).CurrentOffset != before {
		t.Error("zero or NaN dt must not integrate")
	}
}

func TestPhysicalImpact_ImpulseOnMissingEntityIsIgnored(t *testing.T) {
	r := newCombatRig()
	r.impact.ApplyImpulse(ecs.EntityID(42), 10, utils.Vec3{X: 1}, 1)

	id := r.spawnCombatant(components.SidePlayer, utils.Vec3{})
	r.impact.ApplyImpulse(id, math.Inf(1), utils.Vec3{}, 0)
	if r.impactOf(id).TiltVelocity != 0 {
		t.Error("non-finite impulse must be dropped")
	}
}

func TestPhysicalImpact_PublishesTransformAndPosition(t *testing.T) {
	r := newCombatRig()
	id := r.spawnCombatant(components.SideEnemy, utils.Vec3{X: 3.5, Y: 0.8})

	r.impact.Update(frameDT)

	tr, ok := ecs.GetComponent[*components.RenderTransformComponent](r.em, id)
	if !ok {
		t.Fatal("render transform should be attached on first update")
	}
	if !approx(tr.Translation.X, 3.5, 1e-9) || !approx(tr.Translation.Y, 0.8, 1e-9) {
		t.Errorf("idle translation should equal home, got %+v", tr.Translation)
	}

	pos, _ := ecs.GetComponent[*components.PositionComponent](r.em, id)
	if !approx(pos.X, 350, 1e-6) || !approx(pos.Y, 80, 1e-6) {
		t.Errorf("plane position expected (350, 80), got (%f, %f)", pos.X, pos.Y)
	}

	// GeoM 把局部原点放到屏幕坐标上
	x, y := tr.GeoM.Apply(0, 0)
	if !approx(x, 640+350, 1e-6) || !approx(y, 360-80, 1e-6) {
		t.Errorf("GeoM origin expected (990, 280), got (%f, %f)", x, y)
	}
}

func TestPhysicalImpact_BreathOnlyWhenIdle(t *testing.T) {
	r := newCombatRig()
	id := r.spawnCombatant(components.SidePlayer, utils.Vec3{})
	ecs.AddComponent(r.em, id, &components.BreathAnimationComponent{Frequency: 3.5, Amplitude: 0.02, Timer: 0.4})

	r.impact.Update(frameDT)
	tr, _ := ecs.GetComponent[*components.RenderTransformComponent](r.em, id)
	if tr.Translation.Y == 0 {
		t.Error("idle unit should breathe")
	}
	if math.Abs(tr.Translation.Y) > 0.02+1e-9 {
		t.Errorf("breath amplitude exceeded: %f", tr.Translation.Y)
	}

	r.impactOf(id).ActionTimer = 1
	r.impact.Update(frameDT)
	if tr.Translation.Y != 0 {
		t.Errorf("breath must be zero while acting, got %f", tr.Translation.Y)
	}
}

func TestPhysicalImpact_SuppressTiltHidesLean(t *testing.T) {
	r := newCombatRig()
	id := r.spawnCombatant(components.SidePlayer, utils.Vec3{})
	c := r.impactOf(id)
	c.TiltAmount = 0.5
	c.SuppressTilt = true

	r.impact.Update(frameDT)

	tr, _ := ecs.GetComponent[*components.RenderTransformComponent](r.em, id)
	if tr.Roll != 0 || tr.Yaw != 0 {
		t.Errorf("suppressed tilt should render upright, got roll=%f yaw=%f", tr.Roll, tr.Yaw)
	}
}
