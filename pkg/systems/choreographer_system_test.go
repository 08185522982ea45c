package systems

import (
	"testing"

	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/events"
	"github.com/gonewx/combatfx/pkg/utils"
)

// TestChoreographer_DashArrivesAndResets 敌人冲刺 7 个单位，结束时停在目标处且阶段归零
func TestChoreographer_DashArrivesAndResets(t *testing.T) {
	r := newCombatRig()
	enemy := r.spawnCombatant(components.SideEnemy, utils.Vec3{X: 3.5, Y: 0.8})
	r.command(enemy, config.MoveDash, ecs.InvalidEntity, 7)

	r.frame(frameDT)
	c := r.impactOf(enemy)
	if c.ActionType != components.ActionDash {
		t.Fatalf("expected dash in flight, got %v", c.ActionType)
	}
	if !approx(c.ActionDuration, 7.0/25+0.5, 1e-9) {
		t.Errorf("dash duration should be distance/speed + hold, got %f", c.ActionDuration)
	}

	finished := false
	for i := 0; i < 120; i++ {
		r.frame(frameDT)
		if c.ActionType == components.ActionNone {
			finished = true
			break
		}
		if c.CurrentOffset.X < -7-1e-9 {
			t.Fatalf("dash overshot the target: %f", c.CurrentOffset.X)
		}
	}
	if !finished {
		t.Fatal("dash never finished")
	}
	if !approx(c.CurrentOffset.X, -7, 0.1) {
		t.Errorf("offset.x expected ~-7, got %f", c.CurrentOffset.X)
	}
	if c.ActionStage != 0 {
		t.Errorf("stage should reset to 0 on exit, got %d", c.ActionStage)
	}
	if n := r.spawnsOf(config.EffectWolfSlash); n != 1 {
		t.Errorf("dash should strike exactly once, got %d slash requests", n)
	}
}

func TestChoreographer_DashFallsBackToDefaultOpponent(t *testing.T) {
	r := newCombatRig()
	enemy := r.spawnCombatant(components.SideEnemy, utils.Vec3{X: 3.5, Y: 0.8})
	r.command(enemy, config.MoveDash, ecs.EntityID(999), 0)

	r.frame(frameDT)
	if d := r.impactOf(enemy).TargetOffsetDist; !approx(d, 7, 1e-9) {
		t.Errorf("missing target should fall back to the mirrored stand, got %f", d)
	}
}

// TestChoreographer_ComboBackToBack 连续两次连招，第一阶段特效两次都要触发
func TestChoreographer_ComboBackToBack(t *testing.T) {
	r := newCombatRig()
	player := r.spawnCombatant(components.SidePlayer, utils.Vec3{X: -3.5, Y: 0.8})
	enemy := r.spawnCombatant(components.SideEnemy, utils.Vec3{X: 3.5, Y: 0.8})

	for round := 1; round <= 2; round++ {
		r.command(player, config.MoveCultivatorCombo, enemy, 0)
		for i := 0; i < 36; i++ { // 0.6 秒：跑近阶段结束，第一次挥斩开始
			r.frame(frameDT)
		}
		if n := r.spawnsOf(config.EffectWolfSlash); n != 1 {
			t.Fatalf("round %d: expected the stage-1 slash once, got %d", round, n)
		}
		for i := 0; i < 144; i++ {
			r.frame(frameDT)
		}
		c := r.impactOf(player)
		if c.ActionType != components.ActionNone || c.ActionStage != 0 {
			t.Fatalf("round %d: combo should be finished, got %v stage %d", round, c.ActionType, c.ActionStage)
		}
		if c.CurrentOffset.Len() > 0.01 {
			t.Errorf("round %d: combo should return home, offset %+v", round, c.CurrentOffset)
		}
		r.queue.DrainSpawns()
	}

	finishedCount := 0
	for _, n := range r.notices {
		if n.Type == events.ActionFinished && n.Entity == player {
			finishedCount++
		}
	}
	if finishedCount != 2 {
		t.Errorf("expected two ActionFinished notifications, got %d", finishedCount)
	}
}

func TestChoreographer_ProtectedMoveIgnoresCommands(t *testing.T) {
	r := newCombatRig()
	enemy := r.spawnCombatant(components.SideEnemy, utils.Vec3{X: 3.5, Y: 0.8})
	r.command(enemy, config.MoveSiriusFrenzy, ecs.InvalidEntity, 0)
	r.frame(frameDT)

	r.command(enemy, config.MoveHit, ecs.InvalidEntity, 0)
	r.frame(frameDT)

	c := r.impactOf(enemy)
	if c.ActionType != components.ActionSiriusFrenzy {
		t.Errorf("protected frenzy should keep running, got %v", c.ActionType)
	}
	if ecs.HasComponent[*components.PlayAnimationCommandComponent](r.em, enemy) {
		t.Error("ignored command should still be consumed")
	}
}

func TestChoreographer_UnprotectedMoveIsInterrupted(t *testing.T) {
	r := newCombatRig()
	enemy := r.spawnCombatant(components.SideEnemy, utils.Vec3{X: 3.5, Y: 0.8})
	r.command(enemy, config.MoveWolfBite, ecs.InvalidEntity, 0)
	r.frame(frameDT)

	r.command(enemy, config.MoveHit, ecs.InvalidEntity, 0)
	r.choreo.Update(frameDT)

	c := r.impactOf(enemy)
	if c.ActionType != components.ActionNone || c.ActionTimer != 0 {
		t.Errorf("hit should reset the bite, got %v timer %f", c.ActionType, c.ActionTimer)
	}
}

func TestChoreographer_HitReactionImpulse(t *testing.T) {
	r := newCombatRig()
	player := r.spawnCombatant(components.SidePlayer, utils.Vec3{X: -3.5})
	r.command(player, config.MoveHit, ecs.InvalidEntity, 0)

	r.choreo.Update(frameDT)

	c := r.impactOf(player)
	if c.TiltVelocity != 15 || c.OffsetVelocity.X != -2 {
		t.Errorf("hit impulse expected tilt 15 / offset -2, got %f / %f", c.TiltVelocity, c.OffsetVelocity.X)
	}
	if c.ActionType != components.ActionNone {
		t.Error("reaction moves do not enter an action state")
	}
}

func TestChoreographer_StageThresholdsFireOnce(t *testing.T) {
	r := newCombatRig()
	player := r.spawnCombatant(components.SidePlayer, utils.Vec3{X: -3.5, Y: 0.8})
	enemy := r.spawnCombatant(components.SideEnemy, utils.Vec3{X: 3.5, Y: 0.8})
	r.command(player, config.MoveTwinStrike, enemy, 0)

	for i := 0; i < 70; i++ {
		r.frame(frameDT)
	}

	if n := r.spawnsOf(config.EffectImpactSpark); n != 2 {
		t.Errorf("two thresholds should fire two bursts, got %d", n)
	}
	strikes := 0
	for _, n := range r.notices {
		if n.Type == events.StrikeLanded {
			strikes++
		}
	}
	if strikes != 2 {
		t.Errorf("expected 2 StrikeLanded, got %d", strikes)
	}
	if c := r.impactOf(player); c.ActionStage != 0 || c.StageFired != nil {
		t.Errorf("stage flags should clear on exit, got stage %d fired %v", c.ActionStage, c.StageFired)
	}
}

func TestChoreographer_FrenzyShakesOnStageChange(t *testing.T) {
	r := newCombatRig()
	enemy := r.spawnCombatant(components.SideEnemy, utils.Vec3{X: 3.5, Y: 0.8})
	r.command(enemy, config.MoveSiriusFrenzy, ecs.InvalidEntity, 0)

	for i := 0; i < 60; i++ {
		r.frame(frameDT)
	}

	shakes := 0
	for _, s := range r.queue.DrainScreens() {
		if s.Kind == events.ScreenShake {
			shakes++
		}
	}
	if shakes != 2 {
		t.Errorf("frenzy should shake on entering stages 1 and 2, got %d", shakes)
	}
	if r.spawnsOf(config.EffectWolfSlash) == 0 {
		t.Error("frenzy should leave slash trails")
	}
}

func TestChoreographer_UnknownMoveDropped(t *testing.T) {
	r := newCombatRig()
	id := r.spawnCombatant(components.SidePlayer, utils.Vec3{})
	r.command(id, config.MoveKind("moonwalk"), ecs.InvalidEntity, 0)

	r.frame(frameDT)

	if ecs.HasComponent[*components.PlayAnimationCommandComponent](r.em, id) {
		t.Error("unknown command should be consumed")
	}
	if r.impactOf(id).ActionType != components.ActionNone {
		t.Error("unknown move must not start an action")
	}
}

func TestChoreographer_AscendLiftsAndLands(t *testing.T) {
	r := newCombatRig()
	id := r.spawnCombatant(components.SidePlayer, utils.Vec3{X: -3.5})
	r.choreo.PlayMove(id, config.MoveAscend, ecs.InvalidEntity)

	for i := 0; i < 105; i++ { // 1.75 秒，悬停段
		r.frame(frameDT)
	}
	if y := r.impactOf(id).ActionPosOffset.Y; !approx(y, 0.8, 1e-9) {
		t.Errorf("ascend should hover at 0.8, got %f", y)
	}
	for i := 0; i < 120; i++ {
		r.frame(frameDT)
	}
	if y := r.impactOf(id).ActionPosOffset.Y; y != 0 {
		t.Errorf("overlay should clear after landing, got %f", y)
	}
}
