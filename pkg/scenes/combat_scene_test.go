package scenes

import (
	"math"
	"testing"

	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/game"
)

const frameDT = 1.0 / 60.0

func newTestScene(t *testing.T, enemies int, store *game.TuningStore) *CombatScene {
	t.Helper()
	s, err := NewCombatScene(CombatSceneOptions{Enemies: enemies, Store: store, Seed: 7})
	if err != nil {
		t.Fatalf("NewCombatScene() error: %v", err)
	}
	return s
}

func (s *CombatScene) run(seconds float64) {
	for i := 0; i < int(math.Round(seconds/frameDT)); i++ {
		s.Step(frameDT)
	}
}

func (s *CombatScene) impactOf(id ecs.EntityID) *components.PhysicalImpactComponent {
	c, _ := ecs.GetComponent[*components.PhysicalImpactComponent](s.entityManager, id)
	return c
}

func (s *CombatScene) cameraOffset() components.CameraComponent {
	cam, _ := ecs.GetComponent[*components.CameraComponent](s.entityManager, s.cameraShakeSystem.CameraEntity())
	return *cam
}

func TestCombatScene_DashStrikesThenSettlesHome(t *testing.T) {
	s := newTestScene(t, 1, nil)
	s.PlayMove(s.Player(), config.MoveDash, s.Enemies()[0])

	s.run(5)

	if s.strikes < 1 {
		t.Errorf("dash should land a strike, got %d", s.strikes)
	}
	if s.finishes < 1 {
		t.Errorf("dash should finish, got %d", s.finishes)
	}
	impact := s.impactOf(s.Player())
	if impact.ActionType != components.ActionNone || impact.IsActing {
		t.Errorf("player should be idle, action %v acting %v", impact.ActionType, impact.IsActing)
	}
	if math.Abs(impact.CurrentOffset.X) > 0.05 {
		t.Errorf("player should spring back home, offset %f", impact.CurrentOffset.X)
	}
}

func TestCombatScene_VolleyCoversEveryEnemyAndCleansUp(t *testing.T) {
	s := newTestScene(t, 3, nil)
	s.CastVolley()
	s.Step(frameDT)

	targeted := map[ecs.EntityID]bool{}
	for _, id := range ecs.GetEntitiesWith1[*components.VolleyComponent](s.entityManager) {
		p, _ := ecs.GetComponent[*components.ParticleComponent](s.entityManager, id)
		targeted[p.Target.Group[p.Target.Index].Entity] = true
	}
	if len(targeted) != 3 {
		t.Fatalf("volley should target all 3 enemies, got %d", len(targeted))
	}

	s.run(4)

	if n := s.particleSystem.ParticleCount(); n != 0 {
		t.Errorf("all particles should be gone, %d left", n)
	}
	if n := len(ecs.GetEntitiesWith1[*components.Particle3DComponent](s.entityManager)); n != 0 {
		t.Errorf("3D companions should be removed with their particles, %d left", n)
	}
}

func TestCombatScene_VolleyAbandonsDeadEnemy(t *testing.T) {
	s := newTestScene(t, 3, nil)
	s.CastVolley()
	s.run(1)

	dead := s.planePosition(s.Enemies()[0])
	if !s.KillEnemy(0) {
		t.Fatal("first enemy should be removable")
	}
	if s.KillEnemy(0) {
		t.Error("removing the same enemy twice should report false")
	}
	s.run(1)

	for _, id := range ecs.GetEntitiesWith1[*components.VolleyComponent](s.entityManager) {
		p, _ := ecs.GetComponent[*components.ParticleComponent](s.entityManager, id)
		if p.HasResolved && p.ResolvedTarget == dead {
			t.Errorf("sword %d still heading for the dead enemy", id)
		}
	}
}

func TestCombatScene_HitStopScalesSimulationOnly(t *testing.T) {
	s := newTestScene(t, 1, nil)
	s.HitStop(0.1, 0.05)

	s.Step(frameDT)
	if got, want := s.SimTime(), frameDT*0.05; math.Abs(got-want) > 1e-12 {
		t.Errorf("sim time during hit stop = %g, want %g", got, want)
	}

	s.run(0.2)
	before := s.SimTime()
	s.Step(frameDT)
	if got := s.SimTime() - before; math.Abs(got-frameDT) > 1e-12 {
		t.Errorf("sim time should run at full speed after hit stop, advanced %g", got)
	}
}

func TestCombatScene_HeavyStrikeTriggersHitStop(t *testing.T) {
	s := newTestScene(t, 1, nil)
	s.PlayMove(s.Player(), config.MoveTwinStrike, s.Enemies()[0])

	for i := 0; i < 120 && s.strikes == 0; i++ {
		s.Step(frameDT)
	}
	if s.strikes == 0 {
		t.Fatal("twin strike should land within 2 seconds")
	}
	s.Step(frameDT)
	if !s.hitStopSystem.Active() {
		t.Error("heavy strike should start a hit stop on the next frame")
	}
}

func TestCombatScene_LightningShakesThenRestoresCamera(t *testing.T) {
	s := newTestScene(t, 1, nil)
	s.CallLightning()
	s.Step(frameDT)

	if !s.cameraShakeSystem.IsShaking() {
		t.Fatal("lightning should shake the camera")
	}
	if n := len(ecs.GetEntitiesWith1[*components.ScreenFlashComponent](s.entityManager)); n != 1 {
		t.Errorf("lightning should flash once, got %d", n)
	}

	s.run(3)

	if s.cameraShakeSystem.IsShaking() {
		t.Error("shake should have decayed")
	}
	if cam := s.cameraOffset(); cam.Translation.X != 0 || cam.Translation.Y != 0 {
		t.Errorf("camera should return exactly to its base, got %+v", cam.Translation)
	}
}

func TestCombatScene_PlayerTuningDisablesFlash(t *testing.T) {
	store := game.NewTuningStore(nil, nil)
	store.SetFlashEnabled(false)
	store.SetShakeScale(0)
	s := newTestScene(t, 1, store)

	s.CallLightning()
	s.Step(frameDT)

	if n := len(ecs.GetEntitiesWith1[*components.ScreenFlashComponent](s.entityManager)); n != 0 {
		t.Errorf("flash disabled by player tuning, got %d overlays", n)
	}
	if cam := s.cameraOffset(); cam.Translation.X != 0 || cam.Translation.Y != 0 {
		t.Errorf("shake scale 0 should keep the camera still, got %+v", cam.Translation)
	}
	if !s.SaveOnExit() {
		t.Error("saving in degraded mode should succeed")
	}
}

func TestFactory(t *testing.T) {
	factory := Factory(CombatSceneOptions{})

	tests := []struct {
		name     string
		scenario string
		enemies  int
		wantErr  bool
	}{
		{"单挑", "duel", 1, false},
		{"小规模", "skirmish", 3, false},
		{"未知场景", "siege", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, err := factory(tt.scenario)
			if (err != nil) != tt.wantErr {
				t.Fatalf("factory(%q) error = %v, wantErr %v", tt.scenario, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			cs := scene.(*CombatScene)
			if len(cs.Enemies()) != tt.enemies {
				t.Errorf("enemies = %d, want %d", len(cs.Enemies()), tt.enemies)
			}
			if !cs.inputEnabled {
				t.Error("factory scenes should read the keyboard")
			}
		})
	}
}
