package scenes

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/events"
	"github.com/gonewx/combatfx/pkg/utils"
)

// playerMoveKeys 数字键 → 玩家招式
var playerMoveKeys = []struct {
	key  ebiten.Key
	move config.MoveKind
}{
	{ebiten.KeyDigit1, config.MoveDash},
	{ebiten.KeyDigit2, config.MoveWolfBite},
	{ebiten.KeyDigit3, config.MoveWolfPounce},
	{ebiten.KeyDigit4, config.MoveSiriusFrenzy},
	{ebiten.KeyDigit5, config.MoveSkitterApproach},
	{ebiten.KeyDigit6, config.MoveSpiritMultiShadow},
	{ebiten.KeyDigit7, config.MoveDemonCast},
	{ebiten.KeyDigit8, config.MoveAscend},
	{ebiten.KeyDigit9, config.MoveCultivatorCombo},
	{ebiten.KeyDigit0, config.MoveTwinStrike},
}

// enemyMoveKeys 敌人（第一个存活者）的招式与受击反应
var enemyMoveKeys = []struct {
	key  ebiten.Key
	move config.MoveKind
}{
	{ebiten.KeyR, config.MoveBossRoar},
	{ebiten.KeyT, config.MoveBossFrenzy},
	{ebiten.KeyE, config.MoveHit},
	{ebiten.KeyD, config.MoveDeath},
	{ebiten.KeyA, config.MoveAttack},
	{ebiten.KeyS, config.MoveDefense},
}

// handleInput 沙盒键位
func (s *CombatScene) handleInput() {
	target, hasEnemy := s.firstEnemy()
	if !hasEnemy {
		target = ecs.InvalidEntity
	}

	for _, b := range playerMoveKeys {
		if inpututil.IsKeyJustPressed(b.key) {
			s.PlayMove(s.player, b.move, target)
		}
	}
	if hasEnemy {
		for _, b := range enemyMoveKeys {
			if inpututil.IsKeyJustPressed(b.key) {
				s.PlayMove(target, b.move, s.player)
			}
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		s.CastVolley()
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		s.CallLightning()
	case inpututil.IsKeyJustPressed(ebiten.KeyK):
		for i := range s.enemies {
			if s.KillEnemy(i) {
				break
			}
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		s.HitStop(0.15, 0.05)
	case inpututil.IsKeyJustPressed(ebiten.KeyI):
		s.ScreenEffect(events.Impact(utils.Vec2{X: 18, Y: -6}, 0.3))
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		s.store.SetFlashEnabled(!s.store.Tuning().FlashEnabled)
		s.applyPlayerTuning()
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		s.adjustTuning(-0.25, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		s.adjustTuning(0.25, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		s.adjustTuning(0, -0.25)
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		s.adjustTuning(0, 0.25)
	}
}

// adjustTuning 调整震屏倍率和粒子密度
func (s *CombatScene) adjustTuning(shakeDelta, densityDelta float64) {
	t := s.store.Tuning()
	s.store.SetShakeScale(t.ShakeScale + shakeDelta)
	s.store.SetParticleDensity(t.ParticleDensity + densityDelta)
	s.applyPlayerTuning()
	s.logger.Debug("player tuning changed",
		zap.Float64("shakeScale", t.ShakeScale),
		zap.Float64("particleDensity", t.ParticleDensity))
}
