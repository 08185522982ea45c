package scenes

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/utils"
)

// 角色占位图尺寸（屏幕像素），锚点在脚底中心
const (
	bodyWidth  = 48
	bodyHeight = 96
)

var (
	backgroundColor = color.RGBA{R: 18, G: 20, B: 28, A: 255}
	groundLineColor = color.RGBA{R: 60, G: 64, B: 80, A: 255}
	playerColor     = color.RGBA{R: 90, G: 170, B: 255, A: 255}
	enemyColor      = color.RGBA{R: 235, G: 90, B: 80, A: 255}
	hudColor        = color.RGBA{R: 220, G: 220, B: 220, A: 255}
)

// drawCache 绘制用的图片，第一次 Draw 时创建
type drawCache struct {
	playerBody *ebiten.Image
	enemyBody  *ebiten.Image
	hudFace    *text.GoXFace
}

func newDrawCache() *drawCache {
	player := ebiten.NewImage(bodyWidth, bodyHeight)
	player.Fill(playerColor)
	enemy := ebiten.NewImage(bodyWidth, bodyHeight)
	enemy.Fill(enemyColor)
	return &drawCache{
		playerBody: player,
		enemyBody:  enemy,
		hudFace:    text.NewGoXFace(basicfont.Face7x13),
	}
}

// Draw 绘制顺序：背景 → 焦痕 → 残影 → 角色 → 粒子 → 落雷 → 闪光 → HUD
func (s *CombatScene) Draw(screen *ebiten.Image) {
	if s.drawCache == nil {
		s.drawCache = newDrawCache()
	}
	screen.Fill(backgroundColor)

	cam := s.cameraTranslation()
	_, groundScreenY := s.bridge.WorldToScreen(utils.Vec3{Y: groundY})
	vector.StrokeLine(screen, 0, float32(groundScreenY+cam.Y), float32(s.bridge.LogicalWidth), float32(groundScreenY+cam.Y), 1, groundLineColor, false)

	s.drawDecals(screen, cam)
	s.drawGhosts(screen, cam)
	s.drawCombatants(screen, cam)
	s.drawVolleyShadows(screen, cam)
	s.drawParticles(screen, cam)
	s.drawLightning(screen, cam)
	s.drawFlashes(screen)
	s.drawHUD(screen)
}

// cameraTranslation 摄像机偏移换算到屏幕像素（平面 Y 向上，屏幕 Y 向下）
func (s *CombatScene) cameraTranslation() utils.Vec2 {
	cam, ok := ecs.GetComponent[*components.CameraComponent](s.entityManager, s.cameraShakeSystem.CameraEntity())
	if !ok {
		return utils.Vec2{}
	}
	return utils.Vec2{X: cam.Translation.X, Y: -cam.Translation.Y}
}

func (s *CombatScene) toScreen(p utils.Vec2, cam utils.Vec2) (float32, float32) {
	x, y := s.bridge.PlaneToScreen(p)
	return float32(x + cam.X), float32(y + cam.Y)
}

func (s *CombatScene) bodyImage(id ecs.EntityID) *ebiten.Image {
	if c, ok := ecs.GetComponent[*components.CombatantComponent](s.entityManager, id); ok && c.Side == components.SideEnemy {
		return s.drawCache.enemyBody
	}
	return s.drawCache.playerBody
}

// drawCombatants 角色占位图使用 PhysicalImpactSystem 写好的 GeoM
func (s *CombatScene) drawCombatants(screen *ebiten.Image, cam utils.Vec2) {
	for _, id := range ecs.GetEntitiesWith2[*components.CombatantComponent, *components.RenderTransformComponent](s.entityManager) {
		tr, _ := ecs.GetComponent[*components.RenderTransformComponent](s.entityManager, id)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-bodyWidth/2, -bodyHeight)
		op.GeoM.Concat(tr.GeoM)
		op.GeoM.Translate(cam.X, cam.Y)
		screen.DrawImage(s.bodyImage(id), op)
	}
}

func (s *CombatScene) drawGhosts(screen *ebiten.Image, cam utils.Vec2) {
	for _, id := range ecs.GetEntitiesWith1[*components.GhostComponent](s.entityManager) {
		g, _ := ecs.GetComponent[*components.GhostComponent](s.entityManager, id)
		x, y := s.bridge.WorldToScreen(g.Translation)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-bodyWidth/2, -bodyHeight)
		op.GeoM.Rotate(-g.Roll)
		op.GeoM.Translate(x+cam.X, y+cam.Y)
		op.ColorScale.Scale(float32(g.Color.R), float32(g.Color.G), float32(g.Color.B), 1)
		op.ColorScale.ScaleAlpha(float32(g.Alpha))
		screen.DrawImage(s.drawCache.playerBody, op)
	}
}

func (s *CombatScene) drawDecals(screen *ebiten.Image, cam utils.Vec2) {
	for _, id := range ecs.GetEntitiesWith2[*components.DecalComponent, *components.PositionComponent](s.entityManager) {
		d, _ := ecs.GetComponent[*components.DecalComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		alpha := s.lifetimeSystem.Alpha(id)
		x, y := s.toScreen(utils.Vec2{X: pos.X, Y: pos.Y}, cam)
		vector.DrawFilledCircle(screen, x, y, float32(d.Radius), d.Color.WithAlpha(d.Color.A*alpha).ToNRGBA(), true)
	}
}

// drawParticles 按形状绘制可见粒子
func (s *CombatScene) drawParticles(screen *ebiten.Image, cam utils.Vec2) {
	for _, id := range ecs.GetEntitiesWith2[*components.ParticleComponent, *components.PositionComponent](s.entityManager) {
		p, _ := ecs.GetComponent[*components.ParticleComponent](s.entityManager, id)
		if p.Hidden || p.Expired || p.Size <= 0 {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		x, y := s.toScreen(utils.Vec2{X: pos.X, Y: pos.Y}, cam)
		clr := p.Color.ToNRGBA()
		size := float32(p.Size)

		switch p.Shape {
		case config.ShapeSquare:
			vector.DrawFilledRect(screen, x-size/2, y-size/2, size, size, clr, false)
		case config.ShapeLine, config.ShapeBlade:
			// 屏幕 Y 向下，旋转角取反
			dx := float32(math.Cos(p.Rotation)) * size / 2
			dy := -float32(math.Sin(p.Rotation)) * size / 2
			width := float32(2)
			if p.Shape == config.ShapeBlade {
				width = 4
			}
			vector.StrokeLine(screen, x-dx, y-dy, x+dx, y+dy, width, clr, true)
		default:
			vector.DrawFilledCircle(screen, x, y, size/2, clr, true)
		}
	}
}

// drawVolleyShadows 飞剑 3D 伴随物体投在地面线上的影子，离平面越远越小
func (s *CombatScene) drawVolleyShadows(screen *ebiten.Image, cam utils.Vec2) {
	for _, id := range ecs.GetEntitiesWith1[*components.Particle3DComponent](s.entityManager) {
		m, _ := ecs.GetComponent[*components.Particle3DComponent](s.entityManager, id)
		if !m.Visible {
			continue
		}
		ground := s.bridge.WorldToPlane(utils.Vec3{X: m.Position.X, Y: groundY})
		x, y := s.toScreen(ground, cam)
		r := float32(10 * m.Scale / (1 + m.Position.Z*0.3))
		vector.DrawFilledCircle(screen, x, y, r, color.RGBA{A: 90}, true)
	}
}

func (s *CombatScene) drawLightning(screen *ebiten.Image, cam utils.Vec2) {
	for _, id := range ecs.GetEntitiesWith1[*components.LightningBoltComponent](s.entityManager) {
		bolt, _ := ecs.GetComponent[*components.LightningBoltComponent](s.entityManager, id)
		clr := bolt.Color.WithAlpha(bolt.Alpha).ToNRGBA()
		s.strokePolyline(screen, bolt.Points, float32(bolt.Width), clr, cam)
		for _, branch := range bolt.Branches {
			s.strokePolyline(screen, branch, float32(bolt.Width)/2, clr, cam)
		}
	}
}

func (s *CombatScene) strokePolyline(screen *ebiten.Image, pts []utils.Vec2, width float32, clr color.Color, cam utils.Vec2) {
	for i := 0; i+1 < len(pts); i++ {
		x0, y0 := s.toScreen(pts[i], cam)
		x1, y1 := s.toScreen(pts[i+1], cam)
		vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)
	}
}

// drawFlashes 全屏闪光不受摄像机偏移影响
func (s *CombatScene) drawFlashes(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith1[*components.ScreenFlashComponent](s.entityManager) {
		f, _ := ecs.GetComponent[*components.ScreenFlashComponent](s.entityManager, id)
		if f.Alpha <= 0 {
			continue
		}
		vector.DrawFilledRect(screen, 0, 0, float32(s.bridge.LogicalWidth), float32(s.bridge.LogicalHeight),
			f.Color.WithAlpha(f.Alpha).ToNRGBA(), false)
	}
}

func (s *CombatScene) drawHUD(screen *ebiten.Image) {
	t := s.store.Tuning()
	hud := fmt.Sprintf(
		"particles %d  strikes %d  finished %d  fizzled %d\n"+
			"hitstop %v (x%.2f)  shake x%.2f  flash %v  density x%.2f\n"+
			"%s\n"+
			"1-0 moves  Q volley  W lightning  K kill  R/T/E/D/A/S enemy  H hitstop  I impact  F flash  [ ] shake  - = density",
		s.particleSystem.ParticleCount(), s.strikes, s.finishes, s.fizzles,
		s.hitStopSystem.Active(), s.hitStopSystem.TimeScale(), t.ShakeScale, t.FlashEnabled, t.ParticleDensity,
		s.lastEvent,
	)
	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.LineSpacing = 16
	op.ColorScale.ScaleWithColor(hudColor)
	text.Draw(screen, hud, s.drawCache.hudFace, op)
}
