package scenes

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/events"
	"github.com/gonewx/combatfx/pkg/game"
	"github.com/gonewx/combatfx/pkg/systems"
	"github.com/gonewx/combatfx/pkg/utils"
)

// 站位（世界坐标）
const (
	playerHomeX = -3.5
	enemyHomeX  = 3.5
	groundY     = -1.2

	enemySpacingY = 1.1

	// 重击命中时的顿帧
	heavyHitStopDuration = 0.08
	heavyHitStopSpeed    = 0.05
)

// heavyMoves 命中时触发顿帧的招式
var heavyMoves = map[string]bool{
	string(config.MoveTwinStrike):      true,
	string(config.MoveWolfPounce):      true,
	string(config.MoveCultivatorCombo): true,
}

// CombatSceneOptions 创建战斗场景所需的依赖
type CombatSceneOptions struct {
	Tuning  *config.Tuning
	Assets  *game.AssetTable
	Store   *game.TuningStore
	Logger  *zap.Logger
	Enemies int   // 敌人数量，至少 1
	Seed    int64 // 随机种子，相同种子得到相同的表现
}

// CombatScene 战斗表现沙盒
//
// 持有一个 ECS 世界和全部表现系统，每帧按固定顺序推进：
// 冲量 → 动作编排 → 弹簧积分 → 粒子 → 编排特效 → 屏幕效果 → 顿帧/残影/寿命 → 回收。
// 外部战斗逻辑只通过 PlayMove / SpawnEffect / ScreenEffect / HitStop 与它交互。
type CombatScene struct {
	entityManager *ecs.EntityManager
	queue         *events.Queue
	dispatcher    *events.Dispatcher
	bridge        utils.CoordinateBridge
	logger        *zap.Logger

	impactSystem      *systems.PhysicalImpactSystem
	choreographer     *systems.ChoreographerSystem
	particleSystem    *systems.ParticleSystem
	orchestrator      *systems.VfxOrchestratorSystem
	cameraShakeSystem *systems.CameraShakeSystem
	screenFlashSystem *systems.ScreenFlashSystem
	hitStopSystem     *systems.HitStopSystem
	afterImageSystem  *systems.AfterImageSystem
	lifetimeSystem    *systems.LifetimeSystem

	store     *game.TuningStore
	impactCfg config.ImpactConfig

	player  ecs.EntityID
	enemies []ecs.EntityID

	simTime  float64 // 受顿帧缩放的模拟时间
	realTime float64

	strikes   int
	finishes  int
	fizzles   int
	lastEvent string

	inputEnabled bool
	drawCache    *drawCache
}

// NewCombatScene 创建战斗场景
func NewCombatScene(opts CombatSceneOptions) (*CombatScene, error) {
	tuning := opts.Tuning
	if tuning == nil {
		tuning = config.DefaultTuning()
	}
	assets := opts.Assets
	if assets == nil {
		assets = game.DefaultAssetTable()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := opts.Store
	if store == nil {
		store = game.NewTuningStore(nil, logger)
	}
	enemyCount := opts.Enemies
	if enemyCount < 1 {
		enemyCount = 1
	}

	bridge, err := utils.NewCoordinateBridge(tuning.Window.LogicalWidth, tuning.Window.LogicalHeight)
	if err != nil {
		return nil, fmt.Errorf("create combat scene: %w", err)
	}

	em := ecs.NewEntityManager()
	queue := events.NewQueue()
	dispatcher := events.NewDispatcher()
	seed := opts.Seed

	s := &CombatScene{
		entityManager: em,
		queue:         queue,
		dispatcher:    dispatcher,
		bridge:        bridge,
		logger:        logger.Named("combat"),
		store:         store,
		impactCfg:     tuning.Impact,
	}

	s.impactSystem = systems.NewPhysicalImpactSystem(em, tuning.Impact, bridge, logger)
	s.choreographer = systems.NewChoreographerSystem(em, s.impactSystem, assets.Moves, queue, dispatcher, logger)
	s.particleSystem = systems.NewParticleSystem(em, assets.Recipes, queue, dispatcher, rand.New(rand.NewSource(seed)), logger)
	s.orchestrator = systems.NewVfxOrchestratorSystem(em, bridge, queue, dispatcher, rand.New(rand.NewSource(seed+1)), logger)
	s.particleSystem.SetOrchestrator(s.orchestrator)
	s.cameraShakeSystem = systems.NewCameraShakeSystem(em, tuning.Shake, rand.New(rand.NewSource(seed+2)), logger)
	s.screenFlashSystem = systems.NewScreenFlashSystem(em, logger)
	s.hitStopSystem = systems.NewHitStopSystem(em, queue, logger)
	s.afterImageSystem = systems.NewAfterImageSystem(em)
	s.lifetimeSystem = systems.NewLifetimeSystem(em)

	s.applyPlayerTuning()
	s.subscribe()

	s.player = s.spawnCombatant(components.SidePlayer, "player", utils.Vec3{X: playerHomeX, Y: groundY})
	for i := 0; i < enemyCount; i++ {
		y := groundY + (float64(i)-float64(enemyCount-1)/2)*enemySpacingY
		name := fmt.Sprintf("enemy-%d", i+1)
		s.enemies = append(s.enemies, s.spawnCombatant(components.SideEnemy, name, utils.Vec3{X: enemyHomeX, Y: y}))
	}

	s.logger.Info("combat scene ready",
		zap.Int("enemies", enemyCount),
		zap.Int64("seed", seed),
		zap.Bool("persistentTuning", store.Persistent()))
	return s, nil
}

// spawnCombatant 创建参战单位：冲击弹簧、呼吸、残影和平面位置
func (s *CombatScene) spawnCombatant(side components.Side, name string, home utils.Vec3) ecs.EntityID {
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.CombatantComponent{Side: side, Name: name})
	ecs.AddComponent(s.entityManager, id, &components.PhysicalImpactComponent{HomePosition: home})
	ecs.AddComponent(s.entityManager, id, &components.BreathAnimationComponent{
		Frequency: s.impactCfg.BreathFrequency,
		Amplitude: s.impactCfg.BreathAmplitude,
	})
	ecs.AddComponent(s.entityManager, id, systems.NewAfterImageComponent())
	ecs.AddComponent(s.entityManager, id, &components.RenderTransformComponent{Translation: home})
	p := s.bridge.WorldToPlane(home)
	ecs.AddComponent(s.entityManager, id, &components.PositionComponent{X: p.X, Y: p.Y})
	return id
}

// subscribe 统计通知，重击命中时请求顿帧
func (s *CombatScene) subscribe() {
	s.dispatcher.Subscribe(events.StrikeLanded, events.ListenerFunc(func(n events.Notification) {
		s.strikes++
		s.lastEvent = fmt.Sprintf("strike %s", n.Tag)
		if heavyMoves[n.Tag] {
			s.queue.PushHitStop(events.HitStopRequest{Duration: heavyHitStopDuration, Speed: heavyHitStopSpeed})
		}
	}))
	s.dispatcher.Subscribe(events.ActionFinished, events.ListenerFunc(func(n events.Notification) {
		s.finishes++
		s.lastEvent = fmt.Sprintf("finished %s", n.Tag)
	}))
	s.dispatcher.Subscribe(events.EffectFizzled, events.ListenerFunc(func(n events.Notification) {
		s.fizzles++
	}))
}

// applyPlayerTuning 把玩家观感设置同步到各系统
func (s *CombatScene) applyPlayerTuning() {
	t := s.store.Tuning()
	s.cameraShakeSystem.SetIntensity(t.ShakeScale)
	s.screenFlashSystem.SetEnabled(t.FlashEnabled)
	s.particleSystem.SetDensity(t.ParticleDensity)
}

// Update 处理输入后推进一帧
func (s *CombatScene) Update(deltaTime float64) {
	if s.inputEnabled {
		s.handleInput()
	}
	s.Step(deltaTime)
}

// Step 推进一帧（不读取输入）
//
// 顿帧只缩放模拟时间；屏幕震动和闪光按真实时间推进。
func (s *CombatScene) Step(deltaTime float64) {
	if deltaTime <= 0 || deltaTime != deltaTime {
		return
	}
	s.realTime += deltaTime

	s.hitStopSystem.Apply(s.queue.DrainHitStops())
	dt := deltaTime * s.hitStopSystem.TimeScale()
	s.simTime += dt

	// 1. 本帧排队的冲量先于积分生效
	for _, imp := range s.queue.DrainImpulses() {
		s.impactSystem.ApplyImpulse(imp.Target, imp.Tilt, imp.Offset, imp.Rotation)
	}

	// 2. 动作编排与弹簧积分
	s.choreographer.Update(dt)
	for _, imp := range s.queue.DrainImpulses() {
		s.impactSystem.ApplyImpulse(imp.Target, imp.Tilt, imp.Offset, imp.Rotation)
	}
	s.impactSystem.Update(dt)

	// 3. 粒子与编排特效
	s.particleSystem.Update(dt)
	s.orchestrator.Update(dt)

	// 4. 屏幕效果
	screens := s.queue.DrainScreens()
	s.cameraShakeSystem.Apply(screens)
	s.screenFlashSystem.Apply(screens)
	s.cameraShakeSystem.Update(deltaTime)
	s.screenFlashSystem.Update(deltaTime)

	// 5. 顿帧计时、残影、寿命与回收
	s.hitStopSystem.Update(deltaTime)
	s.afterImageSystem.Update(dt)
	s.lifetimeSystem.Update(dt)
	s.entityManager.RemoveMarkedEntities()
}

// PlayMove 让单位执行招式，target 可以为 ecs.InvalidEntity
func (s *CombatScene) PlayMove(actor ecs.EntityID, move config.MoveKind, target ecs.EntityID) {
	s.choreographer.PlayMove(actor, move, target)
}

// SpawnEffect 外部特效请求，下一次 Step 时生成
func (s *CombatScene) SpawnEffect(req events.SpawnEffectRequest) {
	s.queue.PushSpawn(req)
}

// ScreenEffect 外部屏幕效果请求
func (s *CombatScene) ScreenEffect(req events.ScreenEffectRequest) {
	s.queue.PushScreen(req)
}

// HitStop 外部顿帧请求
func (s *CombatScene) HitStop(duration, speed float64) {
	s.queue.PushHitStop(events.HitStopRequest{Duration: duration, Speed: speed})
}

// CastVolley 玩家对所有存活敌人释放万剑
func (s *CombatScene) CastVolley() {
	origin := s.planePosition(s.player)
	req := events.Burst(config.EffectVolley, origin, 0).AtGroup(s.enemyGroup())
	req.Owner = s.player
	s.queue.PushSpawn(req)
}

// CallLightning 在第一个存活敌人身上落雷，没有敌人时落在场地中央
func (s *CombatScene) CallLightning() {
	req := events.Burst(config.EffectLightningStrike, utils.Vec2{}, 1)
	if id, ok := s.firstEnemy(); ok {
		req = req.AtEntity(id)
		req.Origin = s.planePosition(id)
	}
	s.queue.PushSpawn(req)
}

// KillEnemy 移除第 i 个敌人（用于观察粒子改道与消散）
func (s *CombatScene) KillEnemy(i int) bool {
	if i < 0 || i >= len(s.enemies) {
		return false
	}
	id := s.enemies[i]
	if !s.entityManager.DestroyEntity(id) {
		return false
	}
	s.queue.PushSpawn(events.Burst(config.EffectHit, s.planePosition(id), 0))
	s.queue.PushScreen(events.RedFlash(0.2))
	s.logger.Debug("enemy removed", zap.Int("index", i), zap.Uint64("entity", uint64(id)))
	return true
}

// SaveOnExit 保存玩家观感设置
func (s *CombatScene) SaveOnExit() bool {
	if err := s.store.Save(); err != nil {
		s.logger.Warn("failed to save player tuning", zap.Error(err))
		return false
	}
	return true
}

func (s *CombatScene) enemyGroup() []components.TargetMember {
	group := make([]components.TargetMember, 0, len(s.enemies))
	for _, id := range s.enemies {
		if s.entityManager.Exists(id) {
			group = append(group, components.TargetMember{Entity: id, Position: s.planePosition(id)})
		}
	}
	return group
}

func (s *CombatScene) firstEnemy() (ecs.EntityID, bool) {
	for _, id := range s.enemies {
		if s.entityManager.Exists(id) {
			return id, true
		}
	}
	return ecs.InvalidEntity, false
}

func (s *CombatScene) planePosition(id ecs.EntityID) utils.Vec2 {
	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id); ok {
		return utils.Vec2{X: pos.X, Y: pos.Y}
	}
	return utils.Vec2{}
}

// Player 玩家单位
func (s *CombatScene) Player() ecs.EntityID { return s.player }

// Enemies 全部敌人（包括已移除的）
func (s *CombatScene) Enemies() []ecs.EntityID { return s.enemies }

// EntityManager 供外部战斗逻辑读取表现层状态
func (s *CombatScene) EntityManager() *ecs.EntityManager { return s.entityManager }

// Dispatcher 供外部协作者订阅通知
func (s *CombatScene) Dispatcher() *events.Dispatcher { return s.dispatcher }

// SimTime 受顿帧缩放的累计模拟时间
func (s *CombatScene) SimTime() float64 { return s.simTime }

// SetInputEnabled 是否在 Update 中读取键盘
func (s *CombatScene) SetInputEnabled(enabled bool) { s.inputEnabled = enabled }
