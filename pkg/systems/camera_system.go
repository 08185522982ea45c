package systems

import (
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/events"
	"github.com/gonewx/combatfx/pkg/utils"
)

// CameraShakeSystem 管理摄像机震动。
// 基于 trauma 的震动：偏移量 = trauma² · MaxOffset，方向每帧随机；
// 冲击(Impact)请求额外叠加一个指数衰减的方向向量。
type CameraShakeSystem struct {
	entityManager *ecs.EntityManager
	cfg           config.ShakeConfig
	rng           *rand.Rand
	logger        *zap.Logger
	cameraEntity  ecs.EntityID // 默认摄像机实体ID
	intensity     float64
}

// NewCameraShakeSystem 创建震动系统，同时创建默认的激活摄像机。
func NewCameraShakeSystem(em *ecs.EntityManager, cfg config.ShakeConfig, rng *rand.Rand, logger *zap.Logger) *CameraShakeSystem {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Threshold <= 0 {
		cfg = config.DefaultTuning().Shake
	}
	cs := &CameraShakeSystem{
		entityManager: em,
		cfg:           cfg,
		rng:           rng,
		logger:        logger.Named("shake"),
		intensity:     1,
	}

	// 创建摄像机实体
	cs.cameraEntity = em.CreateEntity()
	ecs.AddComponent(em, cs.cameraEntity, &components.CameraComponent{})
	ecs.AddComponent(em, cs.cameraEntity, &components.ActiveCameraComponent{})

	return cs
}

// CameraEntity 返回默认摄像机实体
func (cs *CameraShakeSystem) CameraEntity() ecs.EntityID {
	return cs.cameraEntity
}

// SetIntensity 设置玩家的震动强度倍率(0 关闭震动)
func (cs *CameraShakeSystem) SetIntensity(scale float64) {
	if scale < 0 || math.IsNaN(scale) {
		scale = 0
	}
	cs.intensity = scale
}

// Apply 处理本帧的屏幕效果请求(闪光请求忽略)。
//
// 同一帧的多个震动合并为一个：trauma 取最大，衰减取最小；
// 再与摄像机上已有的震动按同样规则合并。
func (cs *CameraShakeSystem) Apply(reqs []events.ScreenEffectRequest) {
	var (
		trauma       float64
		decay        = math.Inf(1)
		haveShake    bool
		impulse      utils.Vec2
		impulseDecay float64
		haveImpact   bool
	)
	for _, r := range reqs {
		switch r.Kind {
		case events.ScreenShake:
			haveShake = true
			trauma = math.Max(trauma, r.Trauma)
			d := r.Decay
			if d <= 0 {
				d = cs.cfg.DefaultDecay
			}
			decay = math.Min(decay, d)
		case events.ScreenImpact:
			haveImpact = true
			impulse = impulse.Add(r.Impulse)
			d := cs.cfg.ImpulseDecay
			if r.Duration > 0 {
				d = 4 / r.Duration
			}
			if impulseDecay == 0 || d < impulseDecay {
				impulseDecay = d
			}
		}
	}
	if !haveShake && !haveImpact {
		return
	}

	camID, camera, ok := cs.activeCamera()
	if !ok {
		cs.logger.Debug("screen shake dropped, no active camera")
		return
	}

	shake, ok := ecs.GetComponent[*components.CameraShakeComponent](cs.entityManager, camID)
	if !ok {
		shake = &components.CameraShakeComponent{
			BaseTranslation: camera.Translation,
			Decay:           math.Inf(1),
			ImpulseDecay:    cs.cfg.ImpulseDecay,
		}
		ecs.AddComponent(cs.entityManager, camID, shake)
	}

	if haveShake {
		shake.Trauma = utils.Clamp(math.Max(shake.Trauma, trauma*cs.intensity), 0, 1)
		shake.Decay = math.Min(shake.Decay, decay)
	}
	if math.IsInf(shake.Decay, 1) {
		shake.Decay = cs.cfg.DefaultDecay
	}
	if haveImpact {
		shake.Impulse = shake.Impulse.Add(impulse.Scale(cs.intensity))
		shake.ImpulseDecay = impulseDecay
	}
}

// activeCamera 返回第一个激活的摄像机
func (cs *CameraShakeSystem) activeCamera() (ecs.EntityID, *components.CameraComponent, bool) {
	for _, id := range ecs.GetEntitiesWith2[*components.ActiveCameraComponent, *components.CameraComponent](cs.entityManager) {
		if camera, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, id); ok {
			return id, camera, true
		}
	}
	return ecs.InvalidEntity, nil, false
}

// Update 衰减震动并写回摄像机平移。
func (cs *CameraShakeSystem) Update(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		return
	}
	entities := ecs.GetEntitiesWith2[*components.CameraShakeComponent, *components.CameraComponent](cs.entityManager)
	for _, id := range entities {
		shake, _ := ecs.GetComponent[*components.CameraShakeComponent](cs.entityManager, id)
		camera, _ := ecs.GetComponent[*components.CameraComponent](cs.entityManager, id)

		shake.Trauma = math.Max(0, shake.Trauma-shake.Decay*dt)
		shake.Impulse = shake.Impulse.Scale(math.Exp(-shake.ImpulseDecay * dt))

		if shake.Trauma < cs.cfg.Threshold && shake.Impulse.Len() < cs.cfg.Threshold {
			// 精确回到原位
			camera.Translation = shake.BaseTranslation
			ecs.RemoveComponent[*components.CameraShakeComponent](cs.entityManager, id)
			continue
		}

		magnitude := shake.Trauma * shake.Trauma * cs.cfg.MaxOffset
		shake.Offset = utils.FromAngle(cs.rng.Float64()*2*math.Pi, magnitude).Add(shake.Impulse)
		camera.Translation = shake.BaseTranslation.Add(shake.Offset)
	}
}

// IsShaking 返回默认摄像机是否正在震动。
func (cs *CameraShakeSystem) IsShaking() bool {
	return ecs.HasComponent[*components.CameraShakeComponent](cs.entityManager, cs.cameraEntity)
}
