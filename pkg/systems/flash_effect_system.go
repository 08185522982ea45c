package systems

import (
	"go.uber.org/zap"

	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/events"
	"github.com/gonewx/combatfx/pkg/utils"
)

// ScreenFlashSystem 全屏闪光系统
// 管理受击红闪、顿帧白闪等全屏叠加层的生命周期
type ScreenFlashSystem struct {
	entityManager *ecs.EntityManager
	logger        *zap.Logger
	enabled       bool
}

// NewScreenFlashSystem 创建闪光系统
func NewScreenFlashSystem(em *ecs.EntityManager, logger *zap.Logger) *ScreenFlashSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScreenFlashSystem{
		entityManager: em,
		logger:        logger.Named("flash"),
		enabled:       true,
	}
}

// SetEnabled 玩家关闭闪光后，新的闪光请求被丢弃
func (s *ScreenFlashSystem) SetEnabled(enabled bool) {
	s.enabled = enabled
}

// Apply 为本帧的每个闪光请求创建一个叠加层(其余请求忽略)
func (s *ScreenFlashSystem) Apply(reqs []events.ScreenEffectRequest) {
	for _, r := range reqs {
		if r.Kind != events.ScreenFlash {
			continue
		}
		if !s.enabled {
			continue
		}
		if r.Duration <= 0 {
			s.logger.Debug("flash with non-positive duration dropped")
			continue
		}
		id := s.entityManager.CreateEntity()
		ecs.AddComponent(s.entityManager, id, &components.ScreenFlashComponent{
			Color:      r.Color,
			StartAlpha: r.Color.A,
			EndAlpha:   0,
			Duration:   r.Duration,
			Alpha:      r.Color.A,
		})
	}
}

// Update 更新所有闪光
// 参数：
//   - dt: 时间增量（秒）
func (s *ScreenFlashSystem) Update(dt float64) {
	entities := ecs.GetEntitiesWith1[*components.ScreenFlashComponent](s.entityManager)

	for _, entity := range entities {
		flash, ok := ecs.GetComponent[*components.ScreenFlashComponent](s.entityManager, entity)
		if !ok {
			continue
		}

		// 更新已过时间
		flash.Elapsed += dt

		// 检查是否超过持续时间
		if flash.Elapsed >= flash.Duration {
			// 闪光结束，销毁叠加层
			flash.Alpha = flash.EndAlpha
			s.entityManager.DestroyEntity(entity)
			continue
		}

		flash.Alpha = utils.Lerp(flash.StartAlpha, flash.EndAlpha, flash.Elapsed/flash.Duration)
	}
}
