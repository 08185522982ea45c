package systems

import (
	"math"

	"go.uber.org/zap"

	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/events"
)

// 顿帧默认时间缩放
const defaultHitStopSpeed = 0.05

// HitStopSystem 顿帧
//
// 顿帧期间场景把游戏时间按 TimeScale 缩放；计时器按真实时间走，
// 所以顿帧本身不会被自己拉长。开始时伴随一次白闪，并让所有残影源立即留下一帧残影。
type HitStopSystem struct {
	entityManager *ecs.EntityManager
	queue         *events.Queue
	logger        *zap.Logger

	remaining float64
	speed     float64
}

// NewHitStopSystem 创建顿帧系统
func NewHitStopSystem(em *ecs.EntityManager, queue *events.Queue, logger *zap.Logger) *HitStopSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queue == nil {
		queue = events.NewQueue()
	}
	return &HitStopSystem{
		entityManager: em,
		queue:         queue,
		logger:        logger.Named("hitstop"),
		speed:         1,
	}
}

// Apply 开始或延长顿帧。重叠时取更长的剩余时间和更慢的速度。
func (s *HitStopSystem) Apply(reqs []events.HitStopRequest) {
	for _, r := range reqs {
		if r.Duration <= 0 || math.IsNaN(r.Duration) {
			continue
		}
		speed := r.Speed
		if speed <= 0 || speed > 1 {
			speed = defaultHitStopSpeed
		}

		if s.remaining > 0 {
			s.speed = math.Min(s.speed, speed)
		} else {
			s.speed = speed
		}
		s.remaining = math.Max(s.remaining, r.Duration)

		s.queue.PushScreen(events.WhiteFlash(0.1))
		for _, id := range ecs.GetEntitiesWith1[*components.AfterImageComponent](s.entityManager) {
			if ai, ok := ecs.GetComponent[*components.AfterImageComponent](s.entityManager, id); ok {
				ai.ForceSnapshot = true
			}
		}
		s.logger.Debug("hit stop", zap.Float64("duration", r.Duration), zap.Float64("speed", s.speed))
	}
}

// Update 按真实时间推进顿帧计时器
func (s *HitStopSystem) Update(realDt float64) {
	if s.remaining <= 0 || realDt <= 0 {
		return
	}
	s.remaining -= realDt
	if s.remaining <= 0 {
		s.remaining = 0
		s.speed = 1
	}
}

// TimeScale 返回当前游戏时间缩放
func (s *HitStopSystem) TimeScale() float64 {
	if s.remaining > 0 {
		return s.speed
	}
	return 1
}

// Active 是否处于顿帧中
func (s *HitStopSystem) Active() bool {
	return s.remaining > 0
}
