package events

// Queue 帧内请求队列
//
// 单线程使用，不加锁。各 Drain 方法返回当前积压并清空，
// 处理过程中新追加的请求留到下一次 Drain。
type Queue struct {
	spawns   []SpawnEffectRequest
	screens  []ScreenEffectRequest
	hitStops []HitStopRequest
	impulses []ImpulseRequest
}

// NewQueue 创建空队列
func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) PushSpawn(r SpawnEffectRequest) { q.spawns = append(q.spawns, r) }
func (q *Queue) PushScreen(r ScreenEffectRequest) { q.screens = append(q.screens, r) }
func (q *Queue) PushHitStop(r HitStopRequest) { q.hitStops = append(q.hitStops, r) }
func (q *Queue) PushImpulse(r ImpulseRequest) { q.impulses = append(q.impulses, r) }

// DrainSpawns 取出全部生成请求
func (q *Queue) DrainSpawns() []SpawnEffectRequest {
	out := q.spawns
	q.spawns = nil
	return out
}

// DrainScreens 取出全部屏幕效果请求
func (q *Queue) DrainScreens() []ScreenEffectRequest {
	out := q.screens
	q.screens = nil
	return out
}

// DrainHitStops 取出全部顿帧请求
func (q *Queue) DrainHitStops() []HitStopRequest {
	out := q.hitStops
	q.hitStops = nil
	return out
}

// DrainImpulses 取出全部冲量请求
func (q *Queue) DrainImpulses() []ImpulseRequest {
	out := q.impulses
	q.impulses = nil
	return out
}

// PendingSpawns 返回积压的生成请求数量(不清空)
func (q *Queue) PendingSpawns() int { return len(q.spawns) }

// PendingScreens 返回积压的屏幕效果请求数量(不清空)
func (q *Queue) PendingScreens() int { return len(q.screens) }
