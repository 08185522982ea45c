package events

import (
	"testing"

	"github.com/gonewx/combatfx/pkg/components"
	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/utils"
)

func TestQueueDrainOrder(t *testing.T) {
	q := NewQueue()
	q.PushSpawn(Burst(config.EffectHit, utils.Vec2{}, 3))
	q.PushSpawn(Burst(config.EffectFire, utils.Vec2{}, 1))

	got := q.DrainSpawns()
	if len(got) != 2 || got[0].Kind != config.EffectHit || got[1].Kind != config.EffectFire {
		t.Fatalf("请求应按追加顺序取出, got %+v", got)
	}
	if q.PendingSpawns() != 0 {
		t.Error("Drain 后队列应为空")
	}

	// 处理中追加的请求留到下一次
	q.PushScreen(LightShake())
	first := q.DrainScreens()
	q.PushScreen(HeavyShake())
	if len(first) != 1 || q.PendingScreens() != 1 {
		t.Errorf("unexpected screen queue state: first=%d pending=%d", len(first), q.PendingScreens())
	}
}

func TestSpawnRequestBuilders(t *testing.T) {
	group := []components.TargetMember{{Entity: 2}, {Entity: 3}}
	r := Burst(config.EffectVolley, utils.Vec2{X: 1}, 12).AtGroup(group).WithVelocity(utils.Vec2{X: 45})

	if r.Target.Mode != components.TargetGroup || len(r.Target.Group) != 2 {
		t.Errorf("target group not set: %+v", r.Target)
	}
	if r.VelocityOverride == nil || r.VelocityOverride.X != 45 {
		t.Error("velocity override not set")
	}

	p := Emitter(config.EffectFire, utils.Vec2{}).AtPoint(utils.Vec2{X: 5, Y: 6})
	if p.Mode != SpawnEmitter || p.Target.Mode != components.TargetPoint || p.Target.Point.Y != 6 {
		t.Errorf("unexpected emitter request: %+v", p)
	}
}

func TestScreenPresets(t *testing.T) {
	tests := []struct {
		name   string
		req    ScreenEffectRequest
		kind   ScreenEffectKind
		trauma float64
		alpha  float64
	}{
		{"轻震", LightShake(), ScreenShake, 0.3, 0},
		{"重震", HeavyShake(), ScreenShake, 0.8, 0},
		{"红闪", RedFlash(0.2), ScreenFlash, 0, 0.5},
		{"白闪", WhiteFlash(0.1), ScreenFlash, 0, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.req.Kind != tt.kind || tt.req.Trauma != tt.trauma || tt.req.Color.A != tt.alpha {
				t.Errorf("unexpected preset: %+v", tt.req)
			}
		})
	}
}

type countingListener struct{ n int }

func (c *countingListener) OnNotification(Notification) { c.n++ }

func TestDispatcher(t *testing.T) {
	d := NewDispatcher()
	l := &countingListener{}
	var seen []NotificationType
	d.Subscribe(StrikeLanded, l)
	d.Subscribe(StrikeLanded, ListenerFunc(func(n Notification) { seen = append(seen, n.Type) }))

	d.Dispatch(Notification{Type: StrikeLanded})
	d.Dispatch(Notification{Type: ActionFinished})
	if l.n != 1 || len(seen) != 1 {
		t.Errorf("只应收到一次 StrikeLanded, got listener=%d func=%d", l.n, len(seen))
	}

	d.Unsubscribe(StrikeLanded, l)
	d.Dispatch(Notification{Type: StrikeLanded})
	if l.n != 1 {
		t.Error("取消订阅后不应再收到通知")
	}

	var nilDispatcher *Dispatcher
	nilDispatcher.Dispatch(Notification{Type: StrikeLanded})
}
