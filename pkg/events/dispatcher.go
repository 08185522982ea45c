package events

import (
	"github.com/gonewx/combatfx/pkg/ecs"
	"github.com/gonewx/combatfx/pkg/utils"
)

// NotificationType 出站通知类型
type NotificationType string

const (
	// StrikeLanded 编排特效或招式命中(音效、伤害数字等外部协作者订阅)
	StrikeLanded NotificationType = "strike_landed"
	// ActionFinished 单位的动作状态机回到空闲
	ActionFinished NotificationType = "action_finished"
	// EffectFizzled 粒子的目标全部失效，特效消散
	EffectFizzled NotificationType = "effect_fizzled"
)

// Notification 出站通知
type Notification struct {
	Type     NotificationType
	Entity   ecs.EntityID
	Tag      string
	Position utils.Vec2
}

// Listener 通知订阅者
type Listener interface {
	OnNotification(n Notification)
}

// ListenerFunc 函数形式的订阅者
type ListenerFunc func(n Notification)

func (f ListenerFunc) OnNotification(n Notification) { f(n) }

// Dispatcher 通知分发器
type Dispatcher struct {
	listeners map[NotificationType][]Listener
}

// NewDispatcher 创建分发器
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[NotificationType][]Listener),
	}
}

// Subscribe 订阅某类通知
func (d *Dispatcher) Subscribe(t NotificationType, l Listener) {
	d.listeners[t] = append(d.listeners[t], l)
}

// Unsubscribe 取消订阅(按接口值比较，ListenerFunc 不可比较，不能用于取消)
func (d *Dispatcher) Unsubscribe(t NotificationType, l Listener) {
	if listeners, ok := d.listeners[t]; ok {
		for i, existing := range listeners {
			if existing == l {
				d.listeners[t] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Dispatch 同步分发；nil 分发器上调用是空操作
func (d *Dispatcher) Dispatch(n Notification) {
	if d == nil {
		return
	}
	for _, l := range d.listeners[n.Type] {
		l.OnNotification(n)
	}
}
