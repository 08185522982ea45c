package components

import (
	"github.com/gonewx/combatfx/pkg/config"
	"github.com/gonewx/combatfx/pkg/ecs"
)

// PlayAnimationCommandComponent 招式播放命令组件(纯数据)
//
// 设计目的:
//
//	外部战斗逻辑不直接调用编排器，而是把命令挂到执行招式的单位上，
//	由 ChoreographerSystem 在下一次 Update 中统一处理
//
// 生命周期:
//  1. 外部逻辑添加此组件到单位实体
//  2. ChoreographerSystem 在 Update() 开头查询并执行命令
//  3. 执行(或因动作受保护而被忽略)后移除组件
//
// 示例:
//
//	ecs.AddComponent(em, enemyID, &components.PlayAnimationCommandComponent{
//	    Move:   config.MoveDash,
//	    Target: playerID,
//	})
//
// 注意事项:
//   - 一个实体同时只应有一个命令(后添加的会覆盖前一个)
//   - Target 只是弱引用，目标在执行前死亡时使用 TargetDistance 或默认距离
type PlayAnimationCommandComponent struct {
	// Move 招式种类
	Move config.MoveKind

	// Target 招式指向的目标单位(可选)
	Target ecs.EntityID

	// TargetDistance 显式指定的位移距离(世界单位)，>0 时优先于按目标计算的距离
	TargetDistance float64

	// Timestamp 命令创建时间(游戏时间,单位:秒)，仅用于调试
	Timestamp float64
}
