package scenes

import (
	"fmt"
	"sort"

	"github.com/gonewx/combatfx/pkg/game"
)

// Scene is a type alias for game.Scene.
type Scene = game.Scene

// scenarioEnemies 场景名 → 敌人数量
var scenarioEnemies = map[string]int{
	"duel":     1,
	"skirmish": 3,
	"horde":    5,
}

// Scenarios 返回所有可用的场景名（有序）
func Scenarios() []string {
	names := make([]string, 0, len(scenarioEnemies))
	for name := range scenarioEnemies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Factory 返回按场景名创建 CombatScene 的工厂
//
// base 中的 Enemies 字段被场景名决定的数量覆盖；创建出的场景开启键盘输入。
func Factory(base CombatSceneOptions) game.SceneFactory {
	return func(name string) (game.Scene, error) {
		enemies, ok := scenarioEnemies[name]
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q (available: %v)", name, Scenarios())
		}
		opts := base
		opts.Enemies = enemies
		scene, err := NewCombatScene(opts)
		if err != nil {
			return nil, err
		}
		scene.SetInputEnabled(true)
		return scene, nil
	}
}
