package game

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// SceneFactory 按场景名创建场景，避免 game 包依赖 scenes 包
type SceneFactory func(name string) (Scene, error)

// SceneManager manages which scene is active.
// Only the current scene's Update and Draw methods are called.
type SceneManager struct {
	currentScene Scene
	currentName  string
	sceneFactory SceneFactory
	logger       *zap.Logger
}

// NewSceneManager creates a manager with no active scene.
func NewSceneManager(logger *zap.Logger) *SceneManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SceneManager{logger: logger.Named("scenes")}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene.
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// CurrentName 最近一次 Load 的场景名
func (sm *SceneManager) CurrentName() string {
	return sm.currentName
}

// Load 通过工厂创建并切换到指定场景
//
// 创建失败时保留当前场景。
func (sm *SceneManager) Load(name string) error {
	if sm.sceneFactory == nil {
		return fmt.Errorf("load scene %q: no scene factory", name)
	}
	scene, err := sm.sceneFactory(name)
	if err != nil {
		sm.logger.Warn("scene creation failed", zap.String("scene", name), zap.Error(err))
		return fmt.Errorf("load scene %q: %w", name, err)
	}
	sm.SwitchTo(scene)
	sm.currentName = name
	sm.logger.Info("scene loaded", zap.String("scene", name))
	return nil
}

// Reload 重新创建当前场景
func (sm *SceneManager) Reload() error {
	return sm.Load(sm.currentName)
}

// Update updates the active scene, if any.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the active scene, if any.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}

// SaveOnExit 当前场景实现 Saveable 时保存
func (sm *SceneManager) SaveOnExit() bool {
	if s, ok := sm.currentScene.(Saveable); ok {
		return s.SaveOnExit()
	}
	return true
}
