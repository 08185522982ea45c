package game

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	updateCalled bool
	deltaTime    float64
	saved        bool
}

func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

func (m *MockScene) Draw(screen *ebiten.Image) {}

func (m *MockScene) SaveOnExit() bool {
	m.saved = true
	return true
}

func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager(nil)
	if sm.GetCurrentScene() != nil {
		t.Error("Expected no scene initially")
	}
	sm.Update(0.016) // 没有场景时不应 panic
	if !sm.SaveOnExit() {
		t.Error("SaveOnExit without a scene should succeed")
	}
}

func TestSceneManagerUpdate(t *testing.T) {
	sm := NewSceneManager(nil)
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	sm.Update(0.016)

	if !mockScene.updateCalled {
		t.Error("Scene's Update method was not called")
	}
	if mockScene.deltaTime != 0.016 {
		t.Errorf("Expected deltaTime 0.016, got %.3f", mockScene.deltaTime)
	}
}

func TestSceneManagerLoad(t *testing.T) {
	errMissing := errors.New("missing")
	built := map[string]*MockScene{}

	sm := NewSceneManager(nil)
	sm.SetSceneFactory(func(name string) (Scene, error) {
		if name == "nope" {
			return nil, errMissing
		}
		s := &MockScene{}
		built[name] = s
		return s, nil
	})

	tests := []struct {
		name    string
		scene   string
		wantErr bool
		want    string
	}{
		{"加载成功", "volley", false, "volley"},
		{"工厂失败保留当前场景", "nope", true, "volley"},
		{"切换到另一个场景", "duel", false, "duel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sm.Load(tt.scene)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load(%q) error = %v, wantErr %v", tt.scene, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errMissing) {
				t.Errorf("error should wrap the factory error, got %v", err)
			}
			if sm.CurrentName() != tt.want || sm.GetCurrentScene() != Scene(built[tt.want]) {
				t.Errorf("current scene = %q, want %q", sm.CurrentName(), tt.want)
			}
		})
	}

	if err := sm.Reload(); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}
	if !sm.SaveOnExit() || !built["duel"].saved {
		t.Error("SaveOnExit should reach a Saveable scene")
	}
}

func TestSceneManagerLoadWithoutFactory(t *testing.T) {
	if err := NewSceneManager(nil).Load("volley"); err == nil {
		t.Error("Load without a factory should fail")
	}
}
