package utils

import (
	"math"
	"testing"
)

// TestLerp 测试线性插值函数
func TestLerp(t *testing.T) {
	tests := []struct {
		name     string
		a        float64
		b        float64
		t        float64
		expected float64
	}{
		{"起点", 0.0, 100.0, 0.0, 0.0},
		{"中点", 0.0, 100.0, 0.5, 50.0},
		{"终点", 0.0, 100.0, 1.0, 100.0},
		{"四分之一", 0.0, 100.0, 0.25, 25.0},
		{"负数范围", -50.0, 50.0, 0.5, 0.0},
		{"逆向范围", 100.0, 0.0, 0.5, 50.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Lerp(tt.a, tt.b, tt.t)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Lerp(%v, %v, %v) = %v, 期望 %v", tt.a, tt.b, tt.t, result, tt.expected)
			}
		})
	}
}

// TestSmoothstep 测试平滑插值
func TestSmoothstep(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0, 0},
		{"中点", 0.5, 0.5},
		{"终点", 1, 1},
		{"越界下限", -1, 0},
		{"越界上限", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Smoothstep(tt.input); math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("Smoothstep(%v) = %v, 期望 %v", tt.input, got, tt.expected)
			}
		})
	}
}

// TestCubicBezier 测试贝塞尔端点与中点
func TestCubicBezier(t *testing.T) {
	p0 := Vec2{0, 0}
	p1 := Vec2{0, 100}
	p2 := Vec2{100, 100}
	p3 := Vec2{100, 0}

	if got := CubicBezier(p0, p1, p2, p3, 0); got != p0 {
		t.Errorf("t=0 应返回起点, got %v", got)
	}
	if got := CubicBezier(p0, p1, p2, p3, 1); got != p3 {
		t.Errorf("t=1 应返回终点, got %v", got)
	}
	mid := CubicBezier(p0, p1, p2, p3, 0.5)
	if math.Abs(mid.X-50) > 1e-9 || math.Abs(mid.Y-75) > 1e-9 {
		t.Errorf("t=0.5 应为 (50,75), got %v", mid)
	}
}

// TestLerpAngle 角度插值走最短弧
func TestLerpAngle(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		t        float64
		expected float64
	}{
		{"起点", 0, math.Pi / 2, 0, 0},
		{"终点", 0, math.Pi / 2, 1, math.Pi / 2},
		{"中点", 0, math.Pi / 2, 0.5, math.Pi / 4},
		{"跨越 ±π", 3, -3, 1, 3 + (2*math.Pi - 6)},
		{"跨越 ±π 中点", 3, -3, 0.5, 3 + (math.Pi - 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LerpAngle(tt.from, tt.to, tt.t); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("LerpAngle(%v, %v, %v) = %v, 期望 %v", tt.from, tt.to, tt.t, got, tt.expected)
			}
		})
	}
}
