package utils

import "math"

// 插值与曲线
//
// 编排阶段的进度 t ∈ [0, 1] 都经由这里转换成位置或权重。

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b，不做限制
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Smoothstep 三次平滑插值
// 公式：f(t) = t²(3 - 2t)，t 会先被限制在 [0, 1]
func Smoothstep(t float64) float64 {
	t = Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// CubicBezier 三次贝塞尔曲线
// p0/p3 为端点，p1/p2 为控制点
func CubicBezier(p0, p1, p2, p3 Vec2, t float64) Vec2 {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return Vec2{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// LerpAngle 沿最短弧在两个角度(弧度)之间插值
func LerpAngle(from, to, t float64) float64 {
	return from + math.Remainder(to-from, 2*math.Pi)*t
}
