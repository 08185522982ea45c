package utils

import (
	"fmt"
	"image/color"

	"gopkg.in/yaml.v3"
)

// Color 线性 RGBA 颜色，分量范围 [0, 1]
//
// YAML 中写作 [r, g, b] 或 [r, g, b, a]，省略 alpha 时为 1。
type Color struct {
	R, G, B, A float64
}

// 常用颜色
var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorRed   = Color{1, 0, 0, 1}
)

// RGBA 构造颜色
func RGBA(r, g, b, a float64) Color { return Color{r, g, b, a} }

// WithAlpha 返回替换 alpha 后的颜色
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// LerpColor 按分量线性插值
func LerpColor(a, b Color, t float64) Color {
	return Color{
		R: Lerp(a.R, b.R, t),
		G: Lerp(a.G, b.G, t),
		B: Lerp(a.B, b.B, t),
		A: Lerp(a.A, b.A, t),
	}
}

// ToNRGBA 转为 image/color 的非预乘颜色，供 ebiten 绘制使用
func (c Color) ToNRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(Clamp(c.R, 0, 1)*255 + 0.5),
		G: uint8(Clamp(c.G, 0, 1)*255 + 0.5),
		B: uint8(Clamp(c.B, 0, 1)*255 + 0.5),
		A: uint8(Clamp(c.A, 0, 1)*255 + 0.5),
	}
}

// UnmarshalYAML 解析 [r, g, b] 或 [r, g, b, a]
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var vals []float64
	if err := node.Decode(&vals); err != nil {
		return fmt.Errorf("line %d: color must be a list: %w", node.Line, err)
	}
	switch len(vals) {
	case 3:
		*c = Color{vals[0], vals[1], vals[2], 1}
	case 4:
		*c = Color{vals[0], vals[1], vals[2], vals[3]}
	default:
		return fmt.Errorf("line %d: color wants 3 or 4 components, got %d", node.Line, len(vals))
	}
	return nil
}

// MarshalYAML 输出为四元列表
func (c Color) MarshalYAML() (interface{}, error) {
	return []float64{c.R, c.G, c.B, c.A}, nil
}
