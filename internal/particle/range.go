// Package particle 解析特效配方中的数值区间。
//
// 配方里的数值字段可以写成三种形式：
//   - 固定值: 0.5 或 "0.5"
//   - 区间: "[20 50]"（生成粒子时在区间内均匀采样）
//   - 序列: [20, 50]（YAML 列表，与区间等价）
package particle

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRange 表示区间字符串无法解析
var ErrInvalidRange = errors.New("invalid range value")

// Range 闭区间 [Min, Max]，Min == Max 时为固定值
type Range struct {
	Min float64
	Max float64
}

// Fixed 构造固定值区间
func Fixed(v float64) Range { return Range{Min: v, Max: v} }

// Between 构造区间，参数顺序无关
func Between(a, b float64) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Min: a, Max: b}
}

// ParseRange 解析 "1500"、"[0.7 0.9]"、"[0.5]" 形式的字符串
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, fmt.Errorf("%w: empty", ErrInvalidRange)
	}

	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return Range{}, fmt.Errorf("%w: unterminated %q", ErrInvalidRange, s)
		}
		parts := strings.Fields(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"))
		switch len(parts) {
		case 1:
			v, err := strconv.ParseFloat(parts[0], 64)
			if err != nil {
				return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
			}
			return Fixed(v), nil
		case 2:
			lo, err1 := strconv.ParseFloat(parts[0], 64)
			hi, err2 := strconv.ParseFloat(parts[1], 64)
			if err1 != nil || err2 != nil {
				return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
			}
			return Between(lo, hi), nil
		default:
			return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	return Fixed(v), nil
}

// Sample 在区间内均匀采样；rng 为 nil 时使用全局随机源
func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Min >= r.Max {
		return r.Min
	}
	if rng == nil {
		return r.Min + rand.Float64()*(r.Max-r.Min)
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Contains 判断 v 是否落在区间内
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// IsZero 判断是否为零值区间
func (r Range) IsZero() bool { return r.Min == 0 && r.Max == 0 }

// String 输出为配方中使用的文本形式
func (r Range) String() string {
	if r.Min == r.Max {
		return strconv.FormatFloat(r.Min, 'g', -1, 64)
	}
	return "[" + strconv.FormatFloat(r.Min, 'g', -1, 64) + " " + strconv.FormatFloat(r.Max, 'g', -1, 64) + "]"
}

// UnmarshalYAML 支持标量与二元列表两种写法
func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseRange(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*r = parsed
		return nil
	case yaml.SequenceNode:
		var vals []float64
		if err := node.Decode(&vals); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		switch len(vals) {
		case 1:
			*r = Fixed(vals[0])
		case 2:
			*r = Between(vals[0], vals[1])
		default:
			return fmt.Errorf("line %d: %w: want 1 or 2 values, got %d", node.Line, ErrInvalidRange, len(vals))
		}
		return nil
	default:
		return fmt.Errorf("line %d: %w", node.Line, ErrInvalidRange)
	}
}

// MarshalYAML 固定值输出为数字，区间输出为 "[min max]"
func (r Range) MarshalYAML() (interface{}, error) {
	if r.Min == r.Max {
		return r.Min, nil
	}
	return r.String(), nil
}
