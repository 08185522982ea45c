package components

// Side 阵营
type Side int

const (
	SidePlayer Side = iota
	SideEnemy
)

// CombatantComponent 参战单位标记
type CombatantComponent struct {
	Side Side
	Name string
}

// BreathAnimationComponent 待机呼吸动画
//
// 单位处于动作中时呼吸位移被置零，避免与动作位移相互干扰。
type BreathAnimationComponent struct {
	Timer     float64
	Frequency float64 // 弧度/秒
	Amplitude float64 // 世界单位
}
