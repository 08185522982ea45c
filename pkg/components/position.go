package components

// PositionComponent 战斗平面坐标（像素）
//
// 原点在画面中心，Y 轴向上。粒子、发射器、闪电落点都使用这个坐标。
// 参战单位的平面坐标由 PhysicalImpactSystem 每帧从世界坐标回写。
type PositionComponent struct {
	X float64
	Y float64
}
