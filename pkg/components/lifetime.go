package components

// LifetimeComponent 定时实体（残影、焦痕、落雷）的寿命
//
// 最后 FadeOut 秒内透明度线性降到 0，FadeOut <= 0 表示到期前始终不透明。
type LifetimeComponent struct {
	MaxLifetime     float64 // 最大生命周期(秒)
	CurrentLifetime float64 // 当前已存在时间(秒)
	FadeOut         float64 // 结束前淡出时长(秒)
	IsExpired       bool
}
