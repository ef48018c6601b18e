package service

import "finstar_backend/internal/model"

// 等级曲线：第 1 级升 2 级需要 1000 XP，之后每级需求按 1.5 倍递增（向下取整）
const (
	baseXP       = 1000
	xpMultiplier = 1.5
)

// LevelFromXP 由累计经验推导等级与下一级进度
func LevelFromXP(totalXP int64) model.LevelInfo {
	level := int64(1)
	accumulated := int64(0)
	xpRequired := int64(baseXP)

	for totalXP >= accumulated+xpRequired {
		accumulated += xpRequired
		level++
		xpRequired = int64(float64(xpRequired) * xpMultiplier)
	}

	return model.LevelInfo{
		Level:          level,
		CurrentXP:      totalXP - accumulated,
		XPForNextLevel: xpRequired,
	}
}

// XPRequiredForLevel 达到指定等级所需的累计经验
func XPRequiredForLevel(level int64) int64 {
	total := int64(0)
	xpRequired := int64(baseXP)
	for l := int64(1); l < level; l++ {
		total += xpRequired
		xpRequired = int64(float64(xpRequired) * xpMultiplier)
	}
	return total
}
