package service

import "testing"

func TestLevelFromXP(t *testing.T) {
	tests := []struct {
		totalXP   int64
		level     int64
		currentXP int64
		nextLevel int64
	}{
		{0, 1, 0, 1000},
		{999, 1, 999, 1000},
		{1000, 2, 0, 1500},
		{2499, 2, 1499, 1500},
		{2500, 3, 0, 2250},
		{4750, 4, 0, 3375},
	}
	for _, tt := range tests {
		info := LevelFromXP(tt.totalXP)
		if info.Level != tt.level {
			t.Errorf("LevelFromXP(%d).Level = %d, want %d", tt.totalXP, info.Level, tt.level)
		}
		if info.CurrentXP != tt.currentXP {
			t.Errorf("LevelFromXP(%d).CurrentXP = %d, want %d", tt.totalXP, info.CurrentXP, tt.currentXP)
		}
		if info.XPForNextLevel != tt.nextLevel {
			t.Errorf("LevelFromXP(%d).XPForNextLevel = %d, want %d", tt.totalXP, info.XPForNextLevel, tt.nextLevel)
		}
	}
}

func TestXPRequiredForLevel(t *testing.T) {
	tests := []struct {
		level int64
		want  int64
	}{
		{1, 0},
		{2, 1000},
		{3, 2500},
		{4, 4750},
	}
	for _, tt := range tests {
		if got := XPRequiredForLevel(tt.level); got != tt.want {
			t.Errorf("XPRequiredForLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestLevelCurveConsistency(t *testing.T) {
	// 恰好到达某级所需的累计经验应推导回该等级且进度为 0
	for level := int64(2); level <= 10; level++ {
		xp := XPRequiredForLevel(level)
		info := LevelFromXP(xp)
		if info.Level != level {
			t.Errorf("LevelFromXP(XPRequiredForLevel(%d)).Level = %d, want %d", level, info.Level, level)
		}
		if info.CurrentXP != 0 {
			t.Errorf("level %d boundary CurrentXP = %d, want 0", level, info.CurrentXP)
		}
	}
}
