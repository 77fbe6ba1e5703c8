package dto

type RecordSessionInput struct {
	// Date is the YYYY-MM-DD key of the logged record. Empty means today.
	Date string
}

type AchievementOutput struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Unlocked    bool
}

type AwardOutput struct {
	XPGained        int
	TotalXP         int
	Level           int
	LeveledUp       bool
	NewAchievements []AchievementOutput
}

type StatusOutput struct {
	XP                int
	Level             int
	XPProgress        int
	XPNeeded          int
	XPPercentage      float64
	CurrentStreak     int
	LongestStreak     int
	Achievements      []AchievementOutput
	Unlocked          []AchievementOutput
	TotalAchievements int
	UnlockedCount     int
}

type WindowStats struct {
	Days           int
	Total          int
	Average        float64
	CompletionRate float64
}

type StatsOutput struct {
	Weekly  WindowStats
	Monthly WindowStats
}
