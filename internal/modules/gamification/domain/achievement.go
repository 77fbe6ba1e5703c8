package domain

type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	unlocked    func(Profile, Counts) bool
}

// Counts are the log-derived totals achievements are judged on.
type Counts struct {
	Total    int
	ThisWeek int
}

var catalog = []Achievement{
	{
		ID: "first_session", Name: "First Steps", Description: "Complete your first focus session", Icon: "🎯",
		unlocked: func(_ Profile, c Counts) bool { return c.Total >= 1 },
	},
	{
		ID: "streak_3", Name: "3-Day Warrior", Description: "Keep a 3-day streak", Icon: "🔥",
		unlocked: func(p Profile, _ Counts) bool { return p.CurrentStreak >= 3 },
	},
	{
		ID: "streak_7", Name: "Week Champion", Description: "Keep a 7-day streak", Icon: "🏆",
		unlocked: func(p Profile, _ Counts) bool { return p.CurrentStreak >= 7 },
	},
	{
		ID: "week_10", Name: "Weekly Master", Description: "Complete 10 sessions in one week", Icon: "⭐",
		unlocked: func(_ Profile, c Counts) bool { return c.ThisWeek >= 10 },
	},
	{
		ID: "total_50", Name: "Half Century", Description: "Complete 50 sessions", Icon: "💯",
		unlocked: func(_ Profile, c Counts) bool { return c.Total >= 50 },
	},
}

func Catalog() []Achievement {
	return append([]Achievement(nil), catalog...)
}

// CheckAchievements unlocks every achievement whose rule now holds and returns only the new ones.
func (p *Profile) CheckAchievements(counts Counts) []Achievement {
	var unlocked []Achievement
	for _, a := range catalog {
		if p.HasAchievement(a.ID) || !a.unlocked(*p, counts) {
			continue
		}
		p.unlock(a.ID)
		unlocked = append(unlocked, a)
	}
	return unlocked
}
