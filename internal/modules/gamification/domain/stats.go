package domain

// DayCount is the number of focus sessions on one date.
type DayCount struct {
	Date  string
	Count int
}

type WindowStats struct {
	Days           int
	Total          int
	Average        float64
	CompletionRate float64
}

// Summarize computes sessions per day and the share of active days over the window.
func Summarize(days []DayCount) WindowStats {
	stats := WindowStats{Days: len(days)}
	if len(days) == 0 {
		return stats
	}
	active := 0
	for _, day := range days {
		stats.Total += day.Count
		if day.Count > 0 {
			active++
		}
	}
	stats.Average = Round(float64(stats.Total)/float64(len(days)), 2)
	stats.CompletionRate = Round(float64(active)/float64(len(days))*100, 1)
	return stats
}
