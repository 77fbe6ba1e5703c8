package domain

import (
	"math"
	"time"
)

const (
	SchemaVersion    = 1
	XPPerSession     = 25
	DateLayout       = "2006-01-02"
	WeeklyStatsDays  = 7
	MonthlyStatsDays = 30
)

// Profile is the persisted gamification state.
type Profile struct {
	XP              int
	Level           int
	CurrentStreak   int
	LongestStreak   int
	LastSessionDate string
	Achievements    []string
}

func NewProfile() Profile {
	return Profile{Level: 1, Achievements: []string{}}
}

// LevelThreshold is the total XP at which level n starts: 25*(n-1)*(n+2).
func LevelThreshold(level int) int {
	if level <= 1 {
		return 0
	}
	return XPPerSession * (level - 1) * (level + 2)
}

func LevelForXP(xp int) int {
	level := 1
	for LevelThreshold(level+1) <= xp {
		level++
	}
	return level
}

// AddXP credits xp and reports whether the level changed.
func (p *Profile) AddXP(xp int) bool {
	before := p.Level
	p.XP += xp
	p.Level = LevelForXP(p.XP)
	return p.Level > before
}

// Progress reports XP earned inside the current level and the width of the level.
func (p Profile) Progress() (earned, needed int, percent float64) {
	floor := LevelThreshold(p.Level)
	ceiling := LevelThreshold(p.Level + 1)
	earned = p.XP - floor
	needed = ceiling - floor
	if needed > 0 {
		percent = Round(float64(earned)/float64(needed)*100, 1)
	}
	return earned, needed, percent
}

// UpdateStreak applies one session on date. Same day keeps the streak,
// the following day extends it, anything else restarts it at 1.
func (p *Profile) UpdateStreak(date time.Time) {
	day := date.Format(DateLayout)
	switch {
	case p.LastSessionDate == "":
		p.CurrentStreak = 1
	case p.LastSessionDate == day:
		return
	default:
		last, err := time.Parse(DateLayout, p.LastSessionDate)
		next := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		if err == nil && last.AddDate(0, 0, 1).Equal(next) {
			p.CurrentStreak++
		} else {
			p.CurrentStreak = 1
		}
	}
	p.LastSessionDate = day
	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}
}

func (p Profile) HasAchievement(id string) bool {
	for _, got := range p.Achievements {
		if got == id {
			return true
		}
	}
	return false
}

func (p *Profile) unlock(id string) {
	p.Achievements = append(p.Achievements, id)
}

func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// WeekStart returns the Monday of t's week at midnight in t's location.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
