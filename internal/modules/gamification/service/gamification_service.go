package service

import (
	"context"
	"sync"
	"time"

	"pomodoro/internal/modules/gamification/domain"
	gamificationout "pomodoro/internal/modules/gamification/port/out"
	"pomodoro/internal/platform/clock"
)

type Award struct {
	XPGained        int
	Profile         domain.Profile
	LeveledUp       bool
	NewAchievements []domain.Achievement
}

type Stats struct {
	Weekly  domain.WindowStats
	Monthly domain.WindowStats
}

// GamificationService serializes profile read-modify-write cycles.
type GamificationService struct {
	mu       sync.Mutex
	clock    clock.Clock
	loc      *time.Location
	profiles gamificationout.ProfileStore
	history  gamificationout.SessionHistory
}

func NewGamificationService(clock clock.Clock, loc *time.Location, profiles gamificationout.ProfileStore, history gamificationout.SessionHistory) *GamificationService {
	if loc == nil {
		loc = time.Local
	}
	return &GamificationService{clock: clock, loc: loc, profiles: profiles, history: history}
}

// RecordSession credits one focus session completed on date.
func (s *GamificationService) RecordSession(ctx context.Context, date time.Time) (Award, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.profiles.Load(ctx)
	if err != nil {
		return Award{}, err
	}
	leveledUp := profile.AddXP(domain.XPPerSession)
	profile.UpdateStreak(date)

	counts, err := s.history.Counts(ctx, domain.WeekStart(s.now()).Format(domain.DateLayout))
	if err != nil {
		return Award{}, err
	}
	unlocked := profile.CheckAchievements(counts)
	if err := s.profiles.Save(ctx, profile); err != nil {
		return Award{}, err
	}
	return Award{XPGained: domain.XPPerSession, Profile: profile, LeveledUp: leveledUp, NewAchievements: unlocked}, nil
}

func (s *GamificationService) Profile(ctx context.Context) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles.Load(ctx)
}

func (s *GamificationService) Stats(ctx context.Context) (Stats, error) {
	monthly, err := s.history.Daily(ctx, domain.MonthlyStatsDays)
	if err != nil {
		return Stats{}, err
	}
	weekly := monthly
	if len(monthly) > domain.WeeklyStatsDays {
		weekly = monthly[len(monthly)-domain.WeeklyStatsDays:]
	}
	return Stats{Weekly: domain.Summarize(weekly), Monthly: domain.Summarize(monthly)}, nil
}

func (s *GamificationService) now() time.Time {
	return s.clock.Now().In(s.loc)
}
