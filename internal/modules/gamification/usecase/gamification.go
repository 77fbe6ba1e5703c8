package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"pomodoro/internal/modules/gamification/domain"
	"pomodoro/internal/modules/gamification/dto"
	gamificationin "pomodoro/internal/modules/gamification/port/in"
	"pomodoro/internal/modules/gamification/service"
	"pomodoro/internal/platform/clock"
	apperrors "pomodoro/internal/platform/errors"
)

type Interactor struct {
	svc    *service.GamificationService
	clock  clock.Clock
	loc    *time.Location
	logger zerolog.Logger
}

func NewInteractor(svc *service.GamificationService, clock clock.Clock, loc *time.Location, logger zerolog.Logger) gamificationin.Usecase {
	if loc == nil {
		loc = time.Local
	}
	return &Interactor{svc: svc, clock: clock, loc: loc, logger: logger.With().Str("module", "gamification").Logger()}
}

func (i *Interactor) RecordSession(ctx context.Context, input dto.RecordSessionInput) (dto.AwardOutput, error) {
	date := i.clock.Now().In(i.loc)
	if input.Date != "" {
		parsed, err := time.ParseInLocation(domain.DateLayout, input.Date, i.loc)
		if err != nil {
			return dto.AwardOutput{}, apperrors.NewValidation("date", "Date must be YYYY-MM-DD")
		}
		date = parsed
	}
	award, err := i.svc.RecordSession(ctx, date)
	if err != nil {
		return dto.AwardOutput{}, err
	}
	out := dto.AwardOutput{
		XPGained:        award.XPGained,
		TotalXP:         award.Profile.XP,
		Level:           award.Profile.Level,
		LeveledUp:       award.LeveledUp,
		NewAchievements: make([]dto.AchievementOutput, 0, len(award.NewAchievements)),
	}
	for _, a := range award.NewAchievements {
		out.NewAchievements = append(out.NewAchievements, toAchievementOutput(a, true))
		i.logger.Info().Str("achievement", a.ID).Msg("achievement unlocked")
	}
	if award.LeveledUp {
		i.logger.Info().Int("level", award.Profile.Level).Int("xp", award.Profile.XP).Msg("level up")
	}
	return out, nil
}

func (i *Interactor) Status(ctx context.Context) (dto.StatusOutput, error) {
	profile, err := i.svc.Profile(ctx)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	earned, needed, percent := profile.Progress()
	out := dto.StatusOutput{
		XP:            profile.XP,
		Level:         profile.Level,
		XPProgress:    earned,
		XPNeeded:      needed,
		XPPercentage:  percent,
		CurrentStreak: profile.CurrentStreak,
		LongestStreak: profile.LongestStreak,
		Achievements:  []dto.AchievementOutput{},
		Unlocked:      []dto.AchievementOutput{},
	}
	for _, a := range domain.Catalog() {
		item := toAchievementOutput(a, profile.HasAchievement(a.ID))
		out.Achievements = append(out.Achievements, item)
		if item.Unlocked {
			out.Unlocked = append(out.Unlocked, item)
		}
	}
	out.TotalAchievements = len(out.Achievements)
	out.UnlockedCount = len(out.Unlocked)
	return out, nil
}

func (i *Interactor) Stats(ctx context.Context) (dto.StatsOutput, error) {
	stats, err := i.svc.Stats(ctx)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	return dto.StatsOutput{Weekly: toWindow(stats.Weekly), Monthly: toWindow(stats.Monthly)}, nil
}

func toAchievementOutput(a domain.Achievement, unlocked bool) dto.AchievementOutput {
	return dto.AchievementOutput{ID: a.ID, Name: a.Name, Description: a.Description, Icon: a.Icon, Unlocked: unlocked}
}

func toWindow(w domain.WindowStats) dto.WindowStats {
	return dto.WindowStats{Days: w.Days, Total: w.Total, Average: w.Average, CompletionRate: w.CompletionRate}
}
