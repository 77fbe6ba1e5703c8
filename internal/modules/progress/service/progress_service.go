package service

import (
	"context"
	"fmt"
	"time"

	"pomodoro/internal/modules/progress/domain"
	progressout "pomodoro/internal/modules/progress/port/out"
	"pomodoro/internal/platform/clock"
	apperrors "pomodoro/internal/platform/errors"
	"pomodoro/internal/platform/id"
)

const MaxHistoryDays = 366

type ProgressService struct {
	clock clock.Clock
	idGen id.Generator
	store progressout.RecordStore
	loc   *time.Location
}

func NewProgressService(clock clock.Clock, idGen id.Generator, store progressout.RecordStore, loc *time.Location) *ProgressService {
	if loc == nil {
		loc = time.Local
	}
	return &ProgressService{clock: clock, idGen: idGen, store: store, loc: loc}
}

// Log validates and appends one record. An empty rawTimestamp means "now".
func (s *ProgressService) Log(ctx context.Context, rawTimestamp *string, duration int, kind domain.Kind) (domain.Record, error) {
	if err := domain.ValidateDuration(duration); err != nil {
		return domain.Record{}, err
	}
	timestamp := s.now()
	if rawTimestamp != nil {
		parsed, err := domain.ParseTimestamp(*rawTimestamp, s.loc)
		if err != nil {
			return domain.Record{}, err
		}
		timestamp = parsed
	}
	// The date key must agree with Today, whatever offset the caller sent.
	record, err := domain.NewRecord(s.idGen.New(), timestamp.In(s.loc), duration, kind)
	if err != nil {
		return domain.Record{}, err
	}
	if err := s.store.Append(ctx, record); err != nil {
		return domain.Record{}, err
	}
	return record, nil
}

func (s *ProgressService) Today(ctx context.Context) (domain.Progress, error) {
	today := domain.DateOf(s.now())
	progress := domain.Progress{Date: today}
	err := s.store.Scan(ctx, func(r domain.Record) error {
		if r.Date == today && r.IsFocus() {
			progress.Add(r)
		}
		return nil
	})
	if err != nil {
		return domain.Progress{}, err
	}
	return progress, nil
}

// History returns one entry per day for the last `days` days including today, oldest first.
func (s *ProgressService) History(ctx context.Context, days int) ([]domain.Progress, error) {
	if days <= 0 || days > MaxHistoryDays {
		return nil, apperrors.NewValidation("days", fmt.Sprintf("days must be between 1 and %d", MaxHistoryDays))
	}
	now := s.now()
	window, err := domain.NewDateRange(domain.DateOf(now.AddDate(0, 0, -(days-1))), domain.DateOf(now))
	if err != nil {
		return nil, err
	}
	tally := domain.NewTally()
	err = s.store.Scan(ctx, func(r domain.Record) error {
		if window.Contains(r.Date) {
			tally.Add(r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tally.Window(now, days), nil
}

func (s *ProgressService) Records(ctx context.Context, window domain.DateRange) ([]domain.Record, error) {
	records := []domain.Record{}
	err := s.store.Scan(ctx, func(r domain.Record) error {
		if window.Contains(r.Date) {
			records = append(records, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *ProgressService) now() time.Time {
	return s.clock.Now().In(s.loc)
}
