package domain_test

import (
	"testing"
	"time"

	"pomodoro/internal/modules/progress/domain"
)

func record(t *testing.T, ts time.Time, duration int, kind domain.Kind) domain.Record {
	t.Helper()
	rec, err := domain.NewRecord("", ts, duration, kind)
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	return rec
}

func TestTallySumsSecondsBeforeDividing(t *testing.T) {
	t.Parallel()
	day := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	tally := domain.NewTally()
	for i := 0; i < 3; i++ {
		tally.Add(record(t, day.Add(time.Duration(i)*time.Hour), 1500, domain.KindFocus))
	}
	got := tally.Day("2026-10-18")
	if got.Count != 3 || got.Minutes() != 75 {
		t.Fatalf("expected 3 sessions / 75 minutes, got %d / %d", got.Count, got.Minutes())
	}

	odd := domain.NewTally()
	odd.Add(record(t, day, 90, domain.KindFocus))
	odd.Add(record(t, day, 90, domain.KindFocus))
	if p := odd.Day("2026-10-18"); p.Minutes() != 3 {
		t.Fatalf("90s+90s must be 3 minutes, got %d", p.Minutes())
	}
}

func TestTallyIgnoresBreaksAndOtherDays(t *testing.T) {
	t.Parallel()
	today := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	tally := domain.NewTally()
	tally.Add(record(t, today, 1500, domain.KindFocus))
	tally.Add(record(t, today, 300, domain.KindBreak))
	tally.Add(record(t, today.AddDate(0, 0, -1), 1500, domain.KindFocus))

	if p := tally.Day("2026-10-18"); p.Count != 1 || p.Minutes() != 25 {
		t.Fatalf("unexpected today aggregate: %+v", p)
	}
	if p := tally.Day("2026-10-10"); p.Count != 0 || p.Date != "2026-10-10" {
		t.Fatalf("empty day must be zero, got %+v", p)
	}
}

func TestTallyWindowIsOldestFirstAndZeroFilled(t *testing.T) {
	t.Parallel()
	end := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	tally := domain.NewTally()
	tally.Add(record(t, end.AddDate(0, 0, -2), 1500, domain.KindFocus))

	window := tally.Window(end, 3)
	if len(window) != 3 {
		t.Fatalf("expected 3 days, got %d", len(window))
	}
	if window[0].Date != "2026-10-16" || window[0].Count != 1 || window[2].Date != "2026-10-18" || window[2].Count != 0 {
		t.Fatalf("unexpected window: %+v", window)
	}
	if tally.Window(end, 0) != nil {
		t.Fatalf("empty window expected for zero days")
	}
}

func TestDateRange(t *testing.T) {
	t.Parallel()
	r, err := domain.NewDateRange("2026-10-01", "2026-10-07")
	if err != nil {
		t.Fatalf("new range: %v", err)
	}
	if !r.Contains("2026-10-01") || !r.Contains("2026-10-07") || r.Contains("2026-10-08") || r.Contains("2026-09-30") {
		t.Fatalf("range bounds must be inclusive: %+v", r)
	}
	open, err := domain.NewDateRange("", "")
	if err != nil || !open.Contains("1999-01-01") {
		t.Fatalf("open range must contain everything")
	}
	if _, err := domain.NewDateRange("2026-10-07", "2026-10-01"); err == nil {
		t.Fatalf("reversed range must fail")
	}
	if _, err := domain.NewDateRange("10/01/2026", ""); err == nil {
		t.Fatalf("malformed date must fail")
	}
}
