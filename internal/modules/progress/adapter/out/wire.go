package out

import (
	"fmt"
	"time"

	"pomodoro/internal/modules/progress/domain"
)

// entry is the persisted shape shared by the jsonl and bolt backends.
// id and kind are optional so logs written before they existed still decode.
type entry struct {
	Timestamp string `json:"timestamp"`
	Duration  int    `json:"duration"`
	Date      string `json:"date"`
	ID        string `json:"id,omitempty"`
	Kind      string `json:"kind,omitempty"`
}

func toEntry(r domain.Record) entry {
	return entry{
		Timestamp: domain.FormatTimestamp(r.Timestamp),
		Duration:  r.Duration,
		Date:      r.Date,
		ID:        r.ID,
		Kind:      string(r.Kind),
	}
}

func (e entry) toRecord(loc *time.Location) (domain.Record, error) {
	if loc == nil {
		loc = time.Local
	}
	ts, err := domain.ParseTimestamp(e.Timestamp, loc)
	if err != nil {
		return domain.Record{}, fmt.Errorf("parse timestamp %q: %w", e.Timestamp, err)
	}
	date := e.Date
	if date == "" {
		date = domain.DateOf(ts.In(loc))
	}
	if err := domain.ValidateDuration(e.Duration); err != nil {
		return domain.Record{}, fmt.Errorf("duration %d: %w", e.Duration, err)
	}
	return domain.Record{
		ID:        e.ID,
		Timestamp: ts,
		Duration:  e.Duration,
		Date:      date,
		Kind:      domain.Kind(e.Kind),
	}, nil
}
