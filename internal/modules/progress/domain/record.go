package domain

import (
	"strings"
	"time"

	apperrors "pomodoro/internal/platform/errors"
)

const (
	SchemaVersion          = 1
	MinDurationSeconds     = 30
	DefaultDurationSeconds = 1500
	DateLayout             = "2006-01-02"
)

type Kind string

const (
	KindFocus Kind = "focus"
	KindBreak Kind = "break"
)

func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case "", KindFocus:
		return KindFocus, nil
	case KindBreak:
		return KindBreak, nil
	default:
		return "", apperrors.NewValidation("kind", "Kind must be focus or break")
	}
}

// Record is one completed interval. Records are immutable once appended.
type Record struct {
	ID        string
	Timestamp time.Time
	Duration  int
	Date      string
	Kind      Kind
}

func NewRecord(id string, timestamp time.Time, duration int, kind Kind) (Record, error) {
	if err := ValidateDuration(duration); err != nil {
		return Record{}, err
	}
	if kind == "" {
		kind = KindFocus
	}
	return Record{
		ID:        id,
		Timestamp: timestamp,
		Duration:  duration,
		Date:      DateOf(timestamp),
		Kind:      kind,
	}, nil
}

func (r Record) Validate() error {
	if err := ValidateDuration(r.Duration); err != nil {
		return err
	}
	if r.Timestamp.IsZero() {
		return apperrors.NewValidation("timestamp", "Timestamp is required")
	}
	if r.Date != DateOf(r.Timestamp) {
		return apperrors.NewValidation("date", "Date must match timestamp")
	}
	return nil
}

// IsFocus treats records written before kinds existed as focus intervals.
func (r Record) IsFocus() bool {
	return r.Kind == "" || r.Kind == KindFocus
}

func ValidateDuration(seconds int) error {
	if seconds < MinDurationSeconds {
		return apperrors.NewValidation("duration", "Duration must be at least 30 seconds")
	}
	return nil
}

// DateOf derives the aggregation key in t's location. Convert t to the
// configured zone first.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	DateLayout,
}

// ParseTimestamp accepts ISO-8601 date-times. Values without an offset are read in loc.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperrors.NewValidation("timestamp", "Timestamp must not be empty")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.NewValidation("timestamp", "Timestamp must be an ISO-8601 date-time")
}

func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
