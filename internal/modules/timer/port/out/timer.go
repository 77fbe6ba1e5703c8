package out

import (
	"context"
	"time"
)

// SessionLog is what the timer submits when a countdown completes.
type SessionLog struct {
	Timestamp time.Time
	Duration  int
	Kind      string
}

type TodayProgress struct {
	Count   int
	Minutes int
}

// ProgressClient reaches the progress store, remotely or in process.
type ProgressClient interface {
	LogSession(ctx context.Context, session SessionLog) error
	TodayProgress(ctx context.Context) (TodayProgress, error)
}

const (
	EventSessionCompleted  = "session_completed"
	EventLogFailed         = "log_failed"
	EventProgressRefreshed = "progress_refreshed"
)

type Notification struct {
	Event    string
	Phase    string
	Duration int
	Count    int
	Minutes  int
	Error    string
	At       time.Time
}

// Notifier is the side channel for completion and failure reports.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
