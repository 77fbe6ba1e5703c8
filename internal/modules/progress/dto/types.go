package dto

import "time"

// LogSessionInput mirrors the POST /api/session body. Nil fields take their defaults.
type LogSessionInput struct {
	Timestamp *string
	Duration  *int
	Kind      string
}

type RecordOutput struct {
	ID        string
	Timestamp time.Time
	Duration  int
	Date      string
	Kind      string
}

type ProgressOutput struct {
	Date    string
	Count   int
	Minutes int
}

type HistoryInput struct {
	Days int
}

type HistoryOutput struct {
	Days []ProgressOutput
}

type RecordsInput struct {
	From string
	To   string
}
