package dto

type SnapshotOutput struct {
	Phase         string
	Mode          string
	DurationTotal int
	Remaining     int
	// ProgressKnown is false until the first successful aggregate read.
	ProgressKnown bool
	TodayCount    int
	TodayMinutes  int
	Completions   int
	LastError     string
}

type SwitchPhaseInput struct {
	Phase string
}
