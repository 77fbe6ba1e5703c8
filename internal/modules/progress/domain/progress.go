package domain

import (
	"fmt"
	"time"

	apperrors "pomodoro/internal/platform/errors"
)

// Progress is the aggregate for one calendar date.
type Progress struct {
	Date    string
	Count   int
	Seconds int
}

// Minutes sums seconds first and divides once, so fractional minutes are not lost per record.
func (p Progress) Minutes() int {
	return p.Seconds / 60
}

func (p *Progress) Add(r Record) {
	p.Count++
	p.Seconds += r.Duration
}

// Tally accumulates focus records by date.
type Tally struct {
	byDate map[string]*Progress
}

func NewTally() *Tally {
	return &Tally{byDate: map[string]*Progress{}}
}

func (t *Tally) Add(r Record) {
	if !r.IsFocus() {
		return
	}
	p, ok := t.byDate[r.Date]
	if !ok {
		p = &Progress{Date: r.Date}
		t.byDate[r.Date] = p
	}
	p.Add(r)
}

func (t *Tally) Day(date string) Progress {
	if p, ok := t.byDate[date]; ok {
		return *p
	}
	return Progress{Date: date}
}

// Window returns one entry per day from the date `days-1` before end through end, oldest first.
func (t *Tally) Window(end time.Time, days int) []Progress {
	if days <= 0 {
		return nil
	}
	out := make([]Progress, 0, days)
	start := end.AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		out = append(out, t.Day(DateOf(start.AddDate(0, 0, i))))
	}
	return out
}

// DateRange is an inclusive pair of YYYY-MM-DD keys.
type DateRange struct {
	From string
	To   string
}

func NewDateRange(from, to string) (DateRange, error) {
	for _, v := range []string{from, to} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, v); err != nil {
			return DateRange{}, apperrors.NewValidation("date", fmt.Sprintf("invalid date %q", v))
		}
	}
	if from != "" && to != "" && from > to {
		return DateRange{}, apperrors.NewValidation("date", fmt.Sprintf("date range is reversed: %s > %s", from, to))
	}
	return DateRange{From: from, To: to}, nil
}

func (r DateRange) Contains(date string) bool {
	if r.From != "" && date < r.From {
		return false
	}
	if r.To != "" && date > r.To {
		return false
	}
	return true
}
