package out

import (
	"context"

	"pomodoro/internal/modules/progress/domain"
)

// RecordStore is the append-only medium. Scan visits records in append order and stops at
// the first error returned by visit.
type RecordStore interface {
	Append(ctx context.Context, record domain.Record) error
	Scan(ctx context.Context, visit func(domain.Record) error) error
	Close() error
}
