package out

import (
	"context"
	"sync"

	"pomodoro/internal/modules/progress/domain"
	progressout "pomodoro/internal/modules/progress/port/out"
)

type MemoryRecordStore struct {
	mu      sync.RWMutex
	records []domain.Record
}

func NewMemoryRecordStore() progressout.RecordStore {
	return &MemoryRecordStore{}
}

func (s *MemoryRecordStore) Append(_ context.Context, record domain.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *MemoryRecordStore) Scan(ctx context.Context, visit func(domain.Record) error) error {
	s.mu.RLock()
	snapshot := append([]domain.Record(nil), s.records...)
	s.mu.RUnlock()
	for _, record := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := visit(record); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryRecordStore) Close() error {
	return nil
}
