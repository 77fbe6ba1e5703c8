package out

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"

	"pomodoro/internal/modules/progress/domain"
	progressout "pomodoro/internal/modules/progress/port/out"
	apperrors "pomodoro/internal/platform/errors"
)

var sessionsBucket = []byte("sessions")

// BoltRecordStore keys entries by the bucket sequence so cursor order is append order.
type BoltRecordStore struct {
	db     *bolt.DB
	loc    *time.Location
	logger zerolog.Logger
}

func NewBoltRecordStore(dbPath string, loc *time.Location, logger zerolog.Logger) (progressout.RecordStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, apperrors.NewStorage("create db dir", err)
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, apperrors.NewStorage("open bolt", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, apperrors.NewStorage("create sessions bucket", err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &BoltRecordStore{db: db, loc: loc, logger: logger}, nil
}

func (s *BoltRecordStore) Append(_ context.Context, record domain.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(toEntry(record))
	if err != nil {
		return apperrors.NewStorage("encode record", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(sessionsBucket)
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return bucket.Put(key, payload)
	})
	if err != nil {
		return apperrors.NewStorage("put session", err)
	}
	return nil
}

func (s *BoltRecordStore) Scan(ctx context.Context, visit func(domain.Record) error) error {
	records := []domain.Record{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).ForEach(func(k, v []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e entry
			if err := json.Unmarshal(v, &e); err != nil {
				s.logger.Warn().Err(err).Uint64("seq", binary.BigEndian.Uint64(k)).Msg("skip malformed session entry")
				return nil
			}
			record, err := e.toRecord(s.loc)
			if err != nil {
				s.logger.Warn().Err(err).Uint64("seq", binary.BigEndian.Uint64(k)).Msg("skip malformed session entry")
				return nil
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return apperrors.NewStorage("read sessions", err)
	}
	// visit runs outside the read transaction so callers may write back
	for _, record := range records {
		if err := visit(record); err != nil {
			return err
		}
	}
	return nil
}

func (s *BoltRecordStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close bolt: %w", err)
	}
	return nil
}
