package out

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	progressout "pomodoro/internal/modules/progress/port/out"
	"pomodoro/internal/platform/config"
)

// OpenRecordStore builds the backend named by the store config.
func OpenRecordStore(backend, path string, loc *time.Location, logger zerolog.Logger) (progressout.RecordStore, error) {
	logger = logger.With().Str("store", backend).Logger()
	switch backend {
	case config.BackendJSONL:
		return NewJSONLRecordStore(path, loc, logger)
	case config.BackendSQLite:
		return NewSQLiteRecordStore(path, loc, logger)
	case config.BackendBolt:
		return NewBoltRecordStore(path, loc, logger)
	case config.BackendVault:
		return NewVaultRecordStore(path, loc, logger)
	case config.BackendMemory:
		return NewMemoryRecordStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}
