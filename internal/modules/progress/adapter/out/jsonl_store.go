package out

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pomodoro/internal/modules/progress/domain"
	progressout "pomodoro/internal/modules/progress/port/out"
	apperrors "pomodoro/internal/platform/errors"
)

const maxLineBytes = 1 << 20

// JSONLRecordStore appends one JSON object per line. The mutex serializes
// appends and scans so a reader never sees a half-written line.
type JSONLRecordStore struct {
	mu     sync.Mutex
	path   string
	loc    *time.Location
	logger zerolog.Logger
}

func NewJSONLRecordStore(path string, loc *time.Location, logger zerolog.Logger) (progressout.RecordStore, error) {
	if path == "" {
		return nil, fmt.Errorf("jsonl path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, apperrors.NewStorage("create log dir", err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &JSONLRecordStore{path: path, loc: loc, logger: logger}, nil
}

func (s *JSONLRecordStore) Append(_ context.Context, record domain.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	line, err := json.Marshal(toEntry(record))
	if err != nil {
		return apperrors.NewStorage("encode record", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return apperrors.NewStorage("open log", err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return apperrors.NewStorage("append record", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return apperrors.NewStorage("sync log", err)
	}
	if err := f.Close(); err != nil {
		return apperrors.NewStorage("close log", err)
	}
	return nil
}

func (s *JSONLRecordStore) Scan(ctx context.Context, visit func(domain.Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return apperrors.NewStorage("open log", err)
	}
	defer f.Close()

	reader := bufio.NewReaderSize(f, 64*1024)
	lineNo := 0
	for {
		raw, oversized, readErr := readLine(reader, maxLineBytes)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return apperrors.NewStorage("read log", readErr)
		}
		if errors.Is(readErr, io.EOF) && len(raw) == 0 && !oversized {
			return nil
		}
		lineNo++
		if err := ctx.Err(); err != nil {
			return err
		}
		switch {
		case oversized:
			s.logger.Warn().Int("line", lineNo).Str("path", s.path).Msg("skip oversized log line")
		case len(raw) > 0:
			if err := s.visitLine(raw, lineNo, visit); err != nil {
				return err
			}
		}
		if readErr != nil {
			return nil
		}
	}
}

func (s *JSONLRecordStore) visitLine(raw []byte, lineNo int, visit func(domain.Record) error) error {
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		s.logger.Warn().Err(err).Int("line", lineNo).Str("path", s.path).Msg("skip malformed log line")
		return nil
	}
	record, err := e.toRecord(s.loc)
	if err != nil {
		s.logger.Warn().Err(err).Int("line", lineNo).Str("path", s.path).Msg("skip malformed log line")
		return nil
	}
	return visit(record)
}

// readLine returns the next line without its terminator. A line longer than
// limit is consumed and reported as oversized instead of being buffered.
func readLine(r *bufio.Reader, limit int) ([]byte, bool, error) {
	var line []byte
	oversized := false
	for {
		chunk, err := r.ReadSlice('\n')
		if !oversized {
			if len(line)+len(chunk) > limit {
				oversized = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return bytes.TrimRight(line, "\r\n"), oversized, err
	}
}

func (s *JSONLRecordStore) Close() error {
	return nil
}
