package out

import (
	"cmp"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pomodoro/internal/modules/progress/domain"
	progressout "pomodoro/internal/modules/progress/port/out"
	apperrors "pomodoro/internal/platform/errors"
	"pomodoro/internal/platform/markdown"
	"pomodoro/internal/platform/slug"
)

// VaultRecordStore writes one markdown note per session under sessions/YYYY/MM/DD,
// with the record in YAML frontmatter. Directory order follows timestamps, so the
// frontmatter carries an append sequence that Scan sorts on.
type VaultRecordStore struct {
	mu     sync.Mutex
	root   string
	loc    *time.Location
	logger zerolog.Logger
	// seq is the last sequence handed out; loaded lazily from existing notes.
	seq       int64
	seqLoaded bool
}

type noteMeta struct {
	SchemaVersion int    `yaml:"schema_version"`
	Seq           int64  `yaml:"seq"`
	ID            string `yaml:"id"`
	Timestamp     string `yaml:"timestamp"`
	Duration      int    `yaml:"duration"`
	Date          string `yaml:"date"`
	Kind          string `yaml:"kind"`
}

func NewVaultRecordStore(root string, loc *time.Location, logger zerolog.Logger) (progressout.RecordStore, error) {
	if root == "" {
		return nil, fmt.Errorf("vault path is required")
	}
	if loc == nil {
		loc = time.Local
	}
	return &VaultRecordStore{root: root, loc: loc, logger: logger}, nil
}

func (s *VaultRecordStore) Append(ctx context.Context, record domain.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	ts := record.Timestamp
	dir := filepath.Join(s.root, "sessions", ts.Format("2006"), ts.Format("01"), ts.Format("02"))
	name := fmt.Sprintf("%s-%s.md", ts.Format("150405.000"), slug.Make(string(kindOrFocus(record.Kind))+" "+record.ID, "session"))

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seqLoaded {
		notes, err := s.readAllLocked(ctx)
		if err != nil {
			return err
		}
		for _, n := range notes {
			s.seq = max(s.seq, n.seq)
		}
		s.seqLoaded = true
	}

	meta := noteMeta{
		SchemaVersion: domain.SchemaVersion,
		Seq:           s.seq + 1,
		ID:            record.ID,
		Timestamp:     domain.FormatTimestamp(record.Timestamp),
		Duration:      record.Duration,
		Date:          record.Date,
		Kind:          string(kindOrFocus(record.Kind)),
	}
	body := fmt.Sprintf("# Session %s\n\n- Kind: %s\n- Duration: %d seconds\n", record.Date, kindOrFocus(record.Kind), record.Duration)
	rendered, err := markdown.Encode(meta, body)
	if err != nil {
		return apperrors.NewStorage("render session note", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewStorage("create session dir", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return apperrors.NewStorage("create session note", err)
	}
	if _, err := f.WriteString(rendered); err != nil {
		_ = f.Close()
		return apperrors.NewStorage("write session note", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return apperrors.NewStorage("sync session note", err)
	}
	if err := f.Close(); err != nil {
		return apperrors.NewStorage("close session note", err)
	}
	s.seq = meta.Seq
	return nil
}

type storedNote struct {
	seq    int64
	record domain.Record
}

func (s *VaultRecordStore) Scan(ctx context.Context, visit func(domain.Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	notes, err := s.readAllLocked(ctx)
	if err != nil {
		return err
	}
	for _, n := range notes {
		if err := visit(n.record); err != nil {
			return err
		}
	}
	return nil
}

// readAllLocked returns every readable note in append order. Notes without a
// sequence sort first, in directory order.
func (s *VaultRecordStore) readAllLocked(ctx context.Context) ([]storedNote, error) {
	root := filepath.Join(s.root, "sessions")
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.NewStorage("stat sessions dir", err)
	}
	var notes []storedNote
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return apperrors.NewStorage("walk sessions", walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		note, err := s.readNote(path)
		if err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("skip malformed session note")
			return nil
		}
		notes = append(notes, note)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(notes, func(a, b storedNote) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return notes, nil
}

func (s *VaultRecordStore) readNote(path string) (storedNote, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return storedNote{}, err
	}
	var meta noteMeta
	if _, err := markdown.Decode(string(raw), &meta); err != nil {
		return storedNote{}, err
	}
	if meta.Duration == 0 {
		return storedNote{}, fmt.Errorf("missing duration")
	}
	e := entry{
		Timestamp: meta.Timestamp,
		Duration:  meta.Duration,
		Date:      meta.Date,
		ID:        meta.ID,
		Kind:      meta.Kind,
	}
	record, err := e.toRecord(s.loc)
	if err != nil {
		return storedNote{}, err
	}
	return storedNote{seq: meta.Seq, record: record}, nil
}

func (s *VaultRecordStore) Close() error {
	return nil
}
