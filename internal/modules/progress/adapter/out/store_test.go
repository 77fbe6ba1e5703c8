package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	progressout "pomodoro/internal/modules/progress/adapter/out"
	"pomodoro/internal/modules/progress/domain"
	outport "pomodoro/internal/modules/progress/port/out"
	apperrors "pomodoro/internal/platform/errors"
)

func openStores(t *testing.T) map[string]outport.RecordStore {
	t.Helper()
	dir := t.TempDir()
	logger := zerolog.Nop()
	stores := map[string]outport.RecordStore{}
	for backend, path := range map[string]string{
		"jsonl":  filepath.Join(dir, "pomodoro.log"),
		"sqlite": filepath.Join(dir, "pomodoro.db"),
		"bolt":   filepath.Join(dir, "pomodoro.bolt"),
		"vault":  filepath.Join(dir, "vault"),
		"memory": "",
	} {
		store, err := progressout.OpenRecordStore(backend, path, time.UTC, logger)
		require.NoError(t, err, backend)
		t.Cleanup(func() { _ = store.Close() })
		stores[backend] = store
	}
	return stores
}

func collect(t *testing.T, store outport.RecordStore) []domain.Record {
	t.Helper()
	var out []domain.Record
	require.NoError(t, store.Scan(context.Background(), func(r domain.Record) error {
		out = append(out, r)
		return nil
	}))
	return out
}

func TestRecordStoresRoundTripInAppendOrder(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	for backend, store := range openStores(t) {
		first, err := domain.NewRecord("a1", base, 1500, domain.KindFocus)
		require.NoError(t, err)
		second, err := domain.NewRecord("b2", base.Add(-2*time.Hour), 300, domain.KindBreak)
		require.NoError(t, err)
		require.NoError(t, store.Append(context.Background(), first), backend)
		require.NoError(t, store.Append(context.Background(), second), backend)

		got := collect(t, store)
		require.Len(t, got, 2, backend)
		assert.Equal(t, "a1", got[0].ID, backend)
		assert.True(t, got[0].Timestamp.Equal(base), backend)
		assert.Equal(t, 1500, got[0].Duration, backend)
		assert.Equal(t, "2026-03-09", got[0].Date, backend)
		assert.Equal(t, "b2", got[1].ID, backend)
		assert.Equal(t, domain.KindBreak, got[1].Kind, backend)
	}
}

func TestVaultStoreKeepsAppendOrderAcrossReopen(t *testing.T) {
	t.Parallel()
	root := filepath.Join(t.TempDir(), "vault")
	base := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	appendAt := func(id string, ts time.Time) {
		store, err := progressout.NewVaultRecordStore(root, time.UTC, zerolog.Nop())
		require.NoError(t, err)
		record, err := domain.NewRecord(id, ts, 1500, domain.KindFocus)
		require.NoError(t, err)
		require.NoError(t, store.Append(context.Background(), record))
		require.NoError(t, store.Close())
	}
	appendAt("first", base)
	appendAt("second", base.Add(-2*time.Hour))
	appendAt("third", base.AddDate(0, 0, -1))

	store, err := progressout.NewVaultRecordStore(root, time.UTC, zerolog.Nop())
	require.NoError(t, err)
	var ids []string
	for _, r := range collect(t, store) {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"first", "second", "third"}, ids)
}

func TestRecordStoresRejectShortDurations(t *testing.T) {
	t.Parallel()
	for backend, store := range openStores(t) {
		bad := domain.Record{ID: "x", Timestamp: time.Now().UTC(), Duration: 29, Date: domain.DateOf(time.Now().UTC())}
		err := store.Append(context.Background(), bad)
		require.Error(t, err, backend)
		assert.True(t, apperrors.IsValidation(err), backend)
		assert.Empty(t, collect(t, store), backend)
	}
}

func TestJSONLStoreReadsLegacyLinesAndSkipsGarbage(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "pomodoro.log")
	content := `{"timestamp": "2026-03-09T10:00:00", "duration": 1500, "date": "2026-03-09"}
not json at all
{"timestamp": "yesterday", "duration": 1500, "date": "2026-03-08"}

{"timestamp": "2026-03-09T11:00:00.123456", "duration": 90, "date": "2026-03-09", "extra": true}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	store, err := progressout.NewJSONLRecordStore(path, time.UTC, zerolog.Nop())
	require.NoError(t, err)

	got := collect(t, store)
	require.Len(t, got, 2)
	assert.True(t, got[0].IsFocus())
	assert.Equal(t, 90, got[1].Duration)
}

func TestJSONLStoreSkipsOversizedAndShortLines(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "pomodoro.log")
	huge := `{"timestamp": "2026-03-09T09:00:00Z", "duration": 1500, "note": "` + strings.Repeat("x", 2<<20) + `"}`
	content := huge + "\n" +
		`{"timestamp": "2026-03-09T10:00:00Z", "duration": 10, "date": "2026-03-09"}` + "\n" +
		`{"timestamp": "2026-03-09T11:00:00Z", "duration": 1500, "date": "2026-03-09", "id": "kept"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	store, err := progressout.NewJSONLRecordStore(path, time.UTC, zerolog.Nop())
	require.NoError(t, err)

	got := collect(t, store)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].ID)
}

func TestJSONLStoreDerivesMissingDateInStoreZone(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "pomodoro.log")
	require.NoError(t, os.WriteFile(path, []byte(`{"timestamp": "2026-10-19T02:00:00Z", "duration": 1500}`+"\n"), 0o644))
	store, err := progressout.NewJSONLRecordStore(path, time.FixedZone("UTC-5", -5*60*60), zerolog.Nop())
	require.NoError(t, err)

	got := collect(t, store)
	require.Len(t, got, 1)
	assert.Equal(t, "2026-10-18", got[0].Date)
}

func TestJSONLStoreAppendsOneLinePerRecord(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "pomodoro.log")
	store, err := progressout.NewJSONLRecordStore(path, time.UTC, zerolog.Nop())
	require.NoError(t, err)
	record, err := domain.NewRecord("id-1", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), 60, "")
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), record))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"timestamp":"2026-01-02T03:04:05Z","duration":60,"date":"2026-01-02","id":"id-1","kind":"focus"}`, string(raw[:len(raw)-1]))
	assert.Equal(t, byte('\n'), raw[len(raw)-1])
}

func TestScanOnMissingLogIsEmpty(t *testing.T) {
	t.Parallel()
	store, err := progressout.NewJSONLRecordStore(filepath.Join(t.TempDir(), "absent.log"), time.UTC, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, collect(t, store))
}

func TestOpenRecordStoreRejectsUnknownBackend(t *testing.T) {
	t.Parallel()
	_, err := progressout.OpenRecordStore("redis", "x", time.UTC, zerolog.Nop())
	require.Error(t, err)
}
