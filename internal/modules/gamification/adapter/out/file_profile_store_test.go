package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gamificationout "pomodoro/internal/modules/gamification/adapter/out"
	"pomodoro/internal/modules/gamification/domain"
	apperrors "pomodoro/internal/platform/errors"
)

func TestFileProfileStoreMissingFileIsFreshProfile(t *testing.T) {
	t.Parallel()
	store := gamificationout.NewFileProfileStore(filepath.Join(t.TempDir(), "gamification.json"))
	profile, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NewProfile(), profile)
}

func TestFileProfileStoreReadsExistingDocument(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "gamification.json")
	raw := `{"xp": 500, "level": 5, "achievements": ["first_session", "streak_3"], "current_streak": 3, "longest_streak": 5, "last_session_date": "2024-01-15"}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	profile, err := gamificationout.NewFileProfileStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 500, profile.XP)
	assert.Equal(t, 5, profile.Level)
	assert.Len(t, profile.Achievements, 2)
	assert.Equal(t, "2024-01-15", profile.LastSessionDate)
}

func TestFileProfileStoreSaveRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "gamification.json")
	store := gamificationout.NewFileProfileStore(path)
	profile := domain.NewProfile()
	profile.AddXP(125)
	profile.Achievements = append(profile.Achievements, "first_session")
	require.NoError(t, store.Save(context.Background(), profile))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, profile, loaded)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileProfileStoreCorruptDocumentIsStorageError(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "gamification.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err := gamificationout.NewFileProfileStore(path).Load(context.Background())
	assert.True(t, apperrors.IsStorage(err))
}
