package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pomodoro/internal/modules/gamification/domain"
	gamificationout "pomodoro/internal/modules/gamification/port/out"
	apperrors "pomodoro/internal/platform/errors"
)

type profileFile struct {
	SchemaVersion   int      `json:"schema_version,omitempty"`
	XP              int      `json:"xp"`
	Level           int      `json:"level"`
	Achievements    []string `json:"achievements"`
	CurrentStreak   int      `json:"current_streak"`
	LongestStreak   int      `json:"longest_streak"`
	LastSessionDate string   `json:"last_session_date,omitempty"`
}

// FileProfileStore keeps the profile as one JSON document, replaced atomically on save.
type FileProfileStore struct {
	path string
}

func NewFileProfileStore(path string) gamificationout.ProfileStore {
	return &FileProfileStore{path: path}
}

func (s *FileProfileStore) Load(_ context.Context) (domain.Profile, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewProfile(), nil
		}
		return domain.Profile{}, apperrors.NewStorage("read gamification profile", err)
	}
	file := profileFile{}
	if err := json.Unmarshal(payload, &file); err != nil {
		return domain.Profile{}, apperrors.NewStorage("decode gamification profile", err)
	}
	profile := domain.Profile{
		XP:              file.XP,
		Level:           file.Level,
		CurrentStreak:   file.CurrentStreak,
		LongestStreak:   file.LongestStreak,
		LastSessionDate: file.LastSessionDate,
		Achievements:    file.Achievements,
	}
	if profile.Level < 1 {
		profile.Level = domain.LevelForXP(profile.XP)
	}
	if profile.Achievements == nil {
		profile.Achievements = []string{}
	}
	return profile, nil
}

func (s *FileProfileStore) Save(_ context.Context, profile domain.Profile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperrors.NewStorage("create gamification dir", err)
	}
	payload, err := json.MarshalIndent(profileFile{
		SchemaVersion:   domain.SchemaVersion,
		XP:              profile.XP,
		Level:           profile.Level,
		Achievements:    profile.Achievements,
		CurrentStreak:   profile.CurrentStreak,
		LongestStreak:   profile.LongestStreak,
		LastSessionDate: profile.LastSessionDate,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal gamification profile: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return apperrors.NewStorage("write gamification profile", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return apperrors.NewStorage("replace gamification profile", err)
	}
	return nil
}
