package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pomodoro/internal/modules/hook/domain"
	hookout "pomodoro/internal/modules/hook/port/out"
)

const ManifestFile = "hooks.json"

// FileManifestStore reads <dir>/hooks.json. Binaries may be absolute, relative
// to dir, or start with ~/ for the user's home.
type FileManifestStore struct {
	dir  string
	path string
	home func() (string, error)
}

func NewFileManifestStore(dir string) hookout.ManifestStore {
	return &FileManifestStore{dir: dir, path: filepath.Join(dir, ManifestFile), home: os.UserHomeDir}
}

// Load rejects the whole file when any entry names an unknown event, so a typo
// never silently unsubscribes a hook.
func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Manifest{}, nil
		}
		return nil, fmt.Errorf("read hook manifests: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return []domain.Manifest{}, nil
	}
	var manifests []domain.Manifest
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ManifestFile, err)
	}
	for i := range manifests {
		m := &manifests[i]
		for _, event := range m.Events {
			if err := event.Validate(); err != nil {
				return nil, fmt.Errorf("%s entry %d (%s): %w", ManifestFile, i+1, m.Name, err)
			}
		}
		binary, err := s.resolveBinary(m.Binary)
		if err != nil {
			return nil, fmt.Errorf("%s entry %d (%s): %w", ManifestFile, i+1, m.Name, err)
		}
		m.Binary = binary
	}
	return manifests, nil
}

func (s *FileManifestStore) resolveBinary(binary string) (string, error) {
	switch {
	case binary == "" || filepath.IsAbs(binary):
		return binary, nil
	case strings.HasPrefix(binary, "~/"):
		home, err := s.home()
		if err != nil {
			return "", fmt.Errorf("expand binary path: %w", err)
		}
		return filepath.Join(home, binary[2:]), nil
	default:
		return filepath.Clean(filepath.Join(s.dir, binary)), nil
	}
}
