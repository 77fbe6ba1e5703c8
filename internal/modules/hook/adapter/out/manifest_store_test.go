package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	hookout "pomodoro/internal/modules/hook/adapter/out"
	"pomodoro/internal/modules/hook/domain"
)

func writeManifests(t *testing.T, dir, raw string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir hooks: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, hookout.ManifestFile), []byte(raw), 0o644); err != nil {
		t.Fatalf("write hooks.json: %v", err)
	}
}

func TestFileManifestStoreLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()
	store := hookout.NewFileManifestStore(filepath.Join(t.TempDir(), "hooks"))
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected empty manifests, got %d", len(manifests))
	}
}

func TestFileManifestStoreResolvesRelativeBinary(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "hooks")
	writeManifests(t, dir, `[
  {
    "name": "notify-log",
    "version": "1.0.0",
    "binary": "bin/notify-log",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true,
    "events": ["session_completed"]
  }
]`)
	manifests, err := hookout.NewFileManifestStore(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 1 {
		t.Fatalf("expected one manifest, got %d", len(manifests))
	}
	if want := filepath.Join(dir, "bin", "notify-log"); manifests[0].Binary != want {
		t.Fatalf("expected binary %s, got %s", want, manifests[0].Binary)
	}
	if !manifests[0].Subscribes(domain.EventSessionCompleted) {
		t.Fatalf("expected session_completed subscription")
	}
}

func TestFileManifestStoreRejectsUnknownField(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "hooks")
	writeManifests(t, dir, `[{"name": "notify-log", "capabilities": ["command"]}]`)
	if _, err := hookout.NewFileManifestStore(dir).Load(context.Background()); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestFileManifestStoreRejectsUnknownEvent(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "hooks")
	writeManifests(t, dir, `[{"name": "notify-log", "version": "1", "binary": "x", "sha256": "", "enabled": true, "events": ["session_complete"]}]`)
	_, err := hookout.NewFileManifestStore(dir).Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "entry 1 (notify-log)") {
		t.Fatalf("expected unknown event error naming the entry, got %v", err)
	}
}

func TestFileManifestStoreExpandsHomeAndAcceptsEmptyFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(t.TempDir(), "hooks")
	writeManifests(t, dir, `[{"name": "notify-log", "version": "1", "binary": "~/bin/notify-log", "sha256": "", "enabled": false, "events": ["log_failed"]}]`)
	manifests, err := hookout.NewFileManifestStore(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if want := filepath.Join(home, "bin", "notify-log"); manifests[0].Binary != want {
		t.Fatalf("expected binary %s, got %s", want, manifests[0].Binary)
	}

	writeManifests(t, dir, "  \n")
	manifests, err = hookout.NewFileManifestStore(dir).Load(context.Background())
	if err != nil || len(manifests) != 0 {
		t.Fatalf("empty file must load as no hooks: %v %v", manifests, err)
	}
}
