package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"pomodoro/internal/modules/hook/domain"
	"pomodoro/internal/modules/hook/service"
)

type fakeManifestStore struct {
	manifests []domain.Manifest
	err       error
}

func (s fakeManifestStore) Load(context.Context) ([]domain.Manifest, error) {
	return s.manifests, s.err
}

type fakeHost struct {
	mu        sync.Mutex
	notified  []string
	failFor   map[string]error
	lifecycle error
}

func (h *fakeHost) CheckLifecycle(context.Context, domain.Manifest) error { return h.lifecycle }
func (h *fakeHost) GetMetadata(_ context.Context, m domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: m.Name, Version: m.Version, Events: m.Events}, nil
}
func (h *fakeHost) Notify(_ context.Context, m domain.Manifest, n domain.Notification) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.failFor[m.Name]; err != nil {
		return err
	}
	h.notified = append(h.notified, m.Name+":"+string(n.Event))
	return nil
}

func writeBinary(t *testing.T, name string) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	payload := []byte("#!/bin/sh\necho " + name + "\n")
	if err := os.WriteFile(path, payload, 0o755); err != nil {
		t.Fatalf("write hook binary: %v", err)
	}
	sum := sha256.Sum256(payload)
	return path, hex.EncodeToString(sum[:])
}

func manifest(t *testing.T, name string, enabled bool, events ...domain.Event) domain.Manifest {
	t.Helper()
	bin, sum := writeBinary(t, name)
	return domain.Manifest{Name: name, Version: "1.0.0", Binary: bin, SHA256: sum, Enabled: enabled, Events: events}
}

func completed() domain.Notification {
	return domain.Notification{
		Event:    domain.EventSessionCompleted,
		Phase:    "focus",
		Duration: 1500,
		At:       time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC),
	}
}

func TestDispatchDeliversToEnabledSubscribers(t *testing.T) {
	t.Parallel()
	host := &fakeHost{}
	store := fakeManifestStore{manifests: []domain.Manifest{
		manifest(t, "alpha", true, domain.EventSessionCompleted),
		manifest(t, "beta", false, domain.EventSessionCompleted),
		manifest(t, "gamma", true, domain.EventLogFailed),
	}}
	out, err := service.NewHookService(store, host).Dispatch(context.Background(), completed())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(out.Delivered) != 1 || out.Delivered[0] != "alpha" {
		t.Fatalf("unexpected delivered: %+v", out.Delivered)
	}
	if len(out.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", out.Failures)
	}
	if len(host.notified) != 1 || host.notified[0] != "alpha:session_completed" {
		t.Fatalf("unexpected notifications: %v", host.notified)
	}
}

func TestDispatchCollectsFailuresWithoutStopping(t *testing.T) {
	t.Parallel()
	bad := manifest(t, "tampered", true, domain.EventSessionCompleted)
	bad.SHA256 = strings.Repeat("0", 64)
	host := &fakeHost{failFor: map[string]error{"broken": errors.New("boom")}}
	store := fakeManifestStore{manifests: []domain.Manifest{
		bad,
		manifest(t, "broken", true, domain.EventSessionCompleted),
		manifest(t, "healthy", true, domain.EventSessionCompleted),
	}}
	out, err := service.NewHookService(store, host).Dispatch(context.Background(), completed())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(out.Delivered) != 1 || out.Delivered[0] != "healthy" {
		t.Fatalf("unexpected delivered: %+v", out.Delivered)
	}
	if len(out.Failures) != 2 {
		t.Fatalf("expected two failures, got %+v", out.Failures)
	}
	if out.Failures[0].Hook != "tampered" || !strings.Contains(out.Failures[0].Error, "checksum") {
		t.Fatalf("unexpected checksum failure: %+v", out.Failures[0])
	}
	if out.Failures[1].Hook != "broken" || out.Failures[1].Error != "boom" {
		t.Fatalf("unexpected host failure: %+v", out.Failures[1])
	}
}

func TestDispatchRejectsInvalidNotification(t *testing.T) {
	t.Parallel()
	svc := service.NewHookService(fakeManifestStore{}, &fakeHost{})
	if _, err := svc.Dispatch(context.Background(), domain.Notification{Event: "tick", At: time.Now()}); err == nil {
		t.Fatalf("expected invalid event error")
	}
}

func TestDispatchPropagatesManifestErrors(t *testing.T) {
	t.Parallel()
	svc := service.NewHookService(fakeManifestStore{err: errors.New("disk gone")}, &fakeHost{})
	if _, err := svc.Dispatch(context.Background(), completed()); err == nil {
		t.Fatalf("expected manifest load error")
	}

	dup := manifest(t, "twin", true, domain.EventSessionCompleted)
	svc = service.NewHookService(fakeManifestStore{manifests: []domain.Manifest{dup, dup}}, &fakeHost{})
	if _, err := svc.Dispatch(context.Background(), completed()); err == nil {
		t.Fatalf("expected duplicate name error")
	}
}

func TestDoctorReportsChecksumBinaryAndLifecycle(t *testing.T) {
	t.Parallel()
	good := manifest(t, "good", true, domain.EventSessionCompleted)
	mismatch := manifest(t, "mismatch", true, domain.EventSessionCompleted)
	mismatch.SHA256 = strings.Repeat("0", 64)
	missing := manifest(t, "missing", true, domain.EventSessionCompleted)
	missing.Binary = filepath.Join(t.TempDir(), "absent")

	svc := service.NewHookService(fakeManifestStore{manifests: []domain.Manifest{good, mismatch, missing}}, &fakeHost{})
	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected three results, got %d", len(results))
	}
	if !results[0].ChecksumValid || !results[0].BinaryReachable || !results[0].LifecycleOK || results[0].Error != "" {
		t.Fatalf("unexpected healthy result: %+v", results[0])
	}
	if results[1].ChecksumValid || results[1].Error != "checksum mismatch" {
		t.Fatalf("expected checksum mismatch: %+v", results[1])
	}
	if results[2].BinaryReachable || results[2].Error == "" {
		t.Fatalf("expected missing binary: %+v", results[2])
	}
}

func TestListReturnsManifests(t *testing.T) {
	t.Parallel()
	m := manifest(t, "alpha", true, domain.EventSessionCompleted, domain.EventProgressRefreshed)
	list, err := service.NewHookService(fakeManifestStore{manifests: []domain.Manifest{m}}, nil).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "alpha" || len(list[0].Events) != 2 {
		t.Fatalf("unexpected list: %+v", list)
	}
}
