package usecase_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pomodoro/internal/modules/hook/domain"
	"pomodoro/internal/modules/hook/dto"
	"pomodoro/internal/modules/hook/service"
	"pomodoro/internal/modules/hook/usecase"
	"pomodoro/internal/platform/metrics"
)

type fakeManifestStore struct {
	manifests []domain.Manifest
}

func (s fakeManifestStore) Load(context.Context) ([]domain.Manifest, error) {
	return s.manifests, nil
}

type fakeHost struct {
	fail map[string]bool
}

func (fakeHost) CheckLifecycle(context.Context, domain.Manifest) error { return nil }
func (fakeHost) GetMetadata(context.Context, domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{}, nil
}
func (h fakeHost) Notify(_ context.Context, m domain.Manifest, _ domain.Notification) error {
	if h.fail[m.Name] {
		return errors.New("unreachable")
	}
	return nil
}

func manifestWithBinary(t *testing.T, name string) domain.Manifest {
	t.Helper()
	bin := filepath.Join(t.TempDir(), name)
	payload := []byte(name)
	if err := os.WriteFile(bin, payload, 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	sum := sha256.Sum256(payload)
	return domain.Manifest{
		Name:    name,
		Version: "1.0.0",
		Binary:  bin,
		SHA256:  hex.EncodeToString(sum[:]),
		Enabled: true,
		Events:  []domain.Event{domain.EventLogFailed},
	}
}

func TestDispatchRecordsOutcomes(t *testing.T) {
	t.Parallel()
	store := fakeManifestStore{manifests: []domain.Manifest{manifestWithBinary(t, "ok"), manifestWithBinary(t, "down")}}
	var logs strings.Builder
	recorder := metrics.New("test")
	uc := usecase.NewInteractor(service.NewHookService(store, fakeHost{fail: map[string]bool{"down": true}}), recorder, zerolog.New(&logs))

	out, err := uc.Dispatch(context.Background(), dto.DispatchInput{
		Event: string(domain.EventLogFailed),
		Phase: "focus",
		Error: "connection refused",
		At:    time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(out.Delivered) != 1 || len(out.Failures) != 1 || out.Failures[0].Hook != "down" {
		t.Fatalf("unexpected output: %+v", out)
	}
	rec := httptest.NewRecorder()
	recorder.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	for _, want := range []string{
		`test_hook_dispatches_total{hook="ok",outcome="ok"} 1`,
		`test_hook_dispatches_total{hook="down",outcome="error"} 1`,
	} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("expected %s in metrics output", want)
		}
	}
	if !strings.Contains(logs.String(), `"hook":"down"`) {
		t.Fatalf("expected failure log, got %s", logs.String())
	}
}

func TestListAndDoctor(t *testing.T) {
	t.Parallel()
	store := fakeManifestStore{manifests: []domain.Manifest{manifestWithBinary(t, "p1")}}
	uc := usecase.NewInteractor(service.NewHookService(store, fakeHost{}), nil, zerolog.Nop())

	list, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "p1" {
		t.Fatalf("unexpected list: %+v", list)
	}
	docs, err := uc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(docs) != 1 || !docs[0].LifecycleOK {
		t.Fatalf("unexpected doctor result: %+v", docs)
	}
}
