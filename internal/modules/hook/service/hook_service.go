package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pomodoro/internal/modules/hook/domain"
	"pomodoro/internal/modules/hook/dto"
	hookout "pomodoro/internal/modules/hook/port/out"
)

type HookService struct {
	store hookout.ManifestStore
	host  hookout.Host
}

func NewHookService(store hookout.ManifestStore, host hookout.Host) *HookService {
	return &HookService{store: store, host: host}
}

func (s *HookService) List(ctx context.Context) ([]dto.HookInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HookInfo, 0, len(manifests))
	for _, m := range manifests {
		events := make([]string, 0, len(m.Events))
		for _, e := range m.Events {
			events = append(events, string(e))
		}
		out = append(out, dto.HookInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Events: events})
	}
	return out, nil
}

func (s *HookService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

// Dispatch delivers n to every enabled hook subscribed to its event.
// Failures are collected per hook and never retried.
func (s *HookService) Dispatch(ctx context.Context, n domain.Notification) (dto.DispatchOutput, error) {
	if err := n.Validate(); err != nil {
		return dto.DispatchOutput{}, err
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return dto.DispatchOutput{}, err
	}
	out := dto.DispatchOutput{Delivered: []string{}, Failures: []dto.DispatchFailure{}}
	for _, m := range manifests {
		if !m.Enabled || !m.Subscribes(n.Event) {
			continue
		}
		if err := s.deliver(ctx, m, n); err != nil {
			out.Failures = append(out.Failures, dto.DispatchFailure{Hook: m.Name, Error: err.Error()})
			continue
		}
		out.Delivered = append(out.Delivered, m.Name)
	}
	return out, nil
}

func (s *HookService) deliver(ctx context.Context, m domain.Manifest, n domain.Notification) error {
	if err := checksumMatches(m.Binary, m.SHA256); err != nil {
		return err
	}
	if s.host == nil {
		return fmt.Errorf("hook host is not configured")
	}
	if err := s.host.Notify(ctx, m, n); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", domain.ErrHookTimeout, m.Name)
		}
		return err
	}
	return nil
}

func (s *HookService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate hook name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read hook binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
