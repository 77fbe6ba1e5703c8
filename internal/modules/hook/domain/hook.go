package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"pomodoro/internal/platform/slug"
)

type Event string

const (
	EventSessionCompleted  Event = "session_completed"
	EventLogFailed         Event = "log_failed"
	EventProgressRefreshed Event = "progress_refreshed"
)

var (
	ErrHookDisabled     = errors.New("hook is disabled")
	ErrChecksumMismatch = errors.New("hook checksum mismatch")
	ErrHookTimeout      = errors.New("hook timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

func (e Event) Validate() error {
	switch e {
	case EventSessionCompleted, EventLogFailed, EventProgressRefreshed:
		return nil
	default:
		return fmt.Errorf("unknown hook event: %s", e)
	}
}

// Manifest registers one external hook binary and the events it receives.
type Manifest struct {
	Name    string  `json:"name"`
	Version string  `json:"version"`
	Binary  string  `json:"binary"`
	SHA256  string  `json:"sha256"`
	Enabled bool    `json:"enabled"`
	Events  []Event `json:"events"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("hook name is required")
	}
	if !slug.Valid(m.Name) {
		return fmt.Errorf("hook name must be lowercase kebab-case: %q", m.Name)
	}
	if m.Version == "" {
		return fmt.Errorf("hook version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("hook binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("hook sha256 must be lowercase 64-char hex")
	}
	if len(m.Events) == 0 {
		return fmt.Errorf("hook events are required")
	}
	seen := map[Event]struct{}{}
	for _, event := range m.Events {
		if err := event.Validate(); err != nil {
			return err
		}
		if _, ok := seen[event]; ok {
			return fmt.Errorf("duplicate event: %s", event)
		}
		seen[event] = struct{}{}
	}
	return nil
}

func (m Manifest) Subscribes(event Event) bool {
	for _, e := range m.Events {
		if e == event {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name    string
	Version string
	Events  []Event
}

// Notification is the payload delivered to a hook.
type Notification struct {
	Event    Event
	Phase    string
	Duration int
	Count    int
	Minutes  int
	Error    string
	At       time.Time
}

func (n Notification) Validate() error {
	if err := n.Event.Validate(); err != nil {
		return err
	}
	if n.At.IsZero() {
		return fmt.Errorf("notification time is required")
	}
	return nil
}
