package domain

import (
	"fmt"

	apperrors "pomodoro/internal/platform/errors"
)

type Phase string

const (
	PhaseFocus Phase = "focus"
	PhaseBreak Phase = "break"
)

type Mode string

const (
	ModeIdle      Mode = "idle"
	ModeRunning   Mode = "running"
	ModePaused    Mode = "paused"
	ModeCompleted Mode = "completed"
)

const MinDurationSeconds = 30

// State is one countdown. 0 <= Remaining <= DurationTotal always holds.
type State struct {
	Phase         Phase
	Mode          Mode
	DurationTotal int
	Remaining     int
}

func NewState(phase Phase, durationTotal int) (State, error) {
	if phase != PhaseFocus && phase != PhaseBreak {
		return State{}, apperrors.NewValidation("phase", fmt.Sprintf("unknown phase %q", phase))
	}
	if durationTotal < MinDurationSeconds {
		return State{}, apperrors.NewValidation("duration", "Duration must be at least 30 seconds")
	}
	return State{Phase: phase, Mode: ModeIdle, DurationTotal: durationTotal, Remaining: durationTotal}, nil
}

func (s State) Elapsed() int {
	return s.DurationTotal - s.Remaining
}

type EventType string

const (
	EventStart       EventType = "start"
	EventPause       EventType = "pause"
	EventResume      EventType = "resume"
	EventReset       EventType = "reset"
	EventToggle      EventType = "toggle"
	EventTick        EventType = "tick"
	EventAutoReset   EventType = "auto_reset"
	EventSwitchPhase EventType = "switch_phase"
)

// Event is a trigger. Phase and Duration are read only by EventSwitchPhase.
type Event struct {
	Type     EventType
	Phase    Phase
	Duration int
}

type EffectType string

const (
	EffectScheduleTick      EffectType = "schedule_tick"
	EffectCancelTick        EffectType = "cancel_tick"
	EffectLogSession        EffectType = "log_session"
	EffectRefreshProgress   EffectType = "refresh_progress"
	EffectScheduleAutoReset EffectType = "schedule_auto_reset"
	EffectNotify            EffectType = "notify"
)

// Completion describes the interval that just finished.
type Completion struct {
	Phase    Phase
	Duration int
}

type Effect struct {
	Type       EffectType
	Completion Completion
}

// Transition is the pure state machine. On error the input state is returned unchanged.
func Transition(s State, e Event) (State, []Effect, error) {
	switch e.Type {
	case EventToggle:
		switch s.Mode {
		case ModeIdle:
			return Transition(s, Event{Type: EventStart})
		case ModeRunning:
			return Transition(s, Event{Type: EventPause})
		case ModePaused:
			return Transition(s, Event{Type: EventResume})
		}
		return s, nil, invalid(s, e)

	case EventStart:
		if s.Mode != ModeIdle {
			return s, nil, invalid(s, e)
		}
		s.Mode = ModeRunning
		return s, []Effect{{Type: EffectScheduleTick}}, nil

	case EventPause:
		if s.Mode != ModeRunning {
			return s, nil, invalid(s, e)
		}
		s.Mode = ModePaused
		return s, []Effect{{Type: EffectCancelTick}}, nil

	case EventResume:
		if s.Mode != ModePaused {
			return s, nil, invalid(s, e)
		}
		s.Mode = ModeRunning
		return s, []Effect{{Type: EffectScheduleTick}}, nil

	case EventReset:
		switch s.Mode {
		case ModeRunning:
			s.Mode = ModeIdle
			s.Remaining = s.DurationTotal
			return s, []Effect{{Type: EffectCancelTick}}, nil
		case ModePaused:
			s.Mode = ModeIdle
			s.Remaining = s.DurationTotal
			return s, nil, nil
		}
		return s, nil, invalid(s, e)

	case EventTick:
		if s.Mode != ModeRunning {
			return s, nil, nil
		}
		if s.Remaining > 0 {
			s.Remaining--
		}
		if s.Remaining > 0 {
			return s, []Effect{{Type: EffectScheduleTick}}, nil
		}
		s.Mode = ModeCompleted
		done := Completion{Phase: s.Phase, Duration: s.DurationTotal}
		return s, []Effect{
			{Type: EffectCancelTick},
			{Type: EffectLogSession, Completion: done},
			{Type: EffectRefreshProgress},
			{Type: EffectScheduleAutoReset},
			{Type: EffectNotify, Completion: done},
		}, nil

	case EventAutoReset:
		if s.Mode != ModeCompleted {
			return s, nil, invalid(s, e)
		}
		s.Mode = ModeIdle
		s.Remaining = s.DurationTotal
		return s, nil, nil

	case EventSwitchPhase:
		if s.Mode != ModeIdle {
			return s, nil, invalid(s, e)
		}
		next, err := NewState(e.Phase, e.Duration)
		if err != nil {
			return s, nil, err
		}
		return next, nil, nil
	}
	return s, nil, invalid(s, e)
}

func invalid(s State, e Event) error {
	return fmt.Errorf("%w: %s while %s", apperrors.ErrInvalidTransition, e.Type, s.Mode)
}
