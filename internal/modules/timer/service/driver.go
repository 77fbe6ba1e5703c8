package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pomodoro/internal/modules/timer/domain"
	timerout "pomodoro/internal/modules/timer/port/out"
	"pomodoro/internal/platform/clock"
)

type Settings struct {
	FocusSeconds   int
	BreakSeconds   int
	AutoResetDelay time.Duration
	TickInterval   time.Duration
	LogBreaks      bool
	AutoBreak      bool
}

type Snapshot struct {
	State         domain.State
	ProgressKnown bool
	Today         timerout.TodayProgress
	Completions   int
	LastError     string
}

// Driver owns the single timer state and executes the effects Transition returns.
// Every transition and every published snapshot happens under mu.
type Driver struct {
	mu        sync.Mutex
	clock     clock.Clock
	progress  timerout.ProgressClient
	notifier  timerout.Notifier
	settings  Settings
	logger    zerolog.Logger
	state     domain.State
	today     timerout.TodayProgress
	known     bool
	completed int
	lastErr   string
	tick      clock.Timer
	tickGen   uint64
	reset     clock.Timer
	resetGen  uint64
	subs      map[chan Snapshot]struct{}
	closed    bool
	inflight  sync.WaitGroup
}

func NewDriver(clk clock.Clock, progress timerout.ProgressClient, notifier timerout.Notifier, settings Settings, logger zerolog.Logger) (*Driver, error) {
	if settings.TickInterval <= 0 {
		settings.TickInterval = time.Second
	}
	if settings.BreakSeconds <= 0 {
		settings.BreakSeconds = 300
	}
	state, err := domain.NewState(domain.PhaseFocus, settings.FocusSeconds)
	if err != nil {
		return nil, fmt.Errorf("focus duration: %w", err)
	}
	if _, err := domain.NewState(domain.PhaseBreak, settings.BreakSeconds); err != nil {
		return nil, fmt.Errorf("break duration: %w", err)
	}
	return &Driver{
		clock:    clk,
		progress: progress,
		notifier: notifier,
		settings: settings,
		logger:   logger,
		state:    state,
		subs:     map[chan Snapshot]struct{}{},
	}, nil
}

// Init reads today's aggregate once so the display starts populated.
func (d *Driver) Init(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.goLocked(func() {
		if note, ok := d.refresh(ctx); ok {
			d.notify(ctx, note)
		}
	})
}

func (d *Driver) Start() (Snapshot, error)  { return d.apply(domain.Event{Type: domain.EventStart}) }
func (d *Driver) Pause() (Snapshot, error)  { return d.apply(domain.Event{Type: domain.EventPause}) }
func (d *Driver) Resume() (Snapshot, error) { return d.apply(domain.Event{Type: domain.EventResume}) }
func (d *Driver) Reset() (Snapshot, error)  { return d.apply(domain.Event{Type: domain.EventReset}) }
func (d *Driver) Toggle() (Snapshot, error) { return d.apply(domain.Event{Type: domain.EventToggle}) }

func (d *Driver) SwitchPhase(phase domain.Phase) (Snapshot, error) {
	return d.apply(domain.Event{Type: domain.EventSwitchPhase, Phase: phase, Duration: d.durationFor(phase)})
}

func (d *Driver) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

// Subscribe returns a channel that always holds the most recent snapshot.
func (d *Driver) Subscribe() (<-chan Snapshot, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch := make(chan Snapshot, 1)
	if d.closed {
		close(ch)
		return ch, func() {}
	}
	d.subs[ch] = struct{}{}
	ch <- d.snapshotLocked()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			if _, ok := d.subs[ch]; ok {
				delete(d.subs, ch)
				close(ch)
			}
		})
	}
}

// Wait blocks until in-flight log and refresh calls return.
func (d *Driver) Wait() {
	d.inflight.Wait()
}

// Close cancels pending timers, waits for in-flight calls and closes subscriptions.
func (d *Driver) Close() {
	d.mu.Lock()
	d.closed = true
	d.cancelTickLocked()
	d.cancelResetLocked()
	d.mu.Unlock()

	d.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	for ch := range d.subs {
		delete(d.subs, ch)
		close(ch)
	}
}

func (d *Driver) apply(e domain.Event) (Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.applyLocked(e)
}

func (d *Driver) applyLocked(e domain.Event) (Snapshot, error) {
	next, effects, err := domain.Transition(d.state, e)
	if err != nil {
		return d.snapshotLocked(), err
	}
	d.state = next
	d.runEffectsLocked(effects)
	d.publishLocked()
	return d.snapshotLocked(), nil
}

func (d *Driver) runEffectsLocked(effects []domain.Effect) {
	var logged, notify *domain.Completion
	refresh := false
	at := d.clock.Now()
	for _, effect := range effects {
		switch effect.Type {
		case domain.EffectScheduleTick:
			d.scheduleTickLocked()
		case domain.EffectCancelTick:
			d.cancelTickLocked()
		case domain.EffectLogSession:
			done := effect.Completion
			d.completed++
			if done.Phase == domain.PhaseFocus || d.settings.LogBreaks {
				logged = &done
			}
		case domain.EffectRefreshProgress:
			refresh = true
		case domain.EffectScheduleAutoReset:
			d.scheduleResetLocked()
		case domain.EffectNotify:
			done := effect.Completion
			notify = &done
		}
	}
	if logged == nil && !refresh && notify == nil {
		return
	}
	// Log, then refresh, then notify: hooks can be slow and must not hold back
	// the aggregate shown to the user.
	d.goLocked(func() {
		ctx := context.Background()
		var notes []timerout.Notification
		if logged != nil {
			if failed, ok := d.logSession(ctx, *logged, at); ok {
				notes = append(notes, failed)
			}
		}
		if notify != nil {
			notes = append(notes, timerout.Notification{
				Event:    timerout.EventSessionCompleted,
				Phase:    string(notify.Phase),
				Duration: notify.Duration,
				At:       at,
			})
		}
		if refresh {
			if refreshed, ok := d.refresh(ctx); ok {
				notes = append(notes, refreshed)
			}
		}
		for _, note := range notes {
			d.notify(ctx, note)
		}
	})
}

// logSession returns a log_failed notification when the call fails.
func (d *Driver) logSession(ctx context.Context, done domain.Completion, at time.Time) (timerout.Notification, bool) {
	err := d.progress.LogSession(ctx, timerout.SessionLog{Timestamp: at, Duration: done.Duration, Kind: string(done.Phase)})
	d.mu.Lock()
	if err != nil {
		d.lastErr = fmt.Sprintf("log session: %v", err)
	} else {
		d.lastErr = ""
	}
	d.publishLocked()
	d.mu.Unlock()

	if err != nil {
		d.logger.Warn().Err(err).Int("duration", done.Duration).Str("phase", string(done.Phase)).Msg("session log failed")
		return timerout.Notification{
			Event:    timerout.EventLogFailed,
			Phase:    string(done.Phase),
			Duration: done.Duration,
			Error:    err.Error(),
			At:       at,
		}, true
	}
	d.logger.Info().Int("duration", done.Duration).Str("phase", string(done.Phase)).Msg("session logged")
	return timerout.Notification{}, false
}

// refresh publishes today's aggregate and returns the matching notification.
func (d *Driver) refresh(ctx context.Context) (timerout.Notification, bool) {
	today, err := d.progress.TodayProgress(ctx)
	if err != nil {
		d.logger.Warn().Err(err).Msg("refresh today progress")
		return timerout.Notification{}, false
	}
	d.mu.Lock()
	d.today = today
	d.known = true
	d.publishLocked()
	d.mu.Unlock()
	return timerout.Notification{
		Event:   timerout.EventProgressRefreshed,
		Count:   today.Count,
		Minutes: today.Minutes,
		At:      d.clock.Now(),
	}, true
}

func (d *Driver) notify(ctx context.Context, n timerout.Notification) {
	if d.notifier == nil {
		return
	}
	if err := d.notifier.Notify(ctx, n); err != nil {
		d.logger.Warn().Err(err).Str("event", n.Event).Msg("notify")
	}
}

func (d *Driver) onTick(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.tickGen || d.closed {
		return
	}
	d.tick = nil
	_, _ = d.applyLocked(domain.Event{Type: domain.EventTick})
}

func (d *Driver) onAutoReset(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.resetGen || d.closed {
		return
	}
	d.reset = nil
	if _, err := d.applyLocked(domain.Event{Type: domain.EventAutoReset}); err != nil {
		return
	}
	if !d.settings.AutoBreak {
		return
	}
	next := domain.PhaseBreak
	if d.state.Phase == domain.PhaseBreak {
		next = domain.PhaseFocus
	}
	_, _ = d.applyLocked(domain.Event{Type: domain.EventSwitchPhase, Phase: next, Duration: d.durationFor(next)})
}

func (d *Driver) scheduleTickLocked() {
	d.cancelTickLocked()
	gen := d.tickGen
	d.tick = d.clock.AfterFunc(d.settings.TickInterval, func() { d.onTick(gen) })
}

// cancelTickLocked also invalidates a callback that already fired and is waiting on mu.
func (d *Driver) cancelTickLocked() {
	d.tickGen++
	if d.tick != nil {
		d.tick.Stop()
		d.tick = nil
	}
}

func (d *Driver) scheduleResetLocked() {
	d.cancelResetLocked()
	gen := d.resetGen
	d.reset = d.clock.AfterFunc(d.settings.AutoResetDelay, func() { d.onAutoReset(gen) })
}

func (d *Driver) cancelResetLocked() {
	d.resetGen++
	if d.reset != nil {
		d.reset.Stop()
		d.reset = nil
	}
}

func (d *Driver) goLocked(fn func()) {
	if d.closed {
		return
	}
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		fn()
	}()
}

func (d *Driver) publishLocked() {
	snap := d.snapshotLocked()
	for ch := range d.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (d *Driver) snapshotLocked() Snapshot {
	return Snapshot{
		State:         d.state,
		ProgressKnown: d.known,
		Today:         d.today,
		Completions:   d.completed,
		LastError:     d.lastErr,
	}
}

func (d *Driver) durationFor(phase domain.Phase) int {
	if phase == domain.PhaseBreak {
		return d.settings.BreakSeconds
	}
	return d.settings.FocusSeconds
}
