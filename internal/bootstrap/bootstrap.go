package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"
	"github.com/rs/zerolog"

	gamificationinadapter "pomodoro/internal/modules/gamification/adapter/in"
	gamificationoutadapter "pomodoro/internal/modules/gamification/adapter/out"
	gamificationin "pomodoro/internal/modules/gamification/port/in"
	gamificationservice "pomodoro/internal/modules/gamification/service"
	gamificationusecase "pomodoro/internal/modules/gamification/usecase"
	hookinadapter "pomodoro/internal/modules/hook/adapter/in"
	hookoutadapter "pomodoro/internal/modules/hook/adapter/out"
	hookin "pomodoro/internal/modules/hook/port/in"
	hookservice "pomodoro/internal/modules/hook/service"
	hookusecase "pomodoro/internal/modules/hook/usecase"
	progressinadapter "pomodoro/internal/modules/progress/adapter/in"
	progressoutadapter "pomodoro/internal/modules/progress/adapter/out"
	progressin "pomodoro/internal/modules/progress/port/in"
	progressout "pomodoro/internal/modules/progress/port/out"
	progressservice "pomodoro/internal/modules/progress/service"
	progressusecase "pomodoro/internal/modules/progress/usecase"
	timerinadapter "pomodoro/internal/modules/timer/adapter/in"
	timeroutadapter "pomodoro/internal/modules/timer/adapter/out"
	timerin "pomodoro/internal/modules/timer/port/in"
	timerout "pomodoro/internal/modules/timer/port/out"
	timerservice "pomodoro/internal/modules/timer/service"
	timerusecase "pomodoro/internal/modules/timer/usecase"
	"pomodoro/internal/platform/clock"
	"pomodoro/internal/platform/config"
	"pomodoro/internal/platform/id"
	"pomodoro/internal/platform/logging"
	"pomodoro/internal/platform/metrics"
	"pomodoro/internal/server"
	uiapp "pomodoro/internal/ui/app"
)

// Options selects which parts of the graph New wires.
type Options struct {
	// OpenStore opens the configured progress store. A remote timer leaves it closed
	// so it never contends with a running server for the same file.
	OpenStore bool
}

type App struct {
	Config  config.Config
	Logger  zerolog.Logger
	Metrics *metrics.Recorder

	ProgressCLI     progressinadapter.CLIHandler
	GamificationCLI gamificationinadapter.CLIHandler
	HookCLI         hookinadapter.CLIHandler

	clock    clock.Clock
	store    progressout.RecordStore
	progress progressin.Usecase
	game     gamificationin.Usecase
	hooks    hookin.Usecase
}

func New(cfg config.Config, logOut io.Writer, opts Options) (*App, error) {
	logger, err := logging.New(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	clk := clock.SystemClock{}
	recorder := metrics.New("pomodoro")

	hostLogger := hclog.New(&hclog.LoggerOptions{
		Name:       "hook",
		Output:     logOut,
		Level:      hclog.Warn,
		JSONFormat: cfg.Log.Format == "json",
	})
	hooksUC := hookusecase.NewInteractor(hookservice.NewHookService(
		hookoutadapter.NewFileManifestStore(cfg.HooksDir()),
		hookoutadapter.NewGRPCHost(hostLogger),
	), recorder, logger)

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: recorder,
		HookCLI: hookinadapter.NewCLIHandler(hooksUC),
		clock:   clk,
		hooks:   hooksUC,
	}
	if !opts.OpenStore {
		return app, nil
	}

	store, err := progressoutadapter.OpenRecordStore(cfg.Store.Backend, cfg.StorePath(), loc, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	progressUC := progressusecase.NewInteractor(
		progressservice.NewProgressService(clk, id.UUID{}, store, loc),
		recorder,
		logger,
	)
	gameUC := gamificationusecase.NewInteractor(
		gamificationservice.NewGamificationService(
			clk,
			loc,
			gamificationoutadapter.NewFileProfileStore(cfg.GamificationPath()),
			gamificationoutadapter.NewProgressHistoryAdapter(progressUC),
		),
		clk,
		loc,
		logger,
	)
	app.store = store
	app.progress = progressUC
	app.game = gameUC
	app.ProgressCLI = progressinadapter.NewCLIHandler(progressUC)
	app.GamificationCLI = gamificationinadapter.NewCLIHandler(gameUC)
	return app, nil
}

func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// Server builds the HTTP front for the opened store.
func (a *App) Server() (*server.Server, error) {
	if a.progress == nil {
		return nil, errors.New("progress store is not open")
	}
	return server.New(
		server.Config{Addr: a.Config.Server.Addr, ShutdownTimeout: a.Config.Server.ShutdownTimeout},
		a.Logger,
		a.Metrics,
		progressinadapter.NewHTTPHandler(a.progress, a.game, a.Logger),
		gamificationinadapter.NewHTTPHandler(a.game, a.Logger),
	), nil
}

type TimerOptions struct {
	// Local logs into the opened store instead of POSTing to the server.
	Local        bool
	FocusSeconds int
	BreakSeconds int
}

// Timer wires a driver to the progress client and notifiers. Callers must Close it.
func (a *App) Timer(opts TimerOptions) (timerin.Usecase, error) {
	var client timerout.ProgressClient
	if opts.Local {
		if a.progress == nil {
			return nil, errors.New("local timer needs an open progress store")
		}
		client = timeroutadapter.NewLocalProgressClient(a.progress, a.game, a.Logger)
	} else {
		client = timeroutadapter.NewHTTPProgressClient(a.Config.Server.URL, a.Config.Server.ClientTimeout)
	}

	settings := timerservice.Settings{
		FocusSeconds:   a.Config.Timer.FocusSeconds,
		BreakSeconds:   a.Config.Timer.BreakSeconds,
		AutoResetDelay: a.Config.Timer.AutoResetDelay,
		TickInterval:   time.Second,
		LogBreaks:      a.Config.Timer.LogBreaks,
		AutoBreak:      a.Config.Timer.AutoBreak,
	}
	if opts.FocusSeconds > 0 {
		settings.FocusSeconds = opts.FocusSeconds
	}
	if opts.BreakSeconds > 0 {
		settings.BreakSeconds = opts.BreakSeconds
	}

	notifier := timeroutadapter.MultiNotifier{
		timeroutadapter.NewLogNotifier(a.Logger.With().Str("module", "timer").Logger()),
		timeroutadapter.NewHookNotifier(a.hooks),
	}
	driver, err := timerservice.NewDriver(a.clock, client, notifier, settings, a.Logger.With().Str("module", "timer").Logger())
	if err != nil {
		return nil, err
	}
	return timerusecase.NewInteractor(driver), nil
}

func RunTUI(app *App, timer timerin.Usecase) error {
	var stats gamificationin.Usecase
	if app.game != nil {
		stats = app.game
	}
	program := tea.NewProgram(uiapp.NewModel(timer, stats), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func RunHeadless(ctx context.Context, timer timerin.Usecase, w io.Writer) error {
	return timerinadapter.NewCLIHandler(timer).Run(ctx, w)
}
