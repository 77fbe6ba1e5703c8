package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pomodoro/internal/bootstrap"
	progressdto "pomodoro/internal/modules/progress/dto"
	"pomodoro/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	dataDir    string
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "pomodoro",
		Short:         "Pomodoro timer with a persistent progress log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", envOr("POMODORO_DATA_DIR", "."), "directory holding the progress log, config and hooks")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default <data-dir>/"+config.FileName+")")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newTimerCmd(flags))
	root.AddCommand(newLogCmd(flags))
	root.AddCommand(newProgressCmd(flags))
	root.AddCommand(newStatsCmd(flags))
	root.AddCommand(newHookCmd(flags))
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadConfig(flags *rootFlags) (config.Config, error) {
	return config.Load(flags.dataDir, flags.configPath)
}

func loadApp(flags *rootFlags, logOut io.Writer, opts bootstrap.Options) (*bootstrap.App, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logOut, opts)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the progress HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			app, err := bootstrap.New(cfg, os.Stderr, bootstrap.Options{OpenStore: true})
			if err != nil {
				return err
			}
			defer app.Close()

			srv, err := app.Server()
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()
			app.Logger.Info().
				Str("backend", cfg.Store.Backend).
				Str("path", cfg.StorePath()).
				Msg("progress store open")
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func newTimerCmd(flags *rootFlags) *cobra.Command {
	var local, noUI bool
	var focus, brk time.Duration

	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Run the countdown timer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logOut := io.Writer(os.Stderr)
			if !noUI {
				// The terminal belongs to the UI; logs go to a file instead.
				f, err := os.OpenFile(filepath.Join(flags.dataDir, "timer.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open timer log: %w", err)
				}
				defer f.Close()
				logOut = f
			}

			app, err := loadApp(flags, logOut, bootstrap.Options{OpenStore: local})
			if err != nil {
				return err
			}
			defer app.Close()

			timer, err := app.Timer(bootstrap.TimerOptions{
				Local:        local,
				FocusSeconds: int(focus / time.Second),
				BreakSeconds: int(brk / time.Second),
			})
			if err != nil {
				return err
			}
			defer timer.Close()

			if noUI {
				ctx, stop := signalContext()
				defer stop()
				return bootstrap.RunHeadless(ctx, timer, cmd.OutOrStdout())
			}
			return bootstrap.RunTUI(app, timer)
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "log into the local store instead of the server")
	cmd.Flags().BoolVar(&noUI, "no-ui", false, "run one countdown and print progress lines")
	cmd.Flags().DurationVar(&focus, "focus", 0, "focus length (default timer.focus_seconds)")
	cmd.Flags().DurationVar(&brk, "break", 0, "break length (default timer.break_seconds)")
	return cmd
}

func newLogCmd(flags *rootFlags) *cobra.Command {
	var duration int
	var timestamp, kind string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Append a session record to the progress log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, os.Stderr, bootstrap.Options{OpenStore: true})
			if err != nil {
				return err
			}
			defer app.Close()

			input := progressdto.LogSessionInput{Kind: kind}
			if cmd.Flags().Changed("duration") {
				input.Duration = &duration
			}
			if timestamp != "" {
				input.Timestamp = &timestamp
			}
			record, err := app.ProgressCLI.Log(context.Background(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged %s %ds on %s (%s)\n", record.Kind, record.Duration, record.Date, record.ID)
			if record.Kind == "break" {
				return nil
			}
			award, err := app.GamificationCLI.Award(context.Background(), record.Date)
			if err != nil {
				app.Logger.Warn().Err(err).Msg("update gamification")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "+%d XP (total %d, level %d)\n", award.XPGained, award.TotalXP, award.Level)
			for _, a := range award.NewAchievements {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "unlocked %s %s\n", a.Icon, a.Name)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&duration, "duration", 1500, "session length in seconds (minimum 30)")
	cmd.Flags().StringVar(&timestamp, "timestamp", "", "completion time, ISO-8601 (default now)")
	cmd.Flags().StringVar(&kind, "kind", "", "focus|break (default focus)")
	return cmd
}

func newProgressCmd(flags *rootFlags) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show today's count and minutes, or a day-by-day history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, os.Stderr, bootstrap.Options{OpenStore: true})
			if err != nil {
				return err
			}
			defer app.Close()

			if days <= 0 {
				today, err := app.ProgressCLI.Today(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d sessions\t%d minutes\n", today.Date, today.Count, today.Minutes)
				return nil
			}
			history, err := app.ProgressCLI.History(context.Background(), days)
			if err != nil {
				return err
			}
			for _, day := range history.Days {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d sessions\t%d minutes\n", day.Date, day.Count, day.Minutes)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "show the last N days instead of today")
	return cmd
}

func newStatsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show level, streaks, achievements and weekly/monthly stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, os.Stderr, bootstrap.Options{OpenStore: true})
			if err != nil {
				return err
			}
			defer app.Close()

			status, err := app.GamificationCLI.Status(context.Background())
			if err != nil {
				return err
			}
			stats, err := app.GamificationCLI.Stats(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "level %d  xp %d  (%d/%d to next, %.1f%%)\n", status.Level, status.XP, status.XPProgress, status.XPNeeded, status.XPPercentage)
			_, _ = fmt.Fprintf(out, "streak %d days  longest %d days\n", status.CurrentStreak, status.LongestStreak)
			_, _ = fmt.Fprintf(out, "weekly  %d sessions  avg %.2f/day  %.1f%% of days\n", stats.Weekly.Total, stats.Weekly.Average, stats.Weekly.CompletionRate)
			_, _ = fmt.Fprintf(out, "monthly %d sessions  avg %.2f/day  %.1f%% of days\n", stats.Monthly.Total, stats.Monthly.Average, stats.Monthly.CompletionRate)
			_, _ = fmt.Fprintf(out, "achievements %d/%d\n", status.UnlockedCount, status.TotalAchievements)
			for _, a := range status.Achievements {
				mark := " "
				if a.Unlocked {
					mark = "x"
				}
				_, _ = fmt.Fprintf(out, "  [%s] %s %s: %s\n", mark, a.Icon, a.Name, a.Description)
			}
			return nil
		},
	}
}

func newHookCmd(flags *rootFlags) *cobra.Command {
	hook := &cobra.Command{Use: "hook", Short: "Manage external notification hooks"}

	hook.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered hooks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, os.Stderr, bootstrap.Options{})
			if err != nil {
				return err
			}
			hooks, err := app.HookCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(hooks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no hooks")
				return nil
			}
			for _, h := range hooks {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tenabled=%t\tevents=%v\n", h.Name, h.Version, h.Enabled, h.Events)
			}
			return nil
		},
	})

	hook.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Verify hook binaries, checksums and handshake",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, os.Stderr, bootstrap.Options{})
			if err != nil {
				return err
			}
			results, err := app.HookCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no hooks")
				return nil
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tbinary=%t\tchecksum=%t\tlifecycle=%t\t%s\n", r.Name, r.BinaryReachable, r.ChecksumValid, r.LifecycleOK, r.Error)
			}
			return nil
		},
	})
	return hook
}
