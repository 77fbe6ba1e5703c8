package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	FileName = "pomodoro.yaml"
	envFile  = ".env"
)

const (
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendVault  = "vault"
	BackendMemory = "memory"
)

type Config struct {
	DataDir  string       `yaml:"-"`
	Timezone string       `yaml:"timezone"`
	Server   ServerConfig `yaml:"server"`
	Store    StoreConfig  `yaml:"store"`
	Timer    TimerConfig  `yaml:"timer"`
	Log      LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	URL             string        `yaml:"url"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	ClientTimeout   time.Duration `yaml:"client_timeout"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type TimerConfig struct {
	FocusSeconds   int           `yaml:"focus_seconds"`
	BreakSeconds   int           `yaml:"break_seconds"`
	AutoResetDelay time.Duration `yaml:"auto_reset_delay"`
	LogBreaks      bool          `yaml:"log_breaks"`
	AutoBreak      bool          `yaml:"auto_break"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// New returns the defaults rooted at dataDir.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		DataDir: dataDir,
		Server: ServerConfig{
			Addr:            ":5000",
			URL:             "http://127.0.0.1:5000",
			ShutdownTimeout: 5 * time.Second,
			ClientTimeout:   5 * time.Second,
		},
		Store: StoreConfig{Backend: BackendJSONL},
		Timer: TimerConfig{
			FocusSeconds:   1500,
			BreakSeconds:   300,
			AutoResetDelay: 3 * time.Second,
			AutoBreak:      true,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}, nil
}

// Load reads <dataDir>/.env and <dataDir>/pomodoro.yaml (or configPath when set) on top of
// the defaults, then applies POMODORO_* environment overrides.
func Load(dataDir, configPath string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	if err := godotenv.Load(filepath.Join(dataDir, envFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(dataDir, FileName)
	}
	raw, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config yaml: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	setString("POMODORO_ADDR", &c.Server.Addr)
	setString("POMODORO_SERVER_URL", &c.Server.URL)
	setString("POMODORO_STORE_BACKEND", &c.Store.Backend)
	setString("POMODORO_STORE_PATH", &c.Store.Path)
	setString("POMODORO_LOG_LEVEL", &c.Log.Level)
	setString("POMODORO_LOG_FORMAT", &c.Log.Format)
	setString("POMODORO_TIMEZONE", &c.Timezone)

	setters := []func() error{
		envBool("POMODORO_LOG_BREAKS", &c.Timer.LogBreaks),
		envBool("POMODORO_AUTO_BREAK", &c.Timer.AutoBreak),
		envInt("POMODORO_FOCUS_SECONDS", &c.Timer.FocusSeconds),
		envInt("POMODORO_BREAK_SECONDS", &c.Timer.BreakSeconds),
		envDuration("POMODORO_AUTO_RESET_DELAY", &c.Timer.AutoResetDelay),
	}
	for _, set := range setters {
		if err := set(); err != nil {
			return err
		}
	}
	return nil
}

func envBool(key string, dst *bool) func() error {
	return envParse(key, func(v string) error {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst = parsed
		return nil
	})
}

func envInt(key string, dst *int) func() error {
	return envParse(key, func(v string) error {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = parsed
		return nil
	})
}

func envDuration(key string, dst *time.Duration) func() error {
	return envParse(key, func(v string) error {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*dst = parsed
		return nil
	})
}

// envParse runs parse on a non-blank value; dst is left alone when parse fails.
func envParse(key string, parse func(string) error) func() error {
	return func() error {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		if err := parse(strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	}
}

func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendJSONL, BackendSQLite, BackendBolt, BackendVault, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend: %s", c.Store.Backend)
	}
	if c.Timer.FocusSeconds < 30 {
		return fmt.Errorf("timer.focus_seconds must be at least 30")
	}
	if c.Timer.BreakSeconds <= 0 {
		return fmt.Errorf("timer.break_seconds must be positive")
	}
	if c.Timer.AutoResetDelay < 0 {
		return fmt.Errorf("timer.auto_reset_delay must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location is the zone used to derive record dates and "today".
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// StorePath resolves store.path against the data dir, falling back to a per-backend default.
func (c Config) StorePath() string {
	if c.Store.Path != "" {
		return c.resolve(c.Store.Path)
	}
	switch c.Store.Backend {
	case BackendSQLite:
		return c.resolve("pomodoro.db")
	case BackendBolt:
		return c.resolve("pomodoro.bolt")
	case BackendVault:
		return c.resolve("vault")
	default:
		return c.resolve("pomodoro.log")
	}
}

func (c Config) GamificationPath() string {
	return filepath.Join(c.DataDir, "gamification.json")
}

func (c Config) HooksDir() string {
	return filepath.Join(c.DataDir, "hooks")
}

func (c Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}
