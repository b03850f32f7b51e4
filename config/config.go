// Package config resolves the engine settings from the environment, an
// optional dotenv file and defaults.
package config

import (
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Environment variables read by Load.
const (
	EnvPlatform         = "WOLF_PLATFORM"
	EnvDebugDiagnostics = "WOLF_DEBUG_DIAGNOSTICS"
	EnvAppName          = "WOLF_APP_NAME"
	EnvWindowWidth      = "WOLF_WINDOW_WIDTH"
	EnvWindowHeight     = "WOLF_WINDOW_HEIGHT"
	EnvLogLevel         = "WOLF_LOG_LEVEL"
	EnvBackend          = "WOLF_BACKEND"
)

// ErrInvalid marks every value that could not be parsed.
var ErrInvalid = errors.New("invalid configuration")

// Config is resolved once at startup.
type Config struct {
	AppName          string
	TargetPlatform   string
	DebugDiagnostics bool
	Backend          string
	LogLevel         string

	Width  int
	Height int
}

func Default() Config {
	return Config{
		AppName:          "Wolf Engine",
		TargetPlatform:   runtime.GOOS,
		DebugDiagnostics: true,
		Backend:          "vulkan",
		LogLevel:         "info",
		Width:            800,
		Height:           600,
	}
}

// Load reads the configuration. envFile is loaded first when it exists;
// variables already set in the process environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return Config{}, errors.Wrapf(err, "load %s", envFile)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, errors.Wrapf(err, "stat %s", envFile)
		}
	}
	envy.Reload()

	cfg := Default()
	cfg.AppName = envy.Get(EnvAppName, cfg.AppName)
	cfg.TargetPlatform = envy.Get(EnvPlatform, cfg.TargetPlatform)
	cfg.Backend = envy.Get(EnvBackend, cfg.Backend)
	cfg.LogLevel = envy.Get(EnvLogLevel, cfg.LogLevel)

	var err error
	if cfg.DebugDiagnostics, err = boolVar(EnvDebugDiagnostics, cfg.DebugDiagnostics); err != nil {
		return Config{}, err
	}
	if cfg.Width, err = sizeVar(EnvWindowWidth, cfg.Width); err != nil {
		return Config{}, err
	}
	if cfg.Height, err = sizeVar(EnvWindowHeight, cfg.Height); err != nil {
		return Config{}, err
	}
	if _, err = log.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, errors.Mark(errors.Wrapf(err, "%s", EnvLogLevel), ErrInvalid)
	}
	return cfg, nil
}

func boolVar(key string, def bool) (bool, error) {
	raw := envy.Get(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, errors.Mark(errors.Wrapf(err, "%s", key), ErrInvalid)
	}
	return v, nil
}

func sizeVar(key string, def int) (int, error) {
	raw := envy.Get(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, errors.Mark(errors.Wrapf(err, "%s", key), ErrInvalid)
	}
	if v <= 0 {
		return def, errors.Mark(errors.Newf("%s: %d is not a positive size", key, v), ErrInvalid)
	}
	return v, nil
}

// NewLogger builds the application logger writing to out.
func NewLogger(cfg Config, out io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Mark(err, ErrInvalid)
	}

	logger := log.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return logger, nil
}
