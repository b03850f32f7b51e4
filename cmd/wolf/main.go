package main

import (
	"flag"
	"os"
	"runtime"
	"sort"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/wolf-engine/wolf/app"
	"github.com/wolf-engine/wolf/config"
	"github.com/wolf-engine/wolf/renderer"
	"github.com/wolf-engine/wolf/renderer/vulkan"
	"github.com/wolf-engine/wolf/renderer/vulkan/vkng"
)

func init() {
	runtime.LockOSThread()
}

var backends = map[string]app.Backend{
	"vulkan": {
		WindowFlags: sdl.WINDOW_VULKAN,
		New: func(cfg config.Config, logger log.FieldLogger) renderer.Renderer {
			return vulkan.NewRenderer(vkng.Loader(logger), vulkan.Options{
				AppName:          cfg.AppName,
				TargetPlatform:   cfg.TargetPlatform,
				DebugDiagnostics: cfg.DebugDiagnostics,
				DefaultExtent:    vulkan.DefaultExtent,
			}, logger)
		},
		WrapWindow: func(window *sdl.Window) renderer.Window {
			return vkng.NewWindow(window)
		},
	},
}

func main() {
	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment")
	backendName := flag.String("backend", "", "renderer backend, overrides "+config.EnvBackend)
	debug := flag.Bool("debug", true, "enable driver diagnostics, overrides "+config.EnvDebugDiagnostics)
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
	if *backendName != "" {
		cfg.Backend = *backendName
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "debug" {
			cfg.DebugDiagnostics = *debug
		}
	})

	logger, err := config.NewLogger(cfg, os.Stderr)
	if err != nil {
		log.Fatalf("%+v\n", err)
	}

	backend, ok := backends[cfg.Backend]
	if !ok {
		logger.Fatalf("%+v\n", errors.Newf("unknown backend %q, available: %v", cfg.Backend, backendNames()))
	}

	if err := app.Run(cfg, backend, logger.WithField("backend", cfg.Backend)); err != nil {
		logger.Fatalf("%+v\n", err)
	}
}

func backendNames() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
