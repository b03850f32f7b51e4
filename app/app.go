// Package app owns the window and the event loop and drives a renderer
// backend through them.
package app

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/wolf-engine/wolf/config"
	"github.com/wolf-engine/wolf/renderer"
)

// FramesPerSecond caps how often the loop polls events and renders.
const FramesPerSecond = 60

// Backend is a renderer implementation the shell can run.
type Backend struct {
	// WindowFlags are added to the flags every window is created with.
	WindowFlags uint32
	New         func(cfg config.Config, logger log.FieldLogger) renderer.Renderer
	WrapWindow  func(window *sdl.Window) renderer.Window
}

// Run opens the window, hands it to the backend and runs the event loop
// until the window is closed. The renderer is always shut down before the
// window is destroyed, also when initialization fails part-way.
func Run(cfg config.Config, backend Backend, logger log.FieldLogger) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return errors.Wrap(err, "init sdl")
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(cfg.AppName,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Width),
		int32(cfg.Height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE|backend.WindowFlags)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	defer window.Destroy()

	r := backend.New(cfg, logger)
	defer r.Shutdown()

	logger.Info("Application starting")
	if err := r.WindowReady(backend.WrapWindow(window)); err != nil {
		return err
	}

	err = loop(r, sdl.PollEvent, logger)
	logger.Info("Application shutting down")
	return err
}

func loop(r renderer.Renderer, poll func() sdl.Event, logger log.FieldLogger) error {
	ticker := time.NewTicker(time.Second / FramesPerSecond)
	defer ticker.Stop()

	stats := newFrameStats(logger, 5*time.Second)
	for {
		for event := poll(); event != nil; event = poll() {
			if r.WindowEvent(translateEvent(event)) {
				return nil
			}
		}

		start := hrtime.Now()
		if err := r.Render(); err != nil {
			if errors.Is(err, renderer.ErrNotReady) {
				return nil
			}
			return err
		}
		stats.add(hrtime.Since(start))

		<-ticker.C
	}
}

func translateEvent(event sdl.Event) renderer.Event {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return renderer.Event{Kind: renderer.EventCloseRequested}
	case *sdl.KeyboardEvent:
		if e.Keysym.Sym == sdl.K_ESCAPE && e.State == sdl.PRESSED {
			return renderer.Event{Kind: renderer.EventCloseRequested}
		}
	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_CLOSE:
			return renderer.Event{Kind: renderer.EventCloseRequested}
		case sdl.WINDOWEVENT_RESIZED:
			return renderer.Event{
				Kind:   renderer.EventResized,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}
		}
	}
	return renderer.Event{Kind: renderer.EventOther}
}

// frameStats logs the average render time once per interval.
type frameStats struct {
	log      log.FieldLogger
	interval time.Duration

	frames  int
	total   time.Duration
	elapsed time.Duration
	last    time.Duration
}

func newFrameStats(logger log.FieldLogger, interval time.Duration) *frameStats {
	return &frameStats{log: logger, interval: interval, last: hrtime.Now()}
}

func (s *frameStats) add(took time.Duration) {
	now := hrtime.Now()
	s.elapsed += now - s.last
	s.last = now
	s.frames++
	s.total += took

	if s.elapsed < s.interval {
		return
	}
	s.log.WithFields(log.Fields{
		"frames":  s.frames,
		"average": s.total / time.Duration(s.frames),
	}).Debug("Frame timing")
	s.frames, s.total, s.elapsed = 0, 0, 0
}
