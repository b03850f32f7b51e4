package app

import (
	"testing"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/wolf-engine/wolf/renderer"
)

func TestTranslateEvent(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  renderer.Event
	}{
		{"quit", &sdl.QuitEvent{}, renderer.Event{Kind: renderer.EventCloseRequested}},
		{"window close", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_CLOSE}, renderer.Event{Kind: renderer.EventCloseRequested}},
		{"resize", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 1280, Data2: 720}, renderer.Event{Kind: renderer.EventResized, Width: 1280, Height: 720}},
		{"minimize", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_MINIMIZED}, renderer.Event{Kind: renderer.EventOther}},
		{"escape pressed", &sdl.KeyboardEvent{State: sdl.PRESSED, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}}, renderer.Event{Kind: renderer.EventCloseRequested}},
		{"escape released", &sdl.KeyboardEvent{State: sdl.RELEASED, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}}, renderer.Event{Kind: renderer.EventOther}},
		{"other key", &sdl.KeyboardEvent{State: sdl.PRESSED, Keysym: sdl.Keysym{Sym: sdl.K_SPACE}}, renderer.Event{Kind: renderer.EventOther}},
		{"mouse", &sdl.MouseMotionEvent{}, renderer.Event{Kind: renderer.EventOther}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translateEvent(tt.event); got != tt.want {
				t.Errorf("translateEvent = %+v, want %+v", got, tt.want)
			}
		})
	}
}

type recordingRenderer struct {
	events    []renderer.Event
	renders   int
	renderErr error
	shutdowns int
}

func (r *recordingRenderer) WindowReady(renderer.Window) error { return nil }

func (r *recordingRenderer) WindowEvent(event renderer.Event) bool {
	r.events = append(r.events, event)
	return event.Kind == renderer.EventCloseRequested
}

func (r *recordingRenderer) Render() error {
	r.renders++
	return r.renderErr
}

func (r *recordingRenderer) Shutdown() { r.shutdowns++ }

// queue returns a poll function that yields each frame's events and then
// nil, one frame per inner slice.
func queue(frames ...[]sdl.Event) func() sdl.Event {
	var current []sdl.Event
	started := false
	return func() sdl.Event {
		if !started {
			started = true
			if len(frames) > 0 {
				current, frames = frames[0], frames[1:]
			}
		}
		if len(current) == 0 {
			started = false
			return nil
		}
		event := current[0]
		current = current[1:]
		return event
	}
}

func TestLoopStopsOnClose(t *testing.T) {
	logger, _ := test.NewNullLogger()
	r := &recordingRenderer{}

	poll := queue(
		[]sdl.Event{&sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 640, Data2: 480}},
		nil,
		[]sdl.Event{&sdl.QuitEvent{}, &sdl.MouseMotionEvent{}},
	)
	if err := loop(r, poll, logger); err != nil {
		t.Fatalf("loop: %+v", err)
	}

	if r.renders != 2 {
		t.Errorf("rendered %d frames, want 2", r.renders)
	}
	want := []renderer.Event{
		{Kind: renderer.EventResized, Width: 640, Height: 480},
		{Kind: renderer.EventCloseRequested},
	}
	if len(r.events) != len(want) || r.events[0] != want[0] || r.events[1] != want[1] {
		t.Errorf("events = %+v, want %+v", r.events, want)
	}
}

func TestLoopRenderErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()

	notReady := &recordingRenderer{renderErr: renderer.ErrNotReady}
	if err := loop(notReady, queue(), logger); err != nil {
		t.Errorf("a renderer that is not ready ends the loop quietly, got %v", err)
	}

	lost := errors.New("device lost")
	failing := &recordingRenderer{renderErr: lost}
	if err := loop(failing, queue(), logger); !errors.Is(err, lost) {
		t.Errorf("error %v is not %v", err, lost)
	}
}

func TestFrameStats(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)

	stats := newFrameStats(logger, 0)
	stats.add(2000)
	stats.add(4000)

	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want one per interval", len(entries))
	}
	if entries[0].Data["frames"] != 1 {
		t.Errorf("frames = %v", entries[0].Data["frames"])
	}
}
