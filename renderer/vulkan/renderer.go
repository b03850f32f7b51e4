// Package vulkan manages the lifecycle of a Vulkan rendering context: driver
// capability negotiation, device selection, presentation objects and their
// ordered teardown.
package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wolf-engine/wolf/renderer"
)

// Renderer is the Vulkan backend.
type Renderer struct {
	log log.FieldLogger
	ctx *Context
}

// NewRenderer tags everything the renderer logs with a fresh session id.
func NewRenderer(load LoadFunc, opts Options, logger log.FieldLogger) *Renderer {
	logger = logger.WithField("session", uuid.New().String())
	return &Renderer{
		log: logger,
		ctx: NewContext(load, opts, logger),
	}
}

// Context exposes the underlying lifecycle state.
func (r *Renderer) Context() *Context {
	return r.ctx
}

func (r *Renderer) WindowReady(window renderer.Window) error {
	w, ok := window.(Window)
	if !ok {
		return errors.Mark(errors.Newf("window %T cannot create a vulkan surface", window), ErrSurfaceCreationFailed)
	}

	// A context that is already up stays up.
	if stage := r.ctx.Stage(); stage != StageUninit {
		return outOfOrder("window ready", StageUninit, stage)
	}

	if err := r.initialize(w); err != nil {
		r.ctx.Teardown()
		return err
	}
	return nil
}

func (r *Renderer) initialize(window Window) error {
	if err := r.ctx.CreateInstance(window); err != nil {
		return err
	}
	if err := r.ctx.CreateDevice(); err != nil {
		return err
	}
	return r.ctx.BuildPresentation()
}

func (r *Renderer) WindowEvent(event renderer.Event) bool {
	switch event.Kind {
	case renderer.EventCloseRequested:
		r.Shutdown()
		return true
	case renderer.EventResized:
		r.log.WithFields(log.Fields{
			"width":  event.Width,
			"height": event.Height,
		}).Debug("Window resized, swapchain kept")
	}
	return false
}

// Render does not draw anything yet; it only checks that the presentation
// objects exist.
func (r *Renderer) Render() error {
	if r.ctx.Stage() != StagePresentationReady {
		return renderer.ErrNotReady
	}
	return nil
}

func (r *Renderer) Shutdown() {
	r.ctx.Teardown()
}
