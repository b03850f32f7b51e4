package vulkan

import (
	log "github.com/sirupsen/logrus"
)

// Teardown releases every object the context owns, newest first, and
// returns the context to StageUninit. It never fails and never panics, and
// calling it again is a no-op.
func (c *Context) Teardown() {
	c.waitIdle()

	c.presentation.release(c.log)
	c.presentation = nil

	if c.messenger != nil {
		c.destroy("debug messenger", c.messenger.Destroy)
		c.messenger = nil
	}

	if c.surface != nil {
		c.destroy("surface", c.surface.Destroy)
		c.surface = nil
	}

	if c.device != nil {
		c.destroy("logical device", c.device.Destroy)
		c.device = nil
	}

	if c.instance != nil {
		c.destroy("instance", c.instance.Destroy)
		c.instance = nil
	}

	c.loader = nil
	c.physicalDevice = nil
	c.graphicsQueue = nil
	c.presentQueue = nil
	c.families = QueueFamilyIndices{}

	if c.stage != StageUninit {
		c.log.Info("Vulkan context released")
	}
	c.stage = StageUninit
}

// TeardownPresentation releases only the presentation objects and returns
// the context to StageDeviceReady, leaving instance, surface and device
// alive. This is what a swapchain recreation has to run before building the
// presentation again.
func (c *Context) TeardownPresentation() {
	if c.stage != StagePresentationReady {
		return
	}
	c.waitIdle()
	c.presentation.release(c.log)
	c.presentation = nil
	c.stage = StageDeviceReady
}

// waitIdle blocks until queued work, which may still read swapchain images,
// has finished. A failure is logged and teardown proceeds anyway.
func (c *Context) waitIdle() {
	if c.device == nil {
		return
	}
	c.destroy("device idle wait", func() {
		if err := c.device.WaitIdle(); err != nil {
			c.log.WithError(err).Warn("Device did not go idle before teardown")
		}
	})
}

func (c *Context) destroy(what string, release func()) {
	destroy(c.log, what, release)
}

// destroy runs release, turning a panic into a log entry.
func destroy(logger log.FieldLogger, what string, release func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Errorf("Releasing %s failed", what)
		}
	}()
	release()
}
