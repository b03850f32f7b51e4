package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	log "github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_portability_subset"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// Options are resolved once at startup.
type Options struct {
	AppName          string
	TargetPlatform   string
	DebugDiagnostics bool

	// DefaultExtent is used when the surface leaves the swapchain size up
	// to the application.
	DefaultExtent core1_0.Extent2D
}

// DefaultExtent is the presentation size used when the surface does not
// dictate one.
var DefaultExtent = core1_0.Extent2D{Width: 800, Height: 600}

// QueueFamilyIndices are the families the logical device was created with.
// Graphics and Present may be the same family.
type QueueFamilyIndices struct {
	Graphics int
	Present  int
}

// Unique returns each distinct family once, graphics first.
func (q QueueFamilyIndices) Unique() []int {
	if q.Graphics == q.Present {
		return []int{q.Graphics}
	}
	return []int{q.Graphics, q.Present}
}

func (q QueueFamilyIndices) queueRequests() []QueueRequest {
	var requests []QueueRequest
	for _, family := range q.Unique() {
		requests = append(requests, QueueRequest{
			Family:     family,
			Priorities: []float32{1.0},
		})
	}
	return requests
}

// Context owns every GPU object of the renderer. It is built stage by stage
// and released with Teardown. A Context is driven from a single thread.
type Context struct {
	log  log.FieldLogger
	opts Options
	load LoadFunc

	stage Stage

	loader    Loader
	instance  Instance
	messenger Messenger
	surface   Surface

	physicalDevice PhysicalDevice
	families       QueueFamilyIndices
	device         Device
	graphicsQueue  Queue
	presentQueue   Queue

	presentation *Presentation
}

func NewContext(load LoadFunc, opts Options, logger log.FieldLogger) *Context {
	if opts.DefaultExtent.Width <= 0 || opts.DefaultExtent.Height <= 0 {
		opts.DefaultExtent = DefaultExtent
	}
	return &Context{
		log:  logger,
		opts: opts,
		load: load,
	}
}

func (c *Context) Stage() Stage {
	return c.stage
}

// Presentation returns the presentation objects, or nil before
// StagePresentationReady.
func (c *Context) Presentation() *Presentation {
	return c.presentation
}

// QueueFamilies returns the selected families. The second result is false
// until a device was created.
func (c *Context) QueueFamilies() (QueueFamilyIndices, bool) {
	return c.families, c.stage >= StageDeviceReady
}

func (c *Context) PhysicalDevice() PhysicalDevice {
	return c.physicalDevice
}

// Queues returns the graphics and present queues.
func (c *Context) Queues() (graphics Queue, present Queue) {
	return c.graphicsQueue, c.presentQueue
}

// CreateInstance loads the driver, negotiates capabilities and creates the
// instance, the debug messenger and the window surface.
func (c *Context) CreateInstance(window Window) (err error) {
	if c.stage != StageUninit {
		return outOfOrder("create instance", StageUninit, c.stage)
	}
	if window == nil {
		return errors.Mark(errors.New("create surface: no window"), ErrSurfaceCreationFailed)
	}

	start := hrtime.Now()
	var undo rollback
	defer func() {
		if err != nil {
			undo.run()
		}
	}()

	loader, err := c.load()
	if err != nil {
		return fail(err, ErrLoaderFailure, "load vulkan driver")
	}

	availableExtensions, err := loader.AvailableExtensions()
	if err != nil {
		c.log.WithError(err).Warn("Could not enumerate instance extensions")
	}
	availableLayers, err := loader.AvailableLayers()
	if err != nil {
		c.log.WithError(err).Warn("Could not enumerate instance layers")
	}

	caps := Negotiate(NegotiationInput{
		Required:            window.RequiredInstanceExtensions(),
		AvailableExtensions: availableExtensions,
		AvailableLayers:     availableLayers,
		TargetPlatform:      c.opts.TargetPlatform,
		DebugDiagnostics:    c.opts.DebugDiagnostics,
	}, c.log)

	info := InstanceInfo{
		ApplicationName:      c.opts.AppName,
		EngineName:           c.opts.AppName,
		APIVersion:           loader.Version(),
		Extensions:           caps.Extensions,
		Layers:               caps.Layers,
		EnumeratePortability: caps.EnumeratePortability,
	}

	var bridge *Bridge
	if caps.DebugUtils {
		bridge = NewBridge(c.log)
		hook := bridge.MessengerInfo()
		info.Diagnostics = &hook
	}

	instance, err := loader.CreateInstance(info)
	if err != nil {
		return fail(err, ErrInstanceCreationFailed, "create instance")
	}
	undo.push(func() { c.destroy("instance", instance.Destroy) })

	c.log.WithFields(log.Fields{
		"api":        info.APIVersion,
		"extensions": info.Extensions,
		"layers":     info.Layers,
	}).Info("Vulkan instance ready")

	var messenger Messenger
	if bridge != nil {
		messenger, err = instance.CreateMessenger(bridge.MessengerInfo())
		if err != nil {
			return fail(err, ErrInstanceCreationFailed, "attach debug messenger")
		}
		undo.push(func() { c.destroy("debug messenger", messenger.Destroy) })
	}

	surface, err := window.CreateSurface(instance)
	if err != nil {
		return fail(err, ErrSurfaceCreationFailed, "create surface")
	}

	c.loader = loader
	c.instance = instance
	c.messenger = messenger
	c.surface = surface
	c.stage = StageInstanceReady

	c.log.WithField("took", hrtime.Since(start)).Debug("Instance stage complete")
	return nil
}

// CreateDevice selects the physical device and creates the logical device
// and its queues.
func (c *Context) CreateDevice() error {
	if c.stage != StageInstanceReady {
		return outOfOrder("create device", StageInstanceReady, c.stage)
	}
	start := hrtime.Now()

	devices, err := c.instance.PhysicalDevices()
	if err != nil {
		return errors.Wrap(err, "enumerate physical devices")
	}

	physical, families, err := selectPhysicalDevice(devices, c.surface, c.log)
	if err != nil {
		return err
	}

	available, err := physical.Extensions()
	if err != nil {
		return fail(err, ErrDeviceCreationFailed, "enumerate extensions of %s", physical.Name())
	}

	extensions := []string{khr_swapchain.ExtensionName}
	if contains(available, khr_portability_subset.ExtensionName) {
		extensions = append(extensions, khr_portability_subset.ExtensionName)
		c.log.Infof("%s enabled", khr_portability_subset.ExtensionName)
	}

	device, err := physical.CreateDevice(DeviceInfo{
		QueueRequests: families.queueRequests(),
		Extensions:    extensions,
	})
	if err != nil {
		return fail(err, ErrDeviceCreationFailed, "create logical device on %s", physical.Name())
	}

	c.physicalDevice = physical
	c.families = families
	c.device = device
	c.graphicsQueue = device.Queue(families.Graphics, 0)
	c.presentQueue = device.Queue(families.Present, 0)
	c.stage = StageDeviceReady

	c.log.WithFields(log.Fields{
		"device":   physical.Name(),
		"graphics": families.Graphics,
		"present":  families.Present,
		"took":     hrtime.Since(start),
	}).Info("Logical device ready")
	return nil
}

// BuildPresentation creates the swapchain, image views, render pass and
// framebuffers. Nothing is kept if any step fails.
func (c *Context) BuildPresentation() error {
	if c.stage != StageDeviceReady {
		return outOfOrder("build presentation", StageDeviceReady, c.stage)
	}
	start := hrtime.Now()

	p, err := buildPresentation(c.device, c.physicalDevice, c.surface, c.opts.DefaultExtent, c.log)
	if err != nil {
		return err
	}

	c.presentation = p
	c.stage = StagePresentationReady
	c.log.WithField("took", hrtime.Since(start)).Debug("Presentation stage complete")
	return nil
}

// selectPhysicalDevice returns the first device, in enumeration order, that
// has both a graphics queue family and a family that can present to surface.
// A device whose present support cannot be queried is skipped.
func selectPhysicalDevice(devices []PhysicalDevice, surface Surface, logger log.FieldLogger) (PhysicalDevice, QueueFamilyIndices, error) {
	for _, device := range devices {
		families, ok, err := FindQueueFamilies(device, surface)
		if err != nil {
			logger.WithError(err).WithField("device", device.Name()).Warn("Skipping physical device")
			continue
		}
		if ok {
			return device, families, nil
		}
	}
	return nil, QueueFamilyIndices{}, errors.Wrapf(ErrNoSuitableDevice,
		"none of %d physical devices has graphics and present queue families", len(devices))
}

// FindQueueFamilies picks the first graphics family and the first family
// with present support on surface. ok is false when either is missing.
func FindQueueFamilies(device PhysicalDevice, surface Surface) (families QueueFamilyIndices, ok bool, err error) {
	graphics, present := -1, -1
	for family, flags := range device.QueueFamilies() {
		if graphics < 0 && flags&core1_0.QueueGraphics != 0 {
			graphics = family
		}

		if present < 0 {
			supported, err := surface.PresentSupport(device, family)
			if err != nil {
				return QueueFamilyIndices{}, false, errors.Wrapf(err, "query present support of %s family %d", device.Name(), family)
			}
			if supported {
				present = family
			}
		}

		if graphics >= 0 && present >= 0 {
			return QueueFamilyIndices{Graphics: graphics, Present: present}, true, nil
		}
	}
	return QueueFamilyIndices{}, false, nil
}

// rollback collects release steps for objects created by an operation that
// has not finished yet. run releases them newest first.
type rollback []func()

func (r *rollback) push(release func()) {
	*r = append(*r, release)
}

func (r rollback) run() {
	for i := len(r) - 1; i >= 0; i-- {
		r[i]()
	}
}
