package vulkan

import (
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/extensions/khr_surface"
)

// The interfaces in this file are the only way the lifecycle code reaches the
// driver. The vkng package implements them on top of vkngwrapper.

// LoadFunc loads the native driver and returns its entry point.
type LoadFunc func() (Loader, error)

// Loader exposes the global (pre-instance) driver entry points.
type Loader interface {
	Version() common.APIVersion
	AvailableExtensions() ([]string, error)
	AvailableLayers() ([]string, error)
	CreateInstance(info InstanceInfo) (Instance, error)
}

// InstanceInfo describes the instance to create. Names are plain Go
// strings; conversion to C strings happens inside the binding call.
type InstanceInfo struct {
	ApplicationName string
	EngineName      string
	APIVersion      common.APIVersion

	Extensions           []string
	Layers               []string
	EnumeratePortability bool

	// Diagnostics, when set, is chained into instance creation so the
	// creation call itself is covered by the messenger.
	Diagnostics *MessengerInfo
}

// MessengerInfo describes a debug-utils messenger.
type MessengerInfo struct {
	Severities ext_debug_utils.DebugUtilsMessageSeverityFlags
	Types      ext_debug_utils.DebugUtilsMessageTypeFlags
	Callback   func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool
}

type Instance interface {
	PhysicalDevices() ([]PhysicalDevice, error)
	CreateMessenger(info MessengerInfo) (Messenger, error)
	Destroy()
}

type Messenger interface {
	Destroy()
}

// Window is the windowing collaborator as seen by the context builder.
type Window interface {
	RequiredInstanceExtensions() []string
	CreateSurface(instance Instance) (Surface, error)
}

type Surface interface {
	PresentSupport(device PhysicalDevice, family int) (bool, error)
	Capabilities(device PhysicalDevice) (*khr_surface.SurfaceCapabilities, error)
	Formats(device PhysicalDevice) ([]khr_surface.SurfaceFormat, error)
	PresentModes(device PhysicalDevice) ([]khr_surface.PresentMode, error)
	Destroy()
}

// PhysicalDevice is an enumerated GPU. It is never destroyed.
type PhysicalDevice interface {
	Name() string
	// QueueFamilies returns the capability flags of each queue family,
	// indexed by family index.
	QueueFamilies() []core1_0.QueueFlags
	Extensions() ([]string, error)
	CreateDevice(info DeviceInfo) (Device, error)
}

type DeviceInfo struct {
	QueueRequests []QueueRequest
	Extensions    []string
}

// QueueRequest asks for len(Priorities) queues from one family.
type QueueRequest struct {
	Family     int
	Priorities []float32
}

type Device interface {
	Queue(family, index int) Queue
	WaitIdle() error
	CreateSwapchain(info SwapchainInfo) (Swapchain, error)
	// CreateImageView creates a view of image; info.Image is filled in by
	// the binding.
	CreateImageView(image Image, info core1_0.ImageViewCreateInfo) (ImageView, error)
	CreateRenderPass(info core1_0.RenderPassCreateInfo) (RenderPass, error)
	CreateFramebuffer(info FramebufferInfo) (Framebuffer, error)
	Destroy()
}

// Queue and Image are weak references owned by the device and the
// swapchain respectively. They are never destroyed individually.
type (
	Queue interface{}
	Image interface{}
)

type SwapchainInfo struct {
	Surface      Surface
	Capabilities *khr_surface.SurfaceCapabilities

	MinImageCount int
	Format        khr_surface.SurfaceFormat
	Extent        core1_0.Extent2D
	PresentMode   khr_surface.PresentMode
	SharingMode   core1_0.SharingMode
}

type Swapchain interface {
	Images() ([]Image, error)
	Destroy()
}

type ImageView interface {
	Destroy()
}

type RenderPass interface {
	Destroy()
}

type FramebufferInfo struct {
	RenderPass  RenderPass
	Attachments []ImageView
	Extent      core1_0.Extent2D
	Layers      int
}

type Framebuffer interface {
	Destroy()
}
