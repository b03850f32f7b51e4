package vulkan

import (
	"fmt"
	"io/ioutil"

	log "github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
)

func quietLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(ioutil.Discard)
	return logger
}

// journal records driver calls in the order they happen.
type journal struct {
	calls []string
}

func (j *journal) record(format string, args ...interface{}) {
	j.calls = append(j.calls, fmt.Sprintf(format, args...))
}

// destroyed returns the recorded calls that are "destroy ..." entries.
func (j *journal) destroyed() []string {
	var out []string
	for _, c := range j.calls {
		if len(c) > 8 && c[:8] == "destroy " {
			out = append(out, c[8:])
		}
	}
	return out
}

// driver is a programmable fake of the whole driver surface.
type driver struct {
	j *journal

	extensions []string
	layers     []string

	loadErr      error
	instanceErr  error
	messengerErr error
	surfaceErr   error

	lastInstance *InstanceInfo
	diagnostics  []MessengerInfo

	devices     []*fakePhysicalDevice
	devicesErr  error
	surfaceInfo fakeSurfaceInfo

	device *fakeDevice
}

type fakeSurfaceInfo struct {
	capabilities khr_surface.SurfaceCapabilities
	formats      []khr_surface.SurfaceFormat
	presentModes []khr_surface.PresentMode
	formatsErr   error
}

func newDriver() *driver {
	d := &driver{
		j:          &journal{},
		extensions: []string{"VK_KHR_surface", "VK_KHR_xlib_surface", "VK_EXT_debug_utils"},
		layers:     []string{ValidationLayer},
		surfaceInfo: fakeSurfaceInfo{
			capabilities: khr_surface.SurfaceCapabilities{
				MinImageCount: 2,
				MaxImageCount: 8,
				CurrentExtent: core1_0.Extent2D{Width: 1024, Height: 768},
			},
			formats: []khr_surface.SurfaceFormat{
				{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
			},
			presentModes: []khr_surface.PresentMode{khr_surface.PresentModeFIFO},
		},
	}
	d.devices = []*fakePhysicalDevice{{d: d, name: "gpu0", families: []fakeFamily{{flags: core1_0.QueueGraphics, present: true}}}}
	d.device = &fakeDevice{d: d, swapchainImages: 3}
	return d
}

func (d *driver) load() (Loader, error) {
	if d.loadErr != nil {
		return nil, d.loadErr
	}
	return &fakeLoader{d: d}, nil
}

func (d *driver) window() *fakeWindow {
	return &fakeWindow{d: d, required: []string{"VK_KHR_surface", "VK_KHR_xlib_surface"}}
}

type fakeLoader struct{ d *driver }

func (l *fakeLoader) Version() common.APIVersion { return common.Vulkan1_2 }

func (l *fakeLoader) AvailableExtensions() ([]string, error) { return l.d.extensions, nil }

func (l *fakeLoader) AvailableLayers() ([]string, error) { return l.d.layers, nil }

func (l *fakeLoader) CreateInstance(info InstanceInfo) (Instance, error) {
	l.d.lastInstance = &info
	if l.d.instanceErr != nil {
		return nil, l.d.instanceErr
	}
	l.d.j.record("create instance")
	return &fakeInstance{d: l.d}, nil
}

type fakeInstance struct{ d *driver }

func (i *fakeInstance) PhysicalDevices() ([]PhysicalDevice, error) {
	if i.d.devicesErr != nil {
		return nil, i.d.devicesErr
	}
	var out []PhysicalDevice
	for _, dev := range i.d.devices {
		out = append(out, dev)
	}
	return out, nil
}

func (i *fakeInstance) CreateMessenger(info MessengerInfo) (Messenger, error) {
	if i.d.messengerErr != nil {
		return nil, i.d.messengerErr
	}
	i.d.diagnostics = append(i.d.diagnostics, info)
	i.d.j.record("create debug messenger")
	return &fakeHandle{j: i.d.j, name: "debug messenger"}, nil
}

func (i *fakeInstance) Destroy() { i.d.j.record("destroy instance") }

type fakeWindow struct {
	d        *driver
	required []string
}

func (w *fakeWindow) RequiredInstanceExtensions() []string { return w.required }

func (w *fakeWindow) CreateSurface(Instance) (Surface, error) {
	if w.d.surfaceErr != nil {
		return nil, w.d.surfaceErr
	}
	w.d.j.record("create surface")
	return &fakeSurface{d: w.d}, nil
}

type fakeSurface struct{ d *driver }

func (s *fakeSurface) PresentSupport(device PhysicalDevice, family int) (bool, error) {
	p := device.(*fakePhysicalDevice)
	if p.presentErr != nil {
		return false, p.presentErr
	}
	return p.families[family].present, nil
}

func (s *fakeSurface) Capabilities(PhysicalDevice) (*khr_surface.SurfaceCapabilities, error) {
	caps := s.d.surfaceInfo.capabilities
	return &caps, nil
}

func (s *fakeSurface) Formats(PhysicalDevice) ([]khr_surface.SurfaceFormat, error) {
	return s.d.surfaceInfo.formats, s.d.surfaceInfo.formatsErr
}

func (s *fakeSurface) PresentModes(PhysicalDevice) ([]khr_surface.PresentMode, error) {
	return s.d.surfaceInfo.presentModes, nil
}

func (s *fakeSurface) Destroy() { s.d.j.record("destroy surface") }

type fakeFamily struct {
	flags   core1_0.QueueFlags
	present bool
}

type fakePhysicalDevice struct {
	d          *driver
	name       string
	families   []fakeFamily
	extensions []string
	presentErr error

	created *DeviceInfo
}

func (p *fakePhysicalDevice) Name() string { return p.name }

func (p *fakePhysicalDevice) QueueFamilies() []core1_0.QueueFlags {
	var flags []core1_0.QueueFlags
	for _, f := range p.families {
		flags = append(flags, f.flags)
	}
	return flags
}

func (p *fakePhysicalDevice) Extensions() ([]string, error) {
	return append([]string{"VK_KHR_swapchain"}, p.extensions...), nil
}

func (p *fakePhysicalDevice) CreateDevice(info DeviceInfo) (Device, error) {
	p.created = &info
	if p.d.device.createErr != nil {
		return nil, p.d.device.createErr
	}
	p.d.j.record("create logical device")
	return p.d.device, nil
}

type fakeDevice struct {
	d *driver

	createErr       error
	waitIdleErr     error
	swapchainErr    error
	renderPassErr   error
	framebufferErr  error
	failFramebuffer int
	imageViewErr    error
	failImageView   int
	swapchainImages int
	panicOnDestroy  bool

	swapchain    *SwapchainInfo
	framebuffers int
}

func (d *fakeDevice) Queue(family, index int) Queue {
	return fmt.Sprintf("queue %d/%d", family, index)
}

func (d *fakeDevice) WaitIdle() error {
	d.d.j.record("wait idle")
	return d.waitIdleErr
}

func (d *fakeDevice) CreateSwapchain(info SwapchainInfo) (Swapchain, error) {
	d.swapchain = &info
	if d.swapchainErr != nil {
		return nil, d.swapchainErr
	}
	d.d.j.record("create swapchain")
	return &fakeSwapchain{j: d.d.j, images: d.swapchainImages}, nil
}

func (d *fakeDevice) CreateImageView(image Image, _ core1_0.ImageViewCreateInfo) (ImageView, error) {
	if d.imageViewErr != nil && image == d.failImageView {
		return nil, d.imageViewErr
	}
	d.d.j.record("create image view %v", image)
	return &fakeHandle{j: d.d.j, name: fmt.Sprintf("image view %v", image)}, nil
}

func (d *fakeDevice) CreateRenderPass(core1_0.RenderPassCreateInfo) (RenderPass, error) {
	if d.renderPassErr != nil {
		return nil, d.renderPassErr
	}
	d.d.j.record("create render pass")
	return &fakeHandle{j: d.d.j, name: "render pass"}, nil
}

func (d *fakeDevice) CreateFramebuffer(info FramebufferInfo) (Framebuffer, error) {
	if d.framebufferErr != nil && d.framebuffers == d.failFramebuffer {
		return nil, d.framebufferErr
	}
	name := fmt.Sprintf("framebuffer %d", d.framebuffers)
	d.framebuffers++
	d.d.j.record("create %s", name)
	return &fakeHandle{j: d.d.j, name: name}, nil
}

func (d *fakeDevice) Destroy() {
	d.d.j.record("destroy logical device")
	if d.panicOnDestroy {
		panic("device lost")
	}
}

type fakeSwapchain struct {
	j      *journal
	images int
}

func (s *fakeSwapchain) Images() ([]Image, error) {
	var images []Image
	for i := 0; i < s.images; i++ {
		images = append(images, i)
	}
	return images, nil
}

func (s *fakeSwapchain) Destroy() { s.j.record("destroy swapchain") }

type fakeHandle struct {
	j    *journal
	name string
}

func (h *fakeHandle) Destroy() { h.j.record("destroy %s", h.name) }
