package vkng

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"

	"github.com/wolf-engine/wolf/renderer/vulkan"
)

type physicalDevice struct {
	vk   core1_0.PhysicalDevice
	name string
}

func (p *physicalDevice) Name() string {
	if p.name == "" {
		return "unnamed device"
	}
	return p.name
}

func (p *physicalDevice) QueueFamilies() []core1_0.QueueFlags {
	queueFamilies := p.vk.QueueFamilyProperties()
	flags := make([]core1_0.QueueFlags, 0, len(queueFamilies))
	for _, queueFamily := range queueFamilies {
		flags = append(flags, queueFamily.QueueFlags)
	}
	return flags
}

func (p *physicalDevice) Extensions() ([]string, error) {
	extensions, res, err := p.vk.EnumerateDeviceExtensionProperties()
	if err != nil {
		return nil, vulkan.NewDriverError(res, "vkEnumerateDeviceExtensionProperties", err)
	}
	names := make([]string, 0, len(extensions))
	for name := range extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (p *physicalDevice) CreateDevice(info vulkan.DeviceInfo) (vulkan.Device, error) {
	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	for _, request := range info.QueueRequests {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: request.Family,
			QueuePriorities:  request.Priorities,
		})
	}

	vkDevice, res, err := p.vk.CreateDevice(nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: info.Extensions,
	})
	if err != nil {
		return nil, vulkan.NewDriverError(res, "vkCreateDevice", err)
	}

	return &device{
		vk:                 vkDevice,
		swapchainExtension: khr_swapchain.CreateExtensionFromDevice(vkDevice),
	}, nil
}

type device struct {
	vk                 core1_0.Device
	swapchainExtension khr_swapchain.Extension
}

func (d *device) Queue(family, index int) vulkan.Queue {
	return d.vk.GetQueue(family, index)
}

func (d *device) WaitIdle() error {
	res, err := d.vk.WaitIdle()
	if err != nil {
		return vulkan.NewDriverError(res, "vkDeviceWaitIdle", err)
	}
	return nil
}

func (d *device) CreateSwapchain(info vulkan.SwapchainInfo) (vulkan.Swapchain, error) {
	s, ok := info.Surface.(*surface)
	if !ok {
		return nil, errors.Newf("surface %T was not created by vkng", info.Surface)
	}

	vkSwapchain, res, err := d.swapchainExtension.CreateSwapchain(d.vk, nil, khr_swapchain.SwapchainCreateInfo{
		Surface: s.vk,

		MinImageCount:    info.MinImageCount,
		ImageFormat:      info.Format.Format,
		ImageColorSpace:  info.Format.ColorSpace,
		ImageExtent:      info.Extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode: info.SharingMode,

		PreTransform:   info.Capabilities.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    info.PresentMode,
		Clipped:        true,
	})
	if err != nil {
		return nil, vulkan.NewDriverError(res, "vkCreateSwapchainKHR", err)
	}
	return &swapchain{vk: vkSwapchain}, nil
}

func (d *device) CreateImageView(image vulkan.Image, info core1_0.ImageViewCreateInfo) (vulkan.ImageView, error) {
	vkImage, ok := image.(core1_0.Image)
	if !ok {
		return nil, errors.Newf("image %T is not a swapchain image", image)
	}
	info.Image = vkImage

	view, res, err := d.vk.CreateImageView(nil, info)
	if err != nil {
		return nil, vulkan.NewDriverError(res, "vkCreateImageView", err)
	}
	return &imageView{vk: view}, nil
}

func (d *device) CreateRenderPass(info core1_0.RenderPassCreateInfo) (vulkan.RenderPass, error) {
	pass, res, err := d.vk.CreateRenderPass(nil, info)
	if err != nil {
		return nil, vulkan.NewDriverError(res, "vkCreateRenderPass", err)
	}
	return &renderPass{vk: pass}, nil
}

func (d *device) CreateFramebuffer(info vulkan.FramebufferInfo) (vulkan.Framebuffer, error) {
	pass, ok := info.RenderPass.(*renderPass)
	if !ok {
		return nil, errors.Newf("render pass %T was not created by vkng", info.RenderPass)
	}

	attachments := make([]core1_0.ImageView, 0, len(info.Attachments))
	for _, attachment := range info.Attachments {
		view, ok := attachment.(*imageView)
		if !ok {
			return nil, errors.Newf("image view %T was not created by vkng", attachment)
		}
		attachments = append(attachments, view.vk)
	}

	vkFramebuffer, res, err := d.vk.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
		RenderPass:  pass.vk,
		Layers:      info.Layers,
		Attachments: attachments,
		Width:       info.Extent.Width,
		Height:      info.Extent.Height,
	})
	if err != nil {
		return nil, vulkan.NewDriverError(res, "vkCreateFramebuffer", err)
	}
	return &framebuffer{vk: vkFramebuffer}, nil
}

func (d *device) Destroy() {
	d.vk.Destroy(nil)
}

type swapchain struct {
	vk khr_swapchain.Swapchain
}

func (s *swapchain) Images() ([]vulkan.Image, error) {
	vkImages, res, err := s.vk.SwapchainImages()
	if err != nil {
		return nil, vulkan.NewDriverError(res, "vkGetSwapchainImagesKHR", err)
	}
	images := make([]vulkan.Image, 0, len(vkImages))
	for _, image := range vkImages {
		images = append(images, image)
	}
	return images, nil
}

func (s *swapchain) Destroy() {
	s.vk.Destroy(nil)
}

type imageView struct {
	vk core1_0.ImageView
}

func (v *imageView) Destroy() {
	v.vk.Destroy(nil)
}

type renderPass struct {
	vk core1_0.RenderPass
}

func (r *renderPass) Destroy() {
	r.vk.Destroy(nil)
}

type framebuffer struct {
	vk core1_0.Framebuffer
}

func (f *framebuffer) Destroy() {
	f.vk.Destroy(nil)
}
