package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/extensions/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2"

	"github.com/wolf-engine/wolf/renderer/vulkan"
)

// Window adapts an SDL window created with sdl.WINDOW_VULKAN.
type Window struct {
	window *sdl.Window
}

func NewWindow(window *sdl.Window) *Window {
	return &Window{window: window}
}

func (w *Window) RequiredInstanceExtensions() []string {
	return w.window.VulkanGetInstanceExtensions()
}

func (w *Window) CreateSurface(inst vulkan.Instance) (vulkan.Surface, error) {
	i, ok := inst.(*instance)
	if !ok {
		return nil, errors.Newf("instance %T was not created by vkng", inst)
	}

	surfaceLoader := khr_surface.CreateExtensionFromInstance(i.vk)
	vkSurface, err := vkng_sdl2.CreateSurface(i.vk, surfaceLoader, w.window)
	if err != nil {
		return nil, err
	}
	return &surface{vk: vkSurface}, nil
}

type surface struct {
	vk khr_surface.Surface
}

func (s *surface) PresentSupport(device vulkan.PhysicalDevice, family int) (bool, error) {
	vkDevice, err := unwrapPhysicalDevice(device)
	if err != nil {
		return false, err
	}
	supported, res, err := s.vk.PhysicalDeviceSurfaceSupport(vkDevice, family)
	if err != nil {
		return false, vulkan.NewDriverError(res, "vkGetPhysicalDeviceSurfaceSupportKHR", err)
	}
	return supported, nil
}

func (s *surface) Capabilities(device vulkan.PhysicalDevice) (*khr_surface.SurfaceCapabilities, error) {
	vkDevice, err := unwrapPhysicalDevice(device)
	if err != nil {
		return nil, err
	}
	capabilities, res, err := s.vk.PhysicalDeviceSurfaceCapabilities(vkDevice)
	if err != nil {
		return nil, vulkan.NewDriverError(res, "vkGetPhysicalDeviceSurfaceCapabilitiesKHR", err)
	}
	return capabilities, nil
}

func (s *surface) Formats(device vulkan.PhysicalDevice) ([]khr_surface.SurfaceFormat, error) {
	vkDevice, err := unwrapPhysicalDevice(device)
	if err != nil {
		return nil, err
	}
	formats, res, err := s.vk.PhysicalDeviceSurfaceFormats(vkDevice)
	if err != nil {
		return nil, vulkan.NewDriverError(res, "vkGetPhysicalDeviceSurfaceFormatsKHR", err)
	}
	return formats, nil
}

func (s *surface) PresentModes(device vulkan.PhysicalDevice) ([]khr_surface.PresentMode, error) {
	vkDevice, err := unwrapPhysicalDevice(device)
	if err != nil {
		return nil, err
	}
	presentModes, res, err := s.vk.PhysicalDeviceSurfacePresentModes(vkDevice)
	if err != nil {
		return nil, vulkan.NewDriverError(res, "vkGetPhysicalDeviceSurfacePresentModesKHR", err)
	}
	return presentModes, nil
}

func (s *surface) Destroy() {
	s.vk.Destroy(nil)
}
