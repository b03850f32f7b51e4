// Package vkng implements the vulkan driver interfaces on top of vkngwrapper,
// loading the driver through SDL.
package vkng

import (
	"sort"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/extensions/khr_portability_enumeration"

	"github.com/wolf-engine/wolf/renderer/vulkan"
)

// Loader returns a LoadFunc that resolves the driver entry point from SDL.
// The SDL video subsystem must be initialized and a Vulkan-capable window
// must exist by the time it is called.
func Loader(logger log.FieldLogger) vulkan.LoadFunc {
	return func() (vulkan.Loader, error) {
		vkLoader, err := core.CreateLoaderFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
		if err != nil {
			return nil, err
		}
		return &loader{vk: vkLoader, log: logger}, nil
	}
}

type loader struct {
	vk  core.Loader
	log log.FieldLogger
}

func (l *loader) Version() common.APIVersion {
	return l.vk.Version()
}

func (l *loader) AvailableExtensions() ([]string, error) {
	extensions, res, err := l.vk.AvailableExtensions()
	if err != nil {
		return nil, vulkan.NewDriverError(res, "vkEnumerateInstanceExtensionProperties", err)
	}
	names := make([]string, 0, len(extensions))
	for name := range extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (l *loader) AvailableLayers() ([]string, error) {
	layers, res, err := l.vk.AvailableLayers()
	if err != nil {
		return nil, vulkan.NewDriverError(res, "vkEnumerateInstanceLayerProperties", err)
	}
	names := make([]string, 0, len(layers))
	for name := range layers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (l *loader) CreateInstance(info vulkan.InstanceInfo) (vulkan.Instance, error) {
	version := common.CreateVersion(1, 0, 0)
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:       info.ApplicationName,
		ApplicationVersion:    version,
		EngineName:            info.EngineName,
		EngineVersion:         version,
		APIVersion:            info.APIVersion,
		EnabledExtensionNames: info.Extensions,
		EnabledLayerNames:     info.Layers,
	}

	if info.EnumeratePortability {
		instanceOptions.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	if info.Diagnostics != nil {
		instanceOptions.Next = messengerCreateInfo(*info.Diagnostics)
	}

	vkInstance, res, err := l.vk.CreateInstance(nil, instanceOptions)
	if err != nil {
		return nil, vulkan.NewDriverError(res, "vkCreateInstance", err)
	}
	return &instance{vk: vkInstance, log: l.log}, nil
}

func messengerCreateInfo(info vulkan.MessengerInfo) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: info.Severities,
		MessageType:     info.Types,
		UserCallback:    info.Callback,
	}
}

type instance struct {
	vk  core1_0.Instance
	log log.FieldLogger
}

func (i *instance) PhysicalDevices() ([]vulkan.PhysicalDevice, error) {
	vkDevices, res, err := i.vk.EnumeratePhysicalDevices()
	if err != nil {
		return nil, vulkan.NewDriverError(res, "vkEnumeratePhysicalDevices", err)
	}

	devices := make([]vulkan.PhysicalDevice, 0, len(vkDevices))
	for _, vkDevice := range vkDevices {
		device := &physicalDevice{vk: vkDevice}
		properties, err := vkDevice.Properties()
		if err != nil {
			i.log.WithError(err).Debug("Could not read physical device properties")
		} else {
			device.name = properties.DeviceName
		}
		devices = append(devices, device)
	}
	return devices, nil
}

func (i *instance) CreateMessenger(info vulkan.MessengerInfo) (vulkan.Messenger, error) {
	debugLoader := ext_debug_utils.CreateExtensionFromInstance(i.vk)
	vkMessenger, res, err := debugLoader.CreateDebugUtilsMessenger(i.vk, nil, messengerCreateInfo(info))
	if err != nil {
		return nil, vulkan.NewDriverError(res, "vkCreateDebugUtilsMessengerEXT", err)
	}
	return &messenger{vk: vkMessenger}, nil
}

func (i *instance) Destroy() {
	i.vk.Destroy(nil)
}

type messenger struct {
	vk ext_debug_utils.DebugUtilsMessenger
}

func (m *messenger) Destroy() {
	m.vk.Destroy(nil)
}

// unwrapPhysicalDevice returns the vkngwrapper handle behind a device
// enumerated by this package.
func unwrapPhysicalDevice(device vulkan.PhysicalDevice) (core1_0.PhysicalDevice, error) {
	d, ok := device.(*physicalDevice)
	if !ok {
		return nil, errors.Newf("physical device %T was not enumerated by vkng", device)
	}
	return d.vk, nil
}
