package vulkan

// Stage is the lifecycle position of a Context. Stages only advance one
// step at a time; teardown returns the context to StageUninit.
type Stage int

const (
	StageUninit Stage = iota
	// StageInstanceReady: instance, debug messenger and surface exist.
	StageInstanceReady
	// StageDeviceReady: physical device chosen, logical device and queues exist.
	StageDeviceReady
	// StagePresentationReady: swapchain, image views, render pass and
	// framebuffers exist.
	StagePresentationReady
)

func (s Stage) String() string {
	switch s {
	case StageUninit:
		return "Uninit"
	case StageInstanceReady:
		return "InstanceReady"
	case StageDeviceReady:
		return "DeviceReady"
	case StagePresentationReady:
		return "PresentationReady"
	}
	return "Unknown"
}
