package vulkan

import (
	"math"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// Presentation holds the objects that present to the window surface.
// After a successful build len(Images) == len(ImageViews) == len(Framebuffers).
type Presentation struct {
	Swapchain  Swapchain
	Images     []Image
	ImageViews []ImageView

	RenderPass   RenderPass
	Framebuffers []Framebuffer

	Format      khr_surface.SurfaceFormat
	Extent      core1_0.Extent2D
	PresentMode khr_surface.PresentMode
}

func buildPresentation(device Device, physical PhysicalDevice, surface Surface, defaultExtent core1_0.Extent2D, logger log.FieldLogger) (p *Presentation, err error) {
	p = &Presentation{}
	defer func() {
		if err != nil {
			p.release(logger)
			p = nil
		}
	}()

	if err = p.createSwapchain(device, physical, surface, defaultExtent); err != nil {
		return
	}
	logger.WithFields(log.Fields{
		"images":      len(p.Images),
		"format":      p.Format.Format,
		"extent":      p.Extent,
		"presentMode": p.PresentMode,
	}).Info("Swapchain and image views created")

	if err = p.createRenderPass(device); err != nil {
		return
	}
	logger.Info("Render pass created")

	if err = p.createFramebuffers(device); err != nil {
		return
	}
	logger.WithField("count", len(p.Framebuffers)).Info("Framebuffers created")
	return
}

func (p *Presentation) createSwapchain(device Device, physical PhysicalDevice, surface Surface, defaultExtent core1_0.Extent2D) error {
	capabilities, err := surface.Capabilities(physical)
	if err != nil {
		return fail(err, ErrSwapchainCreationFailed, "query surface capabilities")
	}
	formats, err := surface.Formats(physical)
	if err != nil {
		return fail(err, ErrSwapchainCreationFailed, "query surface formats")
	}
	presentModes, err := surface.PresentModes(physical)
	if err != nil {
		return fail(err, ErrSwapchainCreationFailed, "query surface present modes")
	}

	format, ok := chooseSwapSurfaceFormat(formats)
	if !ok {
		return errors.Mark(errors.New("surface reports no formats"), ErrSwapchainCreationFailed)
	}
	extent := chooseSwapExtent(capabilities, defaultExtent)
	presentMode := chooseSwapPresentMode(presentModes)

	// Images stay owned by one queue family; no ownership transfers are
	// recorded between graphics and present.
	swapchain, err := device.CreateSwapchain(SwapchainInfo{
		Surface:       surface,
		Capabilities:  capabilities,
		MinImageCount: chooseImageCount(capabilities),
		Format:        format,
		Extent:        extent,
		PresentMode:   presentMode,
		SharingMode:   core1_0.SharingModeExclusive,
	})
	if err != nil {
		return fail(err, ErrSwapchainCreationFailed, "create swapchain")
	}
	p.Swapchain = swapchain
	p.Format = format
	p.Extent = extent
	p.PresentMode = presentMode

	images, err := swapchain.Images()
	if err != nil {
		return fail(err, ErrSwapchainCreationFailed, "get swapchain images")
	}
	p.Images = images

	viewInfo := imageViewCreateInfo(format.Format)
	for i, image := range images {
		view, err := device.CreateImageView(image, viewInfo)
		if err != nil {
			return fail(err, ErrImageViewCreationFailed, "create view of swapchain image %d", i)
		}
		p.ImageViews = append(p.ImageViews, view)
	}
	return nil
}

func (p *Presentation) createRenderPass(device Device) error {
	renderPass, err := device.CreateRenderPass(renderPassCreateInfo(p.Format.Format))
	if err != nil {
		return fail(err, ErrRenderPassCreationFailed, "create render pass")
	}
	p.RenderPass = renderPass
	return nil
}

func (p *Presentation) createFramebuffers(device Device) error {
	for i, view := range p.ImageViews {
		framebuffer, err := device.CreateFramebuffer(FramebufferInfo{
			RenderPass:  p.RenderPass,
			Attachments: []ImageView{view},
			Extent:      p.Extent,
			Layers:      1,
		})
		if err != nil {
			return fail(err, ErrFramebufferCreationFailed, "create framebuffer %d", i)
		}
		p.Framebuffers = append(p.Framebuffers, framebuffer)
	}
	return nil
}

// release destroys framebuffers, the render pass, image views and the
// swapchain, in that order, and forgets them. Absent objects are skipped,
// so release may run any number of times.
func (p *Presentation) release(logger log.FieldLogger) {
	if p == nil {
		return
	}
	for _, framebuffer := range p.Framebuffers {
		destroy(logger, "framebuffer", framebuffer.Destroy)
	}
	p.Framebuffers = nil

	if p.RenderPass != nil {
		destroy(logger, "render pass", p.RenderPass.Destroy)
		p.RenderPass = nil
	}

	for _, view := range p.ImageViews {
		destroy(logger, "image view", view.Destroy)
	}
	p.ImageViews = nil

	if p.Swapchain != nil {
		destroy(logger, "swapchain", p.Swapchain.Destroy)
		p.Swapchain = nil
	}
	p.Images = nil
}

// chooseSwapSurfaceFormat prefers 8-bit BGRA sRGB in the sRGB non-linear
// color space and otherwise takes whatever the driver lists first. The
// fallback is a policy, not a guarantee that the result looks right.
func chooseSwapSurfaceFormat(availableFormats []khr_surface.SurfaceFormat) (khr_surface.SurfaceFormat, bool) {
	if len(availableFormats) == 0 {
		return khr_surface.SurfaceFormat{}, false
	}
	for _, format := range availableFormats {
		if format.Format == core1_0.FormatB8G8R8A8SRGB && format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
			return format, true
		}
	}
	return availableFormats[0], true
}

// chooseSwapPresentMode prefers mailbox. FIFO is always supported.
func chooseSwapPresentMode(availablePresentModes []khr_surface.PresentMode) khr_surface.PresentMode {
	for _, presentMode := range availablePresentModes {
		if presentMode == khr_surface.PresentModeMailbox {
			return presentMode
		}
	}
	return khr_surface.PresentModeFIFO
}

// chooseSwapExtent returns the surface's current extent unless the surface
// reports the "any extent" sentinel (width 0xFFFFFFFF). The current extent
// is not clamped to the min/max image extent.
func chooseSwapExtent(capabilities *khr_surface.SurfaceCapabilities, defaultExtent core1_0.Extent2D) core1_0.Extent2D {
	if uint32(capabilities.CurrentExtent.Width) == math.MaxUint32 {
		return defaultExtent
	}
	return capabilities.CurrentExtent
}

// chooseImageCount asks for one image more than the minimum, limited by the
// maximum when the surface has one. A maximum of zero means unbounded.
func chooseImageCount(capabilities *khr_surface.SurfaceCapabilities) int {
	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && imageCount > capabilities.MaxImageCount {
		imageCount = capabilities.MaxImageCount
	}
	return imageCount
}

func imageViewCreateInfo(format core1_0.Format) core1_0.ImageViewCreateInfo {
	return core1_0.ImageViewCreateInfo{
		ViewType: core1_0.ImageViewType2D,
		Format:   format,
		Components: core1_0.ComponentMapping{
			R: core1_0.ComponentSwizzleIdentity,
			G: core1_0.ComponentSwizzleIdentity,
			B: core1_0.ComponentSwizzleIdentity,
			A: core1_0.ComponentSwizzleIdentity,
		},
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     core1_0.ImageAspectColor,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
}

// renderPassCreateInfo describes a single color attachment cleared at the
// start of the pass and handed to the presentation engine at the end. There
// is no depth attachment and no subpass dependency.
func renderPassCreateInfo(format core1_0.Format) core1_0.RenderPassCreateInfo {
	return core1_0.RenderPassCreateInfo{
		Attachments: []core1_0.AttachmentDescription{
			{
				Format:         format,
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpStore,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
			},
		},
		Subpasses: []core1_0.SubpassDescription{
			{
				PipelineBindPoint: core1_0.PipelineBindPointGraphics,
				ColorAttachments: []core1_0.AttachmentReference{
					{
						Attachment: 0,
						Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
					},
				},
			},
		},
	}
}
