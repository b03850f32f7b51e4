// Command wolfinfo reports what the Vulkan driver offers on this machine:
// the loader version, instance extensions and layers, the capabilities the
// engine would negotiate, and which GPUs it could run on.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/wolf-engine/wolf/config"
	"github.com/wolf-engine/wolf/renderer/vulkan"
	"github.com/wolf-engine/wolf/renderer/vulkan/vkng"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
	logger, err := config.NewLogger(cfg, os.Stderr)
	if err != nil {
		log.Fatalf("%+v\n", err)
	}

	if err := run(cfg, logger, os.Stdout); err != nil {
		logger.Fatalf("%+v\n", err)
	}
}

func run(cfg config.Config, logger log.FieldLogger, out io.Writer) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return errors.Wrap(err, "init sdl")
	}
	defer sdl.Quit()

	// SDL only loads the driver once a Vulkan window exists.
	sdlWindow, err := sdl.CreateWindow(cfg.AppName, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, 1, 1, sdl.WINDOW_HIDDEN|sdl.WINDOW_VULKAN)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	defer sdlWindow.Destroy()
	window := vkng.NewWindow(sdlWindow)

	loader, err := vkng.Loader(logger)()
	if err != nil {
		return errors.Mark(err, vulkan.ErrLoaderFailure)
	}

	extensions, err := loader.AvailableExtensions()
	if err != nil {
		logger.WithError(err).Warn("Could not enumerate instance extensions")
	}
	layers, err := loader.AvailableLayers()
	if err != nil {
		logger.WithError(err).Warn("Could not enumerate instance layers")
	}

	caps := vulkan.Negotiate(vulkan.NegotiationInput{
		Required:            window.RequiredInstanceExtensions(),
		AvailableExtensions: extensions,
		AvailableLayers:     layers,
		TargetPlatform:      cfg.TargetPlatform,
		DebugDiagnostics:    cfg.DebugDiagnostics,
	}, logger)

	fmt.Fprintf(out, "Loader version:\t%s\n", loader.Version())
	printList(out, "Instance extensions", extensions)
	printList(out, "Instance layers", layers)
	printList(out, "Negotiated extensions", caps.Extensions)
	printList(out, "Negotiated layers", caps.Layers)

	instance, err := loader.CreateInstance(vulkan.InstanceInfo{
		ApplicationName:      cfg.AppName,
		EngineName:           cfg.AppName,
		APIVersion:           loader.Version(),
		Extensions:           caps.Extensions,
		Layers:               caps.Layers,
		EnumeratePortability: caps.EnumeratePortability,
	})
	if err != nil {
		return errors.Mark(err, vulkan.ErrInstanceCreationFailed)
	}
	defer instance.Destroy()

	surface, err := window.CreateSurface(instance)
	if err != nil {
		return errors.Mark(err, vulkan.ErrSurfaceCreationFailed)
	}
	defer surface.Destroy()

	devices, err := instance.PhysicalDevices()
	if err != nil {
		return err
	}
	return printDevices(out, devices, surface)
}

func printList(out io.Writer, title string, names []string) {
	fmt.Fprintf(out, "%s (%d):\n", title, len(names))
	for _, name := range names {
		fmt.Fprintf(out, "\t%s\n", name)
	}
}

func printDevices(out io.Writer, devices []vulkan.PhysicalDevice, surface vulkan.Surface) error {
	fmt.Fprintf(out, "Physical devices (%d):\n", len(devices))

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tDEVICE\tFAMILIES\tGRAPHICS\tPRESENT\tUSABLE")
	for _, device := range devices {
		families, ok, err := vulkan.FindQueueFamilies(device, surface)
		if err != nil {
			return err
		}
		graphics, present := "-", "-"
		if ok {
			graphics = fmt.Sprint(families.Graphics)
			present = fmt.Sprint(families.Present)
		}
		fmt.Fprintf(w, "\t%s\t%d\t%s\t%s\t%t\n", device.Name(), len(device.QueueFamilies()), graphics, present, ok)
	}
	return w.Flush()
}
