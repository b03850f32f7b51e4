package vulkan

import (
	log "github.com/sirupsen/logrus"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/extensions/khr_portability_enumeration"
)

const ValidationLayer = "VK_LAYER_KHRONOS_validation"

// NegotiationInput is everything the negotiator looks at. Available lists
// may be nil when the driver query failed; that is treated as "nothing
// optional is available".
type NegotiationInput struct {
	Required            []string
	AvailableExtensions []string
	AvailableLayers     []string

	TargetPlatform   string
	DebugDiagnostics bool
}

// Capabilities is the negotiated instance configuration.
type Capabilities struct {
	Extensions []string
	Layers     []string

	// EnumeratePortability is set together with the portability
	// enumeration extension.
	EnumeratePortability bool
	// DebugUtils reports whether the debug-utils extension is enabled, and
	// with it the diagnostic bridge.
	DebugUtils bool
}

// RequiresPortability reports whether the platform only exposes its GPUs
// through a portability implementation layered over another API.
func RequiresPortability(platform string) bool {
	switch platform {
	case "darwin", "ios":
		return true
	}
	return false
}

// Negotiate decides the extension and layer sets. It never fails.
func Negotiate(in NegotiationInput, logger log.FieldLogger) Capabilities {
	var caps Capabilities
	extensions := newNameList()
	for _, name := range in.Required {
		extensions.add(name)
	}

	if in.DebugDiagnostics {
		if contains(in.AvailableExtensions, ext_debug_utils.ExtensionName) {
			extensions.add(ext_debug_utils.ExtensionName)
			caps.DebugUtils = true
		} else {
			logger.Infof("%s not available, driver diagnostics disabled", ext_debug_utils.ExtensionName)
		}
	}

	if RequiresPortability(in.TargetPlatform) {
		extensions.add(khr_portability_enumeration.ExtensionName)
		caps.EnumeratePortability = true
	}

	layers := newNameList()
	if in.DebugDiagnostics {
		if contains(in.AvailableLayers, ValidationLayer) {
			layers.add(ValidationLayer)
			logger.Info("Validation layer enabled")
		} else {
			logger.Infof("%s not available, continuing without validation", ValidationLayer)
		}
	}

	caps.Extensions = extensions.names
	caps.Layers = layers.names
	return caps
}

// nameList is an insertion-ordered set of names.
type nameList struct {
	seen  map[string]struct{}
	names []string
}

func newNameList() *nameList {
	return &nameList{seen: map[string]struct{}{}, names: []string{}}
}

func (l *nameList) add(name string) {
	if _, ok := l.seen[name]; ok {
		return
	}
	l.seen[name] = struct{}{}
	l.names = append(l.names, name)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
