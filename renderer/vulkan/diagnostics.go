package vulkan

import (
	log "github.com/sirupsen/logrus"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
)

const (
	diagnosticSeverities = ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning
	diagnosticTypes      = ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance
)

// Bridge routes driver diagnostics into the application log.
type Bridge struct {
	log log.FieldLogger
}

func NewBridge(logger log.FieldLogger) *Bridge {
	return &Bridge{log: logger.WithField("source", "driver")}
}

// MessengerInfo returns the messenger description used both for the
// create-time hook and for the standing messenger.
func (b *Bridge) MessengerInfo() MessengerInfo {
	return MessengerInfo{
		Severities: diagnosticSeverities,
		Types:      diagnosticTypes,
		Callback:   b.handle,
	}
}

// handle is invoked by the driver, possibly from inside another driver
// call. It must not panic back into C; anything that goes wrong drops the
// message. The driver call is never aborted.
func (b *Bridge) handle(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	defer func() {
		_ = recover()
	}()

	if data == nil || severity&diagnosticSeverities == 0 || msgType&diagnosticTypes == 0 {
		return false
	}

	entry := b.log.WithField("category", category(msgType))
	if severity&ext_debug_utils.SeverityError != 0 {
		entry.Error(data.Message)
	} else {
		entry.Warn(data.Message)
	}
	return false
}

func category(msgType ext_debug_utils.DebugUtilsMessageTypeFlags) string {
	switch {
	case msgType&ext_debug_utils.TypeValidation != 0:
		return "validation"
	case msgType&ext_debug_utils.TypePerformance != 0:
		return "performance"
	}
	return "general"
}
