package vulkan

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/common"
)

// Construction failures. Every error returned while building a context or
// its presentation objects is marked with exactly one of these, so callers
// can test with errors.Is regardless of how much context was wrapped on top.
var (
	ErrLoaderFailure             = errors.New("vulkan loader failure")
	ErrInstanceCreationFailed    = errors.New("instance creation failed")
	ErrSurfaceCreationFailed     = errors.New("surface creation failed")
	ErrNoSuitableDevice          = errors.New("no suitable physical device")
	ErrDeviceCreationFailed      = errors.New("logical device creation failed")
	ErrSwapchainCreationFailed   = errors.New("swapchain creation failed")
	ErrImageViewCreationFailed   = errors.New("image view creation failed")
	ErrRenderPassCreationFailed  = errors.New("render pass creation failed")
	ErrFramebufferCreationFailed = errors.New("framebuffer creation failed")

	// ErrOutOfOrder is returned when a lifecycle operation is attempted
	// from the wrong stage.
	ErrOutOfOrder = errors.New("lifecycle operation out of order")
)

// DriverError is a non-success result reported by the driver.
type DriverError struct {
	Result  common.VkResult
	Context string
	Cause   error
}

// NewDriverError wraps the result of a failed driver call. The cause may be
// nil when the binding only reported a result code.
func NewDriverError(result common.VkResult, context string, cause error) *DriverError {
	return &DriverError{
		Result:  result,
		Context: context,
		Cause:   cause,
	}
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Result)
}

func (e *DriverError) Unwrap() error {
	return e.Cause
}

// fail attaches a taxonomy sentinel and a short description to err.
func fail(err error, mark error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), mark)
}

func outOfOrder(op string, want, got Stage) error {
	return errors.Wrapf(ErrOutOfOrder, "%s: requires stage %s, context is %s", op, want, got)
}
