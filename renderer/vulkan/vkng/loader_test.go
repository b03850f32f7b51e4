package vkng

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/golang/mock/gomock"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/core/mocks"
)

func TestPhysicalDevicesNames(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	named := mocks.NewMockPhysicalDevice(ctrl)
	named.EXPECT().Properties().Return(&core1_0.PhysicalDeviceProperties{DeviceName: "Desktop GPU"}, nil)
	broken := mocks.NewMockPhysicalDevice(ctrl)
	broken.EXPECT().Properties().Return(nil, errors.New("properties unavailable"))

	vkInstance := mocks.NewMockInstance(ctrl)
	vkInstance.EXPECT().EnumeratePhysicalDevices().Return([]core1_0.PhysicalDevice{named, broken}, core1_0.VKSuccess, nil)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	i := &instance{vk: vkInstance, log: logger}

	devices, err := i.PhysicalDevices()
	if err != nil {
		t.Fatalf("physical devices: %+v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("got %d devices", len(devices))
	}
	if got := devices[0].Name(); got != "Desktop GPU" {
		t.Errorf("name = %q", got)
	}
	if got := devices[1].Name(); got != "unnamed device" {
		t.Errorf("name = %q, want the fallback", got)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Level != log.DebugLevel || entry.Data[log.ErrorKey] == nil {
		t.Errorf("properties failure was not logged: %+v", entry)
	}
}

func TestPhysicalDevicesEnumerationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	vkInstance := mocks.NewMockInstance(ctrl)
	vkInstance.EXPECT().EnumeratePhysicalDevices().Return(nil, common.VkResult(-3), errors.New("init failed"))

	logger, _ := test.NewNullLogger()
	i := &instance{vk: vkInstance, log: logger}
	if _, err := i.PhysicalDevices(); err == nil {
		t.Error("enumeration failure was swallowed")
	}
}
