//go:build !freenect2

package freenect2

import (
	"github.com/tauraamui/kinectone/pkg/backend"
	"github.com/tauraamui/kinectone/pkg/driver"
	"github.com/tauraamui/xerror"
)

type unsupported struct{}

func open() (driver.Driver, error) {
	return unsupported{}, nil
}

func (unsupported) EnumerateDevices() int { return 0 }

func (unsupported) OpenDevice(id int, b backend.Backend) (driver.Sensor, error) {
	return nil, xerror.Errorf("%w: rebuild with -tags freenect2 to use libfreenect2", driver.ErrUnsupported)
}

func (unsupported) Close() error { return nil }
