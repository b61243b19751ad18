package main

import (
	"os"
	"runtime/cgo"

	"github.com/tauraamui/kinectone/pkg/backend"
	"github.com/tauraamui/kinectone/pkg/driver"
	_ "github.com/tauraamui/kinectone/pkg/driver/freenect2"
	_ "github.com/tauraamui/kinectone/pkg/driver/simulated"
	"github.com/tauraamui/kinectone/pkg/frame"
	"github.com/tauraamui/kinectone/pkg/kinect"
	"github.com/tauraamui/kinectone/pkg/log"
	"github.com/tauraamui/xerror"
)

const (
	driverEnvKey       = "KINECTONE_DRIVER"
	loggingLevelEnvKey = "KINECTONE_LOGGING_LEVEL"
	defaultDriver      = "freenect2"
)

var ErrInvalidHandle = xerror.New("invalid handle")

func init() {
	log.SetLevel(os.Getenv(loggingLevelEnvKey))
}

func driverName() string {
	if name := os.Getenv(driverEnvKey); len(name) > 0 {
		return name
	}
	return defaultDriver
}

func newContext() (cgo.Handle, error) {
	drv, err := driver.Open(driverName())
	if err != nil {
		return 0, err
	}
	return cgo.NewHandle(kinect.NewContext(drv)), nil
}

// lookup resolves h to a T. Zero and foreign handles are rejected
// rather than left to panic.
func lookup[T any](h cgo.Handle) (t T, err error) {
	if h == 0 {
		return t, ErrInvalidHandle
	}
	defer func() {
		if recover() != nil {
			err = ErrInvalidHandle
		}
	}()
	v, ok := h.Value().(T)
	if !ok {
		return t, ErrInvalidHandle
	}
	return v, nil
}

func destroyContext(h cgo.Handle) error {
	kctx, err := lookup[*kinect.Context](h)
	if err != nil {
		return err
	}
	h.Delete()
	return kctx.Close()
}

func deviceCount(h cgo.Handle) int {
	kctx, err := lookup[*kinect.Context](h)
	if err != nil {
		return 0
	}
	return kctx.DeviceCount()
}

func newDevice(ctx cgo.Handle, id, b int) (cgo.Handle, error) {
	kctx, err := lookup[*kinect.Context](ctx)
	if err != nil {
		return 0, err
	}
	dev, err := kctx.OpenDevice(id, backend.FromInt(b))
	if err != nil {
		return 0, err
	}
	return cgo.NewHandle(dev), nil
}

func destroyDevice(h cgo.Handle) error {
	dev, err := lookup[*kinect.Device](h)
	if err != nil {
		return err
	}
	h.Delete()
	return dev.Close()
}

func withDevice(h cgo.Handle, fn func(*kinect.Device) error) error {
	dev, err := lookup[*kinect.Device](h)
	if err != nil {
		return err
	}
	return fn(dev)
}

// status maps an error onto the boundary's return convention.
func status(err error) int {
	if err != nil {
		log.Error("%v", err)
		return -1
	}
	return 0
}

// firstByte gives the address the C side sees for a view, nil when
// the view is empty.
func firstByte(v frame.View) *byte {
	if len(v.Data) == 0 {
		return nil
	}
	return &v.Data[0]
}
