package driver

import (
	"sort"
	"sync"

	"github.com/tauraamui/kinectone/pkg/backend"
	"github.com/tauraamui/kinectone/pkg/frame"
	"github.com/tauraamui/kinectone/pkg/registration"
	"github.com/tauraamui/xerror"
)

var (
	ErrNoDevice      = xerror.New("no device at requested index")
	ErrUnknownDriver = xerror.New("unknown sensor driver")
	ErrUnsupported   = xerror.New("sensor driver not supported by this build")
)

// FrameListener receives frames on the driver's capture goroutine.
// Returning true takes ownership of the frame, the listener must then
// call Release on it. Returning false leaves it with the driver, which
// may reuse the buffer as soon as OnNewFrame returns.
type FrameListener interface {
	OnNewFrame(frame.Type, *frame.Frame) bool
}

// Sensor is one opened physical (or simulated) device.
type Sensor interface {
	SetColorFrameListener(FrameListener)
	SetIrAndDepthFrameListener(FrameListener)
	Start() error
	Stop() error
	Close() error
	Serial() string
	Firmware() string
	// Camera parameters are only valid once the sensor has started.
	IrCameraParams() registration.IrParams
	ColorCameraParams() registration.ColorParams
}

type Driver interface {
	EnumerateDevices() int
	OpenDevice(id int, b backend.Backend) (Sensor, error)
	Close() error
}

type Factory func() (Driver, error)

var (
	mu        sync.Mutex
	factories = map[string]Factory{}
)

// Register makes a driver available by name, replacing any
// previous registration of the same name.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = f
}

func Open(name string) (Driver, error) {
	mu.Lock()
	f, ok := factories[name]
	mu.Unlock()
	if !ok {
		return nil, xerror.Errorf("%w: %s", ErrUnknownDriver, name)
	}
	return f()
}

func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
