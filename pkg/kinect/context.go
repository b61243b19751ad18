package kinect

import (
	"sync"

	"github.com/tauraamui/kinectone/pkg/backend"
	"github.com/tauraamui/kinectone/pkg/driver"
	"github.com/tauraamui/kinectone/pkg/log"
	"github.com/tauraamui/xerror"
	"go.uber.org/multierr"
)

// Context owns a sensor driver and every device opened through it.
type Context struct {
	drv driver.Driver

	mu      sync.Mutex
	closed  bool
	devices map[*Device]struct{}
}

func NewContext(drv driver.Driver) *Context {
	return &Context{drv: drv, devices: map[*Device]struct{}{}}
}

func (c *Context) DeviceCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0
	}
	return c.drv.EnumerateDevices()
}

// OpenDevice opens device id with the given processing backend. On any
// failure it returns a nil device, never a partially built one.
func (c *Context) OpenDevice(id int, b backend.Backend, opts ...Option) (*Device, error) {
	o := options{outputs: DefaultOutputs, transform: newRegistrationTransform}
	for _, opt := range opts {
		opt(&o)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrContextClosed
	}

	if count := c.drv.EnumerateDevices(); id < 0 || id >= count {
		return nil, xerror.Errorf("%w: no device at index %d, %d connected", ErrDeviceUnavailable, id, count)
	}

	log.Info("Opening device %d with %s backend...", id, b)
	sensor, err := c.drv.OpenDevice(id, b)
	if err != nil {
		return nil, xerror.Errorf("%w: unable to open device %d: %v", ErrDeviceUnavailable, id, err)
	}
	if sensor == nil {
		return nil, xerror.Errorf("%w: driver returned no sensor for device %d", ErrDeviceUnavailable, id)
	}

	d := newDevice(id, b, sensor, o)
	d.onClose = c.forget
	c.devices[d] = struct{}{}
	log.Info("Opened device [%s] firmware %s", d.Serial(), d.Firmware())
	return d, nil
}

func (c *Context) forget(d *Device) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.devices, d)
}

// Close closes every device still open and then the driver.
func (c *Context) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	open := make([]*Device, 0, len(c.devices))
	for d := range c.devices {
		open = append(open, d)
	}
	c.mu.Unlock()

	var err error
	for _, d := range open {
		log.Warn("Closing device [%s] still open at context shutdown...", d.Serial())
		err = multierr.Append(err, d.Close())
	}
	return multierr.Append(err, c.drv.Close())
}
