// Package simulated provides a synthetic Kinect v2 that streams
// rendered color frames and a static depth scene without hardware.
package simulated

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tauraamui/kinectone/pkg/backend"
	"github.com/tauraamui/kinectone/pkg/driver"
	"github.com/tauraamui/kinectone/pkg/log"
	"github.com/tauraamui/xerror"
)

const Name = "simulated"

const firmware = "2.0.0-sim"

type options struct {
	devices int
	fps     int
	seed    int64
}

type Option func(*options)

func WithDevices(n int) Option {
	return func(o *options) { o.devices = n }
}

func WithFPS(fps int) Option {
	return func(o *options) { o.fps = fps }
}

// WithSeed fixes the order frames within one capture tick are
// delivered in. Each device derives its own sequence from it.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

func init() {
	Register()
}

// Register replaces the simulated entry in the driver registry with
// one built from opts.
func Register(opts ...Option) {
	driver.Register(Name, func() (driver.Driver, error) {
		return New(opts...), nil
	})
}

type Driver struct {
	opts    options
	serials []string

	mu      sync.Mutex
	closed  bool
	sensors map[*Sensor]struct{}
}

func New(opts ...Option) *Driver {
	o := options{devices: 1, fps: 30, seed: time.Now().UnixNano()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fps < 1 {
		o.fps = 1
	}

	serials := make([]string, o.devices)
	for i := range serials {
		serials[i] = uuid.NewString()
	}
	return &Driver{opts: o, serials: serials, sensors: map[*Sensor]struct{}{}}
}

func (d *Driver) EnumerateDevices() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0
	}
	return len(d.serials)
}

// OpenDevice ignores the backend, every simulated device processes on
// the CPU.
func (d *Driver) OpenDevice(id int, b backend.Backend) (driver.Sensor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || id < 0 || id >= len(d.serials) {
		return nil, xerror.Errorf("%w: simulated device %d", driver.ErrNoDevice, id)
	}

	interval := time.Second / time.Duration(d.opts.fps)
	s := newSensor(d.serials[id], interval, d.opts.seed+int64(id))
	s.onClose = d.forget
	d.sensors[s] = struct{}{}
	log.Debug("Opened simulated device %d [%s] at %d fps", id, s.serial, d.opts.fps)
	return s, nil
}

func (d *Driver) forget(s *Sensor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sensors, s)
}

func (d *Driver) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	open := make([]*Sensor, 0, len(d.sensors))
	for s := range d.sensors {
		open = append(open, s)
	}
	d.mu.Unlock()

	for _, s := range open {
		s.Close()
	}
	return nil
}
