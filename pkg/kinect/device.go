package kinect

import (
	"sync"

	"github.com/google/uuid"
	"github.com/tauraamui/kinectone/pkg/backend"
	"github.com/tauraamui/kinectone/pkg/driver"
	"github.com/tauraamui/kinectone/pkg/frame"
	"github.com/tauraamui/kinectone/pkg/log"
	"github.com/tauraamui/xerror"
	"go.uber.org/multierr"
)

type State int

const (
	Created State = iota
	Started
	Stopped
	Closed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Started:
		return "started"
	case Stopped:
		return "stopped"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

type Option func(*options)

type options struct {
	outputs   Outputs
	transform TransformFactory
}

// WithOutputs picks which views the observer receives for each pair.
func WithOutputs(o Outputs) Option {
	return func(opts *options) { opts.outputs = o }
}

// WithTransform replaces the registration used for each pair.
func WithTransform(f TransformFactory) Option {
	return func(opts *options) { opts.transform = f }
}

// Device owns one opened sensor and the listener pairing its frames.
type Device struct {
	uuid     string
	index    int
	backend  backend.Backend
	sensor   driver.Sensor
	listener *FrameListener

	newTransform TransformFactory
	onClose      func(*Device)

	mu    sync.Mutex
	state State
}

func newDevice(index int, b backend.Backend, sensor driver.Sensor, opts options) *Device {
	d := Device{
		uuid:         uuid.NewString(),
		index:        index,
		backend:      b,
		sensor:       sensor,
		listener:     newFrameListener(opts.outputs),
		newTransform: opts.transform,
		state:        Created,
	}
	sensor.SetColorFrameListener(d.listener)
	sensor.SetIrAndDepthFrameListener(d.listener)
	return &d
}

func (d *Device) ID() string                       { return d.uuid }
func (d *Device) Index() int                       { return d.index }
func (d *Device) Backend() backend.Backend         { return d.backend }
func (d *Device) Serial() string                   { return d.sensor.Serial() }
func (d *Device) Firmware() string                 { return d.sensor.Firmware() }
func (d *Device) Listener() *FrameListener         { return d.listener }
func (d *Device) Stats() Stats                     { return d.listener.stats() }
func (d *Device) MaxDepth() float32                { return frame.MaxDepth }
func (d *Device) ColorFrameSize() frame.Dimensions { return frame.ColorDimensions }
func (d *Device) DepthFrameSize() frame.Dimensions { return frame.DepthDimensions }

func (d *Device) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Start begins capture and builds the registration from the camera
// parameters the running sensor reports. Restarting a stopped device
// builds a fresh registration.
func (d *Device) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case Closed:
		return ErrDeviceClosed
	case Started:
		return ErrAlreadyStarted
	}

	if err := d.sensor.Start(); err != nil {
		return xerror.Errorf("unable to start device [%s]: %w", d.sensor.Serial(), err)
	}

	t, err := d.newTransform(d.sensor.IrCameraParams(), d.sensor.ColorCameraParams())
	if err != nil {
		return multierr.Append(
			xerror.Errorf("unable to build registration for device [%s]: %w", d.sensor.Serial(), err),
			d.sensor.Stop(),
		)
	}
	d.listener.attach(t)
	d.state = Started

	log.Info("Started device [%s] using %s backend", d.sensor.Serial(), d.backend)
	return nil
}

// Stop halts capture. It is a no-op unless the device is started.
func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stop()
}

func (d *Device) stop() error {
	if d.state != Started {
		return nil
	}

	// once the sensor stop returns no further frames are delivered,
	// so detaching cannot race an in-flight notification
	err := d.sensor.Stop()
	d.listener.detach()
	d.state = Stopped

	if err != nil {
		return xerror.Errorf("unable to stop device [%s]: %w", d.sensor.Serial(), err)
	}
	log.Info("Stopped device [%s]", d.sensor.Serial())
	return nil
}

// Close stops capture if needed and releases the sensor. It is safe to
// call from any state and more than once.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == Closed {
		return nil
	}

	err := d.stop()
	if cerr := d.sensor.Close(); cerr != nil {
		err = multierr.Append(err, xerror.Errorf("unable to close device [%s]: %w", d.sensor.Serial(), cerr))
	}
	d.listener.close()
	d.state = Closed

	if d.onClose != nil {
		d.onClose(d)
	}
	return err
}

// SetFrameCallback installs the observer for subsequent pairs. A cycle
// already running keeps the observer it started with. Nil removes it.
func (d *Device) SetFrameCallback(o Observer) error {
	return d.listener.setObserver(o)
}

// SetColorBuffer registers a color sized destination each cycle
// copies into. Nil unregisters it.
func (d *Device) SetColorBuffer(buf []byte) error {
	if err := checkColorBuffer(buf); err != nil {
		return err
	}
	return d.listener.updateSink(func(s *outputSink) { s.color = buf })
}

// SetDepthBuffer registers a depth destination. A depth sized buffer
// receives undistorted depth, a color sized one the cropped big depth.
func (d *Device) SetDepthBuffer(buf []byte) error {
	if err := checkDepthBuffer(buf); err != nil {
		return err
	}
	return d.listener.updateSink(func(s *outputSink) { s.depth = buf })
}

// SetOutputBuffers replaces both destinations in one step.
func (d *Device) SetOutputBuffers(color, depth []byte) error {
	if err := checkColorBuffer(color); err != nil {
		return err
	}
	if err := checkDepthBuffer(depth); err != nil {
		return err
	}
	return d.listener.setSink(outputSink{color: color, depth: depth})
}

func checkColorBuffer(buf []byte) error {
	if buf == nil || len(buf) == frame.ColorSize {
		return nil
	}
	return xerror.Errorf("%w: color buffer holds %d bytes, want %d", frame.ErrBufferSize, len(buf), frame.ColorSize)
}

func checkDepthBuffer(buf []byte) error {
	if buf == nil || len(buf) == frame.DepthSize || len(buf) == frame.CroppedBigDepthSize {
		return nil
	}
	return xerror.Errorf("%w: depth buffer holds %d bytes, want %d or %d",
		frame.ErrBufferSize, len(buf), frame.DepthSize, frame.CroppedBigDepthSize)
}
