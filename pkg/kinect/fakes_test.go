package kinect_test

import (
	"fmt"
	"sync"

	"github.com/tauraamui/kinectone/pkg/backend"
	"github.com/tauraamui/kinectone/pkg/driver"
	"github.com/tauraamui/kinectone/pkg/frame"
	"github.com/tauraamui/kinectone/pkg/kinect"
	"github.com/tauraamui/kinectone/pkg/registration"
)

type fakeSensor struct {
	mu            sync.Mutex
	colorListener driver.FrameListener
	depthListener driver.FrameListener
	startErr      error
	stopErr       error
	closeErr      error
	starts        int
	stops         int
	closes        int
}

func (s *fakeSensor) SetColorFrameListener(l driver.FrameListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colorListener = l
}

func (s *fakeSensor) SetIrAndDepthFrameListener(l driver.FrameListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depthListener = l
}

func (s *fakeSensor) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starts++
	return s.startErr
}

func (s *fakeSensor) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
	return s.stopErr
}

func (s *fakeSensor) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return s.closeErr
}

func (s *fakeSensor) Serial() string   { return "FAKE0001" }
func (s *fakeSensor) Firmware() string { return "1.0.0" }

func (s *fakeSensor) IrCameraParams() registration.IrParams {
	return registration.DefaultIrParams()
}

func (s *fakeSensor) ColorCameraParams() registration.ColorParams {
	return registration.DefaultColorParams()
}

// emit plays the capture goroutine, routing frames the way the
// driver does.
func (s *fakeSensor) emit(t frame.Type, f *frame.Frame) bool {
	s.mu.Lock()
	l := s.depthListener
	if t == frame.Color {
		l = s.colorListener
	}
	s.mu.Unlock()
	return l.OnNewFrame(t, f)
}

type fakeDriver struct {
	count   int
	sensor  *fakeSensor
	openErr error
	closes  int
}

func (d *fakeDriver) EnumerateDevices() int { return d.count }

func (d *fakeDriver) OpenDevice(id int, b backend.Backend) (driver.Sensor, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	return d.sensor, nil
}

func (d *fakeDriver) Close() error {
	d.closes++
	return nil
}

// stampTransform copies the first byte of each input into the aligned
// outputs so observers can tell which frames were paired.
type stampTransform struct {
	entered chan struct{}
	release chan struct{}
}

func (t *stampTransform) Apply(color, depth frame.View, out *frame.AlignedSet) error {
	if t.entered != nil {
		t.entered <- struct{}{}
	}
	if t.release != nil {
		<-t.release
	}
	out.BigDepth.FillFloat32(float32(depth.Data[0]))
	for x := 0; x < out.BigDepth.Width; x++ {
		out.BigDepth.SetFloat32(x, 0, -1)
		out.BigDepth.SetFloat32(x, out.BigDepth.Height-1, -2)
	}
	out.Undistorted.Data[0] = depth.Data[0]
	out.Registered.Data[0] = color.Data[0]
	return nil
}

func stampFactory(t *stampTransform) kinect.Option {
	return kinect.WithTransform(func(registration.IrParams, registration.ColorParams) (kinect.Transform, error) {
		return t, nil
	})
}

type releaseLog struct {
	mu  sync.Mutex
	ids []string
}

func (r *releaseLog) add(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *releaseLog) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

// smallFrame builds a tiny frame whose every byte is id.
func smallFrame(t frame.Type, id byte, released *releaseLog) *frame.Frame {
	f := frame.New(t, 2, 2, frame.BytesPerPixel)
	for i := range f.Data {
		f.Data[i] = id
	}
	f.Sequence = uint32(id)
	if released != nil {
		f.OnRelease(func(f *frame.Frame) { released.add(frameID(f)) })
	}
	return f
}

func frameID(f *frame.Frame) string {
	return fmt.Sprintf("%s-%d", f.Type, f.Data[0])
}

type pair struct {
	color, depth byte
}

type recorder struct {
	mu    sync.Mutex
	pairs []pair
	seen  []kinect.Frames
}

func (r *recorder) OnFrames(f kinect.Frames) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs = append(r.pairs, pair{color: f.Color.Data[0], depth: f.Depth.Data[0]})
	r.seen = append(r.seen, f)
}

func (r *recorder) all() []pair {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]pair(nil), r.pairs...)
}

func openStarted(sensor *fakeSensor, transform *stampTransform, opts ...kinect.Option) (*kinect.Context, *kinect.Device, error) {
	kctx := kinect.NewContext(&fakeDriver{count: 1, sensor: sensor})
	dev, err := kctx.OpenDevice(0, backend.Default, append(opts, stampFactory(transform))...)
	if err != nil {
		return nil, nil, err
	}
	return kctx, dev, dev.Start()
}
