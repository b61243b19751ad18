package simulated

import (
	"math/rand"
	"sync"
	"time"

	"github.com/tauraamui/kinectone/pkg/driver"
	"github.com/tauraamui/kinectone/pkg/frame"
	"github.com/tauraamui/kinectone/pkg/log"
	"github.com/tauraamui/kinectone/pkg/registration"
	"github.com/tauraamui/xerror"
)

var ErrSensorClosed = xerror.New("simulated sensor closed")

type Sensor struct {
	serial   string
	interval time.Duration
	seed     int64
	onClose  func(*Sensor)

	colorPool *pool
	irPool    *pool
	depthPool *pool

	mu            sync.Mutex
	colorListener driver.FrameListener
	depthListener driver.FrameListener
	scene         *scene
	stop          chan struct{}
	done          chan struct{}
	closed        bool
}

func newSensor(serial string, interval time.Duration, seed int64) *Sensor {
	return &Sensor{
		serial:    serial,
		interval:  interval,
		seed:      seed,
		colorPool: newPool(frame.Color, frame.ColorWidth, frame.ColorHeight),
		irPool:    newPool(frame.Ir, frame.DepthWidth, frame.DepthHeight),
		depthPool: newPool(frame.Depth, frame.DepthWidth, frame.DepthHeight),
	}
}

func (s *Sensor) SetColorFrameListener(l driver.FrameListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colorListener = l
}

func (s *Sensor) SetIrAndDepthFrameListener(l driver.FrameListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depthListener = l
}

func (s *Sensor) Serial() string   { return s.serial }
func (s *Sensor) Firmware() string { return firmware }

func (s *Sensor) IrCameraParams() registration.IrParams {
	return registration.DefaultIrParams()
}

func (s *Sensor) ColorCameraParams() registration.ColorParams {
	return registration.DefaultColorParams()
}

// Start launches the capture goroutine. Starting a running sensor
// does nothing.
func (s *Sensor) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSensorClosed
	}
	if s.stop != nil {
		return nil
	}

	if s.scene == nil {
		sc, err := renderScene(s.serial)
		if err != nil {
			return xerror.Errorf("unable to render simulated scene: %w", err)
		}
		s.scene = sc
	}

	s.stop, s.done = make(chan struct{}), make(chan struct{})
	go s.capture(s.scene, s.stop, s.done)
	return nil
}

// Stop blocks until the capture goroutine has exited, no frame is
// delivered after it returns.
func (s *Sensor) Stop() error {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)
	<-done
	return nil
}

func (s *Sensor) Close() error {
	if err := s.Stop(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.colorListener, s.depthListener = nil, nil
	s.scene = nil
	s.mu.Unlock()

	if s.onClose != nil {
		s.onClose(s)
	}
	return nil
}

func (s *Sensor) capture(sc *scene, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	rnd := rand.New(rand.NewSource(s.seed))
	started := time.Now()
	var seq uint32

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			seq++
			// libfreenect2 ticks at roughly 0.1ms
			ts := uint32(now.Sub(started) / (100 * time.Microsecond))

			frames := []*frame.Frame{
				s.colorPool.get(),
				s.irPool.get(),
				s.depthPool.get(),
			}
			for _, f := range frames {
				f.Sequence, f.Timestamp = seq, ts
			}
			if err := sc.drawColor(frames[0], now); err != nil {
				log.Error("Unable to draw simulated color frame #%d: %v", seq, err)
			}
			copy(frames[1].Data, sc.ir)
			copy(frames[2].Data, sc.depth)

			rnd.Shuffle(len(frames), func(i, j int) { frames[i], frames[j] = frames[j], frames[i] })
			for _, f := range frames {
				s.deliver(f)
			}
		}
	}
}

// deliver hands f to the listener for its stream and recycles it
// straight away when the listener does not take it.
func (s *Sensor) deliver(f *frame.Frame) {
	s.mu.Lock()
	l := s.depthListener
	if f.Type == frame.Color {
		l = s.colorListener
	}
	s.mu.Unlock()

	if l == nil || !l.OnNewFrame(f.Type, f) {
		f.Release()
	}
}

// pool recycles frame buffers between the capture goroutine and the
// listener holding them.
type pool struct {
	free sync.Pool
}

func newPool(t frame.Type, w, h int) *pool {
	return &pool{free: sync.Pool{New: func() interface{} {
		return frame.New(t, w, h, frame.BytesPerPixel)
	}}}
}

func (p *pool) get() *frame.Frame {
	f := p.free.Get().(*frame.Frame)
	f.OnRelease(p.put)
	return f
}

func (p *pool) put(f *frame.Frame) {
	p.free.Put(f)
}
