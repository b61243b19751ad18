package capture

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tauraamui/kinectone/pkg/backend"
	"github.com/tauraamui/kinectone/pkg/configdef"
	"github.com/tauraamui/kinectone/pkg/driver"
	"github.com/tauraamui/kinectone/pkg/kinect"
	"github.com/tauraamui/kinectone/pkg/log"
	"github.com/tauraamui/kinectone/pkg/process"
	"github.com/tauraamui/kinectone/pkg/snapshot"
	"github.com/tauraamui/xerror"
	"go.uber.org/multierr"
)

const pairQueueSize = 4

var newWriter = snapshot.NewWriter

// Server runs one configured device and persists every Nth published
// pair it produces.
type Server struct {
	shutdownDone chan interface{}
	shutdownOnce sync.Once
	config       configdef.Values
	recorder     process.Recorder

	mu        sync.Mutex
	kctx      *kinect.Context
	device    *kinect.Device
	serial    string
	backend   string
	processes []process.Process

	pool      *snapshot.Pool
	pairs     chan *snapshot.Pair
	published uint64
	dropped   uint64
}

// NewServer resolves the configuration up front. recorder may be nil,
// snapshots are then written without being recorded.
func NewServer(cr configdef.Resolver, recorder process.Recorder) (*Server, error) {
	config, err := cr.Resolve()
	if err != nil {
		return nil, err
	}
	return &Server{
		shutdownDone: make(chan interface{}),
		config:       config,
		recorder:     recorder,
		pool:         snapshot.NewPool(),
		pairs:        make(chan *snapshot.Pair, pairQueueSize),
	}, nil
}

func (s *Server) Connect() []error {
	return s.connect(context.Background())
}

func (s *Server) ConnectWithCancel(cancel context.Context) []error {
	return s.connect(cancel)
}

func (s *Server) connect(cancel context.Context) []error {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-cancel.Done():
		return nil
	default:
	}

	log.Info("Connecting to device %d using [%s] driver...", s.config.DeviceID, s.config.Driver)
	drv, err := driver.Open(s.config.Driver)
	if err != nil {
		return []error{err}
	}

	kctx := kinect.NewContext(drv)
	dev, err := kctx.OpenDevice(
		s.config.DeviceID, backend.Resolve(s.config.Backend), kinect.WithOutputs(outputs(s.config.Outputs)),
	)
	if err != nil {
		return []error{multierr.Append(err, kctx.Close())}
	}

	s.serial, s.backend = dev.Serial(), dev.Backend().String()
	if err := dev.SetFrameCallback(kinect.ObserverFunc(s.onFrames)); err != nil {
		return []error{multierr.Append(err, kctx.Close())}
	}

	select {
	case <-cancel.Done():
		return []error{kctx.Close()}
	default:
	}

	if err := dev.Start(); err != nil {
		return []error{multierr.Append(err, kctx.Close())}
	}

	log.Info("Connected successfully to device: [%s]", s.serial)
	s.kctx, s.device = kctx, dev
	return nil
}

// onFrames runs under the listener lock, so it only copies and
// never blocks on the persist queue.
func (s *Server) onFrames(f kinect.Frames) {
	n := atomic.AddUint64(&s.published, 1)
	if every := uint64(s.config.SnapshotEvery); every > 1 && n%every != 0 {
		return
	}

	pair := s.pool.Get()
	pair.Fill(s.serial, s.backend, f)
	select {
	case s.pairs <- pair:
		log.Debug("Queued snapshot #%d of device [%s]", f.Sequence, s.serial)
	default:
		s.pool.Put(pair)
		atomic.AddUint64(&s.dropped, 1)
		log.Debug("Snapshot queue full, dropping pair #%d...", f.Sequence)
	}
}

func outputs(names []string) kinect.Outputs {
	if len(names) == 0 {
		return kinect.DefaultOutputs
	}
	var o kinect.Outputs
	for _, n := range names {
		switch n {
		case configdef.OutputColor:
			o |= kinect.OutputColor
		case configdef.OutputDepth:
			o |= kinect.OutputDepth
		case configdef.OutputBigDepth:
			o |= kinect.OutputBigDepth
		case configdef.OutputRegistered:
			o |= kinect.OutputRegistered
		}
	}
	return o
}

// Dropped reports how many selected pairs were discarded because
// the persist queue was full.
func (s *Server) Dropped() uint64 {
	return atomic.LoadUint64(&s.dropped)
}

func (s *Server) shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.device != nil {
		log.Warn("Stopping device: [%s]...", s.serial)
		err = s.device.Stop()
	}
	s.shutdownProcesses()
	if s.kctx != nil {
		log.Warn("Closing device: [%s]...", s.serial)
		err = multierr.Append(err, s.kctx.Close())
	}
	s.device, s.kctx, s.processes = nil, nil, nil
	return err
}

// Shutdown stops the device and processes once, later calls return
// the same already closed channel.
func (s *Server) Shutdown() chan interface{} {
	s.shutdownOnce.Do(func() {
		if err := s.shutdown(); err != nil {
			log.Error(xerror.Errorf("unable to shutdown cleanly: %w", err).Error())
		}
		close(s.shutdownDone)
	})
	return s.shutdownDone
}
