package kinect

import (
	"github.com/tauraamui/kinectone/pkg/frame"
	"github.com/tauraamui/kinectone/pkg/log"
)

// FrameListener pairs color and depth frames delivered by a sensor and
// publishes one aligned result per pair. All shared state lives behind
// a single lock, the publish cycle included.
type FrameListener struct {
	outputs Outputs
	state   guardedState
}

func newFrameListener(outputs Outputs) *FrameListener {
	l := FrameListener{outputs: outputs}
	l.state.p.aligned = frame.NewAlignedSet()
	bigDepth, err := frame.CropBigDepth(l.state.p.aligned.BigDepth)
	if err != nil {
		log.Error("Unable to crop big depth buffer: %v", err)
	}
	l.state.p.bigDepth = bigDepth
	return &l
}

// OnNewFrame stores color and depth frames, last writer wins, and runs
// the publish cycle as soon as both slots hold a frame. Ir and unknown
// frame types, and anything arriving while the listener is inactive,
// are left with the driver.
func (l *FrameListener) OnNewFrame(t frame.Type, f *frame.Frame) bool {
	if f == nil {
		return false
	}

	taken := false
	l.state.do(func(p *pairing) {
		if t != frame.Color && t != frame.Depth {
			p.stats.Ignored++
			return
		}
		if !p.active {
			p.stats.Rejected++
			return
		}

		taken = true
		slot := p.slot(t)
		if *slot != nil {
			(*slot).Release()
			p.stats.Overwritten++
		}
		*slot = f

		if p.paired() {
			l.publish(p)
		}
	})
	return taken
}

func (l *FrameListener) publish(p *pairing) {
	defer p.clearSlots()

	color, err := p.color.View()
	if err != nil {
		p.stats.Failed++
		log.Error("Dropping pair, bad color frame #%d: %v", p.color.Sequence, err)
		return
	}
	depth, err := p.depth.View()
	if err != nil {
		p.stats.Failed++
		log.Error("Dropping pair, bad depth frame #%d: %v", p.depth.Sequence, err)
		return
	}

	if err := p.transform.Apply(color, depth, p.aligned); err != nil {
		p.stats.Failed++
		log.Error("Unable to register color #%d with depth #%d: %v", p.color.Sequence, p.depth.Sequence, err)
		return
	}

	p.sequence++
	frames := l.deliver(p, color)
	if p.observer != nil {
		p.observer.OnFrames(frames)
	}
	p.stats.Published++
	log.Debug("Published aligned pair #%d", p.sequence)
}

// deliver copies into any registered output buffers and builds the
// views handed to the observer, pointing at the external buffers where
// present and at the listener's own buffers otherwise.
func (l *FrameListener) deliver(p *pairing, color frame.View) Frames {
	bigDepth := p.bigDepth
	depth := p.aligned.Undistorted

	if p.sink.color != nil && len(p.sink.color) == color.Len() {
		copy(p.sink.color, color.Data)
		color = viewOver(p.sink.color, color)
	}
	switch len(p.sink.depth) {
	case 0:
	case depth.Len():
		copy(p.sink.depth, depth.Data)
		depth = viewOver(p.sink.depth, depth)
	case bigDepth.Len():
		copy(p.sink.depth, bigDepth.Data)
		bigDepth = viewOver(p.sink.depth, bigDepth)
	}

	fs := Frames{Sequence: p.sequence, Outputs: l.outputs}
	if fs.Has(OutputColor) {
		fs.Color = color
	}
	if fs.Has(OutputDepth) {
		fs.Depth = depth
	}
	if fs.Has(OutputBigDepth) {
		fs.BigDepth = bigDepth
	}
	if fs.Has(OutputRegistered) {
		fs.Registered = p.aligned.Registered
	}
	return fs
}

func viewOver(buf []byte, like frame.View) frame.View {
	like.Data = buf
	return like
}

// attach injects the transform built after the sensor started and
// begins accepting frames.
func (l *FrameListener) attach(t Transform) {
	l.state.do(func(p *pairing) {
		p.transform = t
		p.active = true
	})
}

// detach stops accepting frames and releases anything still buffered.
func (l *FrameListener) detach() {
	l.state.do(func(p *pairing) {
		p.active = false
		p.transform = nil
		p.clearSlots()
	})
}

func (l *FrameListener) setObserver(o Observer) error {
	return l.update(func(p *pairing) { p.observer = o })
}

func (l *FrameListener) setSink(sink outputSink) error {
	return l.update(func(p *pairing) { p.sink = sink })
}

func (l *FrameListener) updateSink(fn func(*outputSink)) error {
	return l.update(func(p *pairing) { fn(&p.sink) })
}

// update applies fn unless the listener has been closed, checking and
// mutating under the same lock so nothing is rebound after close.
func (l *FrameListener) update(fn func(*pairing)) error {
	var err error
	l.state.do(func(p *pairing) {
		if p.closed {
			err = ErrDeviceClosed
			return
		}
		fn(p)
	})
	return err
}

// close detaches the listener and drops the observer and any caller
// owned buffers for good.
func (l *FrameListener) close() {
	l.state.do(func(p *pairing) {
		p.active = false
		p.closed = true
		p.transform = nil
		p.observer = nil
		p.sink = outputSink{}
		p.clearSlots()
	})
}

func (l *FrameListener) pending() (color, depth bool) {
	l.state.do(func(p *pairing) {
		color, depth = p.color != nil, p.depth != nil
	})
	return
}

func (l *FrameListener) stats() Stats {
	var st Stats
	l.state.do(func(p *pairing) {
		st = p.stats
	})
	return st
}
