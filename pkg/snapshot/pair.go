// Package snapshot persists copies of published aligned pairs.
package snapshot

import (
	"sync"
	"time"

	"github.com/tauraamui/kinectone/pkg/frame"
	"github.com/tauraamui/kinectone/pkg/kinect"
)

// Pair is an owned copy of one published cycle. Views handed to an
// observer are only valid until it returns, a Pair outlives that.
type Pair struct {
	Serial     string
	Backend    string
	Sequence   uint64
	CapturedAt time.Time
	Color      frame.View
	Depth      frame.View
}

// Fill copies the color view and the preferred depth view out of f,
// reusing the pair's buffers when their sizes match. Big depth is
// preferred over undistorted depth as it shares the color grid.
func (p *Pair) Fill(serial, backend string, f kinect.Frames) {
	p.Serial, p.Backend, p.Sequence = serial, backend, f.Sequence
	p.CapturedAt = Timestamp()

	p.Color = copyView(p.Color, f.Color, f.Has(kinect.OutputColor))
	switch {
	case f.Has(kinect.OutputBigDepth):
		p.Depth = copyView(p.Depth, f.BigDepth, true)
	case f.Has(kinect.OutputDepth):
		p.Depth = copyView(p.Depth, f.Depth, true)
	default:
		p.Depth = copyView(p.Depth, frame.View{}, false)
	}
}

func copyView(dst, src frame.View, present bool) frame.View {
	if !present || len(src.Data) == 0 {
		dst.Width, dst.Height = 0, 0
		dst.Data = dst.Data[:0]
		return dst
	}
	buf := dst.Data[:cap(dst.Data)]
	if len(buf) < len(src.Data) {
		buf = make([]byte, len(src.Data))
	}
	buf = buf[:len(src.Data)]
	copy(buf, src.Data)
	src.Data = buf
	return src
}

var Timestamp = func() time.Time {
	return time.Now()
}

// Pool recycles pairs between the observer and the writer so steady
// state capture does not allocate.
type Pool struct {
	pairs sync.Pool
}

func NewPool() *Pool {
	return &Pool{pairs: sync.Pool{New: func() interface{} { return &Pair{} }}}
}

func (p *Pool) Get() *Pair {
	return p.pairs.Get().(*Pair)
}

func (p *Pool) Put(pair *Pair) {
	if pair != nil {
		p.pairs.Put(pair)
	}
}
