package kinect

import (
	"sync"

	"github.com/tauraamui/kinectone/pkg/frame"
)

type outputSink struct {
	color []byte
	depth []byte
}

// pairing is everything the capture goroutine and the setters share.
// It is only ever reached through guardedState.do.
type pairing struct {
	active    bool
	closed    bool
	transform Transform
	color     *frame.Frame
	depth     *frame.Frame
	aligned   *frame.AlignedSet
	bigDepth  frame.View
	observer  Observer
	sink      outputSink
	sequence  uint64
	stats     Stats
}

func (p *pairing) slot(t frame.Type) **frame.Frame {
	if t == frame.Color {
		return &p.color
	}
	return &p.depth
}

func (p *pairing) paired() bool {
	return p.color != nil && p.depth != nil
}

func (p *pairing) clearSlots() {
	p.color.Release()
	p.depth.Release()
	p.color, p.depth = nil, nil
}

type guardedState struct {
	mu sync.Mutex
	p  pairing
}

func (g *guardedState) do(fn func(*pairing)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(&g.p)
}
