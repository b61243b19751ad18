package kinect

import "github.com/tauraamui/kinectone/pkg/frame"

// Outputs selects which views a listener hands to its observer.
type Outputs uint8

const (
	OutputColor Outputs = 1 << iota
	OutputDepth
	OutputBigDepth
	OutputRegistered

	DefaultOutputs = OutputColor | OutputDepth | OutputBigDepth
	AllOutputs     = DefaultOutputs | OutputRegistered
)

// Frames is what an observer sees for one published pair. Views not
// selected by Outputs are left zero. Every view is only valid until
// OnFrames returns, the next cycle overwrites the memory behind it.
type Frames struct {
	Sequence uint64
	Outputs  Outputs

	Color      frame.View
	Depth      frame.View
	BigDepth   frame.View
	Registered frame.View
}

func (f Frames) Has(o Outputs) bool {
	return f.Outputs&o == o
}

// Observer is notified once per published color/depth pair, on the
// driver's capture goroutine and while the listener lock is held.
// Implementations must not call back into the device's setters.
type Observer interface {
	OnFrames(Frames)
}

type ObserverFunc func(Frames)

func (fn ObserverFunc) OnFrames(f Frames) { fn(f) }

type Stats struct {
	Published   uint64
	Overwritten uint64
	Ignored     uint64
	Rejected    uint64
	Failed      uint64
}
