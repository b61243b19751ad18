package frame

import "fmt"

// Type identifies which sensor stream a frame belongs to. Values
// follow the driver's own numbering so they can cross the C boundary
// unchanged.
type Type int

const (
	Color Type = 1
	Ir    Type = 2
	Depth Type = 4
)

func (t Type) String() string {
	switch t {
	case Color:
		return "color"
	case Ir:
		return "ir"
	case Depth:
		return "depth"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

type Dimensions struct {
	W, H int
}

// Frame is one captured image as handed over by a sensor driver.
// Whoever owns the frame must call Release once it is done with it,
// which hands the backing buffer back to the producer.
type Frame struct {
	Type          Type
	Width         int
	Height        int
	BytesPerPixel int
	Data          []byte
	Timestamp     uint32
	Sequence      uint32

	release func(*Frame)
}

func New(t Type, width, height, bpp int) *Frame {
	return &Frame{
		Type: t, Width: width, Height: height, BytesPerPixel: bpp,
		Data: make([]byte, width*height*bpp),
	}
}

// OnRelease installs the hook run by the next call to Release.
func (f *Frame) OnRelease(fn func(*Frame)) {
	f.release = fn
}

// Release runs the release hook at most once. It is not safe
// for concurrent use, the current owner is the only caller.
func (f *Frame) Release() {
	if f == nil || f.release == nil {
		return
	}
	fn := f.release
	f.release = nil
	fn(f)
}

func (f *Frame) Dimensions() Dimensions {
	return Dimensions{W: f.Width, H: f.Height}
}

// View returns a size checked view over the frame's pixel data.
func (f *Frame) View() (View, error) {
	return NewView(f.Width, f.Height, f.BytesPerPixel, f.Data)
}
