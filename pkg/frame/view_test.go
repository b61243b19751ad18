package frame_test

import (
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/kinectone/pkg/frame"
)

func TestNewViewChecksSize(t *testing.T) {
	is := is.New(t)

	_, err := frame.NewView(2, 2, 4, make([]byte, 16))
	is.NoErr(err)

	_, err = frame.NewView(2, 2, 4, make([]byte, 15))
	is.True(errors.Is(err, frame.ErrBufferSize))

	_, err = frame.NewView(0, 2, 4, nil)
	is.True(errors.Is(err, frame.ErrBufferSize))
}

func TestViewFloatRoundTrip(t *testing.T) {
	is := is.New(t)

	v := frame.MakeView(3, 2, 4)
	v.SetFloat32(2, 1, 1234.5)
	is.Equal(v.Float32At(2, 1), float32(1234.5))
	is.Equal(v.Float32(5), float32(1234.5))

	v.FillFloat32(float32(math.Inf(1)))
	for i := 0; i < 6; i++ {
		is.True(math.IsInf(float64(v.Float32(i)), 1))
	}
}

func TestFrameReleaseRunsOnce(t *testing.T) {
	is := is.New(t)

	calls := 0
	f := frame.New(frame.Color, 2, 2, 4)
	f.OnRelease(func(*frame.Frame) { calls++ })
	f.Release()
	f.Release()
	is.Equal(calls, 1)

	var nilFrame *frame.Frame
	nilFrame.Release()
}

func TestTypeString(t *testing.T) {
	is := is.New(t)
	is.Equal(frame.Color.String(), "color")
	is.Equal(frame.Depth.String(), "depth")
	is.Equal(frame.Ir.String(), "ir")
	is.Equal(frame.Type(9).String(), "unknown(9)")
}
