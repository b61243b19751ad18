package frame

import (
	"encoding/binary"
	"math"

	"github.com/tauraamui/xerror"
)

var ErrBufferSize = xerror.New("buffer size does not match frame format")

// View is a typed window over a tightly packed pixel buffer.
// The invariant len(Data) == Width*Height*BytesPerPixel holds for
// every View built through NewView or MakeView.
type View struct {
	Width         int
	Height        int
	BytesPerPixel int
	Data          []byte
}

func NewView(width, height, bpp int, data []byte) (View, error) {
	if width <= 0 || height <= 0 || bpp <= 0 {
		return View{}, xerror.Errorf("%w: invalid format %dx%dx%d", ErrBufferSize, width, height, bpp)
	}
	if want := width * height * bpp; len(data) != want {
		return View{}, xerror.Errorf("%w: want %d bytes, got %d", ErrBufferSize, want, len(data))
	}
	return View{Width: width, Height: height, BytesPerPixel: bpp, Data: data}, nil
}

// MakeView allocates a zeroed buffer of the given format.
func MakeView(width, height, bpp int) View {
	return View{
		Width: width, Height: height, BytesPerPixel: bpp,
		Data: make([]byte, width*height*bpp),
	}
}

func (v View) Dimensions() Dimensions { return Dimensions{W: v.Width, H: v.Height} }

func (v View) Stride() int { return v.Width * v.BytesPerPixel }

func (v View) Len() int { return len(v.Data) }

func (v View) Row(y int) []byte {
	s := v.Stride()
	return v.Data[y*s : (y+1)*s]
}

func (v View) offset(x, y int) int {
	return (y*v.Width + x) * v.BytesPerPixel
}

// Float32At reads the little endian float stored at pixel (x, y).
// Only meaningful for 4 byte per pixel depth layouts.
func (v View) Float32At(x, y int) float32 {
	o := v.offset(x, y)
	return math.Float32frombits(binary.LittleEndian.Uint32(v.Data[o : o+4]))
}

func (v View) SetFloat32(x, y int, f float32) {
	o := v.offset(x, y)
	binary.LittleEndian.PutUint32(v.Data[o:o+4], math.Float32bits(f))
}

// Float32 reads the i'th float in the buffer regardless of row layout.
func (v View) Float32(i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(v.Data[i*4 : i*4+4]))
}

func (v View) SetFloat32Index(i int, f float32) {
	binary.LittleEndian.PutUint32(v.Data[i*4:i*4+4], math.Float32bits(f))
}

// FillFloat32 writes f into every 4 byte cell of the view.
func (v View) FillFloat32(f float32) {
	if len(v.Data) < 4 {
		return
	}
	binary.LittleEndian.PutUint32(v.Data[:4], math.Float32bits(f))
	for n := 4; n < len(v.Data); n *= 2 {
		copy(v.Data[n:], v.Data[:n])
	}
}
