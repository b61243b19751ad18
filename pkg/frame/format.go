package frame

// Fixed sensor formats. Every stream the pipeline touches is
// four bytes per pixel: BGRX for color, little endian float32
// millimetres for depth.
const (
	ColorWidth    = 1920
	ColorHeight   = 1080
	DepthWidth    = 512
	DepthHeight   = 424
	BytesPerPixel = 4

	// BigDepthHeight carries one sentinel row above and one below
	// the color frame, written by the registration filter window.
	BigDepthHeight = ColorHeight + 2

	MaxDepth float32 = 4500

	ColorSize           = ColorWidth * ColorHeight * BytesPerPixel
	DepthSize           = DepthWidth * DepthHeight * BytesPerPixel
	BigDepthSize        = ColorWidth * BigDepthHeight * BytesPerPixel
	CroppedBigDepthSize = ColorWidth * ColorHeight * BytesPerPixel
)

var (
	ColorDimensions = Dimensions{W: ColorWidth, H: ColorHeight}
	DepthDimensions = Dimensions{W: DepthWidth, H: DepthHeight}
)

// AlignedSet is the output of one pairing cycle. It is allocated
// once and overwritten in place every cycle.
type AlignedSet struct {
	Undistorted View
	Registered  View
	BigDepth    View
}

func NewAlignedSet() *AlignedSet {
	return &AlignedSet{
		Undistorted: MakeView(DepthWidth, DepthHeight, BytesPerPixel),
		Registered:  MakeView(DepthWidth, DepthHeight, BytesPerPixel),
		BigDepth:    MakeView(ColorWidth, BigDepthHeight, BytesPerPixel),
	}
}
