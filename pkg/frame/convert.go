package frame

import (
	"image"
	"image/color"
)

// DepthToGray scales float depth into 8 bit grey, saturating at maxDepth.
// Non finite and negative samples map to black.
func DepthToGray(v View, maxDepth float32) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, v.Width, v.Height))
	n := v.Width * v.Height
	for i := 0; i < n; i++ {
		img.Pix[i] = scaleDepth(v.Float32(i), maxDepth)
	}
	return img
}

// DepthToGray16 keeps full millimetre precision, clamped to 16 bits.
func DepthToGray16(v View) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, v.Width, v.Height))
	for y := 0; y < v.Height; y++ {
		for x := 0; x < v.Width; x++ {
			d := v.Float32At(x, y)
			var mm uint16
			switch {
			case !isValidDepth(d):
			case d > 0xffff:
				mm = 0xffff
			default:
				mm = uint16(d)
			}
			img.SetGray16(x, y, color.Gray16{Y: mm})
		}
	}
	return img
}

func scaleDepth(d, maxDepth float32) uint8 {
	if !isValidDepth(d) || maxDepth <= 0 {
		return 0
	}
	r := d / maxDepth
	if r > 1 {
		r = 1
	}
	return uint8(255 * r)
}
