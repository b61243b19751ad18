package registration

import (
	"math"

	"github.com/tauraamui/kinectone/pkg/frame"
	"github.com/tauraamui/xerror"
)

var ErrInvalidIntrinsics = xerror.New("camera intrinsics are not usable")

const (
	depthQ = 0.01
	colorQ = 0.002199

	filterWidthHalf  = 2
	filterHeightHalf = 1
	filterTolerance  = 0.01
)

// Registration holds the per pixel lookup tables derived from one
// pair of intrinsics plus scratch space reused across calls, so
// Apply must not be called concurrently on the same value.
type Registration struct {
	ir    IrParams
	color ColorParams

	distortMap   []int
	colorMapX    []float32
	colorMapYi   []int
	colorOffsets []int
	colorCx      float32
}

func New(ir IrParams, color ColorParams) (*Registration, error) {
	if ir.Fx == 0 || ir.Fy == 0 {
		return nil, xerror.Errorf("%w: depth focal length is zero", ErrInvalidIntrinsics)
	}
	if color.Fx == 0 || color.ShiftD == 0 {
		return nil, xerror.Errorf("%w: color focal length or shift is zero", ErrInvalidIntrinsics)
	}

	n := frame.DepthWidth * frame.DepthHeight
	r := &Registration{
		ir: ir, color: color,
		distortMap:   make([]int, n),
		colorMapX:    make([]float32, n),
		colorMapYi:   make([]int, n),
		colorOffsets: make([]int, n),
		colorCx:      color.Cx + 0.5,
	}

	for y := 0; y < frame.DepthHeight; y++ {
		for x := 0; x < frame.DepthWidth; x++ {
			i := y*frame.DepthWidth + x

			mx, my := r.distort(float32(x), float32(y))
			ix, iy := int(mx+0.5), int(my+0.5)
			if ix < 0 || ix >= frame.DepthWidth || iy < 0 || iy >= frame.DepthHeight {
				r.distortMap[i] = -1
			} else {
				r.distortMap[i] = iy*frame.DepthWidth + ix
			}

			rx, ry := r.depthToColor(float32(x), float32(y))
			r.colorMapX[i] = rx
			r.colorMapYi[i] = int(ry + 0.5)
		}
	}
	return r, nil
}

func (r *Registration) IrParams() IrParams       { return r.ir }
func (r *Registration) ColorParams() ColorParams { return r.color }

func (r *Registration) distort(mx, my float32) (float32, float32) {
	p := r.ir
	dx := (mx - p.Cx) / p.Fx
	dy := (my - p.Cy) / p.Fy
	dx2, dy2 := dx*dx, dy*dy
	r2 := dx2 + dy2
	dxdy := dx * dy
	kr := 1 + ((p.K3*r2+p.K2)*r2+p.K1)*r2
	x := p.Fx*(dx*kr+p.P2*(r2+2*dx2)+2*p.P1*dxdy) + p.Cx
	y := p.Fy*(dy*kr+p.P1*(r2+2*dy2)+2*p.P2*dxdy) + p.Cy
	return x, y
}

func (r *Registration) depthToColor(mx, my float32) (float32, float32) {
	c := r.color
	mx = (mx - r.ir.Cx) * depthQ
	my = (my - r.ir.Cy) * depthQ

	wx := poly(c.Mx, mx, my)
	wy := poly(c.My, mx, my)

	rx := (wx / (c.Fx * colorQ)) - (c.ShiftM / c.ShiftD)
	ry := (wy / colorQ) + c.Cy
	return rx, ry
}

func poly(k [10]float32, x, y float32) float32 {
	return x*x*x*k[0] + y*y*y*k[1] +
		x*x*y*k[2] + y*y*x*k[3] +
		x*x*k[4] + y*y*k[5] + x*y*k[6] +
		x*k[7] + y*k[8] + k[9]
}

// Apply registers one color/depth pair into out. The color view must be
// the full color format and depth the raw depth format, out must come
// from frame.NewAlignedSet. Neither input is retained.
func (r *Registration) Apply(color, depth frame.View, out *frame.AlignedSet) error {
	if err := checkFormat(color, frame.ColorWidth, frame.ColorHeight); err != nil {
		return err
	}
	if err := checkFormat(depth, frame.DepthWidth, frame.DepthHeight); err != nil {
		return err
	}
	if out == nil {
		return xerror.Errorf("%w: nil aligned output", frame.ErrBufferSize)
	}
	if err := checkFormat(out.Undistorted, frame.DepthWidth, frame.DepthHeight); err != nil {
		return err
	}
	if err := checkFormat(out.Registered, frame.DepthWidth, frame.DepthHeight); err != nil {
		return err
	}
	if err := checkFormat(out.BigDepth, frame.ColorWidth, frame.BigDepthHeight); err != nil {
		return err
	}

	n := frame.DepthWidth * frame.DepthHeight
	colorOffsets := r.colorOffsets

	out.BigDepth.FillFloat32(float32(math.Inf(1)))
	// skip the top sentinel row so filter windows at cy-1 stay in bounds
	filter := out.BigDepth.Data[frame.ColorWidth*frame.BytesPerPixel:]
	colorPixels := frame.ColorWidth * frame.ColorHeight

	for i := 0; i < n; i++ {
		index := r.distortMap[i]
		if index < 0 {
			out.Undistorted.SetFloat32Index(i, 0)
			colorOffsets[i] = -1
			continue
		}

		z := depth.Float32(index)
		out.Undistorted.SetFloat32Index(i, z)
		if z <= 0 || math.IsNaN(float64(z)) {
			colorOffsets[i] = -1
			continue
		}

		rx := (r.colorMapX[i]+(r.color.ShiftM/z))*r.color.Fx + r.colorCx
		cx := int(rx)
		cy := r.colorMapYi[i]
		off := cx + cy*frame.ColorWidth
		if cx < 0 || cx >= frame.ColorWidth || off < 0 || off >= colorPixels {
			colorOffsets[i] = -1
			continue
		}
		colorOffsets[i] = off

		row := (cy-filterHeightHalf)*frame.ColorWidth + cx - filterWidthHalf
		for dy := -filterHeightHalf; dy <= filterHeightHalf; dy, row = dy+1, row+frame.ColorWidth {
			for dx := 0; dx <= 2*filterWidthHalf; dx++ {
				cell := row + dx
				if cell < -frame.ColorWidth || cell >= colorPixels+frame.ColorWidth {
					continue
				}
				o := (cell + frame.ColorWidth) * frame.BytesPerPixel
				if z < floatAt(out.BigDepth.Data, o) {
					putFloat(out.BigDepth.Data, o, z)
				}
			}
		}
	}

	for i := 0; i < n; i++ {
		dst := out.Registered.Data[i*frame.BytesPerPixel : (i+1)*frame.BytesPerPixel]
		off := colorOffsets[i]
		if off < 0 {
			clear(dst)
			continue
		}
		z := out.Undistorted.Float32(i)
		minZ := floatAt(filter, off*frame.BytesPerPixel)
		if (z-minZ)/z > filterTolerance {
			clear(dst)
			continue
		}
		copy(dst, color.Data[off*frame.BytesPerPixel:(off+1)*frame.BytesPerPixel])
	}
	return nil
}

func checkFormat(v frame.View, w, h int) error {
	if v.Width != w || v.Height != h || v.BytesPerPixel != frame.BytesPerPixel || len(v.Data) != w*h*frame.BytesPerPixel {
		return xerror.Errorf("%w: want %dx%dx%d, got %dx%dx%d (%d bytes)",
			frame.ErrBufferSize, w, h, frame.BytesPerPixel, v.Width, v.Height, v.BytesPerPixel, len(v.Data))
	}
	return nil
}
