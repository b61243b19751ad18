package simulated

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/tauraamui/kinectone/pkg/frame"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const (
	wallDepth   = 3000
	objectDepth = 1200
	fontSize    = 64.0
)

// scene holds everything a sensor needs to produce frames. The color
// canvas is drawn into by the capture goroutine only.
type scene struct {
	title  string
	base   *image.RGBA
	canvas *image.RGBA
	face   font.Face
	ir     []byte
	depth  []byte
}

func renderScene(title string) (*scene, error) {
	ttf, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, xerror.Errorf("unable to parse overlay font: %w", err)
	}

	base := renderBaseCanvas(frame.ColorWidth, frame.ColorHeight)
	depth, ir := renderDepthScene(frame.DepthWidth, frame.DepthHeight)
	return &scene{
		title:  title,
		base:   base,
		canvas: image.NewRGBA(base.Bounds()),
		face: truetype.NewFace(ttf, &truetype.Options{
			Size:    fontSize,
			Hinting: font.HintingFull,
		}),
		ir:    ir.Data,
		depth: depth.Data,
	}, nil
}

// drawColor writes the base canvas overlaid with the sensor title and
// capture time into f as BGRX.
func (sc *scene) drawColor(f *frame.Frame, now time.Time) error {
	draw.Draw(sc.canvas, sc.canvas.Bounds(), sc.base, image.Point{}, draw.Src)

	sc.drawText(5, 90, "KINECTONE_SIMULATED_STREAM")
	sc.drawText(5, 220, sc.title)
	sc.drawText(5, 350, now.Format("2006-01-02 15:04:05.999999999"))

	if len(f.Data) != len(sc.canvas.Pix) {
		return xerror.Errorf("%w: color frame holds %d bytes, canvas %d",
			frame.ErrBufferSize, len(f.Data), len(sc.canvas.Pix))
	}
	for i := 0; i+3 < len(f.Data); i += 4 {
		f.Data[i] = sc.canvas.Pix[i+2]
		f.Data[i+1] = sc.canvas.Pix[i+1]
		f.Data[i+2] = sc.canvas.Pix[i]
		f.Data[i+3] = 0xff
	}
	return nil
}

func (sc *scene) drawText(x, y int, text string) {
	d := &font.Drawer{Dst: sc.canvas, Src: image.White, Face: sc.face}
	bounds, _ := d.BoundString(text)
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()
	d.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y-h)/2 + fixed.I(h)}
	d.DrawString(text)
}

// renderBaseCanvas paints three overlapping primary discs.
func renderBaseCanvas(w, h int) *image.RGBA {
	hw, hh := float64(w/2), float64(h/2)
	r := float64(h) / 2
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), float64(h) * 3 / 4}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), float64(h) * 3 / 4}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), float64(h) * 3 / 4}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, color.RGBA{
				cr.brightness(float64(x), float64(y)),
				cg.brightness(float64(x), float64(y)),
				cb.brightness(float64(x), float64(y)),
				255,
			})
		}
	}
	return img
}

// renderDepthScene builds a wall sloping away left to right with a
// disc standing in front of it. Depth is in millimetres, IR amplitude
// falls off with distance.
func renderDepthScene(w, h int) (depth, ir frame.View) {
	depth = frame.MakeView(w, h, frame.BytesPerPixel)
	ir = frame.MakeView(w, h, frame.BytesPerPixel)
	object := &circle{float64(w) / 2, float64(h) / 2, float64(h) / 4}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := float32(wallDepth + 2*x - y)
			if object.brightness(float64(x), float64(y)) > 0 {
				d = objectDepth
			}
			depth.SetFloat32(x, y, d)
			ir.SetFloat32(x, y, 65535*(1-d/frame.MaxDepth))
		}
	}
	return depth, ir
}

type circle struct {
	X, Y, R float64
}

func (c *circle) brightness(x, y float64) uint8 {
	dx, dy := c.X-x, c.Y-y
	if math.Sqrt(dx*dx+dy*dy)/c.R > 1 {
		return 0
	}
	return 255
}
