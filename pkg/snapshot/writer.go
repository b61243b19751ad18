package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tauraamui/kinectone/pkg/frame"
	"github.com/tauraamui/kinectone/pkg/log"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

const DATE_FORMAT = "2006-01-02"

var fs = afero.NewOsFs()

var imwrite = func(name string, mat gocv.Mat) bool {
	return gocv.IMWrite(name, mat)
}

// Record describes what a Write put on disk.
type Record struct {
	ColorPath   string
	DepthPath   string
	PreviewPath string
	Depth       frame.DepthStats
}

type Writer interface {
	Write(*Pair) (Record, error)
}

func NewWriter(root string) Writer {
	return &openCVWriter{root: root}
}

type openCVWriter struct {
	root string
}

// Write stores color as 8 bit BGR PNG, depth as 16 bit millimetre PNG
// and an 8 bit depth preview under <root>/<serial>/<date>/.
func (w *openCVWriter) Write(p *Pair) (Record, error) {
	var rec Record
	if len(p.Color.Data) == 0 && len(p.Depth.Data) == 0 {
		return rec, xerror.New("cannot write empty snapshot")
	}

	dir := filepath.Join(w.root, p.Serial, p.CapturedAt.Format(DATE_FORMAT))
	if err := ensureDirectoryPathExists(dir); err != nil {
		return rec, xerror.Errorf("unable to create snapshot directory %s: %w", dir, err)
	}

	if len(p.Color.Data) > 0 {
		path := filepath.Join(dir, fmt.Sprintf("%08d_color.png", p.Sequence))
		if err := writeColor(path, p.Color); err != nil {
			return rec, err
		}
		rec.ColorPath = path
	}

	if len(p.Depth.Data) > 0 {
		path := filepath.Join(dir, fmt.Sprintf("%08d_depth.png", p.Sequence))
		if err := writeDepth(path, p.Depth); err != nil {
			return rec, err
		}
		rec.DepthPath = path

		path = filepath.Join(dir, fmt.Sprintf("%08d_preview.png", p.Sequence))
		if err := writePreview(path, p.Depth); err != nil {
			return rec, err
		}
		rec.PreviewPath = path
		rec.Depth = frame.MeasureDepth(p.Depth)
	}

	log.Debug("Wrote snapshot #%d of device [%s] to %s", p.Sequence, p.Serial, dir)
	return rec, nil
}

func writeColor(path string, v frame.View) error {
	bgrx, err := gocv.NewMatFromBytes(v.Height, v.Width, gocv.MatTypeCV8UC4, v.Data)
	if err != nil {
		return xerror.Errorf("unable to wrap color frame: %w", err)
	}
	defer bgrx.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(bgrx, &bgr, gocv.ColorBGRAToBGR)

	if !imwrite(path, bgr) {
		return xerror.Errorf("unable to write color snapshot %s", path)
	}
	return nil
}

func writeDepth(path string, v frame.View) error {
	mat, err := gocv.NewMatFromBytes(v.Height, v.Width, gocv.MatTypeCV16UC1, millimetres(v))
	if err != nil {
		return xerror.Errorf("unable to wrap depth frame: %w", err)
	}
	defer mat.Close()

	if !imwrite(path, mat) {
		return xerror.Errorf("unable to write depth snapshot %s", path)
	}
	return nil
}

// writePreview stores depth as 8 bit grey scaled to the sensor's
// maximum range, for viewers that cannot show 16 bit images.
func writePreview(path string, v frame.View) error {
	gray := frame.DepthToGray(v, frame.MaxDepth)
	mat, err := gocv.NewMatFromBytes(v.Height, v.Width, gocv.MatTypeCV8UC1, gray.Pix)
	if err != nil {
		return xerror.Errorf("unable to wrap depth preview: %w", err)
	}
	defer mat.Close()

	if !imwrite(path, mat) {
		return xerror.Errorf("unable to write depth preview %s", path)
	}
	return nil
}

// millimetres packs depth as little endian uint16 samples, the layout
// OpenCV expects for CV_16UC1.
func millimetres(v frame.View) []byte {
	gray := frame.DepthToGray16(v)
	out := make([]byte, len(gray.Pix))
	for i := 0; i+1 < len(gray.Pix); i += 2 {
		out[i], out[i+1] = gray.Pix[i+1], gray.Pix[i]
	}
	return out
}

func ensureDirectoryPathExists(path string) error {
	err := fs.MkdirAll(path, os.ModePerm|os.ModeDir)
	if err == nil || os.IsExist(err) {
		return nil
	}
	return err
}
