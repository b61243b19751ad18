package snapshot_test

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tauraamui/kinectone/pkg/frame"
	"github.com/tauraamui/kinectone/pkg/log"
	"github.com/tauraamui/kinectone/pkg/snapshot"
	"gocv.io/x/gocv"
)

type written struct {
	path     string
	rows     int
	cols     int
	channels int
	matType  gocv.MatType
}

type WriterTestSuite struct {
	suite.Suite
	fs      afero.Fs
	written []written
	succeed bool
	resets  []func()
}

func (suite *WriterTestSuite) SetupTest() {
	suite.fs = afero.NewMemMapFs()
	suite.written = nil
	suite.succeed = true
	suite.resets = []func(){
		log.Silence(),
		snapshot.OverloadFS(suite.fs),
		snapshot.OverloadIMWrite(func(name string, mat gocv.Mat) bool {
			suite.written = append(suite.written, written{
				path: name, rows: mat.Rows(), cols: mat.Cols(),
				channels: mat.Channels(), matType: mat.Type(),
			})
			return suite.succeed
		}),
	}
}

func (suite *WriterTestSuite) TearDownTest() {
	for _, reset := range suite.resets {
		reset()
	}
}

func TestWriterTestSuite(t *testing.T) {
	suite.Run(t, &WriterTestSuite{})
}

func testPair() *snapshot.Pair {
	depth := frame.MakeView(4, 2, frame.BytesPerPixel)
	depth.FillFloat32(1500)
	return &snapshot.Pair{
		Serial:     "011054343347",
		Sequence:   12,
		CapturedAt: time.Date(2021, 3, 11, 9, 0, 0, 0, time.UTC),
		Color:      filledView(4, 2, 0x40),
		Depth:      depth,
	}
}

func (suite *WriterTestSuite) TestWriteColorAndDepth() {
	rec, err := snapshot.NewWriter("/testroot/snapshots").Write(testPair())
	require.NoError(suite.T(), err)

	dir := "/testroot/snapshots/011054343347/2021-03-11"
	exists, err := afero.DirExists(suite.fs, dir)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), exists)

	assert.Equal(suite.T(), dir+"/00000012_color.png", rec.ColorPath)
	assert.Equal(suite.T(), dir+"/00000012_depth.png", rec.DepthPath)
	assert.Equal(suite.T(), []written{
		{path: rec.ColorPath, rows: 2, cols: 4, channels: 3, matType: gocv.MatTypeCV8UC3},
		{path: rec.DepthPath, rows: 2, cols: 4, channels: 1, matType: gocv.MatTypeCV16UC1},
		{path: rec.PreviewPath, rows: 2, cols: 4, channels: 1, matType: gocv.MatTypeCV8UC1},
	}, suite.written)
	assert.Equal(suite.T(), dir+"/00000012_preview.png", rec.PreviewPath)

	assert.Equal(suite.T(), 8, rec.Depth.Valid)
	assert.Equal(suite.T(), 1500.0, rec.Depth.Mean)
}

func (suite *WriterTestSuite) TestWriteColorOnly() {
	p := testPair()
	p.Depth = frame.View{}

	rec, err := snapshot.NewWriter("/testroot").Write(p)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), rec.DepthPath)
	assert.Empty(suite.T(), rec.PreviewPath)
	assert.Len(suite.T(), suite.written, 1)
}

func (suite *WriterTestSuite) TestWriteEmptyPairFails() {
	_, err := snapshot.NewWriter("/testroot").Write(&snapshot.Pair{})
	assert.EqualError(suite.T(), err, "cannot write empty snapshot")
	assert.Empty(suite.T(), suite.written)
}

func (suite *WriterTestSuite) TestWriteReportsEncoderFailure() {
	suite.succeed = false

	_, err := snapshot.NewWriter("/testroot").Write(testPair())
	assert.EqualError(suite.T(), err,
		"unable to write color snapshot /testroot/011054343347/2021-03-11/00000012_color.png")
}

func (suite *WriterTestSuite) TestMillimetresAreLittleEndian() {
	v := frame.MakeView(2, 1, frame.BytesPerPixel)
	v.SetFloat32(0, 0, 1234)
	v.SetFloat32(1, 0, 70000)

	mm := snapshot.Millimetres(v)
	assert.Equal(suite.T(), uint16(1234), binary.LittleEndian.Uint16(mm[0:]))
	assert.Equal(suite.T(), uint16(0xffff), binary.LittleEndian.Uint16(mm[2:]))
}
