package snapshot

import (
	"github.com/spf13/afero"
	"gocv.io/x/gocv"
)

func OverloadFS(overload afero.Fs) func() {
	fsRef := fs
	fs = overload
	return func() { fs = fsRef }
}

func OverloadIMWrite(overload func(string, gocv.Mat) bool) func() {
	imwriteRef := imwrite
	imwrite = overload
	return func() { imwrite = imwriteRef }
}

var Millimetres = millimetres
