//go:build freenect2

package freenect2

/*
#include "shim.h"
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/tauraamui/kinectone/pkg/frame"
)

//export goOnNewFrame
func goOnNewFrame(handle C.uintptr_t, typ C.int, width, height, bpp C.size_t, data *C.uchar, timestamp, sequence C.uint32_t, native unsafe.Pointer) C.int {
	taken := dispatch(cgo.Handle(handle), frame.Type(typ), int(width), int(height), int(bpp),
		unsafe.Pointer(data), uint32(timestamp), uint32(sequence), native)
	if taken {
		return 1
	}
	return 0
}
