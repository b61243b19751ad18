// Package freenect2 drives real Kinect v2 sensors through libfreenect2.
// Builds without the freenect2 tag register a driver that reports
// itself unsupported.
package freenect2

import (
	"github.com/tauraamui/kinectone/pkg/backend"
	"github.com/tauraamui/kinectone/pkg/driver"
)

const Name = "freenect2"

func init() {
	driver.Register(Name, open)
}

// pipeline numbers are shared with shim.h.
func pipeline(b backend.Backend) int {
	switch b {
	case backend.CPU:
		return 1
	case backend.OpenGL:
		return 2
	case backend.OpenCL:
		return 3
	case backend.CUDA:
		return 4
	default:
		return 0
	}
}
