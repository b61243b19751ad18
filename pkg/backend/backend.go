package backend

import (
	"fmt"
	"strings"
)

// Backend selects the depth processing implementation the driver runs
// for one device. It is chosen once at open time and never changes.
type Backend int

const (
	Default Backend = iota
	CPU
	OpenGL
	OpenCL
	CUDA
)

var names = map[Backend]string{
	Default: "default",
	CPU:     "cpu",
	OpenGL:  "opengl",
	OpenCL:  "opencl",
	CUDA:    "cuda",
}

func (b Backend) String() string {
	if n, ok := names[b]; ok {
		return n
	}
	return fmt.Sprintf("backend(%d)", int(b))
}

// IsAccelerated reports whether the backend runs on a GPU.
func (b Backend) IsAccelerated() bool {
	switch b {
	case OpenGL, OpenCL, CUDA:
		return true
	default:
		return false
	}
}

// FromInt maps the integer enumerant used across the C boundary.
// Anything unrecognised defers to the driver default.
func FromInt(v int) Backend {
	b := Backend(v)
	if _, ok := names[b]; ok {
		return b
	}
	return Default
}

// Resolve maps a configuration value onto a backend, falling back
// to Default for empty or unknown names.
func Resolve(t string) Backend {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "cpu":
		return CPU
	case "opengl", "gl":
		return OpenGL
	case "opencl", "cl":
		return OpenCL
	case "cuda":
		return CUDA
	default:
		return Default
	}
}
