package main

/*
#include "kinectone.h"
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/tauraamui/kinectone/pkg/frame"
	"github.com/tauraamui/kinectone/pkg/kinect"
)

//export kinectone_context_create
func kinectone_context_create() C.uintptr_t {
	h, err := newContext()
	if err != nil {
		status(err)
		return 0
	}
	return C.uintptr_t(h)
}

//export kinectone_context_destroy
func kinectone_context_destroy(ctx C.uintptr_t) {
	status(destroyContext(cgo.Handle(ctx)))
}

//export kinectone_context_get_device_count
func kinectone_context_get_device_count(ctx C.uintptr_t) C.int {
	return C.int(deviceCount(cgo.Handle(ctx)))
}

//export kinectone_device_create
func kinectone_device_create(ctx C.uintptr_t, id, b C.int) C.uintptr_t {
	h, err := newDevice(cgo.Handle(ctx), int(id), int(b))
	if err != nil {
		status(err)
		return 0
	}
	return C.uintptr_t(h)
}

//export kinectone_device_destroy
func kinectone_device_destroy(dev C.uintptr_t) {
	status(destroyDevice(cgo.Handle(dev)))
}

//export kinectone_device_start
func kinectone_device_start(dev C.uintptr_t) C.int {
	return C.int(status(withDevice(cgo.Handle(dev), (*kinect.Device).Start)))
}

//export kinectone_device_stop
func kinectone_device_stop(dev C.uintptr_t) C.int {
	return C.int(status(withDevice(cgo.Handle(dev), (*kinect.Device).Stop)))
}

//export kinectone_device_set_frame_callback
func kinectone_device_set_frame_callback(dev C.uintptr_t, cb C.kinectone_frame_callback, user unsafe.Pointer) C.int {
	var o kinect.Observer
	if cb != nil {
		o = &callback{fn: cb, user: user}
	}
	return C.int(status(withDevice(cgo.Handle(dev), func(d *kinect.Device) error {
		return d.SetFrameCallback(o)
	})))
}

//export kinectone_device_set_color_buffer
func kinectone_device_set_color_buffer(dev C.uintptr_t, buf unsafe.Pointer, size C.size_t) C.int {
	return C.int(status(withDevice(cgo.Handle(dev), func(d *kinect.Device) error {
		return d.SetColorBuffer(foreign(buf, size))
	})))
}

//export kinectone_device_set_depth_buffer
func kinectone_device_set_depth_buffer(dev C.uintptr_t, buf unsafe.Pointer, size C.size_t) C.int {
	return C.int(status(withDevice(cgo.Handle(dev), func(d *kinect.Device) error {
		return d.SetDepthBuffer(foreign(buf, size))
	})))
}

//export kinectone_copy_bytes
func kinectone_copy_bytes(src, dst unsafe.Pointer, size C.size_t) C.int {
	if src == nil || dst == nil {
		return -1
	}
	return C.int(status(frame.CopyBytes(foreign(src, size), foreign(dst, size), int(size))))
}

// foreign views caller owned memory as a byte slice. NULL unregisters.
func foreign(p unsafe.Pointer, size C.size_t) []byte {
	if p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), int(size))
}

type callback struct {
	fn   C.kinectone_frame_callback
	user unsafe.Pointer
}

func (c *callback) OnFrames(f kinect.Frames) {
	C.kinectone_invoke(c.fn, c.user, C.uint64_t(f.Sequence),
		(*C.uint8_t)(unsafe.Pointer(firstByte(f.Color))),
		(*C.uint8_t)(unsafe.Pointer(firstByte(f.Depth))),
		(*C.uint8_t)(unsafe.Pointer(firstByte(f.BigDepth))),
	)
}
