//go:build freenect2

package freenect2

/*
#cgo CXXFLAGS: -std=c++11
#cgo pkg-config: freenect2
#cgo LDFLAGS: -lstdc++
#include <stdlib.h>
#include "shim.h"
*/
import "C"

import (
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/tauraamui/kinectone/pkg/backend"
	"github.com/tauraamui/kinectone/pkg/driver"
	"github.com/tauraamui/kinectone/pkg/frame"
	"github.com/tauraamui/kinectone/pkg/log"
	"github.com/tauraamui/kinectone/pkg/registration"
	"github.com/tauraamui/xerror"
)

type freenect2Driver struct {
	mu  sync.Mutex
	ctx *C.kn_ctx
}

func open() (driver.Driver, error) {
	ctx := C.kn_context_new()
	if ctx == nil {
		return nil, xerror.New("unable to create libfreenect2 context")
	}
	return &freenect2Driver{ctx: ctx}, nil
}

func (d *freenect2Driver) EnumerateDevices() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx == nil {
		return 0
	}
	return int(C.kn_enumerate(d.ctx))
}

func (d *freenect2Driver) OpenDevice(id int, b backend.Backend) (driver.Sensor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx == nil {
		return nil, xerror.Errorf("%w: driver closed", driver.ErrNoDevice)
	}

	s := &sensor{}
	s.handle = cgo.NewHandle(s)
	dev := C.kn_open(d.ctx, C.int(id), C.int(pipeline(b)), C.uintptr_t(s.handle))
	if dev == nil {
		s.handle.Delete()
		return nil, xerror.Errorf("%w: libfreenect2 could not open device %d", driver.ErrNoDevice, id)
	}
	s.dev = dev
	s.serial = takeString(C.kn_serial(dev))
	s.firmware = takeString(C.kn_firmware(dev))
	return s, nil
}

func (d *freenect2Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx != nil {
		C.kn_context_free(d.ctx)
		d.ctx = nil
	}
	return nil
}

type sensor struct {
	dev      *C.kn_dev
	handle   cgo.Handle
	serial   string
	firmware string

	mu            sync.Mutex
	colorListener driver.FrameListener
	depthListener driver.FrameListener
}

func (s *sensor) SetColorFrameListener(l driver.FrameListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colorListener = l
}

func (s *sensor) SetIrAndDepthFrameListener(l driver.FrameListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depthListener = l
}

func (s *sensor) listenerFor(t frame.Type) driver.FrameListener {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t == frame.Color {
		return s.colorListener
	}
	return s.depthListener
}

func (s *sensor) Start() error {
	if C.kn_start(s.dev) != 0 {
		return xerror.Errorf("libfreenect2 failed to start device [%s]", s.serial)
	}
	return nil
}

func (s *sensor) Stop() error {
	if C.kn_stop(s.dev) != 0 {
		return xerror.Errorf("libfreenect2 failed to stop device [%s]", s.serial)
	}
	return nil
}

func (s *sensor) Close() error {
	if s.dev == nil {
		return nil
	}
	rc := C.kn_close(s.dev)
	s.dev = nil
	s.handle.Delete()
	if rc != 0 {
		return xerror.Errorf("libfreenect2 failed to close device [%s]", s.serial)
	}
	return nil
}

func (s *sensor) Serial() string   { return s.serial }
func (s *sensor) Firmware() string { return s.firmware }

func (s *sensor) IrCameraParams() registration.IrParams {
	var p C.kn_ir_params
	C.kn_ir_camera_params(s.dev, &p)
	return registration.IrParams{
		Fx: float32(p.fx), Fy: float32(p.fy),
		Cx: float32(p.cx), Cy: float32(p.cy),
		K1: float32(p.k1), K2: float32(p.k2), K3: float32(p.k3),
		P1: float32(p.p1), P2: float32(p.p2),
	}
}

func (s *sensor) ColorCameraParams() registration.ColorParams {
	var p C.kn_color_params
	C.kn_color_camera_params(s.dev, &p)
	out := registration.ColorParams{
		Fx: float32(p.fx), Fy: float32(p.fy),
		Cx: float32(p.cx), Cy: float32(p.cy),
		ShiftD: float32(p.shift_d), ShiftM: float32(p.shift_m),
	}
	for i := range out.Mx {
		out.Mx[i] = float32(p.mx[i])
		out.My[i] = float32(p.my[i])
	}
	return out
}

func takeString(cs *C.char) string {
	if cs == nil {
		return ""
	}
	defer C.free(unsafe.Pointer(cs))
	return C.GoString(cs)
}

// dispatch wraps the native frame without copying. A frame the listener
// takes is deleted on the C++ side once released.
func dispatch(h cgo.Handle, t frame.Type, w, hgt, bpp int, data unsafe.Pointer, ts, seq uint32, native unsafe.Pointer) bool {
	s, ok := h.Value().(*sensor)
	if !ok {
		return false
	}
	l := s.listenerFor(t)
	if l == nil {
		return false
	}

	f := &frame.Frame{
		Type: t, Width: w, Height: hgt, BytesPerPixel: bpp,
		Data:      unsafe.Slice((*byte)(data), w*hgt*bpp),
		Timestamp: ts,
		Sequence:  seq,
	}
	f.OnRelease(func(*frame.Frame) { C.kn_frame_free(native) })

	taken := l.OnNewFrame(t, f)
	if !taken {
		log.Debug("Listener left %s frame #%d with device [%s]", t, seq, s.serial)
	}
	return taken
}
