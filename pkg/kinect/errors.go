package kinect

import "github.com/tauraamui/xerror"

var (
	ErrDeviceUnavailable = xerror.New("device unavailable")
	ErrAlreadyStarted    = xerror.New("device already started")
	ErrDeviceClosed      = xerror.New("device closed")
	ErrContextClosed     = xerror.New("context closed")
)
