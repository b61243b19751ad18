package kinect

import (
	"github.com/tauraamui/kinectone/pkg/frame"
	"github.com/tauraamui/kinectone/pkg/registration"
)

// Transform is the registration step run once per pair.
type Transform interface {
	Apply(color, depth frame.View, out *frame.AlignedSet) error
}

// TransformFactory builds a Transform from live camera parameters. It
// runs once per Device.Start, after the sensor has started streaming.
type TransformFactory func(registration.IrParams, registration.ColorParams) (Transform, error)

func newRegistrationTransform(ir registration.IrParams, color registration.ColorParams) (Transform, error) {
	reg, err := registration.New(ir, color)
	if err != nil {
		return nil, err
	}
	return reg, nil
}
