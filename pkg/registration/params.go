// Package registration maps depth sensor samples into the color
// camera's pixel grid and undistorts the depth image on the way.
package registration

// IrParams are the depth (IR) camera intrinsics, including
// Brown-Conrady radial and tangential distortion terms.
type IrParams struct {
	Fx, Fy float32
	Cx, Cy float32
	K1     float32
	K2     float32
	K3     float32
	P1     float32
	P2     float32
}

// ColorParams describe the color camera together with the factory
// polynomial that maps depth camera rays into color space.
//
// Mx and My hold third order coefficients ordered
// x3y0, x0y3, x2y1, x1y2, x2y0, x0y2, x1y1, x1y0, x0y1, x0y0.
type ColorParams struct {
	Fx, Fy float32
	Cx, Cy float32

	ShiftD float32
	ShiftM float32

	Mx [10]float32
	My [10]float32
}

// DefaultIrParams returns intrinsics typical of a factory
// calibrated Kinect v2.
func DefaultIrParams() IrParams {
	return IrParams{
		Fx: 365.456, Fy: 365.456,
		Cx: 254.878, Cy: 205.395,
		K1: 0.0905474, K2: -0.26819, K3: 0.0950862,
	}
}

func DefaultColorParams() ColorParams {
	return ColorParams{
		Fx: 1081.37, Fy: 1081.37,
		Cx: 959.5, Cy: 539.5,
		ShiftD: 863, ShiftM: 52,
		Mx: [10]float32{
			1.62694e-08, 4.21227e-09, 4.78353e-09, 1.34451e-08,
			1.11856e-05, -5.10193e-06, 0.00133218, 0.641358, 0.00062651, 0.14462,
		},
		My: [10]float32{
			-4.69722e-09, 1.6425e-08, 1.69939e-08, 6.5498e-09,
			7.78212e-06, -1.03339e-05, -0.000194738, 0.00062426, 0.641218, 0.0123938,
		},
	}
}
