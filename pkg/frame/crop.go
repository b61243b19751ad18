package frame

import "github.com/tauraamui/xerror"

// CropBigDepth drops the first and last row of a big depth view.
// The result aliases the input, starting at byte offset one stride in
// and spanning exactly Height-2 rows.
func CropBigDepth(big View) (View, error) {
	if big.Height < 3 {
		return View{}, xerror.Errorf("%w: big depth needs at least 3 rows, got %d", ErrBufferSize, big.Height)
	}
	stride := big.Stride()
	rows := big.Height - 2
	if len(big.Data) < stride*big.Height {
		return View{}, xerror.Errorf("%w: big depth holds %d bytes, want %d", ErrBufferSize, len(big.Data), stride*big.Height)
	}
	return View{
		Width:         big.Width,
		Height:        rows,
		BytesPerPixel: big.BytesPerPixel,
		Data:          big.Data[stride : stride+stride*rows],
	}, nil
}

// CopyBytes copies exactly size bytes from src into dst.
func CopyBytes(src, dst []byte, size int) error {
	if size < 0 {
		return xerror.Errorf("%w: negative copy size %d", ErrBufferSize, size)
	}
	if len(src) < size || len(dst) < size {
		return xerror.Errorf("%w: copy of %d bytes from %d into %d", ErrBufferSize, size, len(src), len(dst))
	}
	copy(dst[:size], src[:size])
	return nil
}
