package kinect

func (l *FrameListener) Pending() (color, depth bool) {
	return l.pending()
}

// Bound reports whether an observer or any output buffer is still
// installed on the listener.
func (l *FrameListener) Bound() bool {
	bound := false
	l.state.do(func(p *pairing) {
		bound = p.observer != nil || p.sink.color != nil || p.sink.depth != nil
	})
	return bound
}
