package capture

import (
	"time"

	"github.com/tauraamui/kinectone/pkg/snapshot"
)

func OverloadNewWriter(overload func(string) snapshot.Writer) func() {
	newWriterRef := newWriter
	newWriter = overload
	return func() { newWriter = newWriterRef }
}

func OverloadStatsInterval(overload time.Duration) func() {
	statsIntervalRef := statsInterval
	statsInterval = overload
	return func() { statsInterval = statsIntervalRef }
}
