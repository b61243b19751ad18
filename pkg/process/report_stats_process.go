package process

import (
	"context"
	"time"

	"github.com/tauraamui/kinectone/pkg/kinect"
	"github.com/tauraamui/kinectone/pkg/log"
)

// ReportStatsProcess logs the pairing counters of a device every
// interval, along with how they moved since the previous report.
func ReportStatsProcess(serial string, stats func() kinect.Stats, interval time.Duration) func(context.Context) []chan interface{} {
	return func(ctx context.Context) []chan interface{} {
		stopping := make(chan interface{})
		go func() {
			defer close(stopping)
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			var last kinect.Stats
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					st := stats()
					log.Info(
						"Device [%s] published %d pairs (+%d), overwritten %d, rejected %d, failed %d",
						serial, st.Published, st.Published-last.Published, st.Overwritten, st.Rejected, st.Failed,
					)
					if st.Failed > last.Failed {
						log.Warn("Device [%s] failed to register %d pairs since last report", serial, st.Failed-last.Failed)
					}
					last = st
				}
			}
		}()
		return []chan interface{}{stopping}
	}
}
