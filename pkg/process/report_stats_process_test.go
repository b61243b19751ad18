package process_test

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/tauraamui/kinectone/pkg/kinect"
	"github.com/tauraamui/kinectone/pkg/process"
)

func TestReportStatsLogsCounters(t *testing.T) {
	is := is.New(t)

	reports := make(chan string, 16)
	defer overloadInfoLog(func(format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		if strings.HasPrefix(msg, "Device") {
			select {
			case reports <- msg:
			default:
			}
		}
	})()

	var published uint64
	stats := func() kinect.Stats {
		return kinect.Stats{Published: atomic.AddUint64(&published, 10), Overwritten: 3}
	}

	proc := process.New(process.Settings{
		Process: process.ReportStatsProcess("FAKE0001", stats, time.Millisecond),
	})
	proc.Start()

	first := <-reports
	second := <-reports
	proc.Stop()
	proc.Wait()

	is.Equal(first, "Device [FAKE0001] published 10 pairs (+10), overwritten 3, rejected 0, failed 0")
	is.Equal(second, "Device [FAKE0001] published 20 pairs (+10), overwritten 3, rejected 0, failed 0")
}
