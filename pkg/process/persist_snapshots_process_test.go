package process_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/tauraamui/kinectone/pkg/database/models"
	"github.com/tauraamui/kinectone/pkg/frame"
	"github.com/tauraamui/kinectone/pkg/log"
	"github.com/tauraamui/kinectone/pkg/process"
	"github.com/tauraamui/kinectone/pkg/snapshot"
)

type mockWriter struct {
	written  []*snapshot.Pair
	writeErr error
}

func (m *mockWriter) Write(p *snapshot.Pair) (snapshot.Record, error) {
	m.written = append(m.written, p)
	if m.writeErr != nil {
		return snapshot.Record{}, m.writeErr
	}
	return snapshot.Record{
		ColorPath: fmt.Sprintf("/testroot/%08d_color.png", p.Sequence),
		DepthPath: fmt.Sprintf("/testroot/%08d_depth.png", p.Sequence),
		Depth:     frame.DepthStats{Coverage: 0.5, Mean: 1500, Min: 1000, Max: 2000},
	}, nil
}

type mockRecorder struct {
	created   []models.Snapshot
	createErr error
}

func (m *mockRecorder) Create(s *models.Snapshot) error {
	m.created = append(m.created, *s)
	return m.createErr
}

func runPersist(pairs []*snapshot.Pair, writer snapshot.Writer, recorder process.Recorder) {
	queue := make(chan *snapshot.Pair)
	proc := process.New(process.Settings{
		Process: process.PersistSnapshotsProcess(queue, writer, recorder, snapshot.NewPool()),
	})
	proc.Start()
	for _, p := range pairs {
		queue <- p
	}
	proc.Stop()
	proc.Wait()
}

func testPairs() []*snapshot.Pair {
	at := time.Date(2021, 3, 11, 9, 0, 0, 0, time.UTC)
	return []*snapshot.Pair{
		{Serial: "011054343347", Backend: "cpu", Sequence: 1, CapturedAt: at},
		{Serial: "011054343347", Backend: "cpu", Sequence: 2, CapturedAt: at},
	}
}

func TestPersistSnapshotsWritesAndRecords(t *testing.T) {
	is := is.New(t)
	defer log.Silence()()

	pairs := testPairs()
	writer := mockWriter{}
	recorder := mockRecorder{}
	runPersist(pairs, &writer, &recorder)

	is.Equal(writer.written, pairs)
	is.Equal(len(recorder.created), 2)
	is.Equal(recorder.created[1], models.Snapshot{
		Serial:     "011054343347",
		Sequence:   2,
		Backend:    "cpu",
		ColorPath:  "/testroot/00000002_color.png",
		DepthPath:  "/testroot/00000002_depth.png",
		Coverage:   0.5,
		MeanDepth:  1500,
		MinDepth:   1000,
		MaxDepth:   2000,
		CapturedAt: pairs[1].CapturedAt,
	})
}

func TestPersistSnapshotsWithoutRecorder(t *testing.T) {
	is := is.New(t)
	defer log.Silence()()

	writer := mockWriter{}
	runPersist(testPairs(), &writer, nil)
	is.Equal(len(writer.written), 2)
}

func TestPersistSnapshotsSkipsRecordOnWriteFailure(t *testing.T) {
	is := is.New(t)

	errorLogs := []string{}
	defer overloadErrorLog(func(format string, a ...interface{}) {
		errorLogs = append(errorLogs, fmt.Sprintf(format, a...))
	})()

	writer := mockWriter{writeErr: errors.New("disk full")}
	recorder := mockRecorder{}
	runPersist(testPairs()[:1], &writer, &recorder)

	is.Equal(len(recorder.created), 0)
	is.Equal(errorLogs, []string{"Unable to write snapshot #1 of device [011054343347]: disk full"})
}

func TestPersistSnapshotsLogsRecordFailure(t *testing.T) {
	is := is.New(t)

	errorLogs := []string{}
	defer overloadErrorLog(func(format string, a ...interface{}) {
		errorLogs = append(errorLogs, fmt.Sprintf(format, a...))
	})()

	writer := mockWriter{}
	recorder := mockRecorder{createErr: errors.New("database is locked")}
	runPersist(testPairs()[:1], &writer, &recorder)

	is.Equal(len(recorder.created), 1)
	is.Equal(errorLogs, []string{"Unable to record snapshot #1 of device [011054343347]: database is locked"})
}
