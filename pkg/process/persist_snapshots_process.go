package process

import (
	"context"

	"github.com/tauraamui/kinectone/pkg/database/models"
	"github.com/tauraamui/kinectone/pkg/log"
	"github.com/tauraamui/kinectone/pkg/snapshot"
)

// Recorder stores the metadata of a written snapshot.
type Recorder interface {
	Create(*models.Snapshot) error
}

// PersistSnapshotsProcess writes every pair received to disk, records
// it when recorder is not nil, and hands the pair back to pool.
func PersistSnapshotsProcess(
	pairs <-chan *snapshot.Pair, writer snapshot.Writer, recorder Recorder, pool *snapshot.Pool,
) func(context.Context) []chan interface{} {
	return func(ctx context.Context) []chan interface{} {
		stopping := make(chan interface{})
		go func() {
			defer close(stopping)
			for {
				select {
				case <-ctx.Done():
					return
				case pair := <-pairs:
					persist(pair, writer, recorder)
					pool.Put(pair)
				}
			}
		}()
		return []chan interface{}{stopping}
	}
}

func persist(pair *snapshot.Pair, writer snapshot.Writer, recorder Recorder) {
	rec, err := writer.Write(pair)
	if err != nil {
		log.Error("Unable to write snapshot #%d of device [%s]: %v", pair.Sequence, pair.Serial, err)
		return
	}

	if recorder == nil {
		return
	}

	err = recorder.Create(&models.Snapshot{
		Serial:     pair.Serial,
		Sequence:   pair.Sequence,
		Backend:    pair.Backend,
		ColorPath:  rec.ColorPath,
		DepthPath:  rec.DepthPath,
		Coverage:   rec.Depth.Coverage,
		MeanDepth:  rec.Depth.Mean,
		MinDepth:   rec.Depth.Min,
		MaxDepth:   rec.Depth.Max,
		CapturedAt: pair.CapturedAt,
	})
	if err != nil {
		log.Error("Unable to record snapshot #%d of device [%s]: %v", pair.Sequence, pair.Serial, err)
	}
}
