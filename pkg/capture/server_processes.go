package capture

import (
	"fmt"
	"sync"
	"time"

	"github.com/tauraamui/kinectone/pkg/process"
)

var statsInterval = 30 * time.Second

func (s *Server) SetupProcesses() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.device == nil {
		return
	}

	persist := process.Settings{
		WaitForShutdownMsg: fmt.Sprintf("Stopping writing snapshots of [%s] to disk...", s.serial),
		Process:            process.PersistSnapshotsProcess(s.pairs, newWriter(s.config.PersistLoc), s.recorder, s.pool),
	}
	report := process.Settings{
		WaitForShutdownMsg: fmt.Sprintf("Stopping stats reports of [%s]...", s.serial),
		Process:            process.ReportStatsProcess(s.serial, s.device.Stats, statsInterval),
	}
	s.processes = append(s.processes, process.New(persist).Setup(), process.New(report).Setup())
}

func (s *Server) RunProcesses() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, proc := range s.processes {
		proc.Start()
	}
}

func (s *Server) shutdownProcesses() {
	wg := sync.WaitGroup{}
	wg.Add(len(s.processes))
	for _, proc := range s.processes {
		go func(wg *sync.WaitGroup, proc process.Process) {
			proc.Stop()
			proc.Wait()
			wg.Done()
		}(&wg, proc)
	}
	wg.Wait()
}
