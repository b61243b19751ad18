package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/tacusci/logging/v2"
	"github.com/takama/daemon"
	"github.com/tauraamui/kinectone/pkg/capture"
	"github.com/tauraamui/kinectone/pkg/config"
	"github.com/tauraamui/kinectone/pkg/configdef"
	db "github.com/tauraamui/kinectone/pkg/database"
	"github.com/tauraamui/kinectone/pkg/database/repos"
	"github.com/tauraamui/kinectone/pkg/driver"
	_ "github.com/tauraamui/kinectone/pkg/driver/freenect2"
	"github.com/tauraamui/kinectone/pkg/driver/simulated"
	"github.com/tauraamui/kinectone/pkg/log"
	"github.com/tauraamui/kinectone/pkg/process"
)

const (
	name        = "kinectone"
	description = "Kinect v2 capture daemon which saves aligned color and depth snapshots to disk"

	recentSnapshots = 10
)

type Service struct {
	daemon.Daemon
}

// Setup creates the default config and the snapshot database.
func (service *Service) Setup() (string, error) {
	log.Info("Setting up kinectone service...")

	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	err = db.Setup()
	if err != nil {
		if !errors.Is(err, db.ErrDBAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	return "Setup successful...", nil
}

func (service *Service) RemoveSetup() (string, error) {
	log.Info("Removing setup for kinectone service...")
	if err := db.Destroy(); err != nil {
		log.Error("unable to delete database file: %s", err.Error())
	}

	if err := config.DefaultDestroyer().Destroy(); err != nil {
		log.Error("unable to delete config file: %s", err.Error())
	}

	return "Removing setup successful...", nil
}

// Devices reports how many sensors the configured driver can see.
func (service *Service) Devices() (string, error) {
	values, err := config.DefaultResolver().Resolve()
	if err != nil {
		return "", err
	}

	drv, err := driver.Open(values.Driver)
	if err != nil {
		return "", err
	}
	defer drv.Close()

	return fmt.Sprintf("%d device(s) connected to [%s] driver", drv.EnumerateDevices(), values.Driver), nil
}

// Snapshots lists the most recent recorded snapshots of a device.
func (service *Service) Snapshots(serial string) (string, error) {
	conn, err := db.Connect()
	if err != nil {
		return "", err
	}

	repo := repos.SnapshotRepository{DB: conn}
	snapshots, err := repo.ListBySerial(serial, recentSnapshots)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d recent snapshot(s) of device [%s]", len(snapshots), serial)
	for _, s := range snapshots {
		fmt.Fprintf(&b, "\n#%d %s %s coverage %.2f mean %.0fmm", s.Sequence,
			s.CapturedAt.Format(time.RFC3339), s.ColorPath, s.Coverage, s.MeanDepth)
	}
	return b.String(), nil
}

func (service *Service) Manage() (string, error) {
	usage := "Usage: kinectone setup | remove-setup | devices | snapshots <serial> | install | remove | start | stop | status"

	if len(os.Args) > 1 {
		command := os.Args[1]
		switch command {
		case "setup":
			return service.Setup()
		case "remove-setup":
			return service.RemoveSetup()
		case "devices":
			return service.Devices()
		case "snapshots":
			if len(os.Args) < 3 {
				return usage, nil
			}
			return service.Snapshots(os.Args[2])
		case "install":
			return service.Install()
		case "remove":
			return service.Remove()
		case "start":
			return service.Start()
		case "stop":
			return service.Stop()
		case "status":
			return service.Status()
		default:
			return usage, nil
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	log.Info("Starting kinectone daemon...")

	resolver := config.DefaultResolver()
	values, err := resolver.Resolve()
	if err != nil {
		log.Fatal(err.Error())
	}
	if values.Driver == simulated.Name {
		simulated.Register(simulated.WithFPS(values.FPS))
	}

	server, err := capture.NewServer(resolver, connectRecorder())
	if err != nil {
		log.Fatal(err.Error())
	}

	ctx, cancelStartup := context.WithCancel(context.Background())
	go startupServer(ctx, server)

	killSignal := <-interrupt
	fmt.Print("\r")
	log.Error("Received signal: %s", killSignal)

	cancelStartup()
	log.Info("Shutting down server...")
	<-server.Shutdown()

	if dropped := server.Dropped(); dropped > 0 {
		log.Warn("Dropped %d snapshots while the writer was busy", dropped)
	}

	return "Shutdown successful... BYE! 👋", nil
}

// connectRecorder opens the snapshot database. Without it snapshots
// are still written to disk, just not recorded.
func connectRecorder() process.Recorder {
	conn, err := db.Connect()
	if err != nil {
		log.Warn("Snapshots will not be recorded: %v", err)
		return nil
	}
	return &repos.SnapshotRepository{DB: conn}
}

func startupServer(ctx context.Context, server *capture.Server) {
	connectToDevice(ctx, server)
	server.SetupProcesses()
	server.RunProcesses()
}

func connectToDevice(ctx context.Context, server *capture.Server) {
	errs := server.ConnectWithCancel(ctx)
	for _, err := range errs {
		log.Error(err.Error())
	}
}

func init() {
	log.SetLevel(os.Getenv("KINECTONE_LOGGING_LEVEL"))
}

func main() {
	daemonType := daemon.SystemDaemon
	if runtime.GOOS == "darwin" {
		daemonType = daemon.UserAgent
	}

	srv, err := daemon.New(name, description, daemonType)
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	service := &Service{srv}
	status, err := service.Manage()
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	logging.Info(status) //nolint
}
