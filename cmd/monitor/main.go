package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fako1024/btsonicare"
	"gopkg.in/yaml.v3"
)

type cli struct {
	Addr    string        `short:"a" help:"Address of the toothbrush handle (MAC on Linux); first resolved handle if empty."`
	Config  string        `short:"c" help:"Path to a YAML cadence config file." type:"existingfile" optional:""`
	Timeout time.Duration `help:"Per-poll connection timeout." default:"30s"`
	Debug   bool          `short:"d" help:"Enable debug logging."`
}

// cadenceFile holds the optional on-disk overrides for the poll cadence
type cadenceFile struct {
	BrushingIntervalSeconds      int `yaml:"brushing_interval_seconds"`
	IdleIntervalSeconds          int `yaml:"idle_interval_seconds"`
	RecentBrushingTimeoutSeconds int `yaml:"recent_brushing_timeout_seconds"`
}

func main() {

	var flags cli
	kong.Parse(&flags,
		kong.Name("monitor"),
		kong.Description("Track a Sonicare toothbrush handle and print reading snapshots."),
	)

	logger := btsonicare.NewDefaultLogger(flags.Debug)

	cadence, err := loadCadenceConfig(flags.Config)
	if err != nil {
		logger.Fatalf("failed to load cadence config: %s", err)
	}

	// Scanning starts as soon as the transport is up, so the handler may fire
	// before the tracker exists
	var (
		mu sync.Mutex
		s  *btsonicare.Sonicare
	)

	transport, err := btsonicare.NewGATTTransport(
		btsonicare.WithGATTLogger(logger),
		btsonicare.WithAdvertisementHandler(func(address string, manufacturerData map[uint16][]byte) {
			if flags.Addr != "" && address != flags.Addr {
				return
			}
			mu.Lock()
			tracker := s
			mu.Unlock()
			if tracker != nil && tracker.HandleAdvertisement(manufacturerData, address) {
				logger.Debugf("observed advertisement from `%s`", address)
			}
		}),
	)
	if err != nil {
		logger.Fatalf("failed to initialize GATT transport: %s", err)
	}

	tracker, err := btsonicare.New(
		btsonicare.WithAddress(flags.Addr),
		btsonicare.WithTransport(transport),
		btsonicare.WithCadenceConfig(cadence),
		btsonicare.WithLogger(logger),
	)
	if err != nil {
		logger.Fatalf("failed to initialize Sonicare tracker: %s", err)
	}

	mu.Lock()
	s = tracker
	mu.Unlock()

	sigChan := make(chan os.Signal, 32)
	signal.Notify(sigChan, syscall.SIGTERM)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		logger.Infof("got signal, terminating connection to device")
		if err := s.Close(); err != nil {
			logger.Errorf("failed to close device: %s", err)
		}
		if err := transport.Stop(); err != nil {
			logger.Errorf("failed to stop transport: %s", err)
		}
		os.Exit(0)
	}()

	var lastPoll time.Time
	for {
		time.Sleep(1 * time.Second)

		if s.Address() == "" || !s.PollDue(lastPoll, time.Now()) {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), flags.Timeout)
		snapshot, err := s.Poll(ctx)
		cancel()
		lastPoll = time.Now()

		if err != nil {
			logger.Errorf("error polling device: %s", err)
			continue
		}

		logger.Infof("got snapshot: %s", snapshot)
	}
}

// loadCadenceConfig returns the default cadence, overridden by any values set
// in the YAML file at path (if provided)
func loadCadenceConfig(path string) (btsonicare.CadenceConfig, error) {

	cadence := btsonicare.DefaultCadenceConfig()
	if path == "" {
		return cadence, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cadence, fmt.Errorf("failed to read config file: %w", err)
	}

	var file cadenceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cadence, fmt.Errorf("failed to parse config file: %w", err)
	}

	if file.BrushingIntervalSeconds > 0 {
		cadence.BrushingInterval = time.Duration(file.BrushingIntervalSeconds) * time.Second
	}
	if file.IdleIntervalSeconds > 0 {
		cadence.IdleInterval = time.Duration(file.IdleIntervalSeconds) * time.Second
	}
	if file.RecentBrushingTimeoutSeconds > 0 {
		cadence.RecentBrushingTimeout = time.Duration(file.RecentBrushingTimeoutSeconds) * time.Second
	}

	return cadence, nil
}
