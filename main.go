package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/banshee-data/gestured/internal/config"
	"github.com/banshee-data/gestured/internal/db"
	"github.com/banshee-data/gestured/internal/dispatch"
	"github.com/banshee-data/gestured/internal/evdev"
	"github.com/banshee-data/gestured/internal/gesture"
	"github.com/banshee-data/gestured/internal/units"
)

var (
	devMode    = flag.Bool("dev", false, "Replay fixtures.txt instead of reading a device")
	configPath = flag.String("config", "gesture.json", "Path to the configuration file")
	devicePath = flag.String("device", "", "Input device node (overrides the configured device)")
	record     = flag.Bool("record", true, "Record recognized gestures to the database")
	dbFile     = flag.String("db", "gesture_data.db", "Path to the gesture database")
	noActions  = flag.Bool("no-actions", false, "Recognize and record gestures without executing actions")
)

// openSource selects the event source: a fixture replay in dev mode,
// otherwise the configured or auto-detected device node.
func openSource(cfg *config.Config) (evdev.Source, units.Resolution, error) {
	if *devMode {
		data, err := os.ReadFile("fixtures.txt")
		if err != nil {
			return nil, units.Resolution{}, err
		}
		src, err := evdev.NewReplaySource(data)
		if err != nil {
			return nil, units.Resolution{}, err
		}
		log.Printf("Dev mode: replaying %d fixture events", src.Len())
		return src, units.DefaultResolution(), nil
	}

	path := *devicePath
	if path == "" {
		path = cfg.Device.GetPath()
	}
	if path == "" && cfg.Device.GetAutoDetect() {
		found, err := evdev.FindDevice(cfg.Device.GetNamePattern())
		if err != nil {
			return nil, units.Resolution{}, err
		}
		path = found
	}
	if path == "" {
		return nil, units.Resolution{}, errors.New("no input device configured; set device.path or enable auto_detect")
	}

	dev, err := evdev.Open(path)
	if err != nil {
		return nil, units.Resolution{}, err
	}
	if !dev.SupportsMultiTouch() {
		dev.Close()
		return nil, units.Resolution{}, errors.New(path + " does not report multi-touch axes")
	}
	log.Printf("Reading %s (%s)", path, dev.Name())
	return dev, dev.Resolution(), nil
}

func main() {
	flag.Parse()

	cfg, err := config.LoadOrCreate(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	src, resolution, err := openSource(cfg)
	if err != nil {
		log.Fatalf("Failed to open event source: %v", err)
	}
	defer src.Close()

	var database *db.DB
	var session string
	if *record {
		database, err = db.NewDB(*dbFile)
		if err != nil {
			log.Fatalf("Failed to open gesture database: %v", err)
		}
		defer database.Close()
		session = db.NewSessionID()
	}

	var dispatcher *dispatch.Dispatcher
	if !*noActions {
		dispatcher = dispatch.New(cfg.Actions, nil)
	}

	engine := gesture.NewEngine(gesture.ConfigFromTuning(&cfg.Gesture, resolution), nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events := make(chan gesture.Event, 64)
	var wg sync.WaitGroup

	// run the engine routine to pump the device into the event channel
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := engine.Run(ctx, src, events); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Engine stopped: %v", err)
		}
		stop()
	}()

	// consume recognized gestures: dispatch actions and record them
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range events {
			if !ev.Kind.IsGesture() {
				continue
			}
			log.Printf("Recognized %s", ev.Kind)
			if dispatcher != nil {
				dispatcher.Dispatch(ev)
			}
			if database != nil {
				if rec, ok := db.RecordFromEvent(session, ev); ok {
					if err := database.RecordGesture(rec); err != nil {
						log.Printf("Failed to record gesture: %v", err)
					}
				}
			}
		}
	}()

	wg.Wait()
}
