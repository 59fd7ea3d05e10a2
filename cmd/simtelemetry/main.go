package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/transport-telemetry/simtelemetry/archive"
	"github.com/transport-telemetry/simtelemetry/config"
	"github.com/transport-telemetry/simtelemetry/export"
	"github.com/transport-telemetry/simtelemetry/formatter"
	"github.com/transport-telemetry/simtelemetry/host"
	"github.com/transport-telemetry/simtelemetry/host/luahost"
	"github.com/transport-telemetry/simtelemetry/host/memhost"
	"github.com/transport-telemetry/simtelemetry/internal"
	"github.com/transport-telemetry/simtelemetry/pipeline"
)

func main() {
	configPath := flag.String("config", "", "config file path (overrides the default search list)")
	script := flag.String("script", "", "Lua world script to run as the host backend")
	mode := flag.String("mode", "oneshot", "oneshot|loop")
	out := flag.String("out", "", "output file path (overrides config)")
	flag.Parse()

	internal.InitLogging()

	var cfg config.AppConfig
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *out != "" {
		cfg.Writer.OutputPath = *out
	}
	var backend host.Backend
	if *script != "" {
		backend, err = luahost.LoadFile(*script)
		if err != nil {
			log.Fatalf("load world script %s: %v", *script, err)
		}
	} else {
		log.Print("no -script given, running the built-in demo world")
		backend = demoWorld()
	}

	sinks := []pipeline.Sink{pipeline.NewFileSink(cfg.Writer.OutputPath)}
	if cfg.Archive.Enabled {
		store, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			log.Fatalf("open archive: %v", err)
		}
		defer store.Close()
		sinks = append(sinks, store)
	}
	if cfg.Export.GTFSRTPath != "" {
		sinks = append(sinks, export.NewFeedSink(cfg.Export.GTFSRTPath))
	}

	o := pipeline.New(backend, cfg, sinks...)
	o.Init()

	switch *mode {
	case "oneshot":
		o.RunCycle()
	case "loop":
		runLoop(o, cfg.Writer.IntervalSeconds)
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

// demoWorld is a tiny fixed network for trying the binary without a
// running simulation: one line between two stations with a single tram
// on it.
func demoWorld() *memhost.Backend {
	b := memhost.New()
	b.HasClock = true
	b.Clock = 3600
	b.Add(&host.Entity{ID: 1, Kind: host.KindStation, Fields: formatter.Map{
		"name": "North Square", "x": 0.0, "y": 0.0, "z": 0.0,
	}})
	b.Add(&host.Entity{ID: 2, Kind: host.KindStation, Fields: formatter.Map{
		"name": "Harbor", "x": 800.0, "y": 150.0, "z": 0.0,
	}})
	b.Add(&host.Entity{ID: 10, Kind: host.KindLine, Fields: formatter.Map{
		"name": "Tram 1", "mode": "tram",
		"stops": []formatter.Value{int64(1), int64(2)},
	}})
	b.Add(&host.Entity{ID: 20, Kind: host.KindVehicle, Fields: formatter.Map{
		"name": "Tram 1-01", "carrier": "tram", "state": "moving",
		"line": int64(10), "stopIndex": 0.0,
		"x": 400.0, "y": 75.0, "z": 0.0,
		"speed": 11.1, "passengers": 23.0, "capacity": 60.0,
	}})
	return b
}

// runLoop drives the orchestrator from wall-clock time the way the
// host's update callback would, until interrupted.
func runLoop(o *pipeline.Orchestrator, intervalSeconds float64) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	tickEvery := time.Second
	if intervalSeconds > 0 && intervalSeconds < 1 {
		tickEvery = time.Duration(intervalSeconds * float64(time.Second))
	}
	ticker := time.NewTicker(tickEvery)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			o.HandleTick(now.Sub(last).Seconds())
			last = now
		case <-stop:
			log.Printf("shutting down after %d snapshots", o.WriteCount())
			return
		}
	}
}
