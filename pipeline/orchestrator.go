package pipeline

import (
	"fmt"
	"log"

	"github.com/transport-telemetry/simtelemetry/collect"
	"github.com/transport-telemetry/simtelemetry/config"
	"github.com/transport-telemetry/simtelemetry/formatter"
	"github.com/transport-telemetry/simtelemetry/geometry"
	"github.com/transport-telemetry/simtelemetry/host"
	"github.com/transport-telemetry/simtelemetry/resolve"
	"github.com/transport-telemetry/simtelemetry/snapshot"
)

// State names the orchestrator's position in a cycle, mostly for
// diagnostics and stage-failure log lines.
type State string

const (
	StateIdle               State = "idle"
	StateBuildingStations   State = "building_stations"
	StateResolvingLines     State = "resolving_lines"
	StateCollectingVehicles State = "collecting_vehicles"
	StateEnriching          State = "enriching"
	StateBuildingPaths      State = "building_paths"
	StateRefreshingCaches   State = "refreshing_caches"
	StateComputingStats     State = "computing_stats"
	StateSerializing        State = "serializing"
	StateWritten            State = "written"
	StateFallbackWritten    State = "fallback_written"
)

// Orchestrator drives complete snapshot cycles: every stage runs under
// an isolation boundary, the document always carries all collections,
// and something schema-valid is written even when a cycle blows up
// outside every stage. Single-threaded by contract with the host; the
// caches are the only state surviving between cycles.
type Orchestrator struct {
	acc    *host.Accessor
	cfg    config.AppConfig
	caches *CacheManager
	tick   *TickAccumulator
	sinks  []Sink

	initialized bool
	running     bool
	writeCount  int64
	state       State
}

// New wires an orchestrator over a host backend. Sinks receive every
// written document in order; the first is conventionally the primary
// file output.
func New(backend host.Backend, cfg config.AppConfig, sinks ...Sink) *Orchestrator {
	return &Orchestrator{
		acc:    host.NewAccessor(backend),
		cfg:    cfg,
		caches: NewCacheManager(cfg.Caches.TrackRefreshCycles, cfg.Caches.SignalRefreshCycles),
		tick:   NewTickAccumulator(cfg.Writer.IntervalSeconds),
		sinks:  sinks,
		state:  StateIdle,
	}
}

// Init marks the orchestrator ready. Hosts call entry points from
// several lifecycle hooks; only the first Init does anything.
func (o *Orchestrator) Init() bool {
	if o.initialized {
		return false
	}
	o.initialized = true
	log.Printf("telemetry core initialized (schema v%d, interval %.2fs)",
		snapshot.SchemaVersion, o.cfg.Writer.IntervalSeconds)
	return true
}

// State returns the last observed cycle state.
func (o *Orchestrator) State() State { return o.state }

// WriteCount returns the number of documents written so far.
func (o *Orchestrator) WriteCount() int64 { return o.writeCount }

// Caches exposes the cache manager for diagnostics.
func (o *Orchestrator) Caches() *CacheManager { return o.caches }

// HandleTick feeds a fractional time delta from the host's update
// callback and runs one cycle when the write interval is crossed.
func (o *Orchestrator) HandleTick(dt float64) {
	if !o.initialized {
		return
	}
	if o.tick.Advance(dt) {
		o.tick.Consume()
		o.RunCycle()
	}
}

// HandleEvent feeds a discrete host event (e.g. a vehicle arriving),
// nudging the accumulator instead of waiting for elapsed time.
func (o *Orchestrator) HandleEvent() {
	if !o.initialized {
		return
	}
	if o.tick.Nudge() {
		o.tick.Consume()
		o.RunCycle()
	}
}

// cycleData is the per-cycle working set, rebuilt from scratch each
// run. Stages communicate only through it; there is no hidden module
// state.
type cycleData struct {
	stations *resolve.StationResolver
	lines    []snapshot.Line
	doc      *snapshot.Document
}

// RunCycle executes one complete snapshot cycle. A cycle that started
// always ends with a written document: per-stage failures degrade that
// stage to its empty default, and anything escaping the stage
// boundaries produces the minimal fallback document instead.
func (o *Orchestrator) RunCycle() {
	if o.running {
		// a sink or host callback re-entered the pipeline
		return
	}
	o.running = true
	defer func() { o.running = false }()

	o.writeCount++
	defer func() {
		if r := recover(); r != nil {
			log.Printf("cycle failed outside stage boundaries: %v", r)
			o.writeFallback()
		}
	}()

	c := &cycleData{doc: snapshot.Empty(o.writeCount)}

	o.runStage(StateBuildingStations, func() error {
		c.stations = resolve.NewStationResolver(o.acc)
		c.doc.Stations = c.stations.Stations()
		return nil
	})
	o.runStage(StateResolvingLines, func() error {
		if c.stations == nil {
			return fmt.Errorf("no station cache")
		}
		c.lines = resolve.NewLineResolver(o.acc, c.stations).Resolve()
		c.doc.Lines = c.lines
		return nil
	})
	o.runStage(StateCollectingVehicles, func() error {
		collector := collect.NewVehicleCollector(o.acc, c.lines)
		c.doc.Vehicles = collector.Collect()
		collector.Warnings.LogAll(string(StateCollectingVehicles))
		return nil
	})
	o.runStage(StateEnriching, func() error {
		o.enrich(c)
		return nil
	})
	o.runStage(StateBuildingPaths, func() error {
		c.doc.Paths = o.buildPaths(c)
		return nil
	})
	o.runStage(StateRefreshingCaches, func() error {
		o.refreshCaches()
		c.doc.Tracks = o.caches.Tracks()
		c.doc.Signals = o.caches.Signals()
		return nil
	})
	o.runStage(StateComputingStats, func() error {
		c.doc.Stats = computeStats(c.doc)
		return nil
	})

	var encoded []byte
	o.runStage(StateSerializing, func() error {
		encoded = formatter.Encode(c.doc.ToValue())
		return nil
	})
	if encoded == nil {
		o.writeFallback()
		return
	}
	o.write(c.doc, encoded)
	o.state = StateWritten
	log.Printf("snapshot %d written: %d vehicles, %d lines, %d stations",
		o.writeCount, len(c.doc.Vehicles), len(c.doc.Lines), len(c.doc.Stations))
}

// runStage executes one stage under the isolation boundary. On error
// or panic the stage's output stays at its empty default and the
// pipeline continues.
func (o *Orchestrator) runStage(name State, fn func() error) {
	o.state = name
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return fn()
	}()
	if err != nil {
		log.Printf("stage %s failed, substituting empty output: %v", name, err)
	}
}

// enrich fills in cross-stage data: the host clock, and stop names the
// collector could not derive on its own.
func (o *Orchestrator) enrich(c *cycleData) {
	if t, ok := o.acc.GameTime(); ok {
		c.doc.GameTime = &t
	}
	if c.stations == nil {
		return
	}
	for i := range c.doc.Vehicles {
		v := &c.doc.Vehicles[i]
		if v.NextStopID != 0 && v.NextStopName == "" {
			v.NextStopName = c.stations.StationName(v.NextStopID)
		}
		if v.LastStopID != 0 && v.LastStopName == "" {
			v.LastStopName = c.stations.StationName(v.LastStopID)
		}
	}
}

// buildPaths connects each line's resolved stop positions into a
// coarse route polyline. Stops resolving to no cached station fall back
// to the source entity's own position; stops with no position at all
// are skipped, and a path needs at least two points to be worth
// emitting.
func (o *Orchestrator) buildPaths(c *cycleData) []snapshot.Path {
	if c.stations == nil {
		return []snapshot.Path{}
	}
	paths := make([]snapshot.Path, 0, len(c.lines))
	for _, line := range c.lines {
		points := make([]geometry.Vec2, 0, len(line.Stops))
		for _, stop := range line.Stops {
			if p, ok := o.stopPosition(c, stop); ok {
				points = append(points, p)
			}
		}
		if len(points) < 2 {
			continue
		}
		paths = append(paths, snapshot.Path{LineID: line.ID, Points: points})
	}
	return paths
}

func (o *Orchestrator) stopPosition(c *cycleData, stop snapshot.Stop) (geometry.Vec2, bool) {
	if s, ok := c.stations.Lookup(stop.StationID); ok {
		return s.Pos.XY(), true
	}
	if e, ok := o.acc.GetEntity(stop.SourceID); ok {
		pos := geometry.Vec2{X: e.FieldNumber("x"), Y: e.FieldNumber("y")}
		// entities with no position fields read as the origin; treat
		// that as absent rather than bending every path through (0,0)
		if pos != (geometry.Vec2{}) {
			return pos, true
		}
	}
	return geometry.Vec2{}, false
}

func (o *Orchestrator) refreshCaches() {
	o.caches.Advance(
		func() (tracks []snapshot.TrackEdge, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			scanner := collect.NewTrackScanner(o.acc, o.cfg.Geometry.ArcSteps, o.cfg.Geometry.SplineSteps)
			tracks = scanner.Scan()
			scanner.Warnings.LogAll(string(StateRefreshingCaches))
			return tracks, nil
		},
		func() (signals []snapshot.Signal, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			scanner := collect.NewSignalScanner(o.acc)
			signals = scanner.Scan()
			scanner.Warnings.LogAll(string(StateRefreshingCaches))
			return signals, nil
		},
	)
}

func computeStats(doc *snapshot.Document) snapshot.Stats {
	stats := snapshot.Stats{
		Vehicles:       len(doc.Vehicles),
		Lines:          len(doc.Lines),
		Stations:       len(doc.Stations),
		VehiclesByKind: map[string]int{},
	}
	for _, v := range doc.Vehicles {
		stats.Passengers += v.Passengers
		kind := v.Kind
		if kind == "" {
			kind = "unknown"
		}
		stats.VehiclesByKind[kind]++
	}
	return stats
}

// writeFallback emits the minimal schema-valid document so downstream
// consumers never see a payload gap.
func (o *Orchestrator) writeFallback() {
	doc := snapshot.Empty(o.writeCount)
	o.write(doc, formatter.Encode(doc.ToValue()))
	o.state = StateFallbackWritten
	log.Printf("snapshot %d written as fallback with empty collections", o.writeCount)
}

func (o *Orchestrator) write(doc *snapshot.Document, encoded []byte) {
	for _, sink := range o.sinks {
		if err := sink.Write(doc, encoded); err != nil {
			log.Printf("sink %T failed: %v", sink, err)
		}
	}
}
