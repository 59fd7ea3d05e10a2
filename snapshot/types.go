package snapshot

import "github.com/transport-telemetry/simtelemetry/geometry"

// SchemaVersion increases whenever the document layout changes in a way
// consumers must know about.
const SchemaVersion = 3

// Station is a canonical stop location. Terminal and station-group ids
// from the host resolve onto these.
type Station struct {
	ID      int64
	Name    string
	Pos     geometry.Vec3
	IsGroup bool
}

// Stop is one entry of a line's resolved stop list. Index is 1-based in
// this representation no matter how the host counts.
type Stop struct {
	Index     int
	StationID int64
	SourceID  int64
	Name      string
}

// Line is a transport line with its ordered, resolved stops.
type Line struct {
	ID    int64
	Name  string
	Kind  string
	Stops []Stop
}

// Vehicle is one vehicle's kinematic and load state for a single cycle.
// Speed is in host units; SpeedKMH is derived once here so consumers
// never repeat the conversion.
type Vehicle struct {
	ID            int64
	Name          string
	Kind          string
	State         string
	LineID        int64
	Pos           geometry.Vec3
	Speed         float64
	SpeedKMH      float64
	Passengers    int
	Capacity      int
	Cargo         int
	CargoCapacity int
	LastStopID    int64
	LastStopName  string
	NextStopID    int64
	NextStopName  string
	RawStopIndex  int
}

// TrackEdge is one fine-grained piece of network geometry.
type TrackEdge struct {
	Points []geometry.Vec2
	Kind   string
}

// Signal is a signal's position and last known aspect.
type Signal struct {
	ID    int64
	Pos   geometry.Vec3
	State string
}

// Path is a line's coarse station-to-station route shape. It is not
// track routing; it just connects resolved stop positions.
type Path struct {
	LineID int64
	Points []geometry.Vec2
}

// Stats summarizes a document for consumers that only want counters.
type Stats struct {
	Vehicles       int
	Passengers     int
	Lines          int
	Stations       int
	VehiclesByKind map[string]int
}

// Document is one complete snapshot. All six collections are always
// non-nil, even when their stages failed; a missing top-level field is
// a contract violation downstream.
type Document struct {
	SchemaVersion int
	WriteCount    int64
	GameTime      *float64
	Stats         Stats
	Vehicles      []Vehicle
	Lines         []Line
	Stations      []Station
	Paths         []Path
	Tracks        []TrackEdge
	Signals       []Signal
}

// Empty returns a schema-valid document with empty collections, used
// as the fallback payload when a cycle fails outside stage boundaries.
func Empty(writeCount int64) *Document {
	return &Document{
		SchemaVersion: SchemaVersion,
		WriteCount:    writeCount,
		Stats:         Stats{VehiclesByKind: map[string]int{}},
		Vehicles:      []Vehicle{},
		Lines:         []Line{},
		Stations:      []Station{},
		Paths:         []Path{},
		Tracks:        []TrackEdge{},
		Signals:       []Signal{},
	}
}
