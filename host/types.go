package host

import (
	"errors"

	"github.com/transport-telemetry/simtelemetry/formatter"
	"github.com/transport-telemetry/simtelemetry/geometry"
)

// ErrUnsupported marks a capability the running host version does not
// provide. Callers degrade instead of failing.
var ErrUnsupported = errors.New("host capability unsupported")

// EntityKind selects an enumerable class of simulation objects.
type EntityKind string

const (
	KindVehicle      EntityKind = "vehicle"
	KindLine         EntityKind = "line"
	KindStation      EntityKind = "station"
	KindStationGroup EntityKind = "station_group"
	KindTerminal     EntityKind = "terminal"
	KindTrackEdge    EntityKind = "track_edge"
	KindSignal       EntityKind = "signal"
)

// ComponentKind selects a typed facet fetched separately from the
// entity's main record.
type ComponentKind string

const (
	ComponentCurve       ComponentKind = "curve"
	ComponentSignalState ComponentKind = "signal_state"
)

// SignalState is a signal's reported aspect. Hosts that expose no
// readable state report SignalUnknown.
type SignalState string

const (
	SignalProceed SignalState = "proceed"
	SignalStop    SignalState = "stop"
	SignalUnknown SignalState = "unknown"
)

// Bounds is an axis-aligned region used by EnumerateRegion.
type Bounds struct {
	Min geometry.Vec2
	Max geometry.Vec2
}

// Entity is one object out of the host's graph. Fields carries the raw
// record as reported; the set of field names present varies by host
// version and entity kind, so readers go through the typed helpers.
type Entity struct {
	ID     int64
	Kind   EntityKind
	Fields formatter.Map
}

// FieldString returns a string field, or "" when absent or mistyped.
func (e *Entity) FieldString(name string) string {
	if e == nil || e.Fields == nil {
		return ""
	}
	s, _ := e.Fields[name].(string)
	return s
}

// FieldNumber returns a numeric field, or 0 when absent or mistyped.
func (e *Entity) FieldNumber(name string) float64 {
	if e == nil || e.Fields == nil {
		return 0
	}
	switch v := e.Fields[name].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// FieldID returns an entity-reference field. The second result is false
// when the field is absent or not a usable id.
func (e *Entity) FieldID(name string) (int64, bool) {
	if e == nil || e.Fields == nil {
		return 0, false
	}
	switch v := e.Fields[name].(type) {
	case int64:
		return v, v > 0
	case int:
		return int64(v), v > 0
	case float64:
		id := int64(v)
		return id, id > 0 && float64(id) == v
	}
	return 0, false
}

// FieldSeq returns a sequence-valued field as a slice, tolerating both
// native slices and dense integer-keyed maps.
func (e *Entity) FieldSeq(name string) []formatter.Value {
	if e == nil || e.Fields == nil {
		return nil
	}
	switch v := e.Fields[name].(type) {
	case []formatter.Value:
		return v
	case formatter.Map:
		if seq, ok := formatter.SequenceValues(v); ok {
			return seq
		}
	}
	return nil
}

// Component is a typed facet of an entity. Only the fields matching
// Kind are populated.
type Component struct {
	Kind ComponentKind

	// ComponentCurve
	Curve     *geometry.CurveParams
	TrackKind string

	// ComponentSignalState
	Signal   SignalState
	Position *geometry.Vec3
}

// Backend is the raw host contract. Implementations may return
// ErrUnsupported from any method, may fail transiently, and may panic;
// the Accessor contains all of that.
type Backend interface {
	GetEntity(id int64) (*Entity, error)
	Enumerate(kind EntityKind) ([]int64, error)
	GetComponent(id int64, kind ComponentKind) (*Component, error)
	EnumerateRegion(bounds Bounds, kind EntityKind) ([]int64, error)
	GameTime() (float64, error)
}
