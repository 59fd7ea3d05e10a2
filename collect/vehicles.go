package collect

import (
	"math"
	"sort"
	"strconv"

	"github.com/transport-telemetry/simtelemetry/geometry"
	"github.com/transport-telemetry/simtelemetry/host"
	"github.com/transport-telemetry/simtelemetry/snapshot"
)

// speedToKMH converts host speed units to km/h.
const speedToKMH = 3.6

// Candidate field orders for vehicle extraction. Hosts moved these
// between versions; first present field wins.
var (
	vehicleKindFields  = []string{"carrier", "vehicleKind", "mode"}
	vehicleStateFields = []string{"state", "status"}
	vehicleLineFields  = []string{"line", "lineId"}
	vehicleIndexFields = []string{"stopIndex", "stop_index", "currentStop"}
)

// VehicleCollector extracts per-vehicle kinematics and load and derives
// next/last stops against the resolved lines.
type VehicleCollector struct {
	acc      *host.Accessor
	lines    map[int64]*snapshot.Line
	Warnings *WarningAggregator
}

// NewVehicleCollector indexes the resolved lines for stop derivation.
func NewVehicleCollector(acc *host.Accessor, lines []snapshot.Line) *VehicleCollector {
	idx := make(map[int64]*snapshot.Line, len(lines))
	for i := range lines {
		idx[lines[i].ID] = &lines[i]
	}
	return &VehicleCollector{acc: acc, lines: idx, Warnings: NewWarningAggregator()}
}

// Collect extracts all vehicles, id-ordered. Missing fields default to
// zero values; nothing here fails the stage.
func (c *VehicleCollector) Collect() []snapshot.Vehicle {
	ids := c.acc.Enumerate(host.KindVehicle)
	out := make([]snapshot.Vehicle, 0, len(ids))
	for _, id := range ids {
		e, ok := c.acc.GetEntity(id)
		if !ok {
			c.Warnings.Add(WarningEntityLookupFailed, id)
			continue
		}
		out = append(out, c.collectOne(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *VehicleCollector) collectOne(e *host.Entity) snapshot.Vehicle {
	v := snapshot.Vehicle{
		ID:            e.ID,
		Name:          vehicleName(e),
		Kind:          firstString(e, vehicleKindFields),
		State:         firstString(e, vehicleStateFields),
		Pos:           entityPos(e),
		Speed:         e.FieldNumber("speed"),
		Passengers:    int(e.FieldNumber("passengers")),
		Capacity:      int(e.FieldNumber("capacity")),
		Cargo:         int(e.FieldNumber("cargo")),
		CargoCapacity: int(e.FieldNumber("cargoCapacity")),
	}
	v.SpeedKMH = math.Round(v.Speed*speedToKMH*10) / 10
	if v.Pos == (geometry.Vec3{}) {
		c.Warnings.Add(WarningVehicleNoPosition, e.ID)
	}

	lineID, _ := firstID(e, vehicleLineFields)
	v.LineID = lineID
	v.RawStopIndex = int(firstNumber(e, vehicleIndexFields))

	line := c.lines[lineID]
	if line == nil {
		c.Warnings.Add(WarningVehicleNoLine, e.ID)
		return v
	}
	c.deriveStops(&v, line)
	return v
}

// deriveStops maps the host's 0-based stop index onto the 1-based
// resolved stop list. The index names the stop the vehicle is at or has
// just departed; the following stop wraps around the end of the loop.
func (c *VehicleCollector) deriveStops(v *snapshot.Vehicle, line *snapshot.Line) {
	count := len(line.Stops)
	if count == 0 {
		return
	}
	raw := v.RawStopIndex
	if raw < 0 || raw >= count {
		c.Warnings.Add(WarningVehicleBadIndex, v.ID)
		raw = ((raw % count) + count) % count
	}
	next := (raw+1)%count + 1
	last := next - 1
	if last < 1 {
		last = count
	}
	if s := stopAt(line, next); s != nil {
		v.NextStopID = s.StationID
		v.NextStopName = s.Name
	}
	if s := stopAt(line, last); s != nil {
		v.LastStopID = s.StationID
		v.LastStopName = s.Name
	}
}

// stopAt fetches the stop with 1-based index i, nil when out of range.
func stopAt(line *snapshot.Line, i int) *snapshot.Stop {
	if i < 1 || i > len(line.Stops) {
		return nil
	}
	return &line.Stops[i-1]
}

func vehicleName(e *host.Entity) string {
	if s := e.FieldString("name"); s != "" {
		return s
	}
	return "Vehicle #" + strconv.FormatInt(e.ID, 10)
}

func firstString(e *host.Entity, fields []string) string {
	for _, f := range fields {
		if s := e.FieldString(f); s != "" {
			return s
		}
	}
	return ""
}

func firstNumber(e *host.Entity, fields []string) float64 {
	for _, f := range fields {
		if _, ok := e.Fields[f]; ok {
			return e.FieldNumber(f)
		}
	}
	return 0
}

func firstID(e *host.Entity, fields []string) (int64, bool) {
	for _, f := range fields {
		if id, ok := e.FieldID(f); ok {
			return id, true
		}
	}
	return 0, false
}

func entityPos(e *host.Entity) geometry.Vec3 {
	return geometry.Vec3{
		X: e.FieldNumber("x"),
		Y: e.FieldNumber("y"),
		Z: e.FieldNumber("z"),
	}
}
