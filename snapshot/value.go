package snapshot

import (
	"strconv"

	"github.com/transport-telemetry/simtelemetry/formatter"
	"github.com/transport-telemetry/simtelemetry/geometry"
)

// ToValue lowers the document into the generic tree the deterministic
// encoder understands. Field names here are the wire contract.
func (d *Document) ToValue() formatter.Value {
	out := formatter.Map{
		"schema_version": int64(d.SchemaVersion),
		"write_count":    d.WriteCount,
		"game_time":      nil,
		"stats":          statsValue(d.Stats),
		"vehicles":       vehiclesValue(d.Vehicles),
		"lines":          linesValue(d.Lines),
		"stations":       stationsValue(d.Stations),
		"paths":          pathsValue(d.Paths),
		"tracks":         tracksValue(d.Tracks),
		"signals":        signalsValue(d.Signals),
	}
	if d.GameTime != nil {
		out["game_time"] = *d.GameTime
	}
	return out
}

func statsValue(s Stats) formatter.Map {
	byKind := formatter.Map{}
	for kind, n := range s.VehiclesByKind {
		byKind[kind] = int64(n)
	}
	return formatter.Map{
		"vehicles":         int64(s.Vehicles),
		"passengers":       int64(s.Passengers),
		"lines":            int64(s.Lines),
		"stations":         int64(s.Stations),
		"vehicles_by_kind": byKind,
	}
}

func vehiclesValue(vehicles []Vehicle) []formatter.Value {
	out := make([]formatter.Value, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, formatter.Map{
			"id":             v.ID,
			"name":           v.Name,
			"kind":           v.Kind,
			"state":          v.State,
			"line_id":        v.LineID,
			"pos":            vec3Value(v.Pos),
			"speed":          v.Speed,
			"speed_kmh":      v.SpeedKMH,
			"passengers":     int64(v.Passengers),
			"capacity":       int64(v.Capacity),
			"cargo":          int64(v.Cargo),
			"cargo_capacity": int64(v.CargoCapacity),
			"last_stop_id":   v.LastStopID,
			"last_stop_name": v.LastStopName,
			"next_stop_id":   v.NextStopID,
			"next_stop_name": v.NextStopName,
			"raw_stop_index": int64(v.RawStopIndex),
		})
	}
	return out
}

func linesValue(lines []Line) []formatter.Value {
	out := make([]formatter.Value, 0, len(lines))
	for _, l := range lines {
		stops := make([]formatter.Value, 0, len(l.Stops))
		for _, s := range l.Stops {
			stops = append(stops, formatter.Map{
				"index":      int64(s.Index),
				"station_id": s.StationID,
				"source_id":  s.SourceID,
				"name":       s.Name,
			})
		}
		out = append(out, formatter.Map{
			"id":         l.ID,
			"name":       l.Name,
			"kind":       l.Kind,
			"stop_count": int64(len(l.Stops)),
			"stops":      stops,
		})
	}
	return out
}

func stationsValue(stations []Station) []formatter.Value {
	out := make([]formatter.Value, 0, len(stations))
	for _, s := range stations {
		out = append(out, formatter.Map{
			"id":       s.ID,
			"name":     s.Name,
			"pos":      vec3Value(s.Pos),
			"is_group": s.IsGroup,
		})
	}
	return out
}

func pathsValue(paths []Path) []formatter.Value {
	out := make([]formatter.Value, 0, len(paths))
	for _, p := range paths {
		out = append(out, formatter.Map{
			"line_id": p.LineID,
			"points":  polylineValue(p.Points),
		})
	}
	return out
}

func tracksValue(tracks []TrackEdge) []formatter.Value {
	out := make([]formatter.Value, 0, len(tracks))
	for _, e := range tracks {
		out = append(out, formatter.Map{
			"kind":   e.Kind,
			"points": polylineValue(e.Points),
		})
	}
	return out
}

func signalsValue(signals []Signal) []formatter.Value {
	out := make([]formatter.Value, 0, len(signals))
	for _, s := range signals {
		out = append(out, formatter.Map{
			"id":    s.ID,
			"pos":   vec3Value(s.Pos),
			"state": s.State,
		})
	}
	return out
}

func vec3Value(v geometry.Vec3) formatter.Map {
	return formatter.Map{"x": v.X, "y": v.Y, "z": v.Z}
}

func polylineValue(points []geometry.Vec2) []formatter.Value {
	out := make([]formatter.Value, 0, len(points))
	for _, p := range points {
		out = append(out, []formatter.Value{p.X, p.Y})
	}
	return out
}

// PlaceholderStationName synthesizes the name used when nothing better
// resolves. PlaceholderStopName is its per-stop counterpart.
func PlaceholderStationName(id int64) string {
	return "Station #" + strconv.FormatInt(id, 10)
}

// PlaceholderStopName synthesizes a stop display name from its raw
// source id.
func PlaceholderStopName(id int64) string {
	return "Stop #" + strconv.FormatInt(id, 10)
}

// PlaceholderLineName synthesizes a line display name.
func PlaceholderLineName(id int64) string {
	return "Line #" + strconv.FormatInt(id, 10)
}
