package resolve

import (
	"sort"

	"github.com/transport-telemetry/simtelemetry/formatter"
	"github.com/transport-telemetry/simtelemetry/host"
	"github.com/transport-telemetry/simtelemetry/snapshot"
)

// LineResolver turns raw line entities into resolved lines. Stop order
// is preserved exactly as the host reports it; indices are rebased to
// 1 regardless of the host's own counting.
type LineResolver struct {
	acc      *host.Accessor
	stations *StationResolver
}

// NewLineResolver creates a resolver over an already-built station
// cache.
func NewLineResolver(acc *host.Accessor, stations *StationResolver) *LineResolver {
	return &LineResolver{acc: acc, stations: stations}
}

// Resolve builds all lines, id-ordered.
func (r *LineResolver) Resolve() []snapshot.Line {
	ids := r.acc.Enumerate(host.KindLine)
	lines := make([]snapshot.Line, 0, len(ids))
	for _, id := range ids {
		e, ok := r.acc.GetEntity(id)
		if !ok {
			continue
		}
		lines = append(lines, r.resolveLine(e))
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	return lines
}

func (r *LineResolver) resolveLine(e *host.Entity) snapshot.Line {
	name := explicitName(e)
	if name == "" {
		name = snapshot.PlaceholderLineName(e.ID)
	}
	rawStops := e.FieldSeq("stops")
	stops := make([]snapshot.Stop, 0, len(rawStops))
	for _, raw := range rawStops {
		sourceID, ok := refID(raw)
		if !ok {
			continue
		}
		stops = append(stops, snapshot.Stop{
			Index:     len(stops) + 1,
			StationID: r.stations.ResolveToStationID(sourceID),
			SourceID:  sourceID,
			Name:      r.stopName(sourceID),
		})
	}
	return snapshot.Line{
		ID:    e.ID,
		Name:  name,
		Kind:  lineKind(e),
		Stops: stops,
	}
}

// lineKindFields is probed in order; hosts disagree on where the
// carrier mode lives.
var lineKindFields = []string{"vehicleKind", "mode", "carrier"}

func lineKind(e *host.Entity) string {
	for _, field := range lineKindFields {
		if s := e.FieldString(field); s != "" {
			return s
		}
	}
	return ""
}

// stopName resolves a display name for one stop reference: explicit
// name on the referenced entity, then the station cache, then the deep
// search, then the synthesized placeholder.
func (r *LineResolver) stopName(sourceID int64) string {
	if e, ok := r.acc.GetEntity(sourceID); ok {
		if s := explicitName(e); s != "" {
			return s
		}
	}
	canonical := r.stations.ResolveToStationID(sourceID)
	if s, ok := r.stations.Lookup(canonical); ok && !IsPlaceholderName(s.Name) {
		return s.Name
	}
	if s := searchName(r.acc, sourceID); s != "" {
		return s
	}
	return snapshot.PlaceholderStopName(sourceID)
}

func refID(v formatter.Value) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, t > 0
	case int:
		return int64(t), t > 0
	case float64:
		id := int64(t)
		return id, id > 0 && float64(id) == t
	case formatter.Map:
		// some host versions wrap stop references in a record
		for _, field := range refFields {
			if raw, ok := t[field]; ok {
				if id, ok := refID(raw); ok {
					return id, true
				}
			}
		}
	}
	return 0, false
}
