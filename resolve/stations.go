package resolve

import (
	"sort"

	"github.com/transport-telemetry/simtelemetry/geometry"
	"github.com/transport-telemetry/simtelemetry/host"
	"github.com/transport-telemetry/simtelemetry/snapshot"
)

// StationResolver owns the canonical station cache and the alias maps
// for one snapshot cycle. It is rebuilt from scratch every cycle; the
// only identity that survives is the numeric station id.
type StationResolver struct {
	acc *host.Accessor

	stations      map[int64]*snapshot.Station
	groupAlias    map[int64]int64
	terminalAlias map[int64]int64
	// discovered caches aliases found by chasing reference fields on
	// ids the prebuilt maps did not cover.
	discovered map[int64]int64
}

// NewStationResolver builds the station cache and alias maps by
// enumerating stations, station groups, and terminals.
func NewStationResolver(acc *host.Accessor) *StationResolver {
	r := &StationResolver{
		acc:           acc,
		stations:      map[int64]*snapshot.Station{},
		groupAlias:    map[int64]int64{},
		terminalAlias: map[int64]int64{},
		discovered:    map[int64]int64{},
	}
	r.build()
	return r
}

func (r *StationResolver) build() {
	for _, id := range r.acc.Enumerate(host.KindStation) {
		e, ok := r.acc.GetEntity(id)
		if !ok {
			continue
		}
		r.stations[id] = &snapshot.Station{
			ID:   id,
			Name: r.entityName(e),
			Pos:  entityPos(e),
		}
	}
	for _, id := range r.acc.Enumerate(host.KindStationGroup) {
		e, ok := r.acc.GetEntity(id)
		if !ok {
			continue
		}
		if target, ok := r.refToKnownStation(e); ok {
			r.groupAlias[id] = target
			continue
		}
		// A group with no resolvable member is its own canonical entry,
		// so downstream never sees an unresolvable id.
		r.stations[id] = &snapshot.Station{
			ID:      id,
			Name:    r.entityName(e),
			Pos:     entityPos(e),
			IsGroup: true,
		}
	}
	for _, id := range r.acc.Enumerate(host.KindTerminal) {
		e, ok := r.acc.GetEntity(id)
		if !ok {
			continue
		}
		if target, ok := r.refToKnownStation(e); ok {
			r.terminalAlias[id] = target
		}
	}
}

// refToKnownStation probes the fixed reference-field order on an entity
// for an id that is already a known station or alias target.
func (r *StationResolver) refToKnownStation(e *host.Entity) (int64, bool) {
	for _, field := range refFields {
		ref, ok := e.FieldID(field)
		if !ok {
			continue
		}
		if _, known := r.stations[ref]; known {
			return ref, true
		}
		if target, aliased := r.groupAlias[ref]; aliased {
			return target, true
		}
	}
	return 0, false
}

// ResolveToStationID maps any host identifier (station, group,
// terminal, or something undocumented) to a canonical station id.
// Unresolvable ids are returned as-is and act as their own
// pseudo-station, so callers never receive zero. Idempotent.
func (r *StationResolver) ResolveToStationID(id int64) int64 {
	if _, ok := r.stations[id]; ok {
		return id
	}
	if target, ok := r.groupAlias[id]; ok {
		return target
	}
	if target, ok := r.terminalAlias[id]; ok {
		return target
	}
	if target, ok := r.discovered[id]; ok {
		return target
	}
	var resolved int64
	walkRefs(r.acc, id, func(e *host.Entity) bool {
		if e.ID == id {
			return false
		}
		if mapped := r.knownTarget(e.ID); mapped != 0 {
			resolved = mapped
			return true
		}
		return false
	})
	if resolved != 0 {
		r.discovered[id] = resolved
		return resolved
	}
	return id
}

func (r *StationResolver) knownTarget(id int64) int64 {
	if _, ok := r.stations[id]; ok {
		return id
	}
	if target, ok := r.groupAlias[id]; ok {
		return target
	}
	if target, ok := r.terminalAlias[id]; ok {
		return target
	}
	return 0
}

// Lookup returns the cached station for a canonical id.
func (r *StationResolver) Lookup(id int64) (*snapshot.Station, bool) {
	s, ok := r.stations[id]
	return s, ok
}

// StationName resolves a display name for any id: cached station name,
// then deep search, then the synthesized placeholder.
func (r *StationResolver) StationName(id int64) string {
	canonical := r.ResolveToStationID(id)
	if s, ok := r.stations[canonical]; ok && !IsPlaceholderName(s.Name) {
		return s.Name
	}
	if name := searchName(r.acc, id); name != "" {
		return name
	}
	return snapshot.PlaceholderStationName(canonical)
}

// Stations returns the cache as a stable id-ordered slice.
func (r *StationResolver) Stations() []snapshot.Station {
	out := make([]snapshot.Station, 0, len(r.stations))
	for _, s := range r.stations {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *StationResolver) entityName(e *host.Entity) string {
	if s := explicitName(e); s != "" {
		return s
	}
	if s := searchName(r.acc, e.ID); s != "" {
		return s
	}
	return snapshot.PlaceholderStationName(e.ID)
}

func entityPos(e *host.Entity) geometry.Vec3 {
	return geometry.Vec3{
		X: e.FieldNumber("x"),
		Y: e.FieldNumber("y"),
		Z: e.FieldNumber("z"),
	}
}
