package resolve

import (
	"testing"

	"github.com/transport-telemetry/simtelemetry/formatter"
	"github.com/transport-telemetry/simtelemetry/host"
	"github.com/transport-telemetry/simtelemetry/host/memhost"
)

func newResolver(t *testing.T, b *memhost.Backend) *StationResolver {
	t.Helper()
	return NewStationResolver(host.NewAccessor(b))
}

func TestResolveKnownStation(t *testing.T) {
	b := memhost.New()
	b.Add(&host.Entity{ID: 1, Kind: host.KindStation, Fields: formatter.Map{"name": "Central"}})
	r := newResolver(t, b)

	if got := r.ResolveToStationID(1); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	s, ok := r.Lookup(1)
	if !ok || s.Name != "Central" {
		t.Errorf("unexpected station: %+v", s)
	}
}

func TestResolveGroupAndTerminalAliases(t *testing.T) {
	b := memhost.New()
	b.Add(&host.Entity{ID: 1, Kind: host.KindStation, Fields: formatter.Map{"name": "Central"}})
	b.Add(&host.Entity{ID: 10, Kind: host.KindStationGroup, Fields: formatter.Map{"station": int64(1)}})
	b.Add(&host.Entity{ID: 20, Kind: host.KindTerminal, Fields: formatter.Map{"station": int64(1)}})
	r := newResolver(t, b)

	if got := r.ResolveToStationID(10); got != 1 {
		t.Errorf("group should alias to 1, got %d", got)
	}
	if got := r.ResolveToStationID(20); got != 1 {
		t.Errorf("terminal should alias to 1, got %d", got)
	}
}

func TestResolveChasesReferenceChain(t *testing.T) {
	// An id of unknown kind referencing a terminal referencing a
	// station must resolve through the chain, and the discovered alias
	// must be cached.
	b := memhost.New()
	b.Add(&host.Entity{ID: 1, Kind: host.KindStation, Fields: formatter.Map{"name": "Central"}})
	b.Add(&host.Entity{ID: 20, Kind: host.KindTerminal, Fields: formatter.Map{"station": int64(1)}})
	b.Add(&host.Entity{ID: 99, Kind: "mystery", Fields: formatter.Map{"terminal": int64(20)}})
	r := newResolver(t, b)

	if got := r.ResolveToStationID(99); got != 1 {
		t.Errorf("expected chain to resolve to 1, got %d", got)
	}
	if got := r.ResolveToStationID(99); got != 1 {
		t.Errorf("cached alias changed the result: %d", got)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	b := memhost.New()
	b.Add(&host.Entity{ID: 1, Kind: host.KindStation, Fields: formatter.Map{"name": "Central"}})
	b.Add(&host.Entity{ID: 20, Kind: host.KindTerminal, Fields: formatter.Map{"station": int64(1)}})
	r := newResolver(t, b)

	for _, id := range []int64{1, 20, 777} {
		once := r.ResolveToStationID(id)
		twice := r.ResolveToStationID(once)
		if once != twice {
			t.Errorf("id %d: resolve(resolve(id))=%d but resolve(id)=%d", id, twice, once)
		}
	}
}

func TestResolveUnknownReturnsOriginal(t *testing.T) {
	b := memhost.New()
	r := newResolver(t, b)
	if got := r.ResolveToStationID(777); got != 777 {
		t.Errorf("unresolvable id must return itself, got %d", got)
	}
}

func TestResolveTerminatesOnCyclicGraph(t *testing.T) {
	b := memhost.New()
	b.Add(&host.Entity{ID: 50, Kind: "mystery", Fields: formatter.Map{"parent": int64(51)}})
	b.Add(&host.Entity{ID: 51, Kind: "mystery", Fields: formatter.Map{"parent": int64(50)}})
	r := newResolver(t, b)

	// Must terminate and yield the original id.
	if got := r.ResolveToStationID(50); got != 50 {
		t.Errorf("cyclic graph should leave id unresolved, got %d", got)
	}
}

func TestGroupWithoutStationBecomesPseudoStation(t *testing.T) {
	b := memhost.New()
	b.Add(&host.Entity{ID: 30, Kind: host.KindStationGroup, Fields: formatter.Map{"name": "Harbor Group"}})
	r := newResolver(t, b)

	s, ok := r.Lookup(30)
	if !ok {
		t.Fatal("memberless group should become its own station")
	}
	if !s.IsGroup {
		t.Error("expected IsGroup to be set")
	}
	if s.Name != "Harbor Group" {
		t.Errorf("expected Harbor Group, got %q", s.Name)
	}
}

func TestStationNamePrefersRealNameOverPlaceholder(t *testing.T) {
	b := memhost.New()
	// Station carries a stale auto-generated label; its parent carries
	// the real name. The placeholder must never win.
	b.Add(&host.Entity{ID: 2, Kind: host.KindStation, Fields: formatter.Map{
		"name":   "Station #2",
		"parent": int64(3),
	}})
	b.Add(&host.Entity{ID: 3, Kind: "mystery", Fields: formatter.Map{"label": "Westbahnhof"}})
	r := newResolver(t, b)

	s, _ := r.Lookup(2)
	if s.Name != "Westbahnhof" {
		t.Errorf("expected deep-searched name Westbahnhof, got %q", s.Name)
	}
}

func TestStationNameSynthesizesPlaceholder(t *testing.T) {
	b := memhost.New()
	b.Add(&host.Entity{ID: 5, Kind: host.KindStation, Fields: formatter.Map{"name": "   "}})
	r := newResolver(t, b)

	s, _ := r.Lookup(5)
	if s.Name != "Station #5" {
		t.Errorf("expected synthesized placeholder, got %q", s.Name)
	}
	if got := r.StationName(404); got != "Station #404" {
		t.Errorf("expected Station #404, got %q", got)
	}
}

func TestIsPlaceholderName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		placeholder bool
	}{
		{name: "empty", input: "", placeholder: true},
		{name: "whitespace", input: "  \t ", placeholder: true},
		{name: "stop label", input: "Stop #7", placeholder: true},
		{name: "station label", input: "Station #3", placeholder: true},
		{name: "padded label", input: "  Station #12  ", placeholder: true},
		{name: "real name", input: "Central", placeholder: false},
		{name: "name containing hash", input: "Depot #1 North", placeholder: false},
		{name: "label-like prefix", input: "Stop #7b", placeholder: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPlaceholderName(tt.input); got != tt.placeholder {
				t.Errorf("IsPlaceholderName(%q) = %v, want %v", tt.input, got, tt.placeholder)
			}
		})
	}
}

func TestStationsSortedByID(t *testing.T) {
	b := memhost.New()
	b.Add(&host.Entity{ID: 9, Kind: host.KindStation, Fields: formatter.Map{"name": "B"}})
	b.Add(&host.Entity{ID: 4, Kind: host.KindStation, Fields: formatter.Map{"name": "A"}})
	r := newResolver(t, b)

	stations := r.Stations()
	if len(stations) != 2 || stations[0].ID != 4 || stations[1].ID != 9 {
		t.Errorf("expected id order [4 9], got %+v", stations)
	}
}
