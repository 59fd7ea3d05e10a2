package resolve

import (
	"testing"

	"github.com/transport-telemetry/simtelemetry/formatter"
	"github.com/transport-telemetry/simtelemetry/host"
	"github.com/transport-telemetry/simtelemetry/host/memhost"
)

func TestResolveLineStops(t *testing.T) {
	b := memhost.New()
	b.Add(&host.Entity{ID: 1, Kind: host.KindStation, Fields: formatter.Map{"name": "Central", "x": 0.0, "y": 0.0}})
	b.Add(&host.Entity{ID: 2, Kind: host.KindStation, Fields: formatter.Map{"name": "North", "x": 10.0, "y": 20.0}})
	b.Add(&host.Entity{ID: 20, Kind: host.KindTerminal, Fields: formatter.Map{"station": int64(2)}})
	b.Add(&host.Entity{ID: 30, Kind: host.KindLine, Fields: formatter.Map{
		"name":        "Red Line",
		"vehicleKind": "rail",
		"stops":       []formatter.Value{int64(1), int64(20)},
	}})
	acc := host.NewAccessor(b)
	lines := NewLineResolver(acc, NewStationResolver(acc)).Resolve()

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	line := lines[0]
	if line.Name != "Red Line" || line.Kind != "rail" {
		t.Errorf("unexpected line header: %+v", line)
	}
	if len(line.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(line.Stops))
	}
	if line.Stops[0].Index != 1 || line.Stops[1].Index != 2 {
		t.Errorf("stop indices must be 1-based and ordered: %+v", line.Stops)
	}
	// Terminal 20 resolves onto station 2 but keeps its raw source id.
	if line.Stops[1].StationID != 2 || line.Stops[1].SourceID != 20 {
		t.Errorf("terminal stop resolved wrong: %+v", line.Stops[1])
	}
	if line.Stops[1].Name != "North" {
		t.Errorf("stop should take the station name, got %q", line.Stops[1].Name)
	}
}

func TestResolveLineUnnamedTerminalStop(t *testing.T) {
	// A stop referencing a terminal with no name anywhere synthesizes
	// the stop placeholder from the raw source id.
	b := memhost.New()
	b.Add(&host.Entity{ID: 1, Kind: host.KindStation, Fields: formatter.Map{"name": "Central"}})
	b.Add(&host.Entity{ID: 42, Kind: host.KindTerminal, Fields: formatter.Map{}})
	b.Add(&host.Entity{ID: 30, Kind: host.KindLine, Fields: formatter.Map{
		"name":  "Loop",
		"stops": []formatter.Value{int64(1), int64(42)},
	}})
	acc := host.NewAccessor(b)
	lines := NewLineResolver(acc, NewStationResolver(acc)).Resolve()

	if len(lines) != 1 || len(lines[0].Stops) != 2 {
		t.Fatalf("unexpected shape: %+v", lines)
	}
	if got := lines[0].Stops[1].Name; got != "Stop #42" {
		t.Errorf("expected Stop #42, got %q", got)
	}
}

func TestResolveLineNameFallback(t *testing.T) {
	b := memhost.New()
	b.Add(&host.Entity{ID: 8, Kind: host.KindLine, Fields: formatter.Map{}})
	acc := host.NewAccessor(b)
	lines := NewLineResolver(acc, NewStationResolver(acc)).Resolve()

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Name != "Line #8" {
		t.Errorf("expected Line #8, got %q", lines[0].Name)
	}
	if len(lines[0].Stops) != 0 {
		t.Errorf("stopless line should have empty stops, got %+v", lines[0].Stops)
	}
}

func TestResolveLineStopsFromIntegerKeyedTable(t *testing.T) {
	// Host tables encode ordered lists as dense integer-keyed maps.
	b := memhost.New()
	b.Add(&host.Entity{ID: 1, Kind: host.KindStation, Fields: formatter.Map{"name": "A"}})
	b.Add(&host.Entity{ID: 2, Kind: host.KindStation, Fields: formatter.Map{"name": "B"}})
	b.Add(&host.Entity{ID: 30, Kind: host.KindLine, Fields: formatter.Map{
		"name":  "Table Line",
		"stops": formatter.Map{"1": float64(2), "2": float64(1)},
	}})
	acc := host.NewAccessor(b)
	lines := NewLineResolver(acc, NewStationResolver(acc)).Resolve()

	if len(lines) != 1 || len(lines[0].Stops) != 2 {
		t.Fatalf("unexpected shape: %+v", lines)
	}
	// Order must match the table's index order, not id order.
	if lines[0].Stops[0].StationID != 2 || lines[0].Stops[1].StationID != 1 {
		t.Errorf("stop order not preserved: %+v", lines[0].Stops)
	}
}

func TestResolveLineWrappedStopRecords(t *testing.T) {
	b := memhost.New()
	b.Add(&host.Entity{ID: 1, Kind: host.KindStation, Fields: formatter.Map{"name": "A"}})
	b.Add(&host.Entity{ID: 30, Kind: host.KindLine, Fields: formatter.Map{
		"name":  "Wrapped",
		"stops": []formatter.Value{formatter.Map{"station": int64(1)}},
	}})
	acc := host.NewAccessor(b)
	lines := NewLineResolver(acc, NewStationResolver(acc)).Resolve()

	if len(lines) != 1 || len(lines[0].Stops) != 1 {
		t.Fatalf("unexpected shape: %+v", lines)
	}
	if lines[0].Stops[0].StationID != 1 {
		t.Errorf("wrapped stop record not unwrapped: %+v", lines[0].Stops[0])
	}
}
