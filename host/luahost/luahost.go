// Package luahost loads a host world from a Lua script.
//
// The live simulation exposes its state to extraction code as Lua
// tables; this backend accepts the same shape, which makes recorded
// world dumps replayable outside the game process. A script must return
// one table:
//
//	return {
//	    game_time = 4512.25,          -- optional
//	    entities = {
//	        [12] = { kind = "station", name = "Central", x = 0, y = 0 },
//	        [30] = { kind = "line", stops = { [1] = 12 } },
//	    },
//	    components = {
//	        [44] = {
//	            curve = { a = {x=0,y=0}, b = {x=10,y=0}, kind = "rail" },
//	            signal_state = { state = "proceed", position = {x=1,y=2} },
//	        },
//	    },
//	}
//
// The table is walked into Go values once at load time; Backend calls
// after that never touch the Lua state.
package luahost

import (
	"fmt"
	"sort"
	"strconv"

	lua "github.com/Shopify/go-lua"

	"github.com/transport-telemetry/simtelemetry/formatter"
	"github.com/transport-telemetry/simtelemetry/geometry"
	"github.com/transport-telemetry/simtelemetry/host"
)

// maxTableDepth bounds world-table traversal; scripts with reference
// cycles load as truncated data instead of hanging.
const maxTableDepth = 16

// Backend implements host.Backend from a loaded Lua world table.
type Backend struct {
	entities   map[int64]*host.Entity
	components map[int64]map[host.ComponentKind]*host.Component
	gameTime   float64
	hasClock   bool
}

// LoadFile runs a Lua script from disk and builds a backend from the
// world table it returns.
func LoadFile(path string) (*Backend, error) {
	l := lua.NewState()
	lua.OpenLibraries(l)
	if err := lua.LoadFile(l, path, ""); err != nil {
		return nil, fmt.Errorf("load world script: %w", err)
	}
	return runAndBuild(l)
}

// LoadString runs Lua source and builds a backend from the world table
// it returns.
func LoadString(src string) (*Backend, error) {
	l := lua.NewState()
	lua.OpenLibraries(l)
	if err := lua.LoadString(l, src); err != nil {
		return nil, fmt.Errorf("load world script: %w", err)
	}
	return runAndBuild(l)
}

func runAndBuild(l *lua.State) (*Backend, error) {
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run world script: %w", err)
	}
	if l.TypeOf(-1) != lua.TypeTable {
		return nil, fmt.Errorf("world script must return a table, got %s", lua.TypeNameOf(l, -1))
	}
	root, ok := toValue(l, -1, 0).(formatter.Map)
	l.Pop(1)
	if !ok {
		return nil, fmt.Errorf("world table did not convert to a map")
	}
	return fromWorld(root), nil
}

// toValue converts the Lua value at idx into a formatter.Value tree.
func toValue(l *lua.State, idx, depth int) formatter.Value {
	if depth > maxTableDepth {
		return nil
	}
	switch l.TypeOf(idx) {
	case lua.TypeNil:
		return nil
	case lua.TypeBoolean:
		return l.ToBoolean(idx)
	case lua.TypeNumber:
		n, _ := l.ToNumber(idx)
		return n
	case lua.TypeString:
		s, _ := l.ToString(idx)
		return s
	case lua.TypeTable:
		m := formatter.Map{}
		top := l.AbsIndex(idx)
		l.PushNil()
		for l.Next(top) {
			key := tableKey(l, -2)
			if key != "" {
				m[key] = toValue(l, -1, depth+1)
			}
			l.Pop(1)
		}
		return m
	default:
		// functions, userdata: nothing the pipeline can use
		return nil
	}
}

func tableKey(l *lua.State, idx int) string {
	switch l.TypeOf(idx) {
	case lua.TypeNumber:
		n, _ := l.ToNumber(idx)
		if n == float64(int64(n)) {
			return strconv.FormatInt(int64(n), 10)
		}
		return strconv.FormatFloat(n, 'g', -1, 64)
	case lua.TypeString:
		s, _ := l.ToString(idx)
		return s
	}
	return ""
}

func fromWorld(root formatter.Map) *Backend {
	b := &Backend{
		entities:   map[int64]*host.Entity{},
		components: map[int64]map[host.ComponentKind]*host.Component{},
	}
	if t, ok := root["game_time"].(float64); ok {
		b.gameTime = t
		b.hasClock = true
	}
	if ents, ok := root["entities"].(formatter.Map); ok {
		for key, raw := range ents {
			id, err := strconv.ParseInt(key, 10, 64)
			if err != nil || id <= 0 {
				continue
			}
			fields, ok := raw.(formatter.Map)
			if !ok {
				continue
			}
			kind, _ := fields["kind"].(string)
			b.entities[id] = &host.Entity{
				ID:     id,
				Kind:   host.EntityKind(kind),
				Fields: fields,
			}
		}
	}
	if comps, ok := root["components"].(formatter.Map); ok {
		for key, raw := range comps {
			id, err := strconv.ParseInt(key, 10, 64)
			if err != nil || id <= 0 {
				continue
			}
			byKind, ok := raw.(formatter.Map)
			if !ok {
				continue
			}
			if c, ok := byKind["curve"].(formatter.Map); ok {
				b.addComponent(id, curveComponent(c))
			}
			if s, ok := byKind["signal_state"].(formatter.Map); ok {
				b.addComponent(id, signalComponent(s))
			}
		}
	}
	return b
}

func (b *Backend) addComponent(id int64, c *host.Component) {
	if b.components[id] == nil {
		b.components[id] = map[host.ComponentKind]*host.Component{}
	}
	b.components[id][c.Kind] = c
}

func curveComponent(m formatter.Map) *host.Component {
	params := geometry.CurveParams{}
	if a, ok := vec3(m["a"]); ok {
		params.A = a
	}
	if bv, ok := vec3(m["b"]); ok {
		params.B = bv
	}
	if t, ok := vec3(m["tangent_a"]); ok {
		v := t
		params.TangentA = &v
	}
	if t, ok := vec3(m["tangent_b"]); ok {
		v := t
		params.TangentB = &v
	}
	if c, ok := vec3(m["center"]); ok {
		v := c
		params.Center = &v
	}
	params.Radius = num(m["radius"])
	params.AngleA = num(m["angle_a"])
	params.AngleSpan = num(m["angle_span"])
	kind, _ := m["kind"].(string)
	return &host.Component{
		Kind:      host.ComponentCurve,
		Curve:     &params,
		TrackKind: kind,
	}
}

func signalComponent(m formatter.Map) *host.Component {
	c := &host.Component{Kind: host.ComponentSignalState, Signal: host.SignalUnknown}
	switch m["state"] {
	case "proceed":
		c.Signal = host.SignalProceed
	case "stop":
		c.Signal = host.SignalStop
	}
	if p, ok := vec3(m["position"]); ok {
		v := p
		c.Position = &v
	}
	return c
}

func vec3(v formatter.Value) (geometry.Vec3, bool) {
	m, ok := v.(formatter.Map)
	if !ok {
		return geometry.Vec3{}, false
	}
	return geometry.Vec3{X: num(m["x"]), Y: num(m["y"]), Z: num(m["z"])}, true
}

func num(v formatter.Value) float64 {
	f, _ := v.(float64)
	return f
}

func (b *Backend) GetEntity(id int64) (*host.Entity, error) {
	return b.entities[id], nil
}

func (b *Backend) Enumerate(kind host.EntityKind) ([]int64, error) {
	var ids []int64
	for id, e := range b.entities {
		if e.Kind == kind {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids, nil
}

func (b *Backend) GetComponent(id int64, kind host.ComponentKind) (*host.Component, error) {
	return b.components[id][kind], nil
}

// EnumerateRegion filters by the conventional x/y entity fields. World
// dumps that omit positions simply match nothing.
func (b *Backend) EnumerateRegion(bounds host.Bounds, kind host.EntityKind) ([]int64, error) {
	ids, _ := b.Enumerate(kind)
	var out []int64
	for _, id := range ids {
		e := b.entities[id]
		x := e.FieldNumber("x")
		y := e.FieldNumber("y")
		if x >= bounds.Min.X && x <= bounds.Max.X && y >= bounds.Min.Y && y <= bounds.Max.Y {
			out = append(out, id)
		}
	}
	return out, nil
}

func (b *Backend) GameTime() (float64, error) {
	if !b.hasClock {
		return 0, host.ErrUnsupported
	}
	return b.gameTime, nil
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
