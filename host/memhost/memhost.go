// Package memhost provides a programmable in-memory host backend.
//
// It backs the test suites and the CLI demo mode: entities and
// components are plain maps, and per-call failure hooks let tests
// exercise the accessor's degradation paths.
package memhost

import (
	"sort"

	"github.com/transport-telemetry/simtelemetry/host"
)

// Backend implements host.Backend from in-memory maps.
type Backend struct {
	Entities   map[int64]*host.Entity
	Components map[int64]map[host.ComponentKind]*host.Component
	Clock      float64
	HasClock   bool

	// Unsupported lists capabilities this fake pretends not to have.
	Unsupported map[host.Capability]bool

	// FailEntity/FailEnumerate inject transient failures.
	FailEntity    map[int64]error
	FailEnumerate map[host.EntityKind]error

	// PanicOnEntity simulates a host-side crash inside the call.
	PanicOnEntity map[int64]bool
}

// New returns an empty backend supporting every capability.
func New() *Backend {
	return &Backend{
		Entities:      map[int64]*host.Entity{},
		Components:    map[int64]map[host.ComponentKind]*host.Component{},
		Unsupported:   map[host.Capability]bool{},
		FailEntity:    map[int64]error{},
		FailEnumerate: map[host.EntityKind]error{},
		PanicOnEntity: map[int64]bool{},
	}
}

// Add registers an entity.
func (b *Backend) Add(e *host.Entity) {
	b.Entities[e.ID] = e
}

// AddComponent registers a component for an entity id.
func (b *Backend) AddComponent(id int64, c *host.Component) {
	if b.Components[id] == nil {
		b.Components[id] = map[host.ComponentKind]*host.Component{}
	}
	b.Components[id][c.Kind] = c
}

func (b *Backend) GetEntity(id int64) (*host.Entity, error) {
	if b.Unsupported[host.CapGetEntity] {
		return nil, host.ErrUnsupported
	}
	if b.PanicOnEntity[id] {
		panic("host crash in GetEntity")
	}
	if err := b.FailEntity[id]; err != nil {
		return nil, err
	}
	return b.Entities[id], nil
}

func (b *Backend) Enumerate(kind host.EntityKind) ([]int64, error) {
	if b.Unsupported[host.CapEnumerate] {
		return nil, host.ErrUnsupported
	}
	if err := b.FailEnumerate[kind]; err != nil {
		return nil, err
	}
	var ids []int64
	for id, e := range b.Entities {
		if e.Kind == kind {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (b *Backend) GetComponent(id int64, kind host.ComponentKind) (*host.Component, error) {
	if b.Unsupported[host.CapGetComponent] {
		return nil, host.ErrUnsupported
	}
	return b.Components[id][kind], nil
}

func (b *Backend) EnumerateRegion(bounds host.Bounds, kind host.EntityKind) ([]int64, error) {
	if b.Unsupported[host.CapEnumerateRegion] {
		return nil, host.ErrUnsupported
	}
	ids, err := b.Enumerate(kind)
	if err != nil {
		return nil, err
	}
	var out []int64
	for _, id := range ids {
		e := b.Entities[id]
		x := e.FieldNumber("x")
		y := e.FieldNumber("y")
		if x >= bounds.Min.X && x <= bounds.Max.X && y >= bounds.Min.Y && y <= bounds.Max.Y {
			out = append(out, id)
		}
	}
	return out, nil
}

func (b *Backend) GameTime() (float64, error) {
	if b.Unsupported[host.CapGameTime] || !b.HasClock {
		return 0, host.ErrUnsupported
	}
	return b.Clock, nil
}
