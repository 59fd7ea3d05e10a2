package host

import (
	"errors"
	"fmt"
	"log"
)

// Capability names one probeable host call.
type Capability string

const (
	CapGetEntity       Capability = "get_entity"
	CapEnumerate       Capability = "enumerate"
	CapGetComponent    Capability = "get_component"
	CapEnumerateRegion Capability = "enumerate_region"
	CapGameTime        Capability = "game_time"
)

// probeTable is evaluated once at Accessor construction, in order. Each
// probe makes one harmless call; ErrUnsupported or a panic marks the
// capability absent for the lifetime of the Accessor.
var probeTable = []struct {
	cap   Capability
	probe func(Backend) error
}{
	{CapGetEntity, func(b Backend) error {
		_, err := b.GetEntity(0)
		return err
	}},
	{CapEnumerate, func(b Backend) error {
		_, err := b.Enumerate(KindStation)
		return err
	}},
	{CapGetComponent, func(b Backend) error {
		_, err := b.GetComponent(0, ComponentSignalState)
		return err
	}},
	{CapEnumerateRegion, func(b Backend) error {
		_, err := b.EnumerateRegion(Bounds{}, KindStation)
		return err
	}},
	{CapGameTime, func(b Backend) error {
		_, err := b.GameTime()
		return err
	}},
}

// Accessor is the only code that talks to a Backend directly. Every
// call swallows host-side failures and panics, returning absent results
// instead; nothing propagates past this layer.
type Accessor struct {
	backend   Backend
	supported map[Capability]bool
}

// NewAccessor wraps a backend and runs the capability probe table.
// Missing capabilities are logged here, once, and silent thereafter.
func NewAccessor(b Backend) *Accessor {
	a := &Accessor{backend: b, supported: map[Capability]bool{}}
	for _, entry := range probeTable {
		err := a.safeProbe(entry.probe)
		if errors.Is(err, ErrUnsupported) {
			log.Printf("host: capability %s unavailable, degrading", entry.cap)
			continue
		}
		a.supported[entry.cap] = true
	}
	return a
}

// Supports reports probe results; useful for diagnostics.
func (a *Accessor) Supports(c Capability) bool {
	return a.supported[c]
}

func (a *Accessor) safeProbe(probe func(Backend) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: probe panic: %v", ErrUnsupported, r)
		}
	}()
	return probe(a.backend)
}

// GetEntity fetches one entity record. Absent entities, lookup errors
// and host panics all read as (nil, false).
func (a *Accessor) GetEntity(id int64) (e *Entity, ok bool) {
	if !a.supported[CapGetEntity] {
		return nil, false
	}
	defer func() {
		if recover() != nil {
			e, ok = nil, false
		}
	}()
	ent, err := a.backend.GetEntity(id)
	if err != nil || ent == nil {
		return nil, false
	}
	return ent, true
}

// Enumerate lists ids of one entity kind; nil on any failure.
func (a *Accessor) Enumerate(kind EntityKind) (ids []int64) {
	if !a.supported[CapEnumerate] {
		return nil
	}
	defer func() {
		if recover() != nil {
			ids = nil
		}
	}()
	out, err := a.backend.Enumerate(kind)
	if err != nil {
		return nil
	}
	return out
}

// GetComponent fetches a typed facet; (nil, false) on any failure.
func (a *Accessor) GetComponent(id int64, kind ComponentKind) (c *Component, ok bool) {
	if !a.supported[CapGetComponent] {
		return nil, false
	}
	defer func() {
		if recover() != nil {
			c, ok = nil, false
		}
	}()
	comp, err := a.backend.GetComponent(id, kind)
	if err != nil || comp == nil {
		return nil, false
	}
	return comp, true
}

// EnumerateRegion lists ids of a kind within bounds; nil on failure or
// when the capability is absent.
func (a *Accessor) EnumerateRegion(bounds Bounds, kind EntityKind) (ids []int64) {
	if !a.supported[CapEnumerateRegion] {
		return nil
	}
	defer func() {
		if recover() != nil {
			ids = nil
		}
	}()
	out, err := a.backend.EnumerateRegion(bounds, kind)
	if err != nil {
		return nil
	}
	return out
}

// GameTime returns the host's in-simulation clock when available.
func (a *Accessor) GameTime() (t float64, ok bool) {
	if !a.supported[CapGameTime] {
		return 0, false
	}
	defer func() {
		if recover() != nil {
			t, ok = 0, false
		}
	}()
	v, err := a.backend.GameTime()
	if err != nil {
		return 0, false
	}
	return v, true
}
