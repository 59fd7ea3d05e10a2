package collect

import (
	"sort"

	"github.com/transport-telemetry/simtelemetry/host"
	"github.com/transport-telemetry/simtelemetry/snapshot"
)

// SignalScanner reads signal positions and aspects. Cached by the
// caller on its own refresh period, separate from tracks.
type SignalScanner struct {
	acc      *host.Accessor
	Warnings *WarningAggregator
}

// NewSignalScanner creates a signal scanner.
func NewSignalScanner(acc *host.Accessor) *SignalScanner {
	return &SignalScanner{acc: acc, Warnings: NewWarningAggregator()}
}

// Scan reads all signals, id-ordered. A signal without a readable
// state component is emitted with the unknown sentinel rather than
// dropped; its position falls back to the entity record.
func (s *SignalScanner) Scan() []snapshot.Signal {
	ids := s.acc.Enumerate(host.KindSignal)
	out := make([]snapshot.Signal, 0, len(ids))
	for _, id := range ids {
		sig := snapshot.Signal{ID: id, State: string(host.SignalUnknown)}
		if comp, ok := s.acc.GetComponent(id, host.ComponentSignalState); ok {
			sig.State = string(comp.Signal)
			if comp.Position != nil {
				sig.Pos = *comp.Position
			}
		} else {
			s.Warnings.Add(WarningSignalNoState, id)
		}
		if sig.Pos == (snapshot.Signal{}).Pos {
			if e, ok := s.acc.GetEntity(id); ok {
				sig.Pos = entityPos(e)
			}
		}
		out = append(out, sig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
