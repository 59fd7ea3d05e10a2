package collect

import (
	"github.com/transport-telemetry/simtelemetry/geometry"
	"github.com/transport-telemetry/simtelemetry/host"
	"github.com/transport-telemetry/simtelemetry/snapshot"
)

// TrackScanner walks the whole track network and reconstructs edge
// polylines. This is the expensive full-network scan; callers cache the
// result and refresh it infrequently.
type TrackScanner struct {
	acc         *host.Accessor
	arcSteps    int
	splineSteps int
	Warnings    *WarningAggregator
}

// NewTrackScanner creates a scanner with the given subdivision counts;
// zero values select the geometry defaults.
func NewTrackScanner(acc *host.Accessor, arcSteps, splineSteps int) *TrackScanner {
	return &TrackScanner{
		acc:         acc,
		arcSteps:    arcSteps,
		splineSteps: splineSteps,
		Warnings:    NewWarningAggregator(),
	}
}

// Scan samples every track edge in the network.
func (s *TrackScanner) Scan() []snapshot.TrackEdge {
	ids := s.acc.Enumerate(host.KindTrackEdge)
	out := make([]snapshot.TrackEdge, 0, len(ids))
	for _, id := range ids {
		comp, ok := s.acc.GetComponent(id, host.ComponentCurve)
		if !ok || comp.Curve == nil {
			s.Warnings.Add(WarningEdgeNoCurve, id)
			continue
		}
		out = append(out, snapshot.TrackEdge{
			Points: geometry.Sample(*comp.Curve, s.arcSteps, s.splineSteps),
			Kind:   trackKind(comp.TrackKind),
		})
	}
	return out
}

func trackKind(raw string) string {
	switch raw {
	case "rail", "tram":
		return raw
	default:
		return "other"
	}
}
