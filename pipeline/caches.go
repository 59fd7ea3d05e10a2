package pipeline

import (
	"log"

	"github.com/transport-telemetry/simtelemetry/snapshot"
)

// CacheManager holds the two expensive derived datasets on independent
// refresh periods. Ages advance once per snapshot cycle; a failed
// refresh keeps the previous contents so consumers always see
// last-known-good data instead of a gap.
type CacheManager struct {
	trackInterval  int
	signalInterval int

	trackAge  int
	signalAge int

	tracks        []snapshot.TrackEdge
	signals       []snapshot.Signal
	tracksPrimed  bool
	signalsPrimed bool
}

// NewCacheManager creates a manager with refresh periods in cycles.
// Non-positive periods refresh every cycle.
func NewCacheManager(trackInterval, signalInterval int) *CacheManager {
	if trackInterval < 1 {
		trackInterval = 1
	}
	if signalInterval < 1 {
		signalInterval = 1
	}
	return &CacheManager{
		trackInterval:  trackInterval,
		signalInterval: signalInterval,
		tracks:         []snapshot.TrackEdge{},
		signals:        []snapshot.Signal{},
	}
}

// Advance ages both caches by one cycle and refreshes whichever is
// due. The first cycle always refreshes both.
func (m *CacheManager) Advance(refreshTracks func() ([]snapshot.TrackEdge, error), refreshSignals func() ([]snapshot.Signal, error)) {
	m.trackAge++
	m.signalAge++

	if !m.tracksPrimed || m.trackAge >= m.trackInterval {
		if tracks, err := refreshTracks(); err == nil {
			m.tracks = tracks
			m.trackAge = 0
			m.tracksPrimed = true
		} else {
			log.Printf("track cache refresh failed, keeping previous contents: %v", err)
		}
	}
	if !m.signalsPrimed || m.signalAge >= m.signalInterval {
		if signals, err := refreshSignals(); err == nil {
			m.signals = signals
			m.signalAge = 0
			m.signalsPrimed = true
		} else {
			log.Printf("signal cache refresh failed, keeping previous contents: %v", err)
		}
	}
}

// Tracks returns the last successfully refreshed track geometry.
func (m *CacheManager) Tracks() []snapshot.TrackEdge {
	return m.tracks
}

// Signals returns the last successfully refreshed signal states.
func (m *CacheManager) Signals() []snapshot.Signal {
	return m.signals
}

// TrackAge returns cycles since the last successful track refresh.
func (m *CacheManager) TrackAge() int { return m.trackAge }

// SignalAge returns cycles since the last successful signal refresh.
func (m *CacheManager) SignalAge() int { return m.signalAge }
