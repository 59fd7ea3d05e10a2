package collect

import (
	"fmt"
	"log"
	"strings"
)

// Warning type constants
const (
	WarningVehicleNoLine      = "vehicle_no_line"
	WarningVehicleNoPosition  = "vehicle_no_position"
	WarningVehicleBadIndex    = "vehicle_bad_stop_index"
	WarningEdgeNoCurve        = "edge_no_curve"
	WarningSignalNoState      = "signal_no_state"
	WarningEntityLookupFailed = "entity_lookup_failed"
)

// warningInfo holds aggregated information about a specific warning type
type warningInfo struct {
	count    int
	examples []string
}

// WarningAggregator collects per-entity extraction warnings and logs
// one consolidated line per type, instead of one line per entity.
type WarningAggregator struct {
	warnings map[string]*warningInfo
}

// NewWarningAggregator creates a new warning aggregator
func NewWarningAggregator() *WarningAggregator {
	return &WarningAggregator{warnings: make(map[string]*warningInfo)}
}

// Add records a warning occurrence with an example entity id
func (w *WarningAggregator) Add(warningType string, exampleID int64) {
	if w.warnings[warningType] == nil {
		w.warnings[warningType] = &warningInfo{examples: make([]string, 0, 3)}
	}
	info := w.warnings[warningType]
	info.count++
	if len(info.examples) < 3 {
		info.examples = append(info.examples, fmt.Sprintf("%d", exampleID))
	}
}

// LogAll outputs all collected warnings in consolidated format
func (w *WarningAggregator) LogAll(stage string) {
	for warningType, info := range w.warnings {
		log.Printf("%s", w.formatWarningMessage(warningType, stage, info))
	}
}

func (w *WarningAggregator) formatWarningMessage(warningType, stage string, info *warningInfo) string {
	var description, action string

	switch warningType {
	case WarningVehicleNoLine:
		description = "vehicles with no line assignment"
		action = "Emitting vehicle without stop derivation"
	case WarningVehicleNoPosition:
		description = "vehicles with no usable position"
		action = "Emitting vehicle at origin"
	case WarningVehicleBadIndex:
		description = "vehicles with an out-of-range stop index"
		action = "Clamping index before stop derivation"
	case WarningEdgeNoCurve:
		description = "track edges with no curve component"
		action = "Skipping edge geometry"
	case WarningSignalNoState:
		description = "signals with no readable state"
		action = "Emitting state 'unknown'"
	case WarningEntityLookupFailed:
		description = "entity ids that failed to load"
		action = "Skipping entity"
	default:
		description = "unknown issue"
		action = "Emitting fallback output"
	}

	examplesStr := strings.Join(info.examples, ", ")
	return fmt.Sprintf("Stage %s has %s (%d occurrences). %s. Examples: %s",
		stage, description, info.count, action, examplesStr)
}
