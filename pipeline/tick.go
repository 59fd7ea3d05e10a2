package pipeline

// eventNudge is the fixed unit a discrete host event adds to the
// accumulator.
const eventNudge = 1.0

// TickAccumulator sums fractional time deltas until they cross the
// configured write interval. Discrete host events may nudge it by one
// unit, throttled to at most one nudge per unit of elapsed time so an
// event storm cannot force back-to-back cycles.
type TickAccumulator struct {
	interval float64
	acc      float64
	// credit refills with elapsed time and is spent by nudges.
	credit float64
}

// NewTickAccumulator creates an accumulator; the first event nudge is
// always honored.
func NewTickAccumulator(interval float64) *TickAccumulator {
	if interval <= 0 {
		interval = 1
	}
	return &TickAccumulator{interval: interval, credit: eventNudge}
}

// Advance adds an elapsed delta and reports whether a cycle is due.
func (t *TickAccumulator) Advance(dt float64) bool {
	if dt > 0 {
		t.acc += dt
		t.credit += dt
		if t.credit > eventNudge {
			t.credit = eventNudge
		}
	}
	return t.due()
}

// Nudge applies a discrete-event bump and reports whether a cycle is
// due. Nudges arriving faster than one per unit are dropped.
func (t *TickAccumulator) Nudge() bool {
	if t.credit >= eventNudge {
		t.credit = 0
		t.acc += eventNudge
	}
	return t.due()
}

func (t *TickAccumulator) due() bool {
	return t.acc >= t.interval
}

// Consume resets the accumulator after a cycle ran, keeping at most
// one interval of residue so a long stall does not burst into many
// back-to-back cycles.
func (t *TickAccumulator) Consume() {
	t.acc -= t.interval
	if t.acc < 0 || t.acc > t.interval {
		t.acc = 0
	}
}
