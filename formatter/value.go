package formatter

import "strconv"

// Value is a generic tree node extracted from host data: nil, bool, int64,
// float64, string, []Value, or Map. Anything else encodes as null.
type Value = any

// Map is a keyed mapping. Keys that happen to be the decimal forms of
// 1..N with no gaps make the Map encode as an array (the host's table
// type does not distinguish arrays from records).
type Map map[string]Value

// SequenceValues returns the map's values in index order when its keys
// are exactly "1".."N". Callers use it to read host tables that encode
// ordered lists as integer-keyed maps.
func SequenceValues(m Map) ([]Value, bool) {
	return sequenceKeys(m)
}

// sequenceKeys reports whether the map's keys are exactly "1".."N" for
// some N>0, and returns the values in index order if so.
func sequenceKeys(m Map) ([]Value, bool) {
	n := len(m)
	if n == 0 {
		return nil, false
	}
	out := make([]Value, n)
	for k, v := range m {
		i, err := strconv.Atoi(k)
		if err != nil || i < 1 || i > n || strconv.Itoa(i) != k {
			return nil, false
		}
		// canonical decimal keys cannot collide, so a full in-range key
		// set fills every slot exactly once
		out[i-1] = v
	}
	return out, true
}
