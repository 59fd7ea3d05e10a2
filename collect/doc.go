// Package collect extracts vehicle, track, and signal state from the
// host. All extraction is defensive: missing fields become zero values,
// malformed entities are skipped, and per-entity problems aggregate
// into consolidated warnings instead of failing a stage.
package collect
