// Package snapshot defines the telemetry document model and its wire
// representation. The Document type is the contract downstream tooling
// (file watchers, REST and WebSocket relays) depends on; all six entity
// collections are present in every written document, empty or not.
package snapshot
