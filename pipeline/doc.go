// Package pipeline composes the snapshot cycle: an orchestrator walks
// the resolver and collector stages in order, two caches age the
// expensive network scans across cycles, a tick accumulator gates how
// often cycles run, and sinks receive the encoded documents.
//
// Every stage runs behind an isolation boundary. A stage that fails or
// panics degrades to its empty output; a failure outside the stages
// still produces a minimal schema-valid fallback document. Consumers
// can therefore rely on every write containing all top-level fields.
package pipeline
