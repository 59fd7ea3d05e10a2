// Package formatter serializes generic host-derived value trees into
// deterministic JSON.
//
// The host represents both arrays and records with one table type, so a
// Map whose keys are exactly "1".."N" is treated as an N-element array;
// every other Map becomes an object with lexicographically sorted keys.
// Output is stable across runs for identical input, which keeps written
// snapshots diff-friendly.
//
// Encoding never fails: NaN/Inf, over-deep nesting, and unencodable
// kinds all degrade to null rather than aborting the document.
package formatter
