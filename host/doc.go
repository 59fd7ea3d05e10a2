// Package host wraps the simulation's entity and component lookup API.
//
// The raw API (Backend) is given, partially undocumented, and varies in
// shape between host versions: individual calls may be missing, fail,
// or panic. Accessor is the capability layer on top of it: it probes
// the available calls once at startup and turns every failure mode into
// an absent result, so the extraction pipeline above never sees a host
// fault.
package host
