// Package param defines the source-filter parameter data model shared by
// every stage of the NexusSynth pipeline: the per-frame analysis output
// consumed by synthesis, the per-pulse synthesis instruction, and the
// real-time streaming frame used by the streaming buffer manager.
//
// Types in this package are produced once by an external analyzer (or a
// streaming caller) and consumed read-only by the rest of the core; nothing
// here mutates a ParameterFrame in place.
package param
