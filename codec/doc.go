// Package codec implements a bit-level serialization protocol for
// structured, partially-repeating data.
//
// Values that recur across a session (class names, attribute handles) are
// sent in full exactly once and referenced afterwards by a minimal-width
// integer id. Both sides derive the id widths purely from the invariant that
// ids are assigned in strict first-seen order, so no width field and no
// handshake are ever transmitted.
//
// A Stream wraps one underlying byte stream in exactly one mode, created
// with NewWriter or NewReader. Typed operations delegate primitive bits to
// the bitstream package, repeated compound values to per-stream
// RepeatedValueStreamer dictionaries built on IDCoder, and dynamically-typed
// values to the process-wide type-streamer and class registries.
//
// The registries are populated by explicit registration calls during
// single-threaded startup (see RegisterBuiltinTypes, RegisterTypeStreamer,
// RegisterClass) and are read-only afterwards.
package codec
