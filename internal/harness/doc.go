// Package harness runs conformance scenarios against the cart store.
//
// A scenario is a YAML file describing a session: an optional starting
// credential and remote cart, a sequence of cart operations, and
// expectations about the final state. The harness executes the session
// against in-memory fakes that record every persistence and network
// side effect as a trace event, then compares the trace against a
// golden file. Traces are fully deterministic: push tokens come from a
// sequential generator and the debounce window is set far beyond the
// scenario's lifetime, so pushes happen only at explicit flush points.
package harness
