// Package flow is the vocabulary emitted programs are written
// against: a generic graph builder with START/END sentinels, node
// registration, unconditional and conditional edge wiring, and a
// Compile step producing an invocable graph.
//
// The runtime here is intentionally minimal. It exists so that emitted
// stubs compile and can be driven in tests and examples; the real
// executor lives outside this subsystem.
package flow
