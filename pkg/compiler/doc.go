// Package compiler converts workflow graphs to runnable Go source and
// back. The forward direction (Emit) is a best-effort transformer that
// always returns something; the reverse direction (Parse) recovers a
// graph from source by static analysis of the flow wiring calls.
package compiler
