// Package ports defines the driven ports (interfaces) of the
// compiler: how artifacts are persisted and how the transform
// components are seen by the HTTP/MCP adapters. Adapters implement
// these interfaces; the core never imports an adapter.
package ports
