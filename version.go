package agentfoundry

// Version is the library version, surfaced by the CLI and the MCP
// server handshake.
const Version = "0.3.0"
