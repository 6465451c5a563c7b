// Package graph defines the workflow graph value types shared by the
// forward and reverse compilers: nodes, edges, and the graph itself,
// together with the canonical JSON interchange shape produced by the
// visual designer.
package graph
