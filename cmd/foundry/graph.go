package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	presentation "github.com/nwalker85/agentfoundry/internal/presentation/graph"
	"github.com/nwalker85/agentfoundry/pkg/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <graph.json>",
	Short: "Export the workflow graph visualization",
	Long:  `Reads a designer graph and outputs a Mermaid diagram (graph TD) representing the workflow.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Error reading graph: %v\n", err)
			os.Exit(1)
		}

		var g graph.Graph
		if err := json.Unmarshal(data, &g); err != nil {
			fmt.Printf("Error parsing graph: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(presentation.GenerateMermaid(&g))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
