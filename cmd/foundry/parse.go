package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	foundry "github.com/nwalker85/agentfoundry"
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <workflow.go>",
	Short: "Parse workflow source code back into a graph",
	Long: `Reads workflow source and recovers the designer graph (JSON) from
its builder calls. The source is analyzed statically and never
executed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Error reading source: %v\n", err)
			os.Exit(1)
		}

		f := foundry.New()
		g, err := f.ParseSource(string(data))
		if err != nil {
			fmt.Printf("Error parsing source: %v\n", err)
			os.Exit(1)
		}

		out, err := json.MarshalIndent(g, "", "  ")
		if err != nil {
			fmt.Printf("Error encoding graph: %v\n", err)
			os.Exit(1)
		}

		dest, _ := cmd.Flags().GetString("output")
		if dest == "" {
			fmt.Println(string(out))
			return
		}
		if err := os.WriteFile(dest, append(out, '\n'), 0o644); err != nil {
			fmt.Printf("Error writing output: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringP("output", "o", "", "Write graph JSON to a file instead of stdout")
}
