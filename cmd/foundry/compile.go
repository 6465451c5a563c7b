package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	foundry "github.com/nwalker85/agentfoundry"
	"github.com/nwalker85/agentfoundry/pkg/compiler"
	"github.com/nwalker85/agentfoundry/pkg/graph"
)

// compileCmd represents the compile command
var compileCmd = &cobra.Command{
	Use:   "compile <graph.json>",
	Short: "Compile a workflow graph into workflow source code",
	Long: `Reads a designer graph (JSON) and emits runnable workflow source:
stub handlers for every node, edges wired in declaration order, and a
builder function that assembles the workflow.`,
	Args: cobra.ExactArgs(1),
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

		target, _ := cmd.Flags().GetString("target")
		if target == "" {
			target = g.Name
		}
		pkgName, _ := cmd.Flags().GetString("package")

		var opts []foundry.Option
		if pkgName != "" {
			opts = append(opts, foundry.WithEmitterOptions(compiler.WithPackageName(pkgName)))
		}
		f := foundry.New(opts...)

		for _, d := range g.Validate() {
			fmt.Fprintf(os.Stderr, "%s: %s\n", d.Severity, d.Message)
		}

		src := f.EmitGraph(&g, target)

		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			fmt.Print(src)
			return
		}
		if err := os.WriteFile(out, []byte(src), 0o644); err != nil {
			fmt.Printf("Error writing output: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("output", "o", "", "Write generated source to a file instead of stdout")
	compileCmd.Flags().StringP("target", "t", "", "Workflow name (defaults to the graph name)")
	compileCmd.Flags().String("package", "", "Package name for the generated source")
}
