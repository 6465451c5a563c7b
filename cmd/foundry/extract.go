package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	foundry "github.com/nwalker85/agentfoundry"
	"github.com/nwalker85/agentfoundry/internal/presentation/tui"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <handlers.go>",
	Short: "Extract business logic metadata from node handlers",
	Long: `Analyzes a workflow handler module and reports the prompts, branch
conditions, state writes, and model configuration found in each node
handler. The default output is a rendered markdown report; use --json
for machine-readable output.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Error reading source: %v\n", err)
			os.Exit(1)
		}

		f := foundry.New()
		report, err := f.ExtractNodeLogic(string(data))
		if err != nil {
			fmt.Printf("Error extracting: %v\n", err)
			os.Exit(1)
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				fmt.Printf("Error encoding report: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(out))
			return
		}

		tui.PrintBanner()
		render := tui.NewRenderer()
		rendered, err := render(report.Markdown())
		if err != nil {
			fmt.Print(report.Markdown())
			return
		}
		fmt.Print(rendered)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().Bool("json", false, "Output the report as JSON")
}
