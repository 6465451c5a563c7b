package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	foundry "github.com/nwalker85/agentfoundry"
	"github.com/nwalker85/agentfoundry/pkg/manifest"
)

// manifestCmd represents the manifest command
var manifestCmd = &cobra.Command{
	Use:   "manifest <description.yaml>",
	Short: "Compile a domain description into a deployment manifest",
	Long: `Reads a plain domain description (YAML) and compiles it into a
deployment manifest with the fixed workflow skeleton, capability tags,
and integration bindings. Compilation never fails outright: problems
are reported as diagnostics alongside a best-effort manifest.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Error reading description: %v\n", err)
			os.Exit(1)
		}

		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			fmt.Printf("Error parsing description: %v\n", err)
			os.Exit(1)
		}

		desc, err := manifest.DecodeDescription(raw)
		if err != nil {
			fmt.Printf("Error decoding description: %v\n", err)
			os.Exit(1)
		}

		f := foundry.New()
		m, diags := f.CompileManifest(desc)
		for _, d := range diags {
			fmt.Fprintf(os.Stderr, "%s: %s\n", d.Severity, d.Message)
		}

		out, err := m.YAML()
		if err != nil {
			fmt.Printf("Error encoding manifest: %v\n", err)
			os.Exit(1)
		}

		dest, _ := cmd.Flags().GetString("output")
		if dest == "" {
			fmt.Print(string(out))
			return
		}
		if err := os.WriteFile(dest, out, 0o644); err != nil {
			fmt.Printf("Error writing output: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(manifestCmd)
	manifestCmd.Flags().StringP("output", "o", "", "Write the manifest to a file instead of stdout")
}
