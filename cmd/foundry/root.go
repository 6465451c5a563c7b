package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "foundry",
	Short: "Foundry is a bidirectional workflow graph compiler",
	Long: `Foundry compiles visual workflow graphs into runnable workflow code
and parses workflow code back into graphs, so the two representations
stay in sync no matter which one was edited last.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
