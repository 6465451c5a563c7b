package main

import (
	"fmt"

	"github.com/spf13/cobra"

	foundry "github.com/nwalker85/agentfoundry"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of foundry",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("foundry version %s\n", foundry.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
