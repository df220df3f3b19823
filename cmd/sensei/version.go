package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/sensei"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sensei",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sensei version %s\n", strings.TrimSpace(sensei.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
