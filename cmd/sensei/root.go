package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sensei",
	Short: "Sensei is an interactive terminal tutor",
	Long:  `Sensei walks you through hands-on lessons in the terminal, grading your input task by task through a lesson service.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("catalog", "lessons.yaml", "Path to the lesson catalog")
	rootCmd.PersistentFlags().String("service", "", "Base URL of a remote lesson service (default: in-process)")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for the notification bus (optional)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
