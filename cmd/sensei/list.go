package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/sensei/internal/adapters/httpapi"
	"github.com/aretw0/sensei/internal/cli"
	"github.com/aretw0/sensei/internal/logging"
	"github.com/aretw0/sensei/pkg/lesson"
	"github.com/aretw0/sensei/pkg/ports"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available lessons",
	Long:  `Lists the lessons currently unlocked, grouped by level.`,
	Run: func(cmd *cobra.Command, args []string) {
		catalogPath, _ := cmd.Flags().GetString("catalog")
		serviceURL, _ := cmd.Flags().GetString("service")
		modality, _ := cmd.Flags().GetString("modality")
		debug, _ := cmd.Flags().GetBool("debug")

		var svc ports.LessonService
		if serviceURL != "" {
			client := httpapi.NewClient(serviceURL)
			cli.ShowWarnings(context.Background(), client, os.Stderr)
			svc = client
		} else {
			catalog, err := lesson.LoadCatalog(catalogPath)
			if err != nil {
				fmt.Printf("Error loading catalog: %v\n", err)
				os.Exit(1)
			}
			svc = localService(catalog, logging.ForDebug(debug))
		}

		if err := cli.List(context.Background(), svc, modality, os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("modality", "", "Only lessons whose entry task uses this modality")
}
