package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/sensei"
	"github.com/aretw0/sensei/internal/adapters/httpapi"
	"github.com/aretw0/sensei/internal/adapters/mcp"
	"github.com/aretw0/sensei/internal/logging"
	"github.com/aretw0/sensei/pkg/lesson"
	"github.com/aretw0/sensei/pkg/ports"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the lesson service over the Model Context Protocol",
	Long:  `Starts an MCP server on stdin/stdout so AI agents can list lessons, read tasks and grade attempts.`,
	Run: func(cmd *cobra.Command, args []string) {
		catalogPath, _ := cmd.Flags().GetString("catalog")
		serviceURL, _ := cmd.Flags().GetString("service")
		debug, _ := cmd.Flags().GetBool("debug")

		var svc ports.LessonService
		if serviceURL != "" {
			svc = httpapi.NewClient(serviceURL)
		} else {
			catalog, err := lesson.LoadCatalog(catalogPath)
			if err != nil {
				fmt.Printf("Error loading catalog: %v\n", err)
				os.Exit(1)
			}
			svc = localService(catalog, logging.ForDebug(debug))
		}

		server := mcp.NewServer(svc, strings.TrimSpace(sensei.Version))
		if err := server.ServeStdio(); err != nil {
			fmt.Printf("MCP server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
