package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/sensei/internal/adapters/httpapi"
	"github.com/aretw0/sensei/internal/adapters/memory"
	"github.com/aretw0/sensei/internal/adapters/redisbus"
	"github.com/aretw0/sensei/internal/logging"
	"github.com/aretw0/sensei/pkg/lesson"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reference lesson service",
	Long:  `Serves the lesson catalog over HTTP: task descriptions, grading, sessions, warnings and metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		catalogPath, _ := cmd.Flags().GetString("catalog")
		redisAddr, _ := cmd.Flags().GetString("redis")
		port, _ := cmd.Flags().GetString("port")
		debug, _ := cmd.Flags().GetBool("debug")

		logger := logging.ForDebug(debug)

		catalog, err := lesson.LoadCatalog(catalogPath)
		if err != nil {
			fmt.Printf("Error loading catalog: %v\n", err)
			os.Exit(1)
		}

		svc := memory.NewService(catalog, memory.WithLogger(logger))
		serverOpts := []httpapi.ServerOption{
			httpapi.WithCatalogPath(catalogPath),
			httpapi.WithServerLogger(logger),
		}
		if redisAddr != "" {
			bus := redisbus.New(redisAddr, "", 0)
			defer bus.Close()
			serverOpts = append(serverOpts, httpapi.WithBus(bus))
		}

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: httpapi.NewServer(svc, serverOpts...).Handler(),
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Starting Sensei service on %s\n", srv.Addr)
			fmt.Printf("Serving lessons from: %s\n", catalogPath)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Sensei service stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
