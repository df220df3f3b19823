package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/sensei/internal/adapters/httpapi"
	"github.com/aretw0/sensei/internal/adapters/redisbus"
	"github.com/aretw0/sensei/internal/cli"
	"github.com/aretw0/sensei/internal/logging"
	"github.com/aretw0/sensei/pkg/lesson"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [lesson]",
	Short: "Practice a lesson interactively",
	Long:  `Starts a practice session for the named lesson, prompting for input task by task until the lesson completes. Without a lesson name it lists what is available.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		catalogPath, _ := cmd.Flags().GetString("catalog")
		serviceURL, _ := cmd.Flags().GetString("service")
		redisAddr, _ := cmd.Flags().GetString("redis")
		debug, _ := cmd.Flags().GetBool("debug")

		logger := logging.ForDebug(debug)

		catalog, err := lesson.LoadCatalog(catalogPath)
		if err != nil {
			fmt.Printf("Error loading catalog: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := cli.PracticeOptions{
			Logger: logger,
			Pacing: pacing(cmd),
		}

		if serviceURL != "" {
			client := httpapi.NewClient(serviceURL)
			cli.ShowWarnings(ctx, client, os.Stderr)
			opts.Service = client
		} else {
			opts.Service = localService(catalog, logger)
		}

		if len(args) == 0 {
			if err := cli.List(ctx, opts.Service, "", os.Stdout); err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		l, err := cli.ResolveLesson(catalog, args[0], os.Stdout)
		if err != nil {
			os.Exit(1)
		}
		opts.Lesson = l

		if redisAddr != "" {
			bus := redisbus.New(redisAddr, "", 0)
			defer bus.Close()
			opts.Watcher = bus
			opts.Source = bus
			opts.Sink = bus
		}

		err = cli.Practice(ctx, opts)
		if code := cli.ExitCode(err); code != 0 {
			logger.Error("practice session failed", "err", err)
			os.Exit(code)
		}
	},
}

// pacing defaults to "only when a human is watching".
func pacing(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("pace") {
		pace, _ := cmd.Flags().GetBool("pace")
		return pace
	}
	return cli.StdoutIsTerminal()
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("pace", false, "Pace output character by character (default: auto-detect terminal)")
}

