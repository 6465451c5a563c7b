package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	foundry "github.com/nwalker85/agentfoundry"
	httpAdapter "github.com/nwalker85/agentfoundry/internal/adapters/http"
	"github.com/nwalker85/agentfoundry/internal/logging"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the compiler HTTP server",
	Long: `Starts the compiler in server mode, exposing the four transforms as
a JSON API. Graphs under the --graphs directory are served through the
artifact cache and hot-reloaded as their files change.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		graphDir, _ := cmd.Flags().GetString("graphs")
		level, _ := cmd.Flags().GetString("log-level")

		logger := logging.New(parseLevel(level))

		f := foundry.New(
			foundry.WithLogger(logger),
			foundry.WithMetrics(prometheus.DefaultRegisterer),
		)

		handler := httpAdapter.NewHandler(f, graphDir, foundry.Version)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		watchCtx, cancelWatch := context.WithCancel(context.Background())
		defer cancelWatch()
		go func() {
			if err := f.WatchGraphs(watchCtx, graphDir); err != nil {
				logger.Warn("graph watcher stopped", "err", err)
			}
		}()

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Foundry Server on %s\n", srv.Addr)
			fmt.Printf("Serving graphs from: %s\n", graphDir)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Foundry Server stopped gracefully")
		}
	},
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().StringP("graphs", "g", ".", "Directory containing graph JSON files")
	serveCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
}
