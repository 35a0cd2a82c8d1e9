package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"family-dashboard/api"
	"family-dashboard/cache"
	"family-dashboard/dlog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var warmInterval time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard page and its JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, v, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := dlog.NewLogger()
			d, err := newDashboard(cfg, v.GetBool("rate-limit"), logger)
			if err != nil {
				return err
			}
			defer d.Close()

			server := api.NewServer(d.collector, cfg.Listen, logger.Named("http"))

			// Set up channels for graceful shutdown
			shutdownChan := make(chan os.Signal, 1)
			signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// Keep the cache warm between page views
			if warmInterval > 0 {
				stopCollection := d.collector.Start(ctx, warmInterval)
				defer stopCollection()
			}

			// Periodically drop expired rows from the on-disk cache
			if sqlite, ok := d.store.(*cache.SQLiteStore); ok {
				go pruneExpired(ctx, sqlite, logger)
			}

			errChan := make(chan error, 1)
			go func() {
				errChan <- server.Start()
			}()

			select {
			case err := <-errChan:
				if !errors.Is(err, http.ErrServerClosed) {
					return errors.Wrap(err, "server stopped")
				}
				return nil
			case sig := <-shutdownChan:
				logger.Printf("Shutting down due to %s signal", sig)
			}

			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return errors.Wrap(err, "shutdown")
			}

			logger.Println("Shutdown complete")
			return nil
		},
	}

	cmd.Flags().String("listen", ":8080", "Address to serve on")
	cmd.Flags().DurationVar(&warmInterval, "warm-interval", 0, "Collect all panels on this interval in the background (0 disables)")
	return cmd
}

func pruneExpired(ctx context.Context, store *cache.SQLiteStore, logger *dlog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := store.ClearExpired(time.Now())
			if err != nil {
				logger.Printf("Error pruning cache: %v", err)
				continue
			}
			if n > 0 {
				logger.Printf("Pruned %d expired cache entries", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
