package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"family-dashboard/cache"
	"family-dashboard/datasource"
	"family-dashboard/dlog"

	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the panel cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := cache.OpenStore(cfg.Cache)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			n, err := store.Len()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Backend:\t%s\n", cfg.Cache.Backend)
			fmt.Fprintf(w, "Entries:\t%d\n", n)
			fmt.Fprintln(w, "PANEL\tTTL")
			for _, row := range []struct {
				name string
				ttl  time.Duration
			}{
				{"clock", cfg.Cache.ClockTTL},
				{"currency", cfg.Cache.CurrencyTTL},
				{"weather", cfg.Cache.WeatherTTL},
				{"fuel", cfg.Cache.FuelTTL},
				{"traffic", cfg.Cache.TrafficTTL},
			} {
				ttl := row.ttl.String()
				if row.ttl <= 0 {
					ttl = "not cached"
				}
				fmt.Fprintf(w, "%s\t%s\n", row.name, ttl)
			}
			return w.Flush()
		},
	}

	var expiredOnly bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == datasource.CacheMemory {
				fmt.Println("The memory cache lives inside the serve process; use the page's refresh button instead.")
				return nil
			}
			store, err := cache.OpenStore(cfg.Cache)
			if err != nil {
				return err
			}
			memo := cache.NewMemo(store, dlog.NewLogger())
			defer func() { _ = memo.Close() }()

			if expiredOnly {
				sqlite, ok := store.(*cache.SQLiteStore)
				if !ok {
					fmt.Printf("The %s backend expires entries by itself.\n", cfg.Cache.Backend)
					return nil
				}
				n, err := sqlite.ClearExpired(time.Now())
				if err != nil {
					return err
				}
				fmt.Printf("%d expired cache entries cleared.\n", n)
				return nil
			}

			if err := memo.ClearAll(); err != nil {
				return err
			}
			fmt.Println("All cache entries cleared.")
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&expiredOnly, "expired", false, "only clear expired entries")

	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}
