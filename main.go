package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"family-dashboard/cache"
	"family-dashboard/collector"
	"family-dashboard/datasource"
	"family-dashboard/dlog"
	"family-dashboard/feeds"
	"family-dashboard/providers/bankoftaiwan"
	"family-dashboard/providers/fuelprice"
	"family-dashboard/providers/googlemaps"
	"family-dashboard/providers/openmeteo"
	"family-dashboard/traffic"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	root := &cobra.Command{
		Use:          "dashboard",
		Short:        "四維家族 dashboard: world clock, rates, weather, fuel prices and traffic",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "config.yaml", "Path to configuration file")
	root.PersistentFlags().String("google-maps-api-key", "", "Google Maps API key (overrides the config file)")
	root.PersistentFlags().String("cache-backend", "", "Cache backend: memory, sqlite or redis")
	root.PersistentFlags().Bool("rate-limit", true, "Enable API rate limiting")

	root.AddCommand(
		newServeCmd(),
		newShowCmd(),
		newCacheCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, when present, and applies flag and
// DASHBOARD_* environment overrides on top.
func loadConfig(cmd *cobra.Command) (*datasource.Config, *viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("DASHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, nil, errors.Wrap(err, "bind flags")
	}

	path := v.GetString("config")
	cfg := datasource.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if cfg, err = datasource.Load(path); err != nil {
			return nil, nil, err
		}
	} else if cmd.Flags().Changed("config") {
		return nil, nil, errors.Wrapf(err, "config file %s", path)
	}

	if v.IsSet("listen") {
		cfg.Listen = v.GetString("listen")
	}
	if key := v.GetString("google-maps-api-key"); key != "" {
		cfg.GoogleMaps.APIKey = key
	}
	if backend := v.GetString("cache-backend"); backend != "" {
		cfg.Cache.Backend = backend
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, v, nil
}

// dashboard holds the wired components shared by the commands
type dashboard struct {
	store     cache.Store
	memo      *cache.Memo
	collector *collector.Collector
}

// newDashboard creates the providers based on configuration and wires them
// into the feeds, the traffic fetcher and the collector.
func newDashboard(cfg *datasource.Config, rateLimit bool, logger *dlog.Logger) (*dashboard, error) {
	store, err := cache.OpenStore(cfg.Cache)
	if err != nil {
		return nil, errors.Wrap(err, "open cache")
	}
	memo := cache.NewMemo(store, logger.Named("cache"))

	var router datasource.Router
	if cfg.RoutingEnabled() {
		router = googlemaps.NewDistanceMatrixClient(cfg.GoogleMaps.APIKey, cfg.GoogleMaps.BaseURL)
		if rateLimit && cfg.GoogleMaps.RequestsPerSecond > 0 {
			router = datasource.NewRateLimitedRouter(router, cfg.GoogleMaps.RequestsPerSecond, cfg.GoogleMaps.Burst)
			logger.Println("Applied rate limiting to Google Maps router")
		}
	}

	var forecaster datasource.Forecaster = openmeteo.NewForecastClient(cfg.OpenMeteo.BaseURL)
	if rateLimit && cfg.OpenMeteo.RequestsPerSecond > 0 {
		forecaster = datasource.NewRateLimitedForecaster(forecaster, cfg.OpenMeteo.RequestsPerSecond, cfg.OpenMeteo.Burst)
		logger.Println("Applied rate limiting to Open-Meteo forecaster")
	}

	var rates datasource.RateSource
	if cfg.BankOfTaiwan.Enabled {
		rates = bankoftaiwan.NewRateClient(cfg.BankOfTaiwan.URL)
	}

	var fuel datasource.FuelSource = fuelprice.NewPageClient(cfg.FuelPrice.URL, cfg.FuelPrice.UserAgent)

	panels := collector.Panels{
		Clock:    feeds.NewClock(nil),
		Currency: feeds.NewCurrency(rates, cfg.Currencies, logger.Named("currency")),
		Weather:  feeds.NewWeather(forecaster, cfg.WeatherSites, logger.Named("weather")),
		Fuel:     feeds.NewFuel(fuel, logger.Named("fuel")),
	}
	fetcher := traffic.NewFetcher(router, cfg.GoogleMaps.Language, logger.Named("traffic"))
	if !fetcher.Configured() {
		logger.Printf("Google Maps API key not set, traffic rows will read %s", traffic.TextUnconfigured)
	}

	return &dashboard{
		store:     store,
		memo:      memo,
		collector: collector.NewCollector(cfg, panels, fetcher, memo, logger.Named("collector")),
	}, nil
}

// Close releases the cache store
func (d *dashboard) Close() error {
	return d.memo.Close()
}
