package datasource

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if len(cfg.Locations) != 4 {
		t.Errorf("expected 4 locations, got %d", len(cfg.Locations))
	}
	if len(cfg.WeatherSites) != 7 {
		t.Errorf("expected 7 weather sites, got %d", len(cfg.WeatherSites))
	}
	if cfg.Cache.FuelTTL != time.Hour {
		t.Errorf("expected 1h fuel TTL, got %v", cfg.Cache.FuelTTL)
	}
	if cfg.RoutingEnabled() {
		t.Error("routing should be disabled without an API key")
	}
}

func TestRoutingEnabled(t *testing.T) {
	cases := map[string]bool{
		"":                  false,
		"   ":               false,
		"YOUR_KEY_HERE":     false,
		"AIzaSyExampleKey0": true,
	}
	for key, want := range cases {
		cfg := DefaultConfig()
		cfg.GoogleMaps.APIKey = key
		if got := cfg.RoutingEnabled(); got != want {
			t.Errorf("key %q: expected %v, got %v", key, want, got)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_MAPS_KEY", "maps-key-123")

	content := `
listen: ":9090"
base_address: "Base Road 1"
google_maps:
  api_key: ${TEST_MAPS_KEY}
cache:
  backend: sqlite
  path: /tmp/dash.db
  weather_ttl: 30m
locations:
  - name: Home
    address: Home Street 2
    return_label: Back home
    outbound_minutes: 40
    return_minutes: 42
`
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Listen != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.Listen)
	}
	if cfg.GoogleMaps.APIKey != "maps-key-123" {
		t.Errorf("env var not expanded: got %s", cfg.GoogleMaps.APIKey)
	}
	if cfg.GoogleMaps.Language != "zh-TW" {
		t.Errorf("default language lost: got %s", cfg.GoogleMaps.Language)
	}
	if cfg.Cache.WeatherTTL != 30*time.Minute {
		t.Errorf("expected 30m weather TTL, got %v", cfg.Cache.WeatherTTL)
	}
	if cfg.Cache.CurrencyTTL != 10*time.Minute {
		t.Errorf("expected default 10m currency TTL, got %v", cfg.Cache.CurrencyTTL)
	}
	if len(cfg.Locations) != 1 {
		t.Fatalf("expected 1 location, got %d", len(cfg.Locations))
	}
	if cfg.Locations[0].ReturnMinutes != 42 {
		t.Errorf("expected 42 return minutes, got %d", cfg.Locations[0].ReturnMinutes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/dashboard.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	t.Run("rejects non-positive baselines", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Locations[1].ReturnMinutes = 0
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for zero baseline")
		}
	})

	t.Run("rejects unknown cache backend", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Cache.Backend = "memcached"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for unknown backend")
		}
	})

	t.Run("requires a redis address", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Cache.Backend = CacheRedis
		cfg.Cache.RedisAddr = ""
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for missing redis address")
		}
	})

	t.Run("requires a base address", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.BaseAddress = " "
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for blank base address")
		}
	})
}
