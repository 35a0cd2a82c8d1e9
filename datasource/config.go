package datasource

import (
	"os"
	"strings"
	"time"

	"family-dashboard/models"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Cache backends understood by the cache package
const (
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
)

// Config represents the application configuration
type Config struct {
	Listen       string        `yaml:"listen"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// All routes start or end at BaseAddress
	BaseAddress   string `yaml:"base_address"`
	OutboundLabel string `yaml:"outbound_label"`

	GoogleMaps   GoogleMapsConfig   `yaml:"google_maps"`
	OpenMeteo    OpenMeteoConfig    `yaml:"open_meteo"`
	BankOfTaiwan BankOfTaiwanConfig `yaml:"bank_of_taiwan"`
	FuelPrice    FuelPriceConfig    `yaml:"fuel_price"`
	Cache        CacheConfig        `yaml:"cache"`

	Currencies   []Currency           `yaml:"currencies"`
	Locations    []models.Location    `yaml:"locations"`
	WeatherSites []models.WeatherSite `yaml:"weather_sites"`
}

// GoogleMapsConfig configures the distance matrix client
type GoogleMapsConfig struct {
	APIKey            string  `yaml:"api_key"`
	BaseURL           string  `yaml:"base_url"`
	Language          string  `yaml:"language"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// OpenMeteoConfig configures the forecast client
type OpenMeteoConfig struct {
	BaseURL           string  `yaml:"base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// BankOfTaiwanConfig configures the board rate client. Disabling it makes the
// currency panel report a missing dependency.
type BankOfTaiwanConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// FuelPriceConfig configures the pump price scraper
type FuelPriceConfig struct {
	URL       string `yaml:"url"`
	UserAgent string `yaml:"user_agent"`
}

// CacheConfig selects the cache backend and per-panel expiry windows.
// A zero TTL disables caching for that panel.
type CacheConfig struct {
	Backend     string          `yaml:"backend"`
	Path        string          `yaml:"path"`
	RedisAddr   string          `yaml:"redis_addr"`
	RedisPool   RedisPoolConfig `yaml:"redis_pool"`
	ClockTTL    time.Duration   `yaml:"clock_ttl"`
	CurrencyTTL time.Duration   `yaml:"currency_ttl"`
	WeatherTTL  time.Duration   `yaml:"weather_ttl"`
	FuelTTL     time.Duration   `yaml:"fuel_ttl"`
	TrafficTTL  time.Duration   `yaml:"traffic_ttl"`
}

// RedisPoolConfig sizes the Redis connection pool. Zero values keep the pool defaults.
type RedisPoolConfig struct {
	MaxIdle     int           `yaml:"max_idle"`
	MaxActive   int           `yaml:"max_active"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// Currency is a currency code and the label shown next to its rate
type Currency struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

// RoutingEnabled reports whether the Google Maps key looks usable
func (c *Config) RoutingEnabled() bool {
	key := strings.TrimSpace(c.GoogleMaps.APIKey)
	return key != "" && !strings.Contains(key, "YOUR_KEY")
}

// Validate checks the invariants the dashboard relies on
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseAddress) == "" {
		return errors.New("base_address is required")
	}
	if c.FetchTimeout <= 0 {
		return errors.New("fetch_timeout must be positive")
	}
	for i, loc := range c.Locations {
		if loc.Name == "" || loc.Address == "" {
			return errors.Errorf("location %d: name and address are required", i)
		}
		if loc.OutboundMinutes <= 0 || loc.ReturnMinutes <= 0 {
			return errors.Errorf("location %q: baseline minutes must be positive", loc.Name)
		}
	}
	switch c.Cache.Backend {
	case CacheMemory:
	case CacheSQLite:
		if c.Cache.Path == "" {
			return errors.New("cache.path is required for the sqlite backend")
		}
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New("cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// Load reads a YAML config file on top of the defaults and expands ${VAR} references.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	expanded := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	return cfg, nil
}

// DefaultConfig returns the household's dashboard configuration
func DefaultConfig() *Config {
	return &Config{
		Listen:        ":8080",
		FetchTimeout:  10 * time.Second,
		BaseAddress:   "苗栗縣公館鄉鶴山村11鄰鶴山146號",
		OutboundLabel: "往苗栗",
		GoogleMaps: GoogleMapsConfig{
			BaseURL:           "https://maps.googleapis.com/maps/api",
			Language:          "zh-TW",
			RequestsPerSecond: 5,
			Burst:             8,
		},
		OpenMeteo: OpenMeteoConfig{
			BaseURL:           "https://api.open-meteo.com/v1",
			RequestsPerSecond: 10,
			Burst:             7,
		},
		BankOfTaiwan: BankOfTaiwanConfig{
			Enabled: true,
			URL:     "https://rate.bot.com.tw/xrt/flcsv/0/day",
		},
		FuelPrice: FuelPriceConfig{
			URL:       "https://gas.goodlife.tw/",
			UserAgent: "Mozilla/5.0",
		},
		Cache: CacheConfig{
			Backend:     CacheMemory,
			Path:        "dashboard-cache.db",
			RedisAddr:   "localhost:6379",
			ClockTTL:    0,
			CurrencyTTL: 10 * time.Minute,
			WeatherTTL:  10 * time.Minute,
			FuelTTL:     time.Hour,
			TrafficTTL:  5 * time.Minute,
		},
		Currencies: []Currency{
			{Code: "USD", Label: "美金"},
			{Code: "EUR", Label: "歐元"},
			{Code: "JPY", Label: "日圓"},
		},
		Locations: []models.Location{
			{Name: "月華家", Address: "文山區木柵路二段109巷137號", ReturnLabel: "反木柵", OutboundMinutes: 76, ReturnMinutes: 74},
			{Name: "秋華家", Address: "新竹的名人大矽谷", ReturnLabel: "反芎林", OutboundMinutes: 33, ReturnMinutes: 35},
			{Name: "孟竹家", Address: "新竹市東區太原路128號", ReturnLabel: "反新竹", OutboundMinutes: 31, ReturnMinutes: 32},
			{Name: "小凱家", Address: "台北市內湖區文湖街21巷", ReturnLabel: "反內湖", OutboundMinutes: 76, ReturnMinutes: 78},
		},
		WeatherSites: []models.WeatherSite{
			{Name: "苗栗", Latitude: 24.51, Longitude: 120.82},
			{Name: "新竹", Latitude: 24.80, Longitude: 120.99},
			{Name: "芎林", Latitude: 24.77, Longitude: 121.07},
			{Name: "木柵", Latitude: 24.99, Longitude: 121.57},
			{Name: "內湖", Latitude: 25.08, Longitude: 121.56},
			{Name: "波士頓", Latitude: 42.36, Longitude: -71.06},
			{Name: "德國", Latitude: 51.05, Longitude: 13.74},
		},
	}
}
