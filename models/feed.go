package models

import (
	"time"
)

// Fallback tags why a panel shows fixed text instead of live data
type Fallback string

const (
	FallbackNone            Fallback = ""
	FallbackUnconfigured    Fallback = "unconfigured"     // API key or client missing
	FallbackDependency      Fallback = "dependency"       // optional provider missing
	FallbackUpstreamFailure Fallback = "upstream_failure" // timeout, non-200, bad payload
	FallbackEmpty           Fallback = "empty"
)

// Panel identifies one feed on the page; it doubles as the cache key
type Panel string

const (
	PanelClock    Panel = "clock"
	PanelCurrency Panel = "currency"
	PanelWeather  Panel = "weather"
	PanelFuel     Panel = "fuel"
)

// FeedResult is the rendered outcome of one feed
type FeedResult struct {
	Panel     Panel     `json:"panel"`
	HTML      string    `json:"html"`
	Fallback  Fallback  `json:"fallback,omitempty"`
	Detail    string    `json:"detail,omitempty"` // error text behind a fallback
	FetchedAt time.Time `json:"fetchedAt"`
}

// OK reports whether the feed produced live data
func (r FeedResult) OK() bool {
	return r.Fallback == FallbackNone
}
