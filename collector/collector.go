package collector

import (
	"context"
	"sync"
	"time"

	"family-dashboard/cache"
	"family-dashboard/datasource"
	"family-dashboard/dlog"
	"family-dashboard/feeds"
	"family-dashboard/models"
	"family-dashboard/traffic"

	"github.com/google/uuid"
)

// Panels are the feed fetchers shown on the left of the page
type Panels struct {
	Clock    feeds.Feed
	Currency feeds.Feed
	Weather  feeds.Feed
	Fuel     feeds.Feed
}

// Collector gathers every panel and route card for one page render
type Collector struct {
	panels        Panels
	traffic       *traffic.Fetcher
	memo          *cache.Memo
	ttls          datasource.CacheConfig
	baseAddress   string
	outboundLabel string
	locations     []models.Location
	fetchTimeout  time.Duration
	logger        *dlog.Logger
	now           func() time.Time
}

// NewCollector creates a collector. Each panel result is memoized under its
// panel name; each route card under its destination address.
func NewCollector(cfg *datasource.Config, panels Panels, fetcher *traffic.Fetcher, memo *cache.Memo, logger *dlog.Logger) *Collector {
	if logger == nil {
		logger = dlog.Discard()
	}
	return &Collector{
		panels:        panels,
		traffic:       fetcher,
		memo:          memo,
		ttls:          cfg.Cache,
		baseAddress:   cfg.BaseAddress,
		outboundLabel: cfg.OutboundLabel,
		locations:     cfg.Locations,
		fetchTimeout:  cfg.FetchTimeout,
		logger:        logger,
		now:           time.Now,
	}
}

// SetFetchTimeout changes the timeout applied to each panel and route card
func (c *Collector) SetFetchTimeout(timeout time.Duration) {
	c.fetchTimeout = timeout
}

// Collect runs all panels and route cards concurrently and assembles a snapshot
func (c *Collector) Collect(ctx context.Context) models.Snapshot {
	snapshot := models.Snapshot{
		ID:     uuid.NewString(),
		Routes: make([]models.RouteCard, len(c.locations)),
	}

	var wg sync.WaitGroup

	panel := func(dst *models.FeedResult, feed feeds.Feed, ttl time.Duration) {
		if feed == nil {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			*dst = cache.Do(ctx, c.memo, string(feed.Panel()), ttl, func(ctx context.Context) models.FeedResult {
				fetchCtx, cancel := c.fetchContext(ctx)
				defer cancel()
				return feed.Fetch(fetchCtx)
			})
		}()
	}

	panel(&snapshot.Clock, c.panels.Clock, c.ttls.ClockTTL)
	panel(&snapshot.Currency, c.panels.Currency, c.ttls.CurrencyTTL)
	panel(&snapshot.Weather, c.panels.Weather, c.ttls.WeatherTTL)
	panel(&snapshot.Fuel, c.panels.Fuel, c.ttls.FuelTTL)

	for i, loc := range c.locations {
		wg.Add(1)
		go func(i int, loc models.Location) {
			defer wg.Done()
			snapshot.Routes[i] = cache.Do(ctx, c.memo, "traffic:"+loc.Address, c.ttls.TrafficTTL, func(ctx context.Context) models.RouteCard {
				fetchCtx, cancel := c.fetchContext(ctx)
				defer cancel()
				return c.traffic.Card(fetchCtx, c.baseAddress, c.outboundLabel, loc)
			})
		}(i, loc)
	}

	wg.Wait()
	snapshot.GeneratedAt = c.now()

	c.logger.Debugf("snapshot %s collected with %d route cards", snapshot.ID, len(snapshot.Routes))
	return snapshot
}

// fetchContext bounds one fetch by the fetch timeout alone. Fetch results are
// cached, so a caller that goes away (a closed browser tab, a stopping warm-up
// loop) must not turn its cancellation into a cached upstream failure.
func (c *Collector) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
}

// Refresh clears every cache slot so the next Collect fetches fresh data
func (c *Collector) Refresh() error {
	c.logger.Println("Clearing all cached panels")
	return c.memo.ClearAll()
}

// Stats returns the cache counters
func (c *Collector) Stats() (cache.Stats, error) {
	return c.memo.Stats()
}

// Start collects once immediately and then on every tick, keeping the cache warm
// between page views. The returned function stops collection and waits for it.
func (c *Collector) Start(ctx context.Context, interval time.Duration) func() {
	collectionCtx, cancelCollection := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		c.warm(collectionCtx)
		for {
			select {
			case <-ticker.C:
				c.warm(collectionCtx)
			case <-collectionCtx.Done():
				return
			}
		}
	}()

	return func() {
		cancelCollection()
		wg.Wait()
	}
}

func (c *Collector) warm(ctx context.Context) {
	snapshot := c.Collect(ctx)
	failed := 0
	for _, r := range []models.FeedResult{snapshot.Clock, snapshot.Currency, snapshot.Weather, snapshot.Fuel} {
		if !r.OK() {
			failed++
		}
	}
	c.logger.Printf("Updated dashboard panels (%d with fallback text)", failed)
}
