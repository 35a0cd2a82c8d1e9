package traffic

import (
	"context"
	"fmt"
	"html"
	"sync"

	"family-dashboard/datasource"
	"family-dashboard/dlog"
	"family-dashboard/models"
)

// Fallback texts appended to the direction label
const (
	TextUnconfigured = "API未設定"
	TextQueryFailed  = "查詢失敗"
	TextNoEstimate   = "無法估算"
)

// Query is one directional traffic lookup
type Query struct {
	Origin      string
	Destination string
	Baseline    int
	Label       string
	Direction   models.Direction
}

// Fetcher turns routing answers into display rows
type Fetcher struct {
	router   datasource.Router
	language string
	logger   *dlog.Logger
}

// NewFetcher creates a fetcher. A nil router means routing is not configured
// and every row reports so.
func NewFetcher(router datasource.Router, language string, logger *dlog.Logger) *Fetcher {
	if logger == nil {
		logger = dlog.Discard()
	}
	return &Fetcher{
		router:   router,
		language: language,
		logger:   logger,
	}
}

// Configured reports whether a router is available
func (f *Fetcher) Configured() bool {
	return f.router != nil
}

// Fetch runs one query. It never fails; upstream problems become fallback rows.
func (f *Fetcher) Fetch(ctx context.Context, q Query) models.TrafficResult {
	link := RouteLink(q.Origin, q.Destination)

	if f.router == nil {
		return models.TrafficResult{
			Label:    q.Label,
			Text:     fmt.Sprintf("%s : %s", q.Label, TextUnconfigured),
			Color:    models.ColorNeutral,
			Link:     link,
			Fallback: models.FallbackUnconfigured,
		}
	}

	el, err := f.router.Route(ctx, datasource.RouteRequest{
		Origin:      q.Origin,
		Destination: q.Destination,
		Language:    f.language,
	})
	if err != nil {
		f.logger.Printf("route %s -> %s via %s failed: %v", q.Origin, q.Destination, f.router.Name(), err)
		return models.TrafficResult{
			Label:    q.Label,
			Text:     fmt.Sprintf("%s : %s", q.Label, TextQueryFailed),
			Color:    models.ColorNeutral,
			Link:     link,
			Fallback: models.FallbackUpstreamFailure,
			Detail:   err.Error(),
		}
	}

	durationText := TextNoEstimate
	switch {
	case el.DurationInTraffic != nil:
		durationText = html.EscapeString(el.DurationInTraffic.Text)
	case el.Duration != nil:
		durationText = html.EscapeString(el.Duration.Text)
	}

	minutes := ParseDuration(durationText)
	f.logger.Debugf("route %s -> %s: %q = %d min (baseline %d)", q.Origin, q.Destination, durationText, minutes, q.Baseline)

	result := FormatLabel(q.Label, durationText, minutes, q.Baseline, q.Direction)
	result.Link = link
	return result
}

// Card fetches both directions between a location and the base address.
// The two queries run concurrently so a stalled direction cannot use up the
// other's share of ctx's deadline.
func (f *Fetcher) Card(ctx context.Context, base, outboundLabel string, loc models.Location) models.RouteCard {
	card := models.RouteCard{Name: loc.Name}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		card.Outbound = f.Fetch(ctx, Query{
			Origin:      loc.Address,
			Destination: base,
			Baseline:    loc.OutboundMinutes,
			Label:       outboundLabel,
			Direction:   models.Outbound,
		})
	}()
	go func() {
		defer wg.Done()
		card.Return = f.Fetch(ctx, Query{
			Origin:      base,
			Destination: loc.Address,
			Baseline:    loc.ReturnMinutes,
			Label:       loc.ReturnLabel,
			Direction:   models.Return,
		})
	}()
	wg.Wait()

	return card
}
