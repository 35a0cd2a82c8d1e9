// Package feeds renders the left-hand panels of the dashboard. Every fetcher
// returns a models.FeedResult and never an error; upstream problems become
// fixed fallback text tagged with a models.Fallback reason.
package feeds

import (
	"context"
	"time"

	"family-dashboard/models"
)

// Feed is one panel of the dashboard
type Feed interface {
	Panel() models.Panel
	Fetch(ctx context.Context) models.FeedResult
}

func result(panel models.Panel, now time.Time, html string) models.FeedResult {
	return models.FeedResult{Panel: panel, HTML: html, FetchedAt: now}
}

func fallback(panel models.Panel, now time.Time, html string, reason models.Fallback, err error) models.FeedResult {
	r := models.FeedResult{Panel: panel, HTML: html, Fallback: reason, FetchedAt: now}
	if err != nil {
		r.Detail = err.Error()
	}
	return r
}
