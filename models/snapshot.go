package models

import (
	"time"
)

// Snapshot holds every panel for a single page render
type Snapshot struct {
	ID          string      `json:"id"`
	Clock       FeedResult  `json:"clock"`
	Currency    FeedResult  `json:"currency"`
	Weather     FeedResult  `json:"weather"`
	Fuel        FeedResult  `json:"fuel"`
	Routes      []RouteCard `json:"routes"`
	GeneratedAt time.Time   `json:"generatedAt"`
}
