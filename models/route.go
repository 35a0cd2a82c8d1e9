package models

// TextValue is a localized text plus its raw value, as returned by routing APIs
type TextValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// RouteElement is the single cell of a one-by-one distance matrix
type RouteElement struct {
	Status            string     `json:"status"`
	Distance          *TextValue `json:"distance,omitempty"`
	Duration          *TextValue `json:"duration,omitempty"`
	DurationInTraffic *TextValue `json:"duration_in_traffic,omitempty"`
}
