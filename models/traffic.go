package models

// ColorClass is the CSS class used for a traffic row
type ColorClass string

const (
	ColorGold    ColorClass = "text-gold"  // outbound rows
	ColorCyan    ColorClass = "text-cyan"  // return rows
	ColorNeutral ColorClass = "text-white" // unconfigured or failed rows
)

// TrafficResult is the outcome of one directional traffic query
type TrafficResult struct {
	Label        string     `json:"label"`
	DurationText string     `json:"durationText,omitempty"`
	Delta        *int       `json:"delta,omitempty"` // minutes against the baseline
	Color        ColorClass `json:"color"`
	Link         string     `json:"link"`
	Text         string     `json:"text"` // display HTML
	Fallback     Fallback   `json:"fallback,omitempty"`
	Detail       string     `json:"detail,omitempty"`
}

// RouteCard groups the two directions shown for one location
type RouteCard struct {
	Name     string        `json:"name"`
	Outbound TrafficResult `json:"outbound"`
	Return   TrafficResult `json:"return"`
}
