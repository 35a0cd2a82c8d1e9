package models

// Direction tells whether a route heads to the base address or away from it
type Direction int

const (
	// Outbound routes end at the base address
	Outbound Direction = iota
	// Return routes start at the base address
	Return
)

// String returns a short name for logs and JSON
func (d Direction) String() string {
	if d == Return {
		return "return"
	}
	return "outbound"
}

// Location is a named destination with fixed baseline travel times
type Location struct {
	Name            string `yaml:"name" json:"name"`
	Address         string `yaml:"address" json:"address"`
	ReturnLabel     string `yaml:"return_label" json:"returnLabel"`
	OutboundMinutes int    `yaml:"outbound_minutes" json:"outboundMinutes"` // location -> base
	ReturnMinutes   int    `yaml:"return_minutes" json:"returnMinutes"`     // base -> location
}

// WeatherSite is a named coordinate checked by the weather panel
type WeatherSite struct {
	Name      string  `yaml:"name" json:"name"`
	Latitude  float64 `yaml:"lat" json:"lat"`
	Longitude float64 `yaml:"lon" json:"lon"`
}
