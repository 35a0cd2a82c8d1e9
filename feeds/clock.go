package feeds

import (
	"context"
	"strings"
	"time"

	"family-dashboard/models"
)

// ClockZone is one row of the world clock
type ClockZone struct {
	Label  string
	Zone   string
	Offset int // hours east of UTC used when the zone database is unavailable
}

// DefaultClockZones are Taipei, Boston and Germany in display order
var DefaultClockZones = []ClockZone{
	{Label: "台灣", Zone: "Asia/Taipei", Offset: 8},
	{Label: "波士頓", Zone: "America/New_York", Offset: -5},
	{Label: "德國", Zone: "Europe/Berlin", Offset: 1},
}

// Clock renders the current time in each zone as HH:MM:SS
type Clock struct {
	zones        []ClockZone
	now          func() time.Time
	loadLocation func(string) (*time.Location, error)
}

// NewClock creates a world clock over zones, DefaultClockZones when nil
func NewClock(zones []ClockZone) *Clock {
	if zones == nil {
		zones = DefaultClockZones
	}
	return &Clock{
		zones:        zones,
		now:          time.Now,
		loadLocation: time.LoadLocation,
	}
}

func (c *Clock) Panel() models.Panel {
	return models.PanelClock
}

// Times returns HH:MM:SS per zone label. If any zone cannot be loaded every
// zone uses its fixed offset, so the rows never mix the two sources.
func (c *Clock) Times() []string {
	now := c.now().UTC()

	locations := make([]*time.Location, len(c.zones))
	for i, z := range c.zones {
		loc, err := c.loadLocation(z.Zone)
		if err != nil {
			locations = nil
			break
		}
		locations[i] = loc
	}

	times := make([]string, len(c.zones))
	for i, z := range c.zones {
		if locations != nil {
			times[i] = now.In(locations[i]).Format("15:04:05")
		} else {
			times[i] = now.Add(time.Duration(z.Offset) * time.Hour).Format("15:04:05")
		}
	}
	return times
}

// Fetch renders the clock panel
func (c *Clock) Fetch(ctx context.Context) models.FeedResult {
	times := c.Times()
	lines := make([]string, len(c.zones))
	for i, z := range c.zones {
		lines[i] = padName(z.Label) + ": " + times[i]
	}
	return result(models.PanelClock, c.now(), strings.Join(lines, "<br>"))
}

// padName appends an em space to two-character names so the colons line up
// with three-character ones.
func padName(name string) string {
	if len([]rune(name)) == 2 {
		return name + "&emsp;"
	}
	return name
}
