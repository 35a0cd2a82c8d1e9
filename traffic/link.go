package traffic

import (
	"net/url"
)

// MapsDirectionsBase is the deep link root for Google Maps directions
const MapsDirectionsBase = "https://www.google.com.tw/maps/dir"

// RouteLink returns a directions deep link from start to end. Each address is
// escaped as its own path segment, so a slash inside an address stays inside it.
func RouteLink(start, end string) string {
	return MapsDirectionsBase + "/" + url.PathEscape(start) + "/" + url.PathEscape(end)
}
