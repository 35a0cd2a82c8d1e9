package traffic

import (
	"strconv"
	"strings"
)

// Unit markers, longest first so "hours" is not cut at "hour".
var (
	hourMarkers   = []string{"小時", "hours", "hour"}
	minuteMarkers = []string{"分鐘", "minutes", "minute", "mins", "min"}
)

// ParseDuration converts routing text such as "1 小時 16 分鐘" or "1 hour 16 mins"
// into minutes. Text it cannot read yields 0, which callers treat as "no estimate".
//
// The hour count, when an hour marker is present, must be an integer or the
// whole result is 0. A minute part that is not purely numeric is ignored.
func ParseDuration(text string) int {
	total := 0
	remaining := text

	if marker, ok := findMarker(text, hourMarkers); ok {
		left, right, _ := strings.Cut(text, marker)
		hours, err := strconv.Atoi(strings.TrimSpace(left))
		if err != nil || hours < 0 {
			return 0
		}
		total += hours * 60
		remaining = right
	}

	if marker, ok := findMarker(remaining, minuteMarkers); ok {
		mins := strings.TrimSpace(strings.ReplaceAll(remaining, marker, ""))
		if isDigits(mins) {
			m, err := strconv.Atoi(mins)
			if err != nil {
				return 0
			}
			total += m
		}
	}

	return total
}

func findMarker(text string, markers []string) (string, bool) {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return m, true
		}
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
