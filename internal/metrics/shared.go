package metrics

import (
	"math"
	"strings"
	"time"
)

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// countMatches counts how many of the given substrings appear in s.
func countMatches(s string, substrings []string) int {
	n := 0
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			n++
		}
	}
	return n
}

func min1(v float64) float64 {
	return math.Min(v, 1.0)
}

// round4 rounds to four decimal places, the precision of all reported scores.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// daysSince parses an ISO-8601 timestamp (full RFC 3339, a zone-less
// date-time, or a bare date prefix) and returns whole days elapsed. ok is
// false when the string is empty or unparseable.
func daysSince(timestamp string, now time.Time) (int, bool) {
	if timestamp == "" {
		return 0, false
	}

	var parsed time.Time
	var err error
	if strings.Contains(timestamp, "T") {
		parsed, err = time.Parse(time.RFC3339, timestamp)
		if err != nil {
			// Hosting APIs sometimes omit the zone offset.
			parsed, err = time.Parse("2006-01-02T15:04:05", timestamp)
		}
	} else if len(timestamp) >= 10 {
		parsed, err = time.Parse("2006-01-02", timestamp[:10])
	} else {
		return 0, false
	}
	if err != nil {
		return 0, false
	}

	return int(now.Sub(parsed).Hours() / 24), true
}
