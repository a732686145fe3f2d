// Package feedtime converts the zone-less local timestamps of the reference
// feed into absolute instants.
package feedtime

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

const DefaultZone = "Europe/Berlin"

var layouts = []string{
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// LoadLocation resolves the feed zone, falling back to DefaultZone.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load feed time zone %q: %w", name, err)
	}
	return loc, nil
}

// Parse reads a feed timestamp. Values carrying an explicit offset keep it;
// zone-less values are interpreted in loc, so the offset follows DST.
func Parse(raw string, loc *time.Location) (time.Time, error) {
	value := strings.Trim(strings.TrimSpace(raw), `"`)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty feed timestamp")
	}
	if loc == nil {
		loc = time.UTC
	}

	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed.UTC(), nil
	}
	for _, layout := range layouts {
		parsed, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported feed timestamp %q", value)
}

// EndOfDay returns the last instant of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), loc)
}
