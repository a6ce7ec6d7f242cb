package shared

import "time"

const dateLayout = "2006-01-02"

// ParseDate accepts RFC3339 or YYYY-MM-DD. Date-only values are pinned to
// UTC midnight so leave day arithmetic is stable across server timezones.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.ParseInLocation(dateLayout, value, time.UTC)
}
