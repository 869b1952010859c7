package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var intervalPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseInterval parses compact interval strings like "30s", "5m", "3h" or
// "1d". Plain Go durations ("1h30m") are accepted as a fallback.
func ParseInterval(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, fmt.Errorf("interval is empty")
	}

	if m := intervalPattern.FindStringSubmatch(raw); m != nil {
		value, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("invalid interval %q: %w", raw, err)
		}
		if value <= 0 {
			return 0, fmt.Errorf("interval must be positive: %q", raw)
		}
		switch m[2] {
		case "s":
			return time.Duration(value) * time.Second, nil
		case "m":
			return time.Duration(value) * time.Minute, nil
		case "h":
			return time.Duration(value) * time.Hour, nil
		case "d":
			return time.Duration(value) * 24 * time.Hour, nil
		}
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid interval format: %q", raw)
	}
	if d <= 0 {
		return 0, fmt.Errorf("interval must be positive: %q", raw)
	}
	return d, nil
}

// FormatInterval renders a duration the way log lines and notifications
// display it: whole seconds, minutes or hours.
func FormatInterval(d time.Duration) string {
	secs := int(d.Seconds())
	switch {
	case secs < 60:
		return fmt.Sprintf("%d seconds", secs)
	case secs < 3600:
		return fmt.Sprintf("%d minutes", secs/60)
	default:
		return fmt.Sprintf("%d hours", secs/3600)
	}
}
