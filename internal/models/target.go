package models

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// MonitoredTarget describes a single page under watch. Targets are loaded
// once at startup and are immutable for the lifetime of a run.
type MonitoredTarget struct {
	ID            string        `yaml:"id,omitempty" json:"id,omitempty"`
	Name          string        `yaml:"name,omitempty" json:"name,omitempty"`
	URL           string        `yaml:"url" json:"url" validate:"required,url"`
	Selector      string        `yaml:"selector,omitempty" json:"selector,omitempty"`
	ExtractRegexp string        `yaml:"extract_regexp,omitempty" json:"extract_regexp,omitempty"`
	IntervalRaw   string        `yaml:"interval,omitempty" json:"interval,omitempty"`
	Interval      time.Duration `yaml:"-" json:"-"`
	AuthRequired  bool          `yaml:"auth_required,omitempty" json:"auth_required,omitempty"`
}

// DisplayName returns the configured name, falling back to the target ID.
func (t MonitoredTarget) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

// SlugifyURL derives a stable, filesystem- and key-safe identifier from a
// target URL. The host and path are flattened, and query parameters are
// appended in sorted order so that targets differing only by query string
// (e.g. per-county search filters) get distinct IDs.
func SlugifyURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("cannot slugify %q: %w", rawURL, err)
	}

	host := strings.ReplaceAll(u.Host, ":", "_")
	path := strings.Trim(u.Path, "/")
	if path == "" {
		path = "root"
	}
	path = strings.ReplaceAll(path, "/", "_")

	slug := host + "_" + path

	q := u.Query()
	if len(q) > 0 {
		keys := make([]string, 0, len(q))
		for k := range q {
			if q.Get(k) == "" {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			slug += "_" + sanitizeSlugPart(k) + "-" + sanitizeSlugPart(q.Get(k))
		}
	}

	return strings.ToLower(slug), nil
}

func sanitizeSlugPart(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
