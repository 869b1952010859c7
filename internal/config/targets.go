package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"pagewatcher/internal/common"
	"pagewatcher/internal/models"

	"gopkg.in/yaml.v3"
)

// targetsFile is the on-disk layout of the target list.
type targetsFile struct {
	Targets []models.MonitoredTarget `yaml:"targets"`
}

// LoadTargets reads the ordered target list from a YAML file and resolves
// per-target IDs and intervals. Targets without an explicit ID get a stable
// slug derived from their URL; targets without an interval inherit
// defaultInterval.
func LoadTargets(path string, defaultInterval time.Duration) ([]models.MonitoredTarget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to read targets file '%s'", path)
	}

	var tf targetsFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, common.WrapErrorf(err, "failed to unmarshal targets file '%s'", path)
	}

	if len(tf.Targets) == 0 {
		return nil, fmt.Errorf("targets file '%s' contains no targets", path)
	}

	seen := make(map[string]struct{}, len(tf.Targets))
	targets := make([]models.MonitoredTarget, 0, len(tf.Targets))
	for i, t := range tf.Targets {
		resolved, err := resolveTarget(t, defaultInterval)
		if err != nil {
			return nil, common.WrapErrorf(err, "invalid target at index %d", i)
		}
		if _, dup := seen[resolved.ID]; dup {
			return nil, fmt.Errorf("duplicate target id %q", resolved.ID)
		}
		seen[resolved.ID] = struct{}{}
		targets = append(targets, resolved)
	}

	return targets, nil
}

func resolveTarget(t models.MonitoredTarget, defaultInterval time.Duration) (models.MonitoredTarget, error) {
	if t.URL == "" {
		return t, common.NewValidationError("url", t.URL, "target URL is required")
	}
	u, err := url.Parse(t.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return t, common.NewValidationError("url", t.URL, "target URL must be absolute http(s)")
	}

	if t.ID == "" {
		slug, err := models.SlugifyURL(t.URL)
		if err != nil {
			return t, err
		}
		t.ID = slug
	}

	if t.IntervalRaw != "" {
		d, err := ParseInterval(t.IntervalRaw)
		if err != nil {
			return t, common.NewValidationError("interval", t.IntervalRaw, err.Error())
		}
		t.Interval = d
	} else {
		t.Interval = defaultInterval
	}
	if t.Interval <= 0 {
		return t, common.NewValidationError("interval", t.IntervalRaw, "target interval must be positive")
	}

	return t, nil
}
