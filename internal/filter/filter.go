// Package filter decides which unattached volumes are candidates for
// deletion. The decision is pure: the clock and the metrics lookup are
// explicit inputs, so the same snapshot always yields the same verdict.
package filter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	awslib "volsweep/internal/aws"
	"volsweep/internal/logging"
)

// DefaultIdleThresholdSeconds is the minimum per-hour idle time a volume
// must show in every datapoint to count as never active. Datapoints cover
// 300-second sampling periods; 299 means idle for nearly the full period.
const DefaultIdleThresholdSeconds = 299

// TagRule matches volumes whose tag value for Key contains a match of Pattern
type TagRule struct {
	Key     string
	Pattern *regexp.Regexp
}

// Matches reports whether the volume tags satisfy this rule
func (r TagRule) Matches(tags map[string]string) bool {
	value, ok := tags[r.Key]
	if !ok {
		return false
	}
	return r.Pattern.MatchString(value)
}

// ParseTagRules parses "key:regex" specs into rules. A missing key or
// pattern, or an invalid regex, is a configuration error.
func ParseTagRules(specs []string) ([]TagRule, error) {
	var rules []TagRule
	for _, spec := range specs {
		key, pattern, found := strings.Cut(spec, ":")
		if !found || key == "" || pattern == "" {
			return nil, fmt.Errorf("malformed tag filter %q, expected \"key:regex\"", spec)
		}

		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex in tag filter %q: %w", spec, err)
		}

		rules = append(rules, TagRule{Key: key, Pattern: re})
	}
	return rules, nil
}

// MetricsFunc fetches the per-hour minimum idle-time series for a volume
type MetricsFunc func(v awslib.Volume) ([]float64, error)

// Filter holds the eligibility configuration for one cleaning run
type Filter struct {
	Rules         []TagRule
	MaxAge        time.Duration
	IgnoreMetrics bool
	IdleThreshold float64
	Now           func() time.Time
}

// New creates a Filter with the default idle threshold and wall clock
func New(rules []TagRule, maxAge time.Duration, ignoreMetrics bool) *Filter {
	return &Filter{
		Rules:         rules,
		MaxAge:        maxAge,
		IgnoreMetrics: ignoreMetrics,
		IdleThreshold: DefaultIdleThresholdSeconds,
		Now:           time.Now,
	}
}

// MatchesTags reports whether every rule matches the volume. A volume with
// no rules configured always matches.
func (f *Filter) MatchesTags(v awslib.Volume) bool {
	for _, rule := range f.Rules {
		if !rule.Matches(v.Tags) {
			logging.Debug("Volume does not match tag filter", map[string]interface{}{
				"volume_id": v.ID,
				"tag_key":   rule.Key,
			})
			return false
		}
	}
	return true
}

// IsCandidate decides whether the volume should be deleted. Order: tag rules
// first, then the ignore-metrics shortcut, then the idle-time series, with
// creation age as the fallback when no datapoints exist yet.
func (f *Filter) IsCandidate(v awslib.Volume, metrics MetricsFunc) (bool, error) {
	if !f.MatchesTags(v) {
		return false, nil
	}

	if f.IgnoreMetrics {
		logging.Debug("Volume is a candidate for deletion (metrics ignored)", map[string]interface{}{
			"volume_id": v.ID,
		})
		return true, nil
	}

	minimums, err := metrics(v)
	if err != nil {
		return false, err
	}

	if len(minimums) == 0 {
		// Freshly provisioned volumes have no datapoints yet; fall back to
		// creation age so they are not written off as non-candidates forever.
		expire := v.CreateTime.Add(f.MaxAge)
		if !f.Now().Before(expire) {
			logging.Debug("Volume has no metrics yet but exceeds the age threshold, candidate for deletion", map[string]interface{}{
				"volume_id": v.ID,
			})
			return true, nil
		}
		logging.Debug("Volume has no metrics yet and is not a candidate for deletion", map[string]interface{}{
			"volume_id": v.ID,
		})
		return false, nil
	}

	for _, minimum := range minimums {
		if minimum < f.IdleThreshold {
			logging.Debug("Volume showed activity, not a candidate for deletion", map[string]interface{}{
				"volume_id": v.ID,
			})
			return false, nil
		}
	}

	logging.Debug("Volume is a candidate for deletion", map[string]interface{}{
		"volume_id": v.ID,
	})
	return true, nil
}
