package filter

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awslib "volsweep/internal/aws"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func noMetrics(t *testing.T) MetricsFunc {
	return func(v awslib.Volume) ([]float64, error) {
		t.Fatalf("unexpected metrics lookup for volume %s", v.ID)
		return nil, nil
	}
}

func TestParseTagRules(t *testing.T) {
	tests := []struct {
		name      string
		specs     []string
		expectErr bool
	}{
		{name: "empty", specs: nil, expectErr: false},
		{name: "single rule", specs: []string{"Name:^integration-test"}, expectErr: false},
		{name: "multiple rules", specs: []string{"Name:^integration-test", "env:dev$"}, expectErr: false},
		{name: "value with colon", specs: []string{"Name:^arn:aws"}, expectErr: false},
		{name: "missing separator", specs: []string{"Name"}, expectErr: true},
		{name: "missing key", specs: []string{":^integration"}, expectErr: true},
		{name: "missing pattern", specs: []string{"Name:"}, expectErr: true},
		{name: "invalid regex", specs: []string{"Name:["}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := ParseTagRules(tt.specs)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, rules, len(tt.specs))
		})
	}
}

func TestParseTagRulesSplitsOnFirstColon(t *testing.T) {
	rules, err := ParseTagRules([]string{"Name:^a:b$"})
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "Name", rules[0].Key)
	assert.True(t, rules[0].Matches(map[string]string{"Name": "a:b"}))
}

func TestTagRuleSearchIsUnanchored(t *testing.T) {
	rules, err := ParseTagRules([]string{"Name:integration"})
	require.NoError(t, err)
	assert.True(t, rules[0].Matches(map[string]string{"Name": "my-integration-test"}))
}

func TestIsCandidateTagFilter(t *testing.T) {
	rules, err := ParseTagRules([]string{"Name:^integration-test"})
	require.NoError(t, err)

	f := New(rules, 14*24*time.Hour, true)

	matching := awslib.Volume{
		ID:   "vol-1",
		Tags: map[string]string{"Name": "integration-test-1"},
	}
	ok, err := f.IsCandidate(matching, noMetrics(t))
	require.NoError(t, err)
	assert.True(t, ok)

	// A non-matching tag short-circuits before any metrics lookup
	prod := awslib.Volume{
		ID:   "vol-2",
		Tags: map[string]string{"Name": "prod-db"},
	}
	f.IgnoreMetrics = false
	ok, err = f.IsCandidate(prod, noMetrics(t))
	require.NoError(t, err)
	assert.False(t, ok)

	missing := awslib.Volume{
		ID:   "vol-3",
		Tags: map[string]string{"env": "dev"},
	}
	ok, err = f.IsCandidate(missing, noMetrics(t))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsCandidateIgnoreMetrics(t *testing.T) {
	f := New(nil, 14*24*time.Hour, true)

	ok, err := f.IsCandidate(awslib.Volume{ID: "vol-1"}, noMetrics(t))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsCandidateEmptySeriesAgeFallback(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	empty := func(v awslib.Volume) ([]float64, error) { return nil, nil }

	tests := []struct {
		name      string
		created   time.Time
		candidate bool
	}{
		{name: "older than threshold", created: now.AddDate(0, 0, -20), candidate: true},
		{name: "younger than threshold", created: now.AddDate(0, 0, -5), candidate: false},
		{name: "exactly at threshold", created: now.AddDate(0, 0, -14), candidate: true},
		{name: "one second short", created: now.AddDate(0, 0, -14).Add(time.Second), candidate: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(nil, 14*24*time.Hour, false)
			f.Now = fixedClock(now)

			ok, err := f.IsCandidate(awslib.Volume{ID: "vol-1", CreateTime: tt.created}, empty)
			require.NoError(t, err)
			assert.Equal(t, tt.candidate, ok)
		})
	}
}

func TestIsCandidateIdleThreshold(t *testing.T) {
	tests := []struct {
		name      string
		minimums  []float64
		candidate bool
	}{
		{name: "always idle", minimums: []float64{400, 299, 500}, candidate: true},
		{name: "one active datapoint", minimums: []float64{400, 298, 500}, candidate: false},
		{name: "active at the end", minimums: []float64{300, 300, 0}, candidate: false},
		{name: "single idle datapoint", minimums: []float64{299}, candidate: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(nil, 14*24*time.Hour, false)
			metrics := func(v awslib.Volume) ([]float64, error) { return tt.minimums, nil }

			ok, err := f.IsCandidate(awslib.Volume{ID: "vol-1"}, metrics)
			require.NoError(t, err)
			assert.Equal(t, tt.candidate, ok)
		})
	}
}

func TestIsCandidateMetricsError(t *testing.T) {
	f := New(nil, 14*24*time.Hour, false)
	metrics := func(v awslib.Volume) ([]float64, error) {
		return nil, fmt.Errorf("metrics unavailable")
	}

	ok, err := f.IsCandidate(awslib.Volume{ID: "vol-1"}, metrics)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestIsCandidateIsDeterministic(t *testing.T) {
	rules, err := ParseTagRules([]string{"Name:^integration-test"})
	require.NoError(t, err)

	f := New(rules, 14*24*time.Hour, false)
	f.Now = fixedClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	v := awslib.Volume{
		ID:         "vol-1",
		CreateTime: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Tags:       map[string]string{"Name": "integration-test-1"},
	}
	metrics := func(v awslib.Volume) ([]float64, error) { return []float64{300, 300}, nil }

	first, err := f.IsCandidate(v, metrics)
	require.NoError(t, err)
	second, err := f.IsCandidate(v, metrics)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, first)
}
