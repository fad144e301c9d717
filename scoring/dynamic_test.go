package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadwatch/types"
)

func recentIncidents(now time.Time, n, daysAgo int) []types.ClassifiedIncident {
	out := make([]types.ClassifiedIncident, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, types.ClassifiedIncident{
			Type:       types.IncidentRobbery,
			OccurredAt: now.AddDate(0, 0, -daysAgo),
			Relevance:  &types.RelevanceAnnotation{Zone: types.ZoneImmediate, Weight: 1.0},
		})
	}
	return out
}

func TestWindowNarrowsWithBaselineSeverity(t *testing.T) {
	assert.Equal(t, 30, WindowDays(types.RiskLow))
	assert.Equal(t, 21, WindowDays(types.RiskModerate))
	assert.Equal(t, 14, WindowDays(types.RiskHigh))
	assert.Equal(t, 7, WindowDays(types.RiskCritical))
}

func TestAdjustRisingRaisesLevel(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	// Low baseline expects 0.5/week over 30 days; 10 recent incidents is a
	// clear spike.
	result := Adjust(types.RiskLow, recentIncidents(now, 10, 2), now)

	require.NotNil(t, result)
	assert.Equal(t, types.TrendRising, result.Trend)
	assert.Equal(t, types.RiskModerate, result.AdjustedLevel)
	assert.Equal(t, types.RiskLow, result.BaselineLevel)
	assert.Equal(t, 30, result.TimeWindowDays)
	assert.Greater(t, result.AdjustedScore, baselineScores[types.RiskModerate])
}

func TestAdjustNeverDowngradesHighBaseline(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	for _, baseline := range []types.RiskLevel{types.RiskHigh, types.RiskCritical} {
		result := Adjust(baseline, nil, now)

		assert.Equal(t, types.TrendDeclining, result.Trend)
		assert.Equal(t, baseline, result.AdjustedLevel)
		assert.Equal(t, baselineScores[baseline], result.AdjustedScore)
	}
}

func TestAdjustDecliningSoftensCalmBaselines(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	result := Adjust(types.RiskModerate, nil, now)
	assert.Equal(t, types.TrendDeclining, result.Trend)
	assert.Equal(t, types.RiskModerate, result.AdjustedLevel)
	assert.InDelta(t, baselineScores[types.RiskModerate]*0.8, result.AdjustedScore, 1e-9)
}

func TestAdjustStableKeepsBaseline(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	// Moderate expects 1/week over 21 days: 3 incidents is ~1/week, stable.
	result := Adjust(types.RiskModerate, recentIncidents(now, 3, 5), now)

	assert.Equal(t, types.TrendStable, result.Trend)
	assert.Equal(t, types.RiskModerate, result.AdjustedLevel)
	assert.Equal(t, baselineScores[types.RiskModerate], result.AdjustedScore)
}

func TestAdjustIgnoresStaleAndZeroWeightIncidents(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	incidents := append(recentIncidents(now, 2, 60), // outside any window
		types.ClassifiedIncident{ // undated
			Type:      types.IncidentAttack,
			Relevance: &types.RelevanceAnnotation{Zone: types.ZoneImmediate, Weight: 1.0},
		},
		types.ClassifiedIncident{ // offRoute, zero weight
			Type:       types.IncidentAttack,
			OccurredAt: now.AddDate(0, 0, -1),
			Relevance:  &types.RelevanceAnnotation{Zone: types.ZoneOffRoute, Weight: 0},
		},
	)

	result := Adjust(types.RiskHigh, incidents, now)
	assert.Zero(t, result.RecentIncidentDensity)
	assert.Equal(t, types.TrendDeclining, result.Trend)
}

func TestRaiseLevelSaturatesAtCritical(t *testing.T) {
	assert.Equal(t, types.RiskModerate, raiseLevel(types.RiskLow))
	assert.Equal(t, types.RiskHigh, raiseLevel(types.RiskModerate))
	assert.Equal(t, types.RiskCritical, raiseLevel(types.RiskHigh))
	assert.Equal(t, types.RiskCritical, raiseLevel(types.RiskCritical))
}
