package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadwatch/types"
)

func zoned(t types.IncidentType, zone types.Zone, weight float64, fatal bool) types.ClassifiedIncident {
	return types.ClassifiedIncident{
		Type:          t,
		HasFatalities: fatal,
		Relevance: &types.RelevanceAnnotation{
			Zone:   zone,
			Weight: weight,
		},
	}
}

func TestScoreEmptyListIsWellFormed(t *testing.T) {
	result := Score(nil)

	require.NotNil(t, result)
	assert.Equal(t, 1.5, result.Score)
	assert.Equal(t, types.RiskLow, result.Level)
	assert.Equal(t, types.ConfidenceMedium, result.Confidence)
	assert.NotEmpty(t, result.Methodology)
}

func TestScoreWeightedSum(t *testing.T) {
	incidents := []types.ClassifiedIncident{
		zoned(types.IncidentRobbery, types.ZoneImmediate, 1.0, false), // 6.0
		zoned(types.IncidentCheckpoint, types.ZoneNearby, 0.7, false), // 2.1
	}

	result := Score(incidents)
	assert.InDelta(t, 8.1, result.Score, 1e-9)
	assert.Equal(t, types.RiskHigh, result.Level)
	assert.Equal(t, 1, result.Breakdown.ImmediateCount)
	assert.Equal(t, 1, result.Breakdown.NearbyCount)
}

func TestScoreFatalityMultiplier(t *testing.T) {
	withoutFatality := Score([]types.ClassifiedIncident{
		zoned(types.IncidentAttack, types.ZoneImmediate, 1.0, false),
	})
	withFatality := Score([]types.ClassifiedIncident{
		zoned(types.IncidentAttack, types.ZoneImmediate, 1.0, true),
	})

	assert.InDelta(t, withoutFatality.Score*1.5, withFatality.Score, 1e-9)
	assert.True(t, withFatality.Breakdown.HasFatalities)
	assert.False(t, withoutFatality.Breakdown.HasFatalities)
}

func TestScoreExcludesZeroWeightButCountsThem(t *testing.T) {
	incidents := []types.ClassifiedIncident{
		zoned(types.IncidentKidnapping, types.ZoneOnRoute, 1.0, false), // 9.0
		zoned(types.IncidentAttack, types.ZoneOffRoute, 0, false),      // excluded
		zoned(types.IncidentAttack, types.ZoneOffRoute, 0, false),      // excluded
	}

	result := Score(incidents)
	assert.InDelta(t, 9.0, result.Score, 1e-9)
	// Excluded from the total, still visible in the breakdown counts.
	assert.Equal(t, 2, result.Breakdown.StateCount)
	assert.Equal(t, 1, result.Breakdown.ImmediateCount)
}

func TestScoreLevelThresholds(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		level types.RiskLevel
	}{
		{"just under moderate", 2.9, types.RiskLow},
		{"moderate", 3.0, types.RiskModerate},
		{"just under high", 7.9, types.RiskModerate},
		{"high", 8.0, types.RiskHigh},
		{"just under critical", 17.9, types.RiskHigh},
		{"critical", 18.0, types.RiskCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.level, levelFor(tt.total))
		})
	}
}

func TestConfidenceTracksScoredCount(t *testing.T) {
	single := Score([]types.ClassifiedIncident{
		zoned(types.IncidentAttack, types.ZoneImmediate, 1.0, true),
	})
	// One dramatic incident is still thin evidence.
	assert.Equal(t, types.ConfidenceLow, single.Confidence)

	var many []types.ClassifiedIncident
	for i := 0; i < 8; i++ {
		many = append(many, zoned(types.IncidentCheckpoint, types.ZoneStateWide, 0.2, false))
	}
	assert.Equal(t, types.ConfidenceHigh, Score(many).Confidence)

	assert.Equal(t, types.ConfidenceMedium, Score(many[:5]).Confidence)
}

func TestDominantTypeFromHighestWeightedZone(t *testing.T) {
	incidents := []types.ClassifiedIncident{
		zoned(types.IncidentKidnapping, types.ZoneImmediate, 1.0, false),
		zoned(types.IncidentRobbery, types.ZoneStateWide, 0.2, false),
		zoned(types.IncidentRobbery, types.ZoneStateWide, 0.2, false),
		zoned(types.IncidentRobbery, types.ZoneStateWide, 0.2, false),
	}

	// Robbery is more frequent overall, but kidnapping owns the closest zone.
	result := Score(incidents)
	assert.Equal(t, types.IncidentKidnapping, result.Breakdown.DominantType)
}

func TestDangerousRoadsOnRouteOnly(t *testing.T) {
	road := func(label string, t types.IncidentType, fatal bool) types.ClassifiedIncident {
		return types.ClassifiedIncident{
			Type:          t,
			HasFatalities: fatal,
			Relevance: &types.RelevanceAnnotation{
				Zone:   types.ZoneOnRoute,
				Weight: 1.0,
				Label:  label,
			},
		}
	}

	incidents := []types.ClassifiedIncident{
		road("Abuja-Kaduna Expressway", types.IncidentKidnapping, true),
		road("Abuja-Kaduna Expressway", types.IncidentCheckpoint, false),
		road("Kaduna-Zaria Road", types.IncidentRobbery, false),
		zoned(types.IncidentAttack, types.ZoneRouteState, 0.45, false),
		zoned(types.IncidentAttack, types.ZoneOffRoute, 0, false),
	}

	roads := DangerousRoads(incidents)
	require.Len(t, roads, 2)

	assert.Equal(t, "Abuja-Kaduna Expressway", roads[0].Road)
	assert.Equal(t, 2, roads[0].IncidentCount)
	assert.InDelta(t, 9*1.5+3, roads[0].Weight, 1e-9)

	assert.Equal(t, "Kaduna-Zaria Road", roads[1].Road)
	assert.Equal(t, 1, roads[1].IncidentCount)
}
