package scoring

import (
	"time"

	"roadwatch/config"
	"roadwatch/types"
)

// baselineScores anchors each baseline level to a numeric score so the
// adjusted score has a comparable scale to the scorer's output.
var baselineScores = map[types.RiskLevel]float64{
	types.RiskLow:      2,
	types.RiskModerate: 5,
	types.RiskHigh:     12,
	types.RiskCritical: 20,
}

// WindowDays selects the lookback window as an inverse function of baseline
// severity.
func WindowDays(baseline types.RiskLevel) int {
	switch baseline {
	case types.RiskCritical:
		return config.WindowCriticalBaselineDays
	case types.RiskHigh:
		return config.WindowHighBaselineDays
	case types.RiskModerate:
		return config.WindowModerateBaselineDays
	default:
		return config.WindowLowBaselineDays
	}
}

// Adjust blends a static baseline risk level with the density of recent
// classified incidents. It is invoked only when the caller supplies a
// baseline; callers without one skip the adjustment entirely rather than
// defaulting it.
//
// The adjustment may move the baseline up on a density spike but never
// downgrades a high or critical baseline on absence of recent incidents:
// that absence is flagged as a declining trend only.
func Adjust(baseline types.RiskLevel, incidents []types.ClassifiedIncident, now time.Time) *types.DynamicRiskResult {
	windowDays := WindowDays(baseline)
	cutoff := now.AddDate(0, 0, -windowDays)

	recent := 0
	for _, inc := range incidents {
		if inc.OccurredAt.IsZero() || inc.OccurredAt.Before(cutoff) {
			continue
		}
		if inc.Relevance != nil && inc.Relevance.Weight == 0 {
			continue
		}
		recent++
	}

	// Incidents per week over the window.
	density := float64(recent) / float64(windowDays) * 7

	expected := config.ExpectedWeeklyDensity[string(baseline)]
	trend := trendFor(density, expected)

	adjustedLevel := baseline
	adjustedScore := baselineScores[baseline]

	switch trend {
	case types.TrendRising:
		adjustedLevel = raiseLevel(baseline)
		adjustedScore = baselineScores[adjustedLevel]
		// Carry the overshoot so two rising areas at the same level still rank.
		if expected > 0 {
			adjustedScore += density / expected
		}
	case types.TrendDeclining:
		// Calm areas may settle back; known-dangerous ones keep their level.
		if types.RiskLevelRank(baseline) <= types.RiskLevelRank(types.RiskModerate) {
			adjustedScore = baselineScores[baseline] * 0.8
		}
	}

	return &types.DynamicRiskResult{
		AdjustedLevel:         adjustedLevel,
		AdjustedScore:         adjustedScore,
		BaselineLevel:         baseline,
		TimeWindowDays:        windowDays,
		RecentIncidentDensity: density,
		Trend:                 trend,
	}
}

func trendFor(density, expected float64) types.Trend {
	if expected <= 0 {
		if density > 0 {
			return types.TrendRising
		}
		return types.TrendStable
	}
	switch {
	case density > expected*config.RisingDensityFactor:
		return types.TrendRising
	case density < expected*config.DecliningDensityFactor:
		return types.TrendDeclining
	default:
		return types.TrendStable
	}
}

func raiseLevel(l types.RiskLevel) types.RiskLevel {
	switch l {
	case types.RiskLow:
		return types.RiskModerate
	case types.RiskModerate:
		return types.RiskHigh
	default:
		return types.RiskCritical
	}
}
