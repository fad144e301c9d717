// Package scoring turns zoned incidents into a numeric risk assessment and
// optionally blends it with a precomputed static baseline.
package scoring

import (
	"fmt"

	"roadwatch/config"
	"roadwatch/types"
)

// typeSeverity weights each incident type's contribution to the score.
var typeSeverity = map[types.IncidentType]float64{
	types.IncidentAttack:     10,
	types.IncidentKidnapping: 9,
	types.IncidentGunshots:   7,
	types.IncidentRobbery:    6,
	types.IncidentFire:       5,
	types.IncidentAccident:   4,
	types.IncidentCheckpoint: 3,
	types.IncidentOther:      2,
}

// TypeSeverity returns the severity weight for an incident type.
func TypeSeverity(t types.IncidentType) float64 {
	if w, ok := typeSeverity[t]; ok {
		return w
	}
	return typeSeverity[types.IncidentOther]
}

// Score aggregates zoned incidents into a RiskScoreResult. The result is
// always well-formed: an empty list yields a fixed low-score medium-confidence
// result so downstream consumers never see a nil.
func Score(incidents []types.ClassifiedIncident) *types.RiskScoreResult {
	if len(incidents) == 0 {
		return &types.RiskScoreResult{
			Score:       config.EmptyResultScore,
			Level:       types.RiskLow,
			Confidence:  types.ConfidenceMedium,
			Methodology: "no incidents found in lookback window",
			Breakdown:   types.RiskBreakdown{},
		}
	}

	var breakdown types.RiskBreakdown
	scored := 0
	for _, inc := range incidents {
		if inc.Relevance == nil {
			continue
		}
		countZone(&breakdown, inc.Relevance.Zone)
		if inc.HasFatalities {
			breakdown.HasFatalities = true
		}

		weight := inc.Relevance.Weight * TypeSeverity(inc.Type)
		if weight == 0 {
			// offRoute: retained for display, excluded from the score.
			continue
		}
		if inc.HasFatalities {
			weight *= config.FatalityMultiplier
		}
		breakdown.WeightedTotal += weight
		scored++
	}

	breakdown.DominantType = dominantType(incidents)

	return &types.RiskScoreResult{
		Score:       breakdown.WeightedTotal,
		Level:       levelFor(breakdown.WeightedTotal),
		Confidence:  confidenceFor(scored),
		Methodology: fmt.Sprintf("weighted sum of %d zoned incidents (zone x severity, fatality x%.1f)", scored, config.FatalityMultiplier),
		Breakdown:   breakdown,
	}
}

func countZone(b *types.RiskBreakdown, zone types.Zone) {
	switch zone {
	case types.ZoneImmediate, types.ZoneOnRoute:
		b.ImmediateCount++
	case types.ZoneNearby:
		b.NearbyCount++
	case types.ZoneRegional, types.ZoneRouteState:
		b.RegionalCount++
	case types.ZoneStateWide, types.ZoneOffRoute:
		b.StateCount++
	}
}

func levelFor(total float64) types.RiskLevel {
	switch {
	case total < config.ModerateThreshold:
		return types.RiskLow
	case total < config.HighThreshold:
		return types.RiskModerate
	case total < config.CriticalThreshold:
		return types.RiskHigh
	default:
		return types.RiskCritical
	}
}

// confidenceFor derives confidence from how many incidents carried scoring
// weight, independent of the score itself. A single dramatic incident still
// reads as low confidence.
func confidenceFor(scoredCount int) types.Confidence {
	switch {
	case scoredCount <= 2:
		return types.ConfidenceLow
	case scoredCount <= 7:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceHigh
	}
}

// dominantType is the most frequent incident type within the
// highest-weighted zone present.
func dominantType(incidents []types.ClassifiedIncident) types.IncidentType {
	var topWeight float64 = -1
	counts := map[types.IncidentType]int{}
	for _, inc := range incidents {
		if inc.Relevance == nil {
			continue
		}
		if inc.Relevance.Weight > topWeight {
			topWeight = inc.Relevance.Weight
			counts = map[types.IncidentType]int{}
		}
		if inc.Relevance.Weight == topWeight {
			counts[inc.Type]++
		}
	}

	var dominant types.IncidentType
	best := 0
	for t, n := range counts {
		if n > best || (n == best && dominant == "") {
			dominant = t
			best = n
		}
	}
	return dominant
}

// DangerousRoads attributes weight to named roads from onRoute incidents
// only; routeState incidents raise the overall score but are not pinned to a
// specific road.
func DangerousRoads(incidents []types.ClassifiedIncident) []types.RoadDanger {
	byRoad := map[string]*types.RoadDanger{}
	order := []string{}
	for _, inc := range incidents {
		if inc.Relevance == nil || inc.Relevance.Zone != types.ZoneOnRoute {
			continue
		}
		road := inc.Relevance.Label
		entry, ok := byRoad[road]
		if !ok {
			entry = &types.RoadDanger{Road: road}
			byRoad[road] = entry
			order = append(order, road)
		}
		entry.IncidentCount++
		weight := inc.Relevance.Weight * TypeSeverity(inc.Type)
		if inc.HasFatalities {
			weight *= config.FatalityMultiplier
		}
		entry.Weight += weight
	}

	out := make([]types.RoadDanger, 0, len(order))
	for _, road := range order {
		out = append(out, *byRoad[road])
	}
	return out
}
