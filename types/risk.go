package types

import "time"

// RiskLevel is a discrete risk classification.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskLevelRank returns an ordinal for level comparisons (low=0 .. critical=3).
// Unknown levels rank below low.
func RiskLevelRank(l RiskLevel) int {
	switch l {
	case RiskLow:
		return 0
	case RiskModerate:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return -1
	}
}

// Confidence expresses how much signal backs a score, derived from incident
// count rather than score magnitude.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Trend describes recent incident density relative to the baseline
// expectation.
type Trend string

const (
	TrendRising    Trend = "rising"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// RiskBreakdown itemizes what fed the score.
type RiskBreakdown struct {
	ImmediateCount int          `json:"immediate_count"`
	NearbyCount    int          `json:"nearby_count"`
	RegionalCount  int          `json:"regional_count"`
	StateCount     int          `json:"state_count"`
	WeightedTotal  float64      `json:"weighted_total"`
	DominantType   IncidentType `json:"dominant_type,omitempty"`
	HasFatalities  bool         `json:"has_fatalities"`
}

// RiskScoreResult is the scorer's output. Always well-formed: an empty
// incident list produces a fixed low-score result, never a nil.
type RiskScoreResult struct {
	Score       float64       `json:"score"`
	Level       RiskLevel     `json:"level"`
	Confidence  Confidence    `json:"confidence"`
	Methodology string        `json:"methodology"`
	Breakdown   RiskBreakdown `json:"breakdown"`
}

// DynamicRiskResult blends a static baseline with recent incident density.
// Present only when the caller supplied a baseline level.
type DynamicRiskResult struct {
	AdjustedLevel         RiskLevel `json:"adjusted_level"`
	AdjustedScore         float64   `json:"adjusted_score"`
	BaselineLevel         RiskLevel `json:"baseline_level"`
	TimeWindowDays        int       `json:"time_window_days"`
	RecentIncidentDensity float64   `json:"recent_incident_density"`
	Trend                 Trend     `json:"trend"`
}

// StaticProfile is the precomputed security profile for an area or road,
// supplied by an external collaborator and only read here.
type StaticProfile struct {
	BaselineRisk  RiskLevel `json:"baseline_risk,omitempty"`
	DangerZones   []string  `json:"danger_zones,omitempty"`
	TravelWindows []string  `json:"travel_windows,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

// GroupedIncidents buckets zoned incidents by zone. The sum of bucket sizes
// always equals the incident count.
type GroupedIncidents map[Zone][]ClassifiedIncident

// RoadDanger attributes on-route incident weight to a named road.
type RoadDanger struct {
	Road          string  `json:"road"`
	IncidentCount int     `json:"incident_count"`
	Weight        float64 `json:"weight"`
}

// IntelPayload is the complete pipeline result: the consumer-facing shape is
// stable regardless of which stages succeeded.
type IntelPayload struct {
	Target           TargetKind           `json:"target"`
	Location         string               `json:"location"`
	Incidents        []ClassifiedIncident `json:"incidents"`
	GroupedIncidents GroupedIncidents     `json:"grouped_incidents"`
	RiskScore        *RiskScoreResult     `json:"risk_score"`
	DynamicRisk      *DynamicRiskResult   `json:"dynamic_risk,omitempty"`
	Briefing         *Briefing            `json:"briefing,omitempty"`
	DangerousRoads   []RoadDanger         `json:"dangerous_roads,omitempty"`
	LastUpdated      time.Time            `json:"last_updated"`
	FallbackToRaw    bool                 `json:"fallback_to_raw"`
	RawArticles      []RawReport          `json:"raw_articles,omitempty"`
}
