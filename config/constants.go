package config

import (
	"os"
	"time"
)

// Cache policy constants
const (
	// CacheHardExpiry is how long a cache entry remains servable at all.
	CacheHardExpiry = 2 * time.Hour

	// CacheStaleAfter is the age beyond which a served entry triggers a
	// non-blocking background refresh.
	CacheStaleAfter = 30 * time.Minute
)

// Report source constants
const (
	// MaxReportsPerQuery caps how many articles one index query returns.
	MaxReportsPerQuery = 50

	// ReportLookbackDays bounds how far back the index query reaches.
	ReportLookbackDays = 14

	// ExtractionWorkers sizes the full-text enrichment worker pool.
	ExtractionWorkers = 5

	// MaxEnrichedReports caps how many reports get full-text enrichment.
	MaxEnrichedReports = 10

	// IndexRequestTimeout bounds a single event-index HTTP call.
	IndexRequestTimeout = 20 * time.Second
)

// Classifier constants
const (
	// MaxClassifierBatch bounds the number of headlines submitted to the
	// classifier in one request. Reports beyond the cap are not classified
	// in that run.
	MaxClassifierBatch = 25

	// LLMRequestTimeout bounds a single classifier or briefing call.
	LLMRequestTimeout = 60 * time.Second
)

// Scoring constants
const (
	// FatalityMultiplier scales an incident's weight when fatalities were
	// reported.
	FatalityMultiplier = 1.5

	// EmptyResultScore is the fixed score returned when no incidents match.
	EmptyResultScore = 1.5
)

// Risk level thresholds on the weighted incident total.
const (
	ModerateThreshold = 3.0
	HighThreshold     = 8.0
	CriticalThreshold = 18.0
)

// Dynamic adjustment lookback windows, inverse to baseline severity: calm
// areas get a wide window to catch emerging risk, known-dangerous areas a
// narrow one where only recent signal matters.
const (
	WindowLowBaselineDays      = 30
	WindowModerateBaselineDays = 21
	WindowHighBaselineDays     = 14
	WindowCriticalBaselineDays = 7
)

// ExpectedWeeklyDensity is the incidents-per-week rate considered normal for
// each baseline level, keyed by RiskLevel string.
var ExpectedWeeklyDensity = map[string]float64{
	"low":      0.5,
	"moderate": 1.0,
	"high":     2.0,
	"critical": 3.0,
}

// Density beyond RisingDensityFactor times the expectation reads as rising;
// below DecliningDensityFactor, declining.
const (
	RisingDensityFactor    = 1.5
	DecliningDensityFactor = 0.5
)

// GetEnvOrDefault returns the value of an environment variable or a default.
func GetEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
