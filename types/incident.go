package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// IncidentType classifies what kind of security event a report describes.
type IncidentType string

const (
	IncidentAttack     IncidentType = "attack"
	IncidentKidnapping IncidentType = "kidnapping"
	IncidentRobbery    IncidentType = "robbery"
	IncidentGunshots   IncidentType = "gunshots"
	IncidentCheckpoint IncidentType = "checkpoint"
	IncidentFire       IncidentType = "fire"
	IncidentAccident   IncidentType = "accident"
	IncidentOther      IncidentType = "other"
)

// KnownIncidentTypes lists every valid IncidentType value.
var KnownIncidentTypes = []IncidentType{
	IncidentAttack, IncidentKidnapping, IncidentRobbery, IncidentGunshots,
	IncidentCheckpoint, IncidentFire, IncidentAccident, IncidentOther,
}

// NormalizeIncidentType maps an arbitrary classifier label onto a known type,
// falling back to IncidentOther.
func NormalizeIncidentType(raw string) IncidentType {
	for _, t := range KnownIncidentTypes {
		if string(t) == raw {
			return t
		}
	}
	return IncidentOther
}

// RawReport is a single headline pulled from the external event index.
// Ephemeral: it exists only within one pipeline run and is deduplicated by
// URL before classification.
type RawReport struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
	Excerpt     string    `json:"excerpt,omitempty"`
}

// ID returns a short stable identifier derived from the report URL.
func (r RawReport) ID() string {
	return GenerateID(r.URL)
}

// ClassifiedIncident is a structured incident produced by the classifier
// from one raw report. Never mutated after creation except for the
// relevance annotation attached during zoning.
type ClassifiedIncident struct {
	SourceURL         string               `json:"source_url"`
	Type              IncidentType         `json:"type"`
	ExtractedLocation string               `json:"extracted_location,omitempty"`
	OccurredAt        time.Time            `json:"occurred_at"`
	HasFatalities     bool                 `json:"has_fatalities"`
	RawConfidence     float64              `json:"raw_confidence,omitempty"`
	Relevance         *RelevanceAnnotation `json:"relevance,omitempty"`
}

// Zone is a discrete proximity tier relative to the query target.
type Zone string

// Area zones, ordered from closest to furthest.
const (
	ZoneImmediate Zone = "immediate"
	ZoneNearby    Zone = "nearby"
	ZoneRegional  Zone = "regional"
	ZoneStateWide Zone = "stateWide"
)

// Route zones. OffRoute incidents are retained for display but carry zero
// scoring weight.
const (
	ZoneOnRoute    Zone = "onRoute"
	ZoneRouteState Zone = "routeState"
	ZoneOffRoute   Zone = "offRoute"
)

// RelevanceAnnotation records which zone an incident landed in and the
// numeric weight that zone contributes to scoring. Exactly one per incident.
type RelevanceAnnotation struct {
	Zone   Zone    `json:"zone"`
	Weight float64 `json:"weight"`
	Label  string  `json:"label"`
}

// GenerateID creates a short unique ID from a URL.
func GenerateID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])[:16]
}
