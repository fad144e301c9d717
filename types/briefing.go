package types

// TravelerGuidance is the traveler-facing section of a briefing.
type TravelerGuidance struct {
	Headline string   `json:"headline"`
	Tips     []string `json:"tips"`
}

// ResidentGuidance is the resident-facing section, present for area
// briefings only.
type ResidentGuidance struct {
	Headline           string   `json:"headline"`
	Tips               []string `json:"tips"`
	NeighborhoodStatus string   `json:"neighborhood_status,omitempty"`
}

// RouteSegment is one leg of a route briefing.
type RouteSegment struct {
	Name      string    `json:"name"`
	RiskLevel RiskLevel `json:"risk_level,omitempty"`
	Advice    string    `json:"advice,omitempty"`
}

// Briefing is the generated natural-language summary. Area briefings carry
// resident guidance; route briefings carry per-segment guidance instead.
// A nil Briefing on the payload means generation failed, which is non-fatal.
type Briefing struct {
	Summary            string            `json:"summary"`
	ForTravelers       *TravelerGuidance `json:"for_travelers,omitempty"`
	ForResidents       *ResidentGuidance `json:"for_residents,omitempty"`
	RouteSegments      []RouteSegment    `json:"route_segments,omitempty"`
	RecentDevelopments []string          `json:"recent_developments,omitempty"`
	PositiveNotes      []string          `json:"positive_notes,omitempty"`
	BottomLine         string            `json:"bottom_line"`
}
