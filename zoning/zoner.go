// Package zoning classifies incidents into proximity zones relative to a
// query target. Areas use a radial scheme (immediate > nearby > regional >
// stateWide); routes use a topological one (onRoute > routeState > offRoute).
// Both resolve to a common numeric weight so the scorer stays scheme-agnostic.
package zoning

import (
	"strings"

	"roadwatch/types"
)

// zoneWeights maps each zone to its fixed scoring weight, monotonically
// decreasing with distance. OffRoute is retained for display but excluded
// from scoring.
var zoneWeights = map[types.Zone]float64{
	types.ZoneImmediate:  1.0,
	types.ZoneNearby:     0.7,
	types.ZoneRegional:   0.4,
	types.ZoneStateWide:  0.2,
	types.ZoneOnRoute:    1.0,
	types.ZoneRouteState: 0.45,
	types.ZoneOffRoute:   0.0,
}

// ZoneWeight returns the scoring weight for a zone.
func ZoneWeight(z types.Zone) float64 {
	return zoneWeights[z]
}

// Annotate attaches a relevance annotation to each incident according to the
// target's zoning scheme. Incidents are returned in input order; every
// incident receives exactly one annotation.
func Annotate(target types.Target, incidents []types.ClassifiedIncident) []types.ClassifiedIncident {
	out := make([]types.ClassifiedIncident, len(incidents))
	for i, inc := range incidents {
		ann := annotateOne(target, inc)
		inc.Relevance = &ann
		out[i] = inc
	}
	return out
}

func annotateOne(target types.Target, inc types.ClassifiedIncident) types.RelevanceAnnotation {
	switch t := target.(type) {
	case types.AreaTarget:
		return zoneArea(t, inc.ExtractedLocation)
	case types.RouteTarget:
		return zoneRoute(t, inc.ExtractedLocation)
	default:
		// Unknown target kinds fall to the weakest area tier rather than
		// dropping the incident.
		return annotation(types.ZoneStateWide, "unresolved")
	}
}

// zoneArea matches the extracted location against the area name, its LGA and
// its state, in that strict precedence order. Unresolvable locations fall to
// stateWide, never dropped.
func zoneArea(t types.AreaTarget, location string) types.RelevanceAnnotation {
	loc := normalize(location)
	if loc == "" {
		return annotation(types.ZoneStateWide, t.State)
	}
	if name := normalize(t.Name); name != "" && strings.Contains(loc, name) {
		return annotation(types.ZoneImmediate, t.Name)
	}
	if lga := normalize(t.LGA); lga != "" && strings.Contains(loc, lga) {
		return annotation(types.ZoneNearby, t.LGA)
	}
	if state := normalize(t.State); state != "" && strings.Contains(loc, state) {
		return annotation(types.ZoneRegional, t.State)
	}
	return annotation(types.ZoneStateWide, t.State)
}

// zoneRoute matches against named roads first, then the ordered state list.
// A route's closeness is topological, so anything off the path is offRoute
// regardless of radial distance. Unresolvable locations default to the
// lowest non-excluded tier.
func zoneRoute(t types.RouteTarget, location string) types.RelevanceAnnotation {
	loc := normalize(location)
	if loc == "" {
		return annotation(types.ZoneRouteState, t.DisplayName())
	}
	for _, road := range t.Roads {
		if name := normalize(road.Name); name != "" && matchesRoad(loc, name) {
			return annotation(types.ZoneOnRoute, road.Name)
		}
	}
	for _, state := range t.States {
		if s := normalize(state); s != "" && strings.Contains(loc, s) {
			return annotation(types.ZoneRouteState, state)
		}
	}
	return annotation(types.ZoneOffRoute, "")
}

// matchesRoad checks whether a location string references a named road,
// tolerating the common "A-B road/expressway/highway" phrasings in either
// segment order.
func matchesRoad(loc, road string) bool {
	if strings.Contains(loc, road) {
		return true
	}
	trimmed := road
	for _, suffix := range []string{" expressway", " highway", " road"} {
		trimmed = strings.TrimSuffix(trimmed, suffix)
	}
	if trimmed != road && trimmed != "" && strings.Contains(loc, trimmed) {
		return true
	}
	// "Abuja-Kaduna" vs "Kaduna-Abuja"
	if parts := strings.Split(trimmed, "-"); len(parts) == 2 {
		reversed := strings.TrimSpace(parts[1]) + "-" + strings.TrimSpace(parts[0])
		if strings.Contains(loc, reversed) {
			return true
		}
	}
	return false
}

func annotation(zone types.Zone, label string) types.RelevanceAnnotation {
	return types.RelevanceAnnotation{
		Zone:   zone,
		Weight: zoneWeights[zone],
		Label:  label,
	}
}

// Group buckets annotated incidents by zone. Every incident lands in exactly
// one bucket: the sum of bucket sizes equals len(incidents).
func Group(incidents []types.ClassifiedIncident) types.GroupedIncidents {
	grouped := make(types.GroupedIncidents)
	for _, inc := range incidents {
		zone := types.ZoneStateWide
		if inc.Relevance != nil {
			zone = inc.Relevance.Zone
		}
		grouped[zone] = append(grouped[zone], inc)
	}
	return grouped
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
