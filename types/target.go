package types

import (
	"sort"
	"strings"
)

// TargetKind distinguishes the two zoning schemes.
type TargetKind string

const (
	TargetArea  TargetKind = "area"
	TargetRoute TargetKind = "route"
)

// Target is a query target for the intelligence pipeline. The two
// implementations carry their own zoning scheme but share a normalized
// cache identity.
type Target interface {
	Kind() TargetKind
	CacheKey() string
	// DisplayName is the human-readable label used in briefings and logs.
	DisplayName() string
}

// AreaTarget identifies a single point location: an area name inside a
// local government area inside a state.
type AreaTarget struct {
	Name  string `json:"name"`
	LGA   string `json:"lga,omitempty"`
	State string `json:"state"`
}

func (a AreaTarget) Kind() TargetKind { return TargetArea }

func (a AreaTarget) DisplayName() string {
	if a.State == "" {
		return a.Name
	}
	return a.Name + ", " + a.State
}

// CacheKey is the normalized identity: lowercased name+state so equivalent
// queries share one cache entry.
func (a AreaTarget) CacheKey() string {
	return "area:" + normalizeToken(a.Name) + ":" + normalizeToken(a.State)
}

// Road is a named road and the states it passes through.
type Road struct {
	Name   string   `json:"name"`
	States []string `json:"states,omitempty"`
}

// RouteTarget identifies a multi-state journey: the ordered list of states
// traversed plus any named roads along the way.
type RouteTarget struct {
	Label  string   `json:"label"`
	States []string `json:"states"` // ordered along the route
	Roads  []Road   `json:"roads,omitempty"`
}

func (r RouteTarget) Kind() TargetKind { return TargetRoute }

func (r RouteTarget) DisplayName() string {
	if r.Label != "" {
		return r.Label
	}
	return strings.Join(r.States, " - ")
}

// CacheKey sorts the state set so that the same journey queried in either
// direction resolves to one cache entry.
func (r RouteTarget) CacheKey() string {
	states := make([]string, len(r.States))
	for i, s := range r.States {
		states[i] = normalizeToken(s)
	}
	sort.Strings(states)
	return "route:" + strings.Join(states, ",") + ":" + normalizeToken(r.Label)
}

func normalizeToken(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
