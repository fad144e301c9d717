package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"roadwatch/types"
)

func classifierPrompt(reports []types.RawReport) string {
	var b strings.Builder
	b.WriteString("You are a security incident classifier for Nigerian travel intelligence.\n")
	b.WriteString("Classify each headline below into a structured incident. Respond with JSON only, no prose:\n")
	b.WriteString(`{"incidents": [{"url": "...", "type": "attack|kidnapping|robbery|gunshots|checkpoint|fire|accident|other", "location_extracted": "place name or empty string", "date": "YYYY-MM-DD", "has_fatalities": true, "confidence": 0.0}]}`)
	b.WriteString("\nOmit headlines that do not describe a security incident.\n\nHeadlines:\n")
	for i, r := range reports {
		fmt.Fprintf(&b, "%d. title: %q url: %s published: %s\n", i+1, r.Title, r.URL, r.PublishedAt.Format("2006-01-02"))
		if r.Excerpt != "" {
			fmt.Fprintf(&b, "   excerpt: %q\n", truncate(r.Excerpt, 300))
		}
	}
	return b.String()
}

func briefingPrompt(bc BriefContext) string {
	var b strings.Builder
	b.WriteString("You are a travel security analyst. Write a briefing for the target below.\n")
	b.WriteString("Respond with JSON only, no prose, in this shape:\n")

	if bc.Target.Kind() == types.TargetRoute {
		b.WriteString(`{"briefing": {"summary": "...", "for_travelers": {"headline": "...", "tips": ["..."]}, "route_segments": [{"name": "...", "risk_level": "low|moderate|high|critical", "advice": "..."}], "recent_developments": ["..."], "positive_notes": ["..."], "bottom_line": "..."}}`)
	} else {
		b.WriteString(`{"briefing": {"summary": "...", "for_travelers": {"headline": "...", "tips": ["..."]}, "for_residents": {"headline": "...", "tips": ["..."], "neighborhood_status": "..."}, "recent_developments": ["..."], "positive_notes": ["..."], "bottom_line": "..."}}`)
	}

	fmt.Fprintf(&b, "\n\nTarget: %s (%s)\n", bc.Target.DisplayName(), bc.Target.Kind())

	if bc.RiskScore != nil {
		fmt.Fprintf(&b, "Risk: score %.1f, level %s, confidence %s\n", bc.RiskScore.Score, bc.RiskScore.Level, bc.RiskScore.Confidence)
	}
	if bc.DynamicRisk != nil {
		fmt.Fprintf(&b, "Dynamic: adjusted %s (baseline %s), trend %s over %d days\n",
			bc.DynamicRisk.AdjustedLevel, bc.DynamicRisk.BaselineLevel, bc.DynamicRisk.Trend, bc.DynamicRisk.TimeWindowDays)
	}
	if bc.Profile != nil {
		if data, err := json.Marshal(bc.Profile); err == nil {
			fmt.Fprintf(&b, "Static profile: %s\n", data)
		}
	}

	if len(bc.Incidents) == 0 {
		b.WriteString("No incidents were found in the lookback window. Still provide a complete briefing with a bottom_line reflecting the quiet period.\n")
	} else {
		b.WriteString("Incidents:\n")
		for i, inc := range bc.Incidents {
			zone := ""
			if inc.Relevance != nil {
				zone = string(inc.Relevance.Zone)
			}
			fmt.Fprintf(&b, "%d. %s at %q on %s (zone %s, fatalities %t)\n",
				i+1, inc.Type, inc.ExtractedLocation, inc.OccurredAt.Format("2006-01-02"), zone, inc.HasFatalities)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
