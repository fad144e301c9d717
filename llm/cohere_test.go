package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadwatch/types"
)

func TestParseClassifierResponse(t *testing.T) {
	text := "```json\n" + `{
		"incidents": [
			{"url": "https://news.example/1", "type": "kidnapping", "location_extracted": "Abuja-Kaduna Expressway", "date": "2026-08-27", "has_fatalities": true, "confidence": 0.9},
			{"url": "https://news.example/2", "type": "banditry", "location_extracted": "Kaduna", "date": "", "confidence": 0.4}
		]
	}` + "\n```"

	incidents, err := ParseClassifierResponse(text)
	require.NoError(t, err)
	require.Len(t, incidents, 2)

	assert.Equal(t, types.IncidentKidnapping, incidents[0].Type)
	assert.Equal(t, "Abuja-Kaduna Expressway", incidents[0].ExtractedLocation)
	assert.True(t, incidents[0].HasFatalities)
	assert.Equal(t, 2026, incidents[0].OccurredAt.Year())
	assert.InDelta(t, 0.9, incidents[0].RawConfidence, 1e-9)

	// Unknown types bucket into "other"; missing dates stay zero.
	assert.Equal(t, types.IncidentOther, incidents[1].Type)
	assert.True(t, incidents[1].OccurredAt.IsZero())
}

func TestParseClassifierResponseEmptyArrayIsValid(t *testing.T) {
	incidents, err := ParseClassifierResponse(`{"incidents": []}`)
	require.NoError(t, err)
	assert.Empty(t, incidents)
}

func TestParseClassifierResponseRejectsMissingIncidents(t *testing.T) {
	_, err := ParseClassifierResponse(`{"result": "none"}`)
	assert.Error(t, err)
}

func TestParseClassifierResponseRejectsMalformedJSON(t *testing.T) {
	_, err := ParseClassifierResponse("I could not find any incidents, sorry!")
	assert.Error(t, err)
}

func TestParseBriefingResponseWrappedAndInline(t *testing.T) {
	wrapped := `{"briefing": {"summary": "Quiet week.", "bottom_line": "Low risk overall."}}`
	inline := `{"summary": "Quiet week.", "bottom_line": "Low risk overall."}`

	for _, text := range []string{wrapped, inline} {
		briefing, err := ParseBriefingResponse(text)
		require.NoError(t, err)
		assert.Equal(t, "Low risk overall.", briefing.BottomLine)
		assert.Equal(t, "Quiet week.", briefing.Summary)
	}
}

func TestParseBriefingResponseRequiresBottomLine(t *testing.T) {
	_, err := ParseBriefingResponse(`{"summary": "Something happened."}`)
	assert.Error(t, err)
}

func TestExtractJSONStripsFencesAndProse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Here you go: {\"a\":1} hope that helps", `{"a":1}`},
		{"no json", "nothing here", "nothing here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}

func TestParseIncidentDateLayouts(t *testing.T) {
	assert.Equal(t, 27, parseIncidentDate("2026-08-27").Day())
	assert.Equal(t, 15, parseIncidentDate("2026-08-27 15:04").Hour())
	assert.False(t, parseIncidentDate("2026-08-27T10:00:00Z").IsZero())
	assert.True(t, parseIncidentDate("last Tuesday").IsZero())
}
