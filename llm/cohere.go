package llm

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"roadwatch/config"
	"roadwatch/types"
)

const defaultChatModel = "command-r-08-2024"

// CohereClient implements both Classifier and Briefer on top of the Cohere
// chat API. Prompts request strict JSON; responses are parsed after stripping
// any markdown fences the model wraps around them.
type CohereClient struct {
	client *cohereclient.Client
	model  string
}

// NewCohereClient constructs a client from an API key. An empty model selects
// the default chat model. The HTTP client forces HTTP/1.1 to avoid HTTP/2
// protocol errors against the Cohere edge.
func NewCohereClient(apiKey, model string) (*CohereClient, error) {
	if apiKey == "" {
		return nil, errors.New("cohere api key is required")
	}
	if model == "" {
		model = defaultChatModel
	}

	httpClient := &http.Client{
		Timeout: config.LLMRequestTimeout,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &CohereClient{client: client, model: model}, nil
}

// classifiedRecord mirrors the JSON shape the classifier prompt requests.
type classifiedRecord struct {
	URL               string  `json:"url"`
	Type              string  `json:"type"`
	ExtractedLocation string  `json:"location_extracted"`
	Date              string  `json:"date"`
	HasFatalities     bool    `json:"has_fatalities"`
	Confidence        float64 `json:"confidence"`
}

// Classify submits one batch of headlines and parses the structured
// incidents out of the response.
func (c *CohereClient) Classify(ctx context.Context, reports []types.RawReport) ([]types.ClassifiedIncident, error) {
	if len(reports) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.LLMRequestTimeout)
	defer cancel()

	resp, err := c.client.Chat(ctx, &cohere.ChatRequest{
		Model:       cohere.String(c.model),
		Message:     classifierPrompt(reports),
		Temperature: cohere.Float64(0.1),
	})
	if err != nil {
		return nil, fmt.Errorf("cohere classify: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return nil, errors.New("cohere classify returned empty response")
	}

	return ParseClassifierResponse(resp.Text)
}

// ParseClassifierResponse decodes the classifier's JSON payload into
// incidents, normalizing types and dates. Exported so tests exercise the
// parsing path without a live model.
func ParseClassifierResponse(text string) ([]types.ClassifiedIncident, error) {
	payload := ExtractJSON(text)

	var parsed struct {
		Incidents []classifiedRecord `json:"incidents"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("malformed classifier response: %w", err)
	}
	if parsed.Incidents == nil {
		return nil, errors.New("classifier response missing incidents array")
	}

	incidents := make([]types.ClassifiedIncident, 0, len(parsed.Incidents))
	for _, rec := range parsed.Incidents {
		incidents = append(incidents, types.ClassifiedIncident{
			SourceURL:         rec.URL,
			Type:              types.NormalizeIncidentType(rec.Type),
			ExtractedLocation: rec.ExtractedLocation,
			OccurredAt:        parseIncidentDate(rec.Date),
			HasFatalities:     rec.HasFatalities,
			RawConfidence:     rec.Confidence,
		})
	}
	return incidents, nil
}

// Brief generates the structured briefing for a scored target.
func (c *CohereClient) Brief(ctx context.Context, bc BriefContext) (*types.Briefing, error) {
	ctx, cancel := context.WithTimeout(ctx, config.LLMRequestTimeout)
	defer cancel()

	resp, err := c.client.Chat(ctx, &cohere.ChatRequest{
		Model:       cohere.String(c.model),
		Message:     briefingPrompt(bc),
		Temperature: cohere.Float64(0.3),
	})
	if err != nil {
		return nil, fmt.Errorf("cohere brief: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return nil, errors.New("cohere brief returned empty response")
	}

	return ParseBriefingResponse(resp.Text)
}

// ParseBriefingResponse decodes the briefing JSON. A briefing without a
// bottom line is treated as malformed.
func ParseBriefingResponse(text string) (*types.Briefing, error) {
	payload := ExtractJSON(text)

	var parsed struct {
		Briefing *types.Briefing `json:"briefing"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("malformed briefing response: %w", err)
	}
	briefing := parsed.Briefing
	if briefing == nil {
		// Some responses inline the briefing at the top level.
		briefing = &types.Briefing{}
		if err := json.Unmarshal([]byte(payload), briefing); err != nil {
			return nil, fmt.Errorf("malformed briefing response: %w", err)
		}
	}
	if strings.TrimSpace(briefing.BottomLine) == "" {
		return nil, errors.New("briefing response missing bottom_line")
	}
	return briefing, nil
}

// ExtractJSON strips markdown code fences and any prose surrounding the
// outermost JSON object.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

func parseIncidentDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
