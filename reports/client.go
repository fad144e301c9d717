// Package reports fetches raw incident headlines for a location or route
// from an external event index, optionally supplements them from RSS feeds,
// and deduplicates them by source URL before classification.
package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"roadwatch/config"
	"roadwatch/types"
)

// ErrSourceUnavailable marks an index failure. Source failures are fatal to
// the current pipeline run and produce no cache write; the cache layer
// retries on next access.
var ErrSourceUnavailable = errors.New("event index unavailable")

const defaultIndexBaseURL = "https://api.gdeltproject.org/api/v2/doc/doc"

// IndexClient queries a GDELT-style document index over HTTP. The index is a
// read-only data source; retry and backoff policy live outside this core.
type IndexClient struct {
	baseURL string
	client  *http.Client
}

// NewIndexClient creates an index client. An empty baseURL selects the GDELT
// doc API.
func NewIndexClient(baseURL string) *IndexClient {
	if baseURL == "" {
		baseURL = defaultIndexBaseURL
	}
	return &IndexClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: config.IndexRequestTimeout},
	}
}

// indexArticle is the wire shape the index returns per article.
type indexArticle struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	SeenDate string `json:"seendate"`
}

// Search runs one index query and returns the matching reports.
func (c *IndexClient) Search(ctx context.Context, query string) ([]types.RawReport, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("mode", "artlist")
	params.Set("format", "json")
	params.Set("maxrecords", fmt.Sprintf("%d", config.MaxReportsPerQuery))
	params.Set("timespan", fmt.Sprintf("%dd", config.ReportLookbackDays))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: index returned status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var parsed struct {
		Articles []indexArticle `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSourceUnavailable, err)
	}

	reports := make([]types.RawReport, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.URL == "" {
			continue
		}
		reports = append(reports, types.RawReport{
			URL:         a.URL,
			Title:       a.Title,
			PublishedAt: parseSeenDate(a.SeenDate),
		})
	}
	return reports, nil
}

// parseSeenDate handles the index's compact timestamp ("20240115T083000Z")
// with RFC3339 fallback. Unparseable dates come back zero rather than failing
// the fetch.
func parseSeenDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{"20060102T150405Z", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
