package reports

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"roadwatch/types"
)

// Searcher is the index capability the adapter needs; satisfied by
// IndexClient and by fakes in tests.
type Searcher interface {
	Search(ctx context.Context, query string) ([]types.RawReport, error)
}

// Adapter fetches raw reports for a target and deduplicates them by source
// URL. Route fetches fan out per segment and join before deduplication.
type Adapter struct {
	index Searcher

	// supplementFeeds maps a lowercased state name to RSS feed URLs queried
	// in addition to the index. Optional.
	supplementFeeds map[string][]string

	// enrich toggles full-text excerpt extraction for the top reports.
	enrich bool
}

// NewAdapter creates an adapter over the given index client.
func NewAdapter(index Searcher) *Adapter {
	return &Adapter{index: index}
}

// WithSupplementFeeds registers per-state RSS feeds consulted alongside the
// index. Feed failures are logged and skipped; only index failures are fatal.
func (a *Adapter) WithSupplementFeeds(feeds map[string][]string) *Adapter {
	normalized := make(map[string][]string, len(feeds))
	for state, urls := range feeds {
		normalized[strings.ToLower(strings.TrimSpace(state))] = urls
	}
	a.supplementFeeds = normalized
	return a
}

// WithEnrichment enables full-text excerpt extraction before classification.
func (a *Adapter) WithEnrichment() *Adapter {
	a.enrich = true
	return a
}

// FetchArea pulls reports matching a single location+state pair.
func (a *Adapter) FetchArea(ctx context.Context, target types.AreaTarget) ([]types.RawReport, error) {
	query := areaQuery(target)
	reports, err := a.index.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch area reports for %s: %w", target.DisplayName(), err)
	}

	reports = append(reports, a.fetchSupplements(ctx, []string{target.State})...)
	deduped := DedupeByURL(reports)
	if a.enrich {
		EnrichReports(deduped)
	}
	return deduped, nil
}

// FetchRoute pulls reports for every segment of a route concurrently and
// joins the results before deduplication. Segments with a named road use the
// higher-precision road query; state-level queries are the fallback.
func (a *Adapter) FetchRoute(ctx context.Context, target types.RouteTarget) ([]types.RawReport, error) {
	queries := routeQueries(target)

	type result struct {
		reports []types.RawReport
		err     error
	}

	var wg sync.WaitGroup
	results := make([]result, len(queries))
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			reports, err := a.index.Search(ctx, q)
			results[i] = result{reports: reports, err: err}
		}(i, q)
	}
	wg.Wait()

	var joined []types.RawReport
	for i, r := range results {
		if r.err != nil {
			// One failed segment fails the run: a partial route picture is
			// worse than an explicit error the cache layer can retry.
			return nil, fmt.Errorf("fetch route segment %q: %w", queries[i], r.err)
		}
		joined = append(joined, r.reports...)
	}

	joined = append(joined, a.fetchSupplements(ctx, target.States)...)
	deduped := DedupeByURL(joined)
	if a.enrich {
		EnrichReports(deduped)
	}
	return deduped, nil
}

// fetchSupplements queries configured RSS feeds for the given states.
// Best-effort only.
func (a *Adapter) fetchSupplements(ctx context.Context, states []string) []types.RawReport {
	if len(a.supplementFeeds) == 0 {
		return nil
	}
	var out []types.RawReport
	for _, state := range states {
		for _, feedURL := range a.supplementFeeds[strings.ToLower(strings.TrimSpace(state))] {
			reports, err := FetchFeed(ctx, feedURL, 0)
			if err != nil {
				log.Printf("Warning: supplement feed %s failed: %v", feedURL, err)
				continue
			}
			out = append(out, reports...)
		}
	}
	return out
}

// DedupeByURL removes reports sharing a source URL; the first occurrence
// wins.
func DedupeByURL(reports []types.RawReport) []types.RawReport {
	seen := make(map[string]struct{}, len(reports))
	out := make([]types.RawReport, 0, len(reports))
	for _, r := range reports {
		if _, ok := seen[r.URL]; ok {
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}

func areaQuery(t types.AreaTarget) string {
	terms := []string{quote(t.Name)}
	if t.State != "" {
		terms = append(terms, quote(t.State))
	}
	return strings.Join(terms, " ") + " sourcecountry:nigeria"
}

// routeQueries builds one query per route segment. Road names beat bare
// state names on precision, so any segment with a named road queries the
// road; states without one fall back to a state query.
func routeQueries(t types.RouteTarget) []string {
	var queries []string
	covered := make(map[string]bool)

	for _, road := range t.Roads {
		if road.Name == "" {
			continue
		}
		queries = append(queries, quote(road.Name)+" sourcecountry:nigeria")
		for _, s := range road.States {
			covered[strings.ToLower(s)] = true
		}
	}
	for _, state := range t.States {
		if covered[strings.ToLower(state)] {
			continue
		}
		queries = append(queries, quote(state)+" security sourcecountry:nigeria")
	}
	if len(queries) == 0 && t.Label != "" {
		queries = append(queries, quote(t.Label)+" sourcecountry:nigeria")
	}
	return queries
}

func quote(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, " ") {
		return `"` + s + `"`
	}
	return s
}
