package reports

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadwatch/types"
)

type fakeSearcher struct {
	mu      sync.Mutex
	queries []string
	byQuery map[string][]types.RawReport
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]types.RawReport, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.byQuery[query], nil
}

func TestDedupeByURLFirstWins(t *testing.T) {
	reports := []types.RawReport{
		{URL: "https://a.example/1", Title: "first"},
		{URL: "https://a.example/2", Title: "other"},
		{URL: "https://a.example/1", Title: "duplicate"},
	}

	deduped := DedupeByURL(reports)
	require.Len(t, deduped, 2)
	assert.Equal(t, "first", deduped[0].Title)
	assert.Equal(t, "other", deduped[1].Title)
}

func TestFetchAreaQueryShape(t *testing.T) {
	searcher := &fakeSearcher{byQuery: map[string][]types.RawReport{}}
	adapter := NewAdapter(searcher)

	_, err := adapter.FetchArea(context.Background(), types.AreaTarget{Name: "Gwarinpa", State: "FCT"})
	require.NoError(t, err)
	require.Len(t, searcher.queries, 1)
	assert.Equal(t, "Gwarinpa FCT sourcecountry:nigeria", searcher.queries[0])
}

func TestFetchAreaPropagatesIndexError(t *testing.T) {
	searcher := &fakeSearcher{err: ErrSourceUnavailable}
	adapter := NewAdapter(searcher)

	_, err := adapter.FetchArea(context.Background(), types.AreaTarget{Name: "Gwarinpa", State: "FCT"})
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestRouteQueriesPreferRoads(t *testing.T) {
	target := types.RouteTarget{
		Label:  "Abuja to Kano",
		States: []string{"FCT", "Kaduna", "Kano"},
		Roads: []types.Road{
			{Name: "Abuja-Kaduna Expressway", States: []string{"FCT", "Kaduna"}},
		},
	}

	queries := routeQueries(target)
	require.Len(t, queries, 2)
	// The road covers FCT and Kaduna; only Kano falls back to a state query.
	assert.Equal(t, `"Abuja-Kaduna Expressway" sourcecountry:nigeria`, queries[0])
	assert.Equal(t, "Kano security sourcecountry:nigeria", queries[1])
}

func TestRouteQueriesFallBackToLabel(t *testing.T) {
	queries := routeQueries(types.RouteTarget{Label: "Lagos to Ibadan"})
	require.Len(t, queries, 1)
	assert.Equal(t, `"Lagos to Ibadan" sourcecountry:nigeria`, queries[0])
}

func TestFetchRouteJoinsAndDedupes(t *testing.T) {
	shared := types.RawReport{URL: "https://a.example/shared", Title: "seen by both segments"}
	searcher := &fakeSearcher{byQuery: map[string][]types.RawReport{
		`"Abuja-Kaduna Expressway" sourcecountry:nigeria`: {
			shared,
			{URL: "https://a.example/road", Title: "road-only"},
		},
		"Kano security sourcecountry:nigeria": {
			shared,
			{URL: "https://a.example/kano", Title: "kano-only"},
		},
	}}
	adapter := NewAdapter(searcher)

	reports, err := adapter.FetchRoute(context.Background(), types.RouteTarget{
		States: []string{"FCT", "Kaduna", "Kano"},
		Roads:  []types.Road{{Name: "Abuja-Kaduna Expressway", States: []string{"FCT", "Kaduna"}}},
	})
	require.NoError(t, err)
	assert.Len(t, reports, 3)
}

func TestFetchRouteFailsOnAnySegmentError(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("segment down")}
	adapter := NewAdapter(searcher)

	_, err := adapter.FetchRoute(context.Background(), types.RouteTarget{States: []string{"Kano"}})
	assert.Error(t, err, "a partial route picture is worse than an explicit error")
}

func TestIndexClientSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "artlist", r.URL.Query().Get("mode"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "50", r.URL.Query().Get("maxrecords"))
		assert.Equal(t, "14d", r.URL.Query().Get("timespan"))
		assert.True(t, strings.Contains(r.URL.Query().Get("query"), "Gwarinpa"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"articles":[
			{"url":"https://news.example/1","title":"Robbery in Gwarinpa","seendate":"20260828T083000Z"},
			{"url":"","title":"dropped: no url"},
			{"url":"https://news.example/2","title":"Checkpoint report","seendate":"not-a-date"}
		]}`))
	}))
	defer server.Close()

	client := NewIndexClient(server.URL)
	reports, err := client.Search(context.Background(), "Gwarinpa FCT")
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, "Robbery in Gwarinpa", reports[0].Title)
	assert.Equal(t, 2026, reports[0].PublishedAt.Year())
	assert.True(t, reports[1].PublishedAt.IsZero(), "bad dates degrade to zero, not an error")
}

func TestIndexClientErrorsWrapSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewIndexClient(server.URL)
	_, err := client.Search(context.Background(), "Gwarinpa")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}
