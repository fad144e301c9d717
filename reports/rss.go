package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"roadwatch/types"
)

// FetchFeed retrieves and parses an RSS/Atom feed, returning report
// metadata. Supplement feeds are configured per state for outlets the index
// covers poorly.
func FetchFeed(ctx context.Context, feedURL string, maxCount int) ([]types.RawReport, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	count := len(feed.Items)
	if maxCount > 0 && count > maxCount {
		count = maxCount
	}

	reports := make([]types.RawReport, 0, count)
	for i := 0; i < count; i++ {
		item := feed.Items[i]
		if item.Link == "" {
			continue
		}

		var publishedAt time.Time
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}

		reports = append(reports, types.RawReport{
			URL:         item.Link,
			Title:       item.Title,
			PublishedAt: publishedAt,
		})
	}
	return reports, nil
}
