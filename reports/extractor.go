package reports

import (
	"log"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"

	"roadwatch/config"
	"roadwatch/types"
)

const extractorTimeout = 30 * time.Second

// EnrichReports fetches a text excerpt for up to config.MaxEnrichedReports
// reports using a worker pool, giving the classifier context beyond the
// headline. Extraction failures leave a report headline-only; they never
// fail the run.
func EnrichReports(reports []types.RawReport) {
	limit := len(reports)
	if limit > config.MaxEnrichedReports {
		limit = config.MaxEnrichedReports
	}
	if limit == 0 {
		return
	}

	var wg sync.WaitGroup
	indexChan := make(chan int, limit)

	for w := 0; w < config.ExtractionWorkers; w++ {
		go func() {
			for i := range indexChan {
				if err := extractExcerpt(&reports[i]); err != nil {
					log.Printf("Warning: failed to extract %s: %v", reports[i].URL, err)
				}
				wg.Done()
			}
		}()
	}

	for i := 0; i < limit; i++ {
		wg.Add(1)
		indexChan <- i
	}

	wg.Wait()
	close(indexChan)
}

func extractExcerpt(report *types.RawReport) error {
	if report.URL == "" {
		return nil
	}
	article, err := readability.FromURL(report.URL, extractorTimeout)
	if err != nil {
		return err
	}
	if article.Excerpt != "" {
		report.Excerpt = article.Excerpt
	} else if article.TextContent != "" {
		text := article.TextContent
		if len(text) > 400 {
			text = text[:400]
		}
		report.Excerpt = text
	}
	return nil
}
