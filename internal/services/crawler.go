package services

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/VakeDomen/FlatScraper/internal/clients/nepremicnine"
	"github.com/VakeDomen/FlatScraper/internal/domain/models"
	"github.com/VakeDomen/FlatScraper/internal/logger"
	"github.com/VakeDomen/FlatScraper/internal/metrics"
	log "github.com/sirupsen/logrus"
)

type pageFetcher interface {
	GetPage(url string) (*goquery.Document, error)
}

// Crawler walks the paginated result chain of one search URL.
type Crawler struct {
	client   pageFetcher
	maxPages int
}

func NewCrawler(client pageFetcher, maxPages int) *Crawler {
	return &Crawler{client: client, maxPages: maxPages}
}

// Crawl accumulates the listings of every page reachable from startURL via
// the "next" control. A fetch failure ends the walk early and whatever was
// accumulated so far is returned; a partial result is acceptable and never an
// error. maxPages bounds the walk against a page chain that never ends.
func (c *Crawler) Crawl(startURL string) []models.Listing {

	var all []models.Listing
	url := startURL

	for page := 0; page < c.maxPages; page++ {

		doc, err := c.client.GetPage(url)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeFetch).
				Errorf("failed to fetch %v, returning partial crawl: %v", url, err)
			break
		}
		metrics.CrawledPagesCounter.Inc()

		all = append(all, nepremicnine.ExtractListings(doc)...)

		next, ok := nepremicnine.NextPageURL(doc)
		if !ok {
			break
		}
		url = next
	}

	return all
}
