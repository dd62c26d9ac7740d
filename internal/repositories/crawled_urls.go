package repositories

import (
	"slices"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CrawledURLs marks which search URLs have completed at least one check cycle
// per subscriber. The marker gates notification delivery independently of the
// seen-set: a URL is marked the first time it is scheduled, whether or not
// the crawl produced anything.
type CrawledURLs struct {
	mu     sync.Mutex
	byUser map[int64][]string
	doc    document
}

func NewCrawledURLs(doc document) *CrawledURLs {

	c := &CrawledURLs{
		byUser: make(map[int64][]string),
		doc:    doc,
	}

	for key, urls := range doc.Load() {
		userID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			log.Warnf("skipping crawled-urls entry with bad key %q: %v", key, err)
			continue
		}
		c.byUser[userID] = urls
	}

	return c
}

func (c *CrawledURLs) Completed(userID int64, url string) bool {

	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Contains(c.byUser[userID], url)
}

func (c *CrawledURLs) MarkCompleted(userID int64, url string) {

	c.mu.Lock()
	defer c.mu.Unlock()

	if slices.Contains(c.byUser[userID], url) {
		return
	}
	c.byUser[userID] = append(c.byUser[userID], url)
}

// Flush rewrites the backing document with the current markers.
func (c *CrawledURLs) Flush() error {

	c.mu.Lock()
	defer c.mu.Unlock()

	data := make(map[string][]string, len(c.byUser))
	for userID, urls := range c.byUser {
		data[strconv.FormatInt(userID, 10)] = urls
	}

	if err := c.doc.Save(data); err != nil {
		return errors.Wrap(err, "failed to persist crawled urls")
	}
	return nil
}
