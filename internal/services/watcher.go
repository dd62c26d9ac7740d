package services

import (
	"fmt"
	"time"

	"github.com/VakeDomen/FlatScraper/internal/domain/events"
	"github.com/VakeDomen/FlatScraper/internal/domain/models"
	"github.com/VakeDomen/FlatScraper/internal/logger"
	"github.com/VakeDomen/FlatScraper/internal/metrics"
	"github.com/asaskevich/EventBus"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type subscriptionSource interface {
	Snapshot() map[int64][]string
}

type noveltyTracker interface {
	Diff(userID int64, url string, listings []models.Listing) []models.Listing
	Flush() error
}

type crawlMarkers interface {
	Completed(userID int64, url string) bool
	MarkCompleted(userID int64, url string)
	Flush() error
}

type listingCrawler interface {
	Crawl(startURL string) []models.Listing
}

// ListingsWatcher runs the periodic check cycle: snapshot the registry, crawl
// every subscribed search URL, diff against what each subscriber has already
// been shown, and publish one ListingFound event per genuinely new listing.
// Novelty state and first-crawl markers are flushed once per cycle.
type ListingsWatcher struct {
	bus           EventBus.Bus
	crawler       listingCrawler
	subscriptions subscriptionSource
	seen          noveltyTracker
	crawled       crawlMarkers
	crawlCache    *gocache.Cache
	cron          *cron.Cron
	interval      time.Duration
}

func NewListingsWatcher(bus EventBus.Bus, crawler listingCrawler, subscriptions subscriptionSource,
	seen noveltyTracker, crawled crawlMarkers, interval time.Duration) (*ListingsWatcher, error) {

	if interval <= 0 {
		return nil, errors.New("check interval must be greater than zero")
	}

	w := &ListingsWatcher{
		bus:           bus,
		crawler:       crawler,
		subscriptions: subscriptions,
		seen:          seen,
		crawled:       crawled,
		crawlCache:    gocache.New(interval/2, interval),
		interval:      interval,
	}

	w.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := w.cron.AddFunc(fmt.Sprintf("@every %v", interval), w.runCycle); err != nil {
		return nil, err
	}

	return w, nil
}

func (w *ListingsWatcher) Start() {
	w.cron.Start()
	log.Infof("listings watcher started, check interval: %v", w.interval)
}

func (w *ListingsWatcher) Stop() {
	w.cron.Stop()
	w.flushState()
}

func (w *ListingsWatcher) runCycle() {

	start := time.Now()
	w.crawlCache.Flush()

	subscriptions := w.subscriptions.Snapshot()

	var pairs, notified int
	for userID, urls := range subscriptions {
		for _, url := range urls {
			notified += w.checkSubscription(userID, url)
			pairs++
		}
	}

	w.flushState()

	executionTime := time.Since(start)
	metrics.CheckCycleDuration.Observe(executionTime.Seconds())
	log.Infof("check cycle done after %v: %v subscription pairs, %v listings notified",
		executionTime, pairs, notified)
}

// checkSubscription handles one (subscriber, url) pair and returns how many
// notifications it dispatched. Nothing here may abort the cycle for sibling
// pairs: crawl failures already degrade to partial results inside the
// crawler.
func (w *ListingsWatcher) checkSubscription(userID int64, url string) int {

	listings := w.crawlWithCache(url)
	fresh := w.seen.Diff(userID, url, listings)

	if !w.crawled.Completed(userID, url) {
		w.crawled.MarkCompleted(userID, url)
		if len(fresh) > 0 {
			log.Infof("suppressing %v listings on first crawl of %v for user %v", len(fresh), url, userID)
		}
		return 0
	}

	// The seen-set was extended inside Diff before any send attempt, so a
	// crash from here on can only lose a notification, never duplicate one.
	for _, listing := range fresh {
		metrics.NotificationsCounter.Inc()
		w.bus.Publish(events.ListingFoundTopic, events.ListingFound{
			UserID:    userID,
			SearchURL: url,
			Listing:   listing,
		})
	}

	return len(fresh)
}

// crawlWithCache crawls a search URL at most once per cycle: subscribers
// sharing a URL share the result.
func (w *ListingsWatcher) crawlWithCache(url string) []models.Listing {

	if cached, found := w.crawlCache.Get(url); found {
		return cached.([]models.Listing)
	}

	listings := w.crawler.Crawl(url)
	metrics.FoundListingsCounter.Add(float64(len(listings)))

	w.crawlCache.Set(url, listings, gocache.DefaultExpiration)
	return listings
}

func (w *ListingsWatcher) flushState() {

	if err := w.seen.Flush(); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypePersistence).Error(err)
	}
	if err := w.crawled.Flush(); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypePersistence).Error(err)
	}
}
