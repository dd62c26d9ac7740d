package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"net/http"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	CheckCycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_check_cycle_duration_seconds",
			Help:    "Duration of each subscription check cycle in seconds.",
			Buckets: []float64{1, 5, 15, 60, 300, 900},
		},
	)
	CrawledPagesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_pages_crawled_total",
			Help: "Total number of result pages fetched.",
		},
	)
	FoundListingsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_listings_found_total",
			Help: "Total number of listings extracted from result pages.",
		},
	)
	NotificationsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_notifications_sent_total",
			Help: "Total number of new-listing notifications dispatched.",
		},
	)
)

func StartMetricsServer() {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(CheckCycleDuration)
	prometheus.MustRegister(CrawledPagesCounter)
	prometheus.MustRegister(FoundListingsCounter)
	prometheus.MustRegister(NotificationsCounter)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(":8080", nil))
	}()
}
