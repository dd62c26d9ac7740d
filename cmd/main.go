package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/VakeDomen/FlatScraper/internal/bot"
	"github.com/VakeDomen/FlatScraper/internal/clients/nepremicnine"
	"github.com/VakeDomen/FlatScraper/internal/config"
	"github.com/VakeDomen/FlatScraper/internal/logger"
	"github.com/VakeDomen/FlatScraper/internal/metrics"
	"github.com/VakeDomen/FlatScraper/internal/repositories"
	"github.com/VakeDomen/FlatScraper/internal/services"
	"github.com/VakeDomen/FlatScraper/internal/storage"
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
)

func runWatcher(cfg *config.Config, bus EventBus.Bus, subscriptions *repositories.Subscriptions,
	seen *repositories.SeenListings, crawled *repositories.CrawledURLs) *services.ListingsWatcher {

	client := nepremicnine.NewClient()
	if cfg.Scraper.MaxRequestsPerSecond > 0 {
		client.SetRateLimit(cfg.Scraper.MaxRequestsPerSecond)
	}

	crawler := services.NewCrawler(client, cfg.Scraper.MaxPagesPerCrawl)

	watcher, err := services.NewListingsWatcher(bus, crawler, subscriptions, seen, crawled, cfg.Scraper.CheckInterval)
	if err != nil {
		log.Fatalf("can't create listings watcher: %v", err)
	}

	watcher.Start()
	return watcher
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer()

	subscriptions := repositories.NewSubscriptions(
		storage.NewDocument(filepath.Join(cfg.Storage.DataDir, "subscriptions.json")))
	seen := repositories.NewSeenListings(
		storage.NewDocument(filepath.Join(cfg.Storage.DataDir, "seen_listings.json")))
	crawled := repositories.NewCrawledURLs(
		storage.NewDocument(filepath.Join(cfg.Storage.DataDir, "crawled_urls.json")))

	bus := EventBus.New()

	tgbot, err := bot.NewBot(cfg.Bot.Token, bus, subscriptions)
	if err != nil {
		log.Fatalf("can't create bot: %v", err)
	}
	go tgbot.Run()

	watcher := runWatcher(cfg, bus, subscriptions, seen, crawled)

	<-ctx.Done()

	log.Info("Shutting down services...")
	tgbot.Stop()
	watcher.Stop()
	log.Info("Services stopped.")
}
