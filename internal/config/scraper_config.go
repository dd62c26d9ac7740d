package config

import (
	"fmt"
	"github.com/spf13/viper"
	"time"
)

type ScraperConfig struct {
	CheckInterval        time.Duration `mapstructure:"check_interval"`
	MaxPagesPerCrawl     int           `mapstructure:"max_pages_per_crawl"`
	MaxRequestsPerSecond float32       `mapstructure:"max_requests_per_second"`
}

func (config ScraperConfig) validate() error {
	var errs []error

	if config.CheckInterval <= 0 {
		errs = append(errs, fmt.Errorf("check_interval must be greater than zero"))
	}

	if config.MaxPagesPerCrawl <= 0 {
		errs = append(errs, fmt.Errorf("max_pages_per_crawl must be greater than zero"))
	}

	if config.MaxRequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("max_requests_per_second must not be negative"))
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func (config ScraperConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("scraper.check_interval", "CHECK_INTERVAL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("scraper.max_pages_per_crawl", "MAX_PAGES_PER_CRAWL"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
