package config

import (
	"github.com/stretchr/testify/assert"
	"os"
	"testing"
	"time"
)

func Test_Config_EnvironmentOverrideWorksCorrect(t *testing.T) {

	os.Setenv("MODE", "test")
	os.Setenv("TG_TOKEN", "overrideToken")
	os.Setenv("CHECK_INTERVAL", "15m")
	os.Setenv("DATA_DIR", "/tmp/flatscraper")
	os.Setenv("LOG_LEVEL", "DEBUG")
	defer func() {
		os.Unsetenv("MODE")
		os.Unsetenv("TG_TOKEN")
		os.Unsetenv("CHECK_INTERVAL")
		os.Unsetenv("DATA_DIR")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg := Get()

	assert.Equal(t, "overrideToken", cfg.Bot.Token)
	assert.Equal(t, 15*time.Minute, cfg.Scraper.CheckInterval)
	assert.Equal(t, "/tmp/flatscraper", cfg.Storage.DataDir)
	assert.Equal(t, LevelDebug, cfg.Logger.LogLevel)
}
