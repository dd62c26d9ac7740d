package config

import (
	"fmt"
	"github.com/spf13/viper"
)

type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

func (config StorageConfig) validate() error {
	if config.DataDir == "" {
		return fmt.Errorf("missing variable: data_dir")
	}
	return nil
}

func (config StorageConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("storage.data_dir", "DATA_DIR")
}
