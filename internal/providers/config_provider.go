package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"guildstore/internal/structures"
	"path/filepath"
	"strings"
	"time"
)

const DefaultPurgeMaxAge = 168 * time.Hour

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.SetDefault("purge.maxAge", DefaultPurgeMaxAge)
	viper.SetDefault("purge.interval", time.Hour)

	viper.BindEnv("logger.level", "GS_LOG_LEVEL")
	viper.BindEnv("repository.filePath", "GS_REPOSITORY_PATH")
	viper.BindEnv("purge.maxAge", "GS_PURGE_MAX_AGE")
	viper.BindEnv("cache.enabled", "GS_CACHE_ENABLED")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "GuildStore"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
