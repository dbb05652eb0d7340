package providers

import (
	"falci/internal/structures"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.redis.maxRetries", 5)
	v.SetDefault("cache.ttl", 30*time.Second)
	v.SetDefault("auth.tokenTTL", 24*time.Hour)
	v.SetDefault("auth.bcryptCost", 10)
	v.SetDefault("inference.model", "claude-sonnet-4-20250514")
	v.SetDefault("inference.maxTokens", 1000)
	v.SetDefault("inference.timeout", 60*time.Second)
	v.SetDefault("inference.maxRetries", 2)
	v.SetDefault("reading.timezone", "Europe/Istanbul")
	v.SetDefault("reading.maxImageBytes", 8<<20)
	v.SetDefault("reading.maxImageDimension", 1568)
	v.SetDefault("reading.maxImagePixels", 40_000_000)
	v.SetDefault("scheduler.sweepInterval", time.Minute)
	v.SetDefault("scheduler.pingInterval", 30*time.Second)

	_ = v.BindEnv("logger.level", "FALCI_LOG_LEVEL")
	_ = v.BindEnv("storage.type", "FALCI_STORAGE_TYPE")
	_ = v.BindEnv("storage.redis.addr", "FALCI_REDIS_ADDR")
	_ = v.BindEnv("storage.redis.password", "FALCI_REDIS_PASSWORD")
	_ = v.BindEnv("storage.sqlite.path", "FALCI_SQLITE_PATH")
	_ = v.BindEnv("auth.secretKey", "FALCI_AUTH_SECRET")
	_ = v.BindEnv("inference.apiKey", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("inference.model", "FALCI_INFERENCE_MODEL")
	_ = v.BindEnv("metrics.enabled", "FALCI_METRICS_ENABLED")
	_ = v.BindEnv("cache.enabled", "FALCI_CACHE_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "Falci"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
