package providers

import (
	"falci/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Storage: structures.StorageConfig{
			Type: "memory",
		},
		Auth: structures.AuthConfig{
			SecretKey: "0123456789abcdef0123",
			TokenTTL:  time.Hour,
		},
		Inference: structures.InferenceConfig{
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 1000,
		},
		Reading: structures.ReadingConfig{
			Timezone:      "Europe/Istanbul",
			MaxImageBytes: 8 << 20,
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_UnknownStorageType(t *testing.T) {
	c := validConfig()
	c.Storage.Type = "etcd"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_RedisRequiresAddr(t *testing.T) {
	c := validConfig()
	c.Storage.Type = "redis"
	assert.Error(t, NewCnfValidator(c).Validate())

	c.Storage.Redis.Addr = "localhost:6379"
	assert.NoError(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_SQLiteRequiresPath(t *testing.T) {
	c := validConfig()
	c.Storage.Type = "sqlite"
	assert.Error(t, NewCnfValidator(c).Validate())

	c.Storage.SQLite.Path = "/tmp/falci.db"
	assert.NoError(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_ShortSecret(t *testing.T) {
	c := validConfig()
	c.Auth.SecretKey = "short"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_BadTimezone(t *testing.T) {
	c := validConfig()
	c.Reading.Timezone = "Mars/Olympus"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}
