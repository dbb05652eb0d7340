package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// MaxRetries bounds optimistic-lock retries of a single Update.
	MaxRetries int `yaml:"maxRetries"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type StorageConfig struct {
	Type     string       `yaml:"type" validate:"required|in:memory,redis,sqlite"`
	Compress bool         `yaml:"compress"`
	Redis    RedisConfig  `yaml:"redis"`
	SQLite   SQLiteConfig `yaml:"sqlite"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type AuthConfig struct {
	SecretKey  string        `yaml:"secretKey" validate:"required|minLen:16"`
	TokenTTL   time.Duration `yaml:"tokenTTL" validate:"required|min:1"`
	BcryptCost int           `yaml:"bcryptCost"`
}

type InferenceConfig struct {
	APIKey     string        `yaml:"apiKey"`
	BaseURL    string        `yaml:"baseURL"`
	Model      string        `yaml:"model" validate:"required"`
	MaxTokens  int64         `yaml:"maxTokens" validate:"required|min:1"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"maxRetries"`
}

type ReadingConfig struct {
	Timezone          string `yaml:"timezone"`
	MaxImageBytes     int64  `yaml:"maxImageBytes" validate:"required|min:1"`
	MaxImageDimension int    `yaml:"maxImageDimension"`
	MaxImagePixels    int64  `yaml:"maxImagePixels"`
}

type SchedulerConfig struct {
	SweepInterval time.Duration `yaml:"sweepInterval"`
	PingInterval  time.Duration `yaml:"pingInterval"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server          `yaml:"webServer"`
	Logger    LoggerConfig    `yaml:"logger"`
	Storage   StorageConfig   `yaml:"storage"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Auth      AuthConfig      `yaml:"auth"`
	Inference InferenceConfig `yaml:"inference"`
	Reading   ReadingConfig   `yaml:"reading"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}
