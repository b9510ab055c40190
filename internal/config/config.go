package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	LogLevel string
	Bot      BotConfig
	Geocode  GeocodeConfig
	Download DownloadConfig
	Analyze  AnalyzeConfig
	Archive  ArchiveConfig
}

// BotConfig controls the chat-facing behavior
type BotConfig struct {
	SessionTimeout  time.Duration
	SendImagePrompt string
	TimeoutPrompt   string
	MaxExifShow     int
}

// GeocodeConfig configures the reverse-geocoding provider
type GeocodeConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// DownloadConfig configures the image downloader
type DownloadConfig struct {
	Timeout  time.Duration
	MaxBytes int64
}

// AnalyzeConfig configures batch analysis
type AnalyzeConfig struct {
	Concurrency int
}

// ArchiveConfig configures optional archival of analyzed images
// to S3-compatible storage
type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Prefix    string
}

// New creates a new configuration with default values
func New() *Config {
	return &Config{
		LogLevel: "info",
		Bot: BotConfig{
			SessionTimeout:  30 * time.Second,
			SendImagePrompt: "Please send the image to analyze (valid for 30 seconds)",
			TimeoutPrompt:   "Analysis request timed out, please send the command again",
			MaxExifShow:     20,
		},
		Geocode: GeocodeConfig{
			Endpoint: "https://api.tianditu.gov.cn/geocoder",
			Timeout:  10 * time.Second,
		},
		Download: DownloadConfig{
			Timeout:  30 * time.Second,
			MaxBytes: 32 << 20,
		},
		Analyze: AnalyzeConfig{
			Concurrency: 4,
		},
		Archive: ArchiveConfig{
			Region: "us-east-1",
			UseSSL: true,
		},
	}
}

// Load builds a configuration from defaults, an optional config file
// and IMGMETA_-prefixed environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("bot.session_timeout", "30s")
	v.SetDefault("bot.send_image_prompt", "Please send the image to analyze (valid for 30 seconds)")
	v.SetDefault("bot.timeout_prompt", "Analysis request timed out, please send the command again")
	v.SetDefault("bot.max_exif_show", 20)
	v.SetDefault("geocode.api_key", "")
	v.SetDefault("geocode.endpoint", "https://api.tianditu.gov.cn/geocoder")
	v.SetDefault("geocode.timeout", "10s")
	v.SetDefault("download.timeout", "30s")
	v.SetDefault("download.max_bytes", 32<<20)
	v.SetDefault("analyze.concurrency", 4)
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.access_key", "")
	v.SetDefault("archive.secret_key", "")
	v.SetDefault("archive.use_ssl", true)
	v.SetDefault("archive.prefix", "")

	v.SetEnvPrefix("IMGMETA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		LogLevel: v.GetString("log_level"),
		Bot: BotConfig{
			SessionTimeout:  v.GetDuration("bot.session_timeout"),
			SendImagePrompt: v.GetString("bot.send_image_prompt"),
			TimeoutPrompt:   v.GetString("bot.timeout_prompt"),
			MaxExifShow:     v.GetInt("bot.max_exif_show"),
		},
		Geocode: GeocodeConfig{
			APIKey:   v.GetString("geocode.api_key"),
			Endpoint: v.GetString("geocode.endpoint"),
			Timeout:  v.GetDuration("geocode.timeout"),
		},
		Download: DownloadConfig{
			Timeout:  v.GetDuration("download.timeout"),
			MaxBytes: v.GetInt64("download.max_bytes"),
		},
		Analyze: AnalyzeConfig{
			Concurrency: v.GetInt("analyze.concurrency"),
		},
		Archive: ArchiveConfig{
			Enabled:   v.GetBool("archive.enabled"),
			Endpoint:  v.GetString("archive.endpoint"),
			Region:    v.GetString("archive.region"),
			Bucket:    v.GetString("archive.bucket"),
			AccessKey: v.GetString("archive.access_key"),
			SecretKey: v.GetString("archive.secret_key"),
			UseSSL:    v.GetBool("archive.use_ssl"),
			Prefix:    v.GetString("archive.prefix"),
		},
	}

	return cfg, nil
}
