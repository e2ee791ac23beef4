// Package config loads server settings from defaults, an optional
// mosaic.yaml and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/alanyang/insta-mosaic/internal/domain/mosaic"
)

var ErrMissingDatabaseURL = errors.New("config: database_url is required")

type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    slog.Level

	Redis    Redis
	Feed     Feed
	Mosaic   Mosaic
	Snapshot Snapshot
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Feed struct {
	BaseURL         string
	RequestInterval time.Duration
	CoolingInterval time.Duration
	Timeout         time.Duration
	MaxPages        int
}

type Mosaic struct {
	ReferenceSize mosaic.Size
	PieceSize     mosaic.Size
	BackfillLimit int
	// FailedRetention is how long a failed worker stays readable before it
	// is reaped. Zero keeps it until stopped.
	FailedRetention time.Duration
}

type Snapshot struct {
	CacheTTL time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("database_url", "")
	v.SetDefault("log.level", "info")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("feed.base_url", "https://www.instagram.com")
	v.SetDefault("feed.request_interval", 3*time.Second)
	v.SetDefault("feed.cooling_interval", 30*time.Second)
	v.SetDefault("feed.timeout", 30*time.Second)
	v.SetDefault("feed.max_pages", 0)

	v.SetDefault("mosaic.reference_width", 3000)
	v.SetDefault("mosaic.reference_height", 3000)
	v.SetDefault("mosaic.piece_width", 30)
	v.SetDefault("mosaic.piece_height", 30)
	v.SetDefault("mosaic.backfill_limit", 1000)
	v.SetDefault("mosaic.failed_retention", time.Hour)

	v.SetDefault("snapshot.cache_ttl", 10*time.Second)
}

// Load reads configuration. Environment variables use the MOSAIC_ prefix
// with dots replaced by underscores (MOSAIC_FEED_BASE_URL); DATABASE_URL and
// PORT are also honoured unprefixed.
func Load(paths ...string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("mosaic")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("mosaic")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database_url", "MOSAIC_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("port", "MOSAIC_PORT", "PORT")

	cfg := Config{
		Port:        v.GetString("port"),
		DatabaseURL: v.GetString("database_url"),
		Redis: Redis{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Feed: Feed{
			BaseURL:         v.GetString("feed.base_url"),
			RequestInterval: v.GetDuration("feed.request_interval"),
			CoolingInterval: v.GetDuration("feed.cooling_interval"),
			Timeout:         v.GetDuration("feed.timeout"),
			MaxPages:        v.GetInt("feed.max_pages"),
		},
		Mosaic: Mosaic{
			ReferenceSize:   mosaic.Size{Width: v.GetInt("mosaic.reference_width"), Height: v.GetInt("mosaic.reference_height")},
			PieceSize:       mosaic.Size{Width: v.GetInt("mosaic.piece_width"), Height: v.GetInt("mosaic.piece_height")},
			BackfillLimit:   v.GetInt("mosaic.backfill_limit"),
			FailedRetention: v.GetDuration("mosaic.failed_retention"),
		},
		Snapshot: Snapshot{
			CacheTTL: v.GetDuration("snapshot.cache_ttl"),
		},
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return Config{}, fmt.Errorf("parsing log.level: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return Config{}, ErrMissingDatabaseURL
	}
	if cfg.Feed.RequestInterval < 0 || cfg.Feed.CoolingInterval < 0 {
		return Config{}, fmt.Errorf("config: feed intervals must not be negative")
	}
	if cfg.Mosaic.PieceSize.Width <= 0 || cfg.Mosaic.PieceSize.Height <= 0 {
		return Config{}, fmt.Errorf("config: mosaic piece size must be positive, got %s", cfg.Mosaic.PieceSize)
	}
	return cfg, nil
}
