package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Nominatim NominatimConfig
	Overpass  OverpassConfig
	HTTP      HTTPConfig
	Cache     CacheConfig
	Search    SearchConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	Email     string
}

type OverpassConfig struct {
	BaseURL string
}

type HTTPConfig struct {
	Timeout time.Duration
}

type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

type SearchConfig struct {
	DefaultRadiusM int
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// .env не обязателен: сервис умеет стартовать на значениях по умолчанию
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Nominatim: NominatimConfig{
			BaseURL:   viper.GetString("NOMINATIM_BASE_URL"),
			UserAgent: viper.GetString("NOMINATIM_USER_AGENT"),
			Email:     viper.GetString("NOMINATIM_EMAIL"),
		},
		Overpass: OverpassConfig{
			BaseURL: viper.GetString("OVERPASS_BASE_URL"),
		},
		HTTP: HTTPConfig{
			Timeout: time.Duration(viper.GetFloat64("HTTP_TIMEOUT_S") * float64(time.Second)),
		},
		Cache: CacheConfig{
			TTL:     time.Duration(viper.GetFloat64("CACHE_TTL_S") * float64(time.Second)),
			MaxSize: viper.GetInt("CACHE_MAX_SIZE"),
		},
		Search: SearchConfig{
			DefaultRadiusM: viper.GetInt("DEFAULT_RADIUS_M"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	// Set default values if not provided
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Nominatim.BaseURL == "" {
		cfg.Nominatim.BaseURL = "https://nominatim.openstreetmap.org/search"
	}
	if cfg.Nominatim.UserAgent == "" {
		cfg.Nominatim.UserAgent = "accessibility-finder/1.0"
	}
	if cfg.Overpass.BaseURL == "" {
		cfg.Overpass.BaseURL = "https://overpass-api.de/api/interpreter"
	}
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = 20 * time.Second
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 120 * time.Second
	}
	if cfg.Cache.MaxSize == 0 {
		cfg.Cache.MaxSize = 512
	}
	if cfg.Search.DefaultRadiusM == 0 {
		cfg.Search.DefaultRadiusM = 1500
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
