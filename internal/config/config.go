// Package config loads runtime configuration from the environment and
// wires the service graph the commands share.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nightseek/nightseek/internal/analyze"
	"github.com/nightseek/nightseek/internal/astro"
	"github.com/nightseek/nightseek/internal/catalog"
	platformhttp "github.com/nightseek/nightseek/internal/platform/http"
	"github.com/nightseek/nightseek/internal/sampler"
	"github.com/nightseek/nightseek/internal/scoring"
	"github.com/nightseek/nightseek/internal/search"
	"github.com/nightseek/nightseek/internal/selection"
	"github.com/nightseek/nightseek/internal/weather"
	"github.com/nightseek/nightseek/models"
)

// Load initializes configuration from environment variables
func Load() (*models.Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg models.Config

	// The bot commands take coordinates per subscriber; only the CLI
	// requires these, via RequireLocation.
	cfg.Latitude = getEnvFloatWithDefault("LATITUDE", 0)
	cfg.Longitude = getEnvFloatWithDefault("LONGITUDE", 0)

	cfg.ForecastDays = getEnvIntWithDefault("FORECAST_DAYS", 7)
	cfg.MaxObjects = getEnvIntWithDefault("MAX_OBJECTS", 8)

	cfg.MinAltitude = getEnvFloatWithDefault("MIN_ALTITUDE", 30)
	cfg.OptimalAltitude = getEnvFloatWithDefault("OPTIMAL_ALTITUDE", 45)

	cfg.SampleIntervalMin = getEnvIntWithDefault("SAMPLE_INTERVAL_MIN", 10)
	cfg.CoarseIntervalMin = getEnvIntWithDefault("COARSE_INTERVAL_MIN", 60)
	cfg.SearchHorizonDays = getEnvIntWithDefault("SEARCH_HORIZON_DAYS", 365)

	cfg.DSOMagLimit = getEnvFloatWithDefault("DSO_MAG_LIMIT", 10)
	cfg.CometMagLimit = getEnvFloatWithDefault("COMET_MAG_LIMIT", 12)

	cfg.MinScore = getEnvFloatWithDefault("MIN_SCORE", 60)
	cfg.SoftCapPerSubtype = getEnvIntWithDefault("SOFT_CAP_PER_SUBTYPE", 3)
	cfg.ExceptionalScore = getEnvFloatWithDefault("EXCEPTIONAL_SCORE", 180)
	cfg.EnsureCategories = getEnvBoolWithDefault("ENSURE_CATEGORIES", true)

	cfg.WindowSplitHours = getEnvFloatWithDefault("WINDOW_SPLIT_HOURS", 2)

	cfg.CacheDir = getEnvWithDefault("CACHE_DIR", defaultCacheDir())
	cfg.CacheTTLHours = getEnvFloatWithDefault("CACHE_TTL_HOURS", 24)

	cfg.WeatherEnabled = getEnvBoolWithDefault("WEATHER_ENABLED", true)

	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 30)
	cfg.RequestsPerSec = getEnvIntWithDefault("REQUESTS_PER_SEC", 5)

	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = getEnvWithDefault("DB_PORT", "5432")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = os.Getenv("DB_NAME")
	cfg.DBSSLMode = getEnvWithDefault("DB_SSLMODE", "disable")

	return &cfg, nil
}

// Services is the wired service graph for one observer location.
type Services struct {
	Oracle   *astro.Oracle
	Sampler  *sampler.Sampler
	Catalog  *catalog.Provider
	Weather  *weather.Client
	Analyzer *analyze.Analyzer
	Searcher *search.Searcher
}

// NewServices builds the full pipeline for the configured location.
func NewServices(cfg *models.Config, logger zerolog.Logger) (*Services, error) {
	oracle, err := astro.NewOracle(cfg.Latitude, cfg.Longitude)
	if err != nil {
		return nil, fmt.Errorf("creating oracle: %w", err)
	}

	httpClient := platformhttp.NewClient(platformhttp.ClientOptions{
		Timeout:        time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.RequestsPerSec,
	})

	lat := cfg.Latitude
	cat := catalog.NewProvider(catalog.Options{
		ObserverLatitude:  &lat,
		MinUsefulAltitude: cfg.MinAltitude,
		CacheDir:          cfg.CacheDir,
	}, httpClient, logger)

	smp := sampler.New(oracle)
	scorer := scoring.NewScorer(scoring.DefaultWeights, logger)
	selector := selection.NewEngine(selection.Options{
		MaxObjects:        cfg.MaxObjects,
		MinScore:          cfg.MinScore,
		SoftCapPerSubtype: cfg.SoftCapPerSubtype,
		ExceptionalScore:  cfg.ExceptionalScore,
		EnsureCategories:  cfg.EnsureCategories,
	}, logger)

	var wx *weather.Client
	var wxSource analyze.WeatherSource
	if cfg.WeatherEnabled {
		wx = weather.NewClient(cfg.Latitude, cfg.Longitude, httpClient)
		wxSource = wx
	}

	analyzer := analyze.New(oracle, oracle, smp, cat, wxSource, scorer, selector, analyze.Options{
		ForecastDays:  cfg.ForecastDays,
		MinAltitude:   cfg.MinAltitude,
		DSOMagLimit:   cfg.DSOMagLimit,
		CometMagLimit: cfg.CometMagLimit,
		WindowSplit:   time.Duration(cfg.WindowSplitHours * float64(time.Hour)),
	}, logger)

	searcher := search.NewSearcher(oracle, oracle, smp, cat,
		cfg.Latitude, cfg.MinAltitude, cfg.OptimalAltitude, cfg.SearchHorizonDays, logger)

	return &Services{
		Oracle:   oracle,
		Sampler:  smp,
		Catalog:  cat,
		Weather:  wx,
		Analyzer: analyzer,
		Searcher: searcher,
	}, nil
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nightseek-cache"
	}
	return home + "/.cache/nightseek"
}

// RequireLocation verifies the observer coordinates were configured.
func RequireLocation() error {
	for _, key := range []string{"LATITUDE", "LONGITUDE"} {
		value := os.Getenv(key)
		if value == "" {
			return fmt.Errorf("%s not set in environment", key)
		}
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
	}
	return nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
