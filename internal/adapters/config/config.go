package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"fourcastr/pkg/errors"
)

type Config struct {
	App           AppConfig
	ClickHouse    ClickHouseConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	ErrorTracking ErrorTrackingConfig
	Analysis      AnalysisConfig
	Scanner       ScannerConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"fourcastr"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type ClickHouseConfig struct {
	Host     string `envconfig:"CLICKHOUSE_HOST" default:"localhost"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD"`
	Database string `envconfig:"CLICKHOUSE_DB" default:"marketdata"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"fourcastr"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	Database string `envconfig:"POSTGRES_DB" default:"fourcastr"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type KafkaConfig struct {
	Enabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	Brokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"development"`
}

// AnalysisConfig carries every tunable constant of the analysis core.
//
// The Gann projection multiplier and the 1x1-angle band are empirically
// chosen values with no stated derivation, so they stay configuration
// rather than baked-in logic.
type AnalysisConfig struct {
	SwingWindow       int `envconfig:"ANALYSIS_SWING_WINDOW" default:"20"`
	SwingLookaround   int `envconfig:"ANALYSIS_SWING_LOOKAROUND" default:"5"`
	PivotLeftBars     int `envconfig:"ANALYSIS_PIVOT_LEFT_BARS" default:"5"`
	PivotRightBars    int `envconfig:"ANALYSIS_PIVOT_RIGHT_BARS" default:"5"`
	VolumePriceLevels int `envconfig:"ANALYSIS_VOLUME_PRICE_LEVELS" default:"24"`

	ConfluenceTolerancePct float64 `envconfig:"ANALYSIS_CONFLUENCE_TOLERANCE_PCT" default:"0.5"`
	ConfluenceMinLevels    int     `envconfig:"ANALYSIS_CONFLUENCE_MIN_LEVELS" default:"2"`

	ConvergencePriceTolerancePct float64 `envconfig:"ANALYSIS_CONVERGENCE_PRICE_TOLERANCE_PCT" default:"2.0"`
	ConvergenceDateToleranceDays int     `envconfig:"ANALYSIS_CONVERGENCE_DATE_TOLERANCE_DAYS" default:"3"`
	ConvergenceMinMethods        int     `envconfig:"ANALYSIS_CONVERGENCE_MIN_METHODS" default:"2"`

	GannProjectionMultiplier float64 `envconfig:"ANALYSIS_GANN_PROJECTION_MULTIPLIER" default:"2.0"`
	GannAngleBandLow         float64 `envconfig:"ANALYSIS_GANN_ANGLE_BAND_LOW" default:"0.8"`
	GannAngleBandHigh        float64 `envconfig:"ANALYSIS_GANN_ANGLE_BAND_HIGH" default:"1.2"`

	MinBars int `envconfig:"ANALYSIS_MIN_BARS" default:"30"`
}

type ScannerConfig struct {
	MaxConcurrency int    `envconfig:"SCANNER_MAX_CONCURRENCY" default:"5"`
	BarLookback    int    `envconfig:"SCANNER_BAR_LOOKBACK" default:"250"`
	CacheTTLHours  int    `envconfig:"SCANNER_CACHE_TTL_HOURS" default:"24"`
	RatingsTopic   string `envconfig:"SCANNER_RATINGS_TOPIC"`

	// ForecastWindowDays sets the forecast window boundary relative to
	// the scan time. The boundary tracks an external cycle (the current
	// ingress period); the relative form is the operational stand-in.
	ForecastWindowDays int `envconfig:"SCANNER_FORECAST_WINDOW_DAYS" default:"90"`
}

// Load reads configuration from environment variables (with .env support)
func Load() (*Config, error) {
	// Best effort: a missing .env file is fine in production
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
