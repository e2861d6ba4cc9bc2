package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	Workers  int    `env:"ANALYSIS_WORKERS, default=8"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Detector DetectorConfig
	Ingest   IngestConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=logistics_monitor"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// DetectorConfig carries the optional threshold overrides. Zero values mean
// "keep the baseline value" (built-in default or historical calibration).
type DetectorConfig struct {
	HistoricalDataPath string  `env:"DETECTOR_HISTORICAL_DATA"`
	DeviationKm        float64 `env:"DETECTOR_DEVIATION_KM"`
	StopMinutes        int     `env:"DETECTOR_STOP_MINUTES"`
	MaxSpeedKmh        float64 `env:"DETECTOR_MAX_SPEED_KMH"`
	HighValueCargo     float64 `env:"DETECTOR_HIGH_VALUE_CARGO"`
	DelayGraceMinutes  int     `env:"DETECTOR_DELAY_GRACE_MINUTES"`
	NearZeroSpeedKmh   float64 `env:"DETECTOR_NEAR_ZERO_SPEED_KMH"`
}

type IngestConfig struct {
	// Encoding overrides the character encoding of input text files
	// (utf-8, latin-1, windows-1252). Empty means UTF-8.
	Encoding string `env:"INGEST_ENCODING"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
