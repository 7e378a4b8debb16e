package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ConfidenceThreshold float64 `env:"CONFIDENCE_THRESHOLD" envDefault:"0.8"`

	OCRLanguages     []string `env:"OCR_LANGUAGES"      envDefault:"eng,chi_sim"`
	OCRAngleLanguage string   `env:"OCR_ANGLE_LANGUAGE" envDefault:"eng"`

	HistoryEnabled bool   `env:"HISTORY_ENABLED" envDefault:"true"`
	HistoryDB      string `env:"HISTORY_DB"`

	MetricsAddr  string `env:"METRICS_ADDR"`
	OTLPEndpoint string `env:"OTLP_ENDPOINT"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 1 {
		return nil, fmt.Errorf("CONFIDENCE_THRESHOLD must be between 0 and 1, got %g", cfg.ConfidenceThreshold)
	}
	return cfg, nil
}
