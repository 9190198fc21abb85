package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the single configuration object passed into constructors. Nothing
// below main reads the environment directly, so which backends count as
// "configured" is decided in exactly one place.
type Config struct {
	Addr   string `env:"ADDR"    envDefault:":8080"`
	DBPath string `env:"DB_PATH" envDefault:"clinisum.sqlite"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	SummaryModel string `env:"SUMMARY_MODEL" envDefault:"gpt-4o-mini"`
	VisionModel  string `env:"VISION_MODEL"`

	OCREndpoint string `env:"OCR_ENDPOINT"`
	OCRLanguage string `env:"OCR_LANGUAGE" envDefault:"eng"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
	FetchTimeout   time.Duration `env:"FETCH_TIMEOUT"   envDefault:"20s"`

	URLMinReadableChars int `env:"URL_MIN_READABLE_CHARS" envDefault:"50"`
	DocMinTextChars     int `env:"DOC_MIN_TEXT_CHARS"     envDefault:"20"`

	VisionConfidence int64 `env:"VISION_CONFIDENCE" envDefault:"90"`
	TextConfidence   int64 `env:"TEXT_CONFIDENCE"   envDefault:"75"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// VisionConfigured reports whether the vision-capable model may be attempted.
func (c Config) VisionConfigured() bool {
	return c.OpenAIAPIKey != "" && c.VisionModel != ""
}

// OCRConfigured reports whether the OCR sidecar may be attempted.
func (c Config) OCRConfigured() bool {
	return c.OCREndpoint != ""
}
