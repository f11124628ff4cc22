package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix for all settings (NARRATOR_VOICE, ...)
const Prefix = "NARRATOR"

// Encoders supported for merging chunk files
const (
	EncoderFFmpeg = "ffmpeg"
	EncoderNative = "native"
)

// Config holds all configuration for a narration run. Every setting is read
// from its NARRATOR_ prefixed variable; FFMPEG_PATH is also honoured unprefixed.
type Config struct {
	// Speech configuration
	Voice       string  `split_words:"true" default:"Zubenelgenubi"`
	Model       string  `split_words:"true" default:"gemini-2.5-flash-preview-tts"`
	Temperature float64 `split_words:"true" default:"0.7"` // 0.0 to 2.0
	APIBaseURL  string  `split_words:"true" default:"https://generativelanguage.googleapis.com"`

	// Input/output
	OutputName string `split_words:"true" default:"narasi_output"` // Base name of chunk and final files
	APIKeyFile string `split_words:"true" default:"api-keys.txt"`  // One API key per line
	KeepChunks bool   `split_words:"true" default:"false"`         // Keep chunk files after merging

	// Audio encoder configuration
	Encoder    string `split_words:"true" default:"ffmpeg"` // ffmpeg or native
	FFmpegPath string `envconfig:"FFMPEG_PATH" default:""`  // Explicit path to the ffmpeg binary

	// Chunking and rate limiting
	MaxChars       int           `split_words:"true" default:"4800"`  // Characters per request
	MaxRetries     int           `split_words:"true" default:"5"`     // Accepted for compatibility; attempts are bounded by the key count
	BaseDelay      time.Duration `split_words:"true" default:"5s"`    // Base for exponential backoff
	ChunkDelay     time.Duration `split_words:"true" default:"500ms"` // Pause between chunk requests
	RequestTimeout time.Duration `split_words:"true" default:"120s"`  // Per-request HTTP timeout

	// Observability configuration
	LogLevel        string `split_words:"true" default:"info"` // Log level: debug, info, warn, error
	LogPretty       bool   `split_words:"true" default:"true"` // Console output for interactive use
	MetricsAddr     string `split_words:"true" default:""`     // Serve /metrics, /health, /ready while running
	MetricsTextfile string `split_words:"true" default:""`     // Write metrics here when the run ends
}

// Load reads configuration from environment variables, loading a .env file first
// when one exists. The result is not validated so that command-line flags can
// still override it; call Validate once they are applied.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return parse()
}

// LoadFromEnv loads and validates configuration directly from environment
// variables without attempting to load .env file
func LoadFromEnv() (*Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parse() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration can drive a run
func (c *Config) Validate() error {
	if c.MaxChars < 1 {
		return fmt.Errorf("max chars must be at least 1, got %d", c.MaxChars)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0.0 and 2.0, got %v", c.Temperature)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", c.MaxRetries)
	}
	if c.BaseDelay < 0 || c.ChunkDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	if c.Voice == "" {
		return fmt.Errorf("voice is required")
	}
	if c.OutputName == "" {
		return fmt.Errorf("output name is required")
	}
	switch c.Encoder {
	case EncoderFFmpeg, EncoderNative:
	default:
		return fmt.Errorf("unknown encoder %q (want %s or %s)", c.Encoder, EncoderFFmpeg, EncoderNative)
	}
	return nil
}

// FinalOutputName returns the merged output file name for the configured base name.
// A directory part is kept: "out/story.wav" merges into out/final_story.wav.
func (c *Config) FinalOutputName() string {
	dir, file := filepath.Split(c.OutputName)
	base := strings.TrimSuffix(file, filepath.Ext(file))
	return filepath.Join(dir, fmt.Sprintf("final_%s.wav", base))
}
