package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("NARRATOR_LOG_LEVEL")
	os.Unsetenv("FFMPEG_PATH")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() failed: %v", err)
	}

	if cfg.Voice != "Zubenelgenubi" {
		t.Errorf("Expected default Voice 'Zubenelgenubi', got '%s'", cfg.Voice)
	}

	if cfg.Model != "gemini-2.5-flash-preview-tts" {
		t.Errorf("Expected default Model 'gemini-2.5-flash-preview-tts', got '%s'", cfg.Model)
	}

	if cfg.OutputName != "narasi_output" {
		t.Errorf("Expected default OutputName 'narasi_output', got '%s'", cfg.OutputName)
	}

	if cfg.APIKeyFile != "api-keys.txt" {
		t.Errorf("Expected default APIKeyFile 'api-keys.txt', got '%s'", cfg.APIKeyFile)
	}

	if cfg.MaxChars != 4800 {
		t.Errorf("Expected default MaxChars 4800, got %d", cfg.MaxChars)
	}

	if cfg.Temperature != 0.7 {
		t.Errorf("Expected default Temperature 0.7, got %f", cfg.Temperature)
	}

	if cfg.Encoder != EncoderFFmpeg {
		t.Errorf("Expected default Encoder 'ffmpeg', got '%s'", cfg.Encoder)
	}

	if cfg.KeepChunks {
		t.Error("Expected default KeepChunks false, got true")
	}
}

func TestConfig_ResilienceDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() failed: %v", err)
	}

	if cfg.MaxRetries != 5 {
		t.Errorf("Expected default MaxRetries 5, got %d", cfg.MaxRetries)
	}

	if cfg.BaseDelay != 5*time.Second {
		t.Errorf("Expected default BaseDelay 5s, got %v", cfg.BaseDelay)
	}

	if cfg.ChunkDelay != 500*time.Millisecond {
		t.Errorf("Expected default ChunkDelay 500ms, got %v", cfg.ChunkDelay)
	}

	if cfg.RequestTimeout != 120*time.Second {
		t.Errorf("Expected default RequestTimeout 120s, got %v", cfg.RequestTimeout)
	}
}

func TestConfig_ObservabilityDefaults(t *testing.T) {
	os.Unsetenv("NARRATOR_LOG_LEVEL")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() failed: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default LogLevel 'info', got '%s'", cfg.LogLevel)
	}

	if !cfg.LogPretty {
		t.Error("Expected default LogPretty true, got false")
	}

	if cfg.MetricsAddr != "" || cfg.MetricsTextfile != "" {
		t.Error("Expected metrics outputs to be disabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("NARRATOR_VOICE", "Kore")
	t.Setenv("NARRATOR_MAX_CHARS", "1200")
	t.Setenv("NARRATOR_BASE_DELAY", "250ms")
	t.Setenv("NARRATOR_KEEP_CHUNKS", "true")
	t.Setenv("NARRATOR_ENCODER", "native")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Voice != "Kore" {
		t.Errorf("Expected Voice 'Kore', got '%s'", cfg.Voice)
	}
	if cfg.MaxChars != 1200 {
		t.Errorf("Expected MaxChars 1200, got %d", cfg.MaxChars)
	}
	if cfg.BaseDelay != 250*time.Millisecond {
		t.Errorf("Expected BaseDelay 250ms, got %v", cfg.BaseDelay)
	}
	if !cfg.KeepChunks {
		t.Error("Expected KeepChunks true")
	}
	if cfg.Encoder != EncoderNative {
		t.Errorf("Expected Encoder 'native', got '%s'", cfg.Encoder)
	}
}

func TestLoad_UnprefixedFFmpegPath(t *testing.T) {
	t.Setenv("FFMPEG_PATH", "/opt/ffmpeg/bin/ffmpeg")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() failed: %v", err)
	}
	if cfg.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("Expected FFmpegPath from FFMPEG_PATH, got '%s'", cfg.FFmpegPath)
	}
}

func TestLoad_InvalidMaxChars(t *testing.T) {
	t.Setenv("NARRATOR_MAX_CHARS", "0")

	if _, err := LoadFromEnv(); err == nil {
		t.Error("Expected error for MaxChars 0")
	}
}

func TestLoad_DefersValidation(t *testing.T) {
	t.Setenv("NARRATOR_MAX_CHARS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.MaxChars != 0 {
		t.Errorf("Expected MaxChars 0 from environment, got %d", cfg.MaxChars)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected Validate to reject MaxChars 0")
	}

	cfg.MaxChars = 100
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected overridden config to be valid, got %v", err)
	}
}

func TestLoad_IgnoresUnprefixedSettings(t *testing.T) {
	t.Setenv("VOICE", "Puck")
	t.Setenv("MODEL", "other-model")
	t.Setenv("ENCODER", "sox")
	t.Setenv("TEMPERATURE", "9")
	os.Unsetenv("NARRATOR_VOICE")
	os.Unsetenv("NARRATOR_ENCODER")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() failed: %v", err)
	}
	if cfg.Voice != "Zubenelgenubi" {
		t.Errorf("Expected default voice, got '%s'", cfg.Voice)
	}
	if cfg.Model != "gemini-2.5-flash-preview-tts" {
		t.Errorf("Expected default model, got '%s'", cfg.Model)
	}
	if cfg.Encoder != EncoderFFmpeg {
		t.Errorf("Expected default encoder, got '%s'", cfg.Encoder)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Expected default temperature 0.7, got %v", cfg.Temperature)
	}
}

func TestLoad_PrefixedMultiWordKeys(t *testing.T) {
	t.Setenv("NARRATOR_API_KEY_FILE", "/etc/narrator/keys.txt")
	t.Setenv("NARRATOR_API_BASE_URL", "http://localhost:9000")
	t.Setenv("NARRATOR_OUTPUT_NAME", "cerita")
	t.Setenv("NARRATOR_METRICS_TEXTFILE", "/tmp/narrator.prom")
	t.Setenv("NARRATOR_REQUEST_TIMEOUT", "30s")
	t.Setenv("NARRATOR_FFMPEG_PATH", "/usr/bin/ffmpeg")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() failed: %v", err)
	}
	if cfg.APIKeyFile != "/etc/narrator/keys.txt" {
		t.Errorf("Expected APIKeyFile from NARRATOR_API_KEY_FILE, got '%s'", cfg.APIKeyFile)
	}
	if cfg.APIBaseURL != "http://localhost:9000" {
		t.Errorf("Expected APIBaseURL from NARRATOR_API_BASE_URL, got '%s'", cfg.APIBaseURL)
	}
	if cfg.OutputName != "cerita" {
		t.Errorf("Expected OutputName 'cerita', got '%s'", cfg.OutputName)
	}
	if cfg.MetricsTextfile != "/tmp/narrator.prom" {
		t.Errorf("Expected MetricsTextfile from NARRATOR_METRICS_TEXTFILE, got '%s'", cfg.MetricsTextfile)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("Expected RequestTimeout 30s, got %v", cfg.RequestTimeout)
	}
	if cfg.FFmpegPath != "/usr/bin/ffmpeg" {
		t.Errorf("Expected FFmpegPath from NARRATOR_FFMPEG_PATH, got '%s'", cfg.FFmpegPath)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Voice:      "Kore",
			OutputName: "out",
			Encoder:    EncoderNative,
			MaxChars:   100,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }, true},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, true},
		{"negative delay", func(c *Config) { c.BaseDelay = -time.Second }, true},
		{"unknown encoder", func(c *Config) { c.Encoder = "sox" }, true},
		{"empty voice", func(c *Config) { c.Voice = "" }, true},
		{"empty output", func(c *Config) { c.OutputName = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFinalOutputName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"cerita", "final_cerita.wav"},
		{"cerita.wav", "final_cerita.wav"},
		{filepath.Join("out", "cerita"), filepath.Join("out", "final_cerita.wav")},
	}

	for _, tt := range tests {
		cfg := &Config{OutputName: tt.name}
		if got := cfg.FinalOutputName(); got != tt.want {
			t.Errorf("FinalOutputName(%q): expected '%s', got '%s'", tt.name, tt.want, got)
		}
	}
}
