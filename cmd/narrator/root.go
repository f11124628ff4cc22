package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/lexiqai/narrator/internal/config"
)

// newRootCommand builds the CLI. Flag defaults come from cfg, so environment
// settings apply unless a flag overrides them.
func newRootCommand(cfg *config.Config) *cobra.Command {
	var (
		prompt    string
		baseDelay = cfg.BaseDelay.Seconds()
		noDelete  = cfg.KeepChunks
	)

	cmd := &cobra.Command{
		Use:   "narrator",
		Short: "Convert narration text to speech with the Gemini TTS API",
		Long: `narrator translates narration markup into speech markup, splits it into
chunks, synthesizes every chunk with credential rotation on quota errors and
merges the chunk audio into final_<output_name>.wav.`,
		Example: `  narrator -p script.txt -o cerita
  narrator -p "Halo semuanya. [JEDA: 1.5 detik] Selamat datang." -v Kore`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.BaseDelay = time.Duration(baseDelay * float64(time.Second))
			cfg.KeepChunks = noDelete
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, prompt)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&prompt, "prompt", "p", "", "narration text, or path to a .txt file holding it")
	flags.StringVarP(&cfg.Voice, "voice", "v", cfg.Voice, "prebuilt voice name")
	flags.StringVarP(&cfg.OutputName, "output_name", "o", cfg.OutputName, "base name of the chunk and final audio files")
	flags.StringVarP(&cfg.APIKeyFile, "api_key_file", "k", cfg.APIKeyFile, "file with one API key per line")
	flags.StringVarP(&cfg.FFmpegPath, "ffmpeg_path", "f", cfg.FFmpegPath, "path to the ffmpeg executable")
	flags.IntVar(&cfg.MaxChars, "max_chars", cfg.MaxChars, "maximum characters per request")
	flags.Float64VarP(&cfg.Temperature, "temperature", "t", cfg.Temperature, "sampling temperature (0.0 to 2.0)")
	flags.IntVarP(&cfg.MaxRetries, "max_retries", "r", cfg.MaxRetries, "accepted for compatibility; attempts per chunk equal the number of API keys")
	flags.Float64VarP(&baseDelay, "base_delay", "d", baseDelay, "base backoff delay in seconds")
	flags.BoolVar(&noDelete, "no-delete", noDelete, "keep chunk files after merging")
	flags.StringVar(&cfg.Encoder, "encoder", cfg.Encoder, "audio encoder used for merging: ffmpeg or native")
	flags.StringVar(&cfg.Model, "model", cfg.Model, "TTS model name")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flags.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve /metrics, /health and /ready on this address while running")
	flags.StringVar(&cfg.MetricsTextfile, "metrics-textfile", cfg.MetricsTextfile, "write metrics to this file when the run ends")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}
