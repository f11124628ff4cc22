package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lexiqai/narrator/internal/audio"
	"github.com/lexiqai/narrator/internal/config"
	"github.com/lexiqai/narrator/internal/credentials"
	"github.com/lexiqai/narrator/internal/observability"
	"github.com/lexiqai/narrator/internal/pipeline"
	"github.com/lexiqai/narrator/internal/text"
	"github.com/lexiqai/narrator/internal/tts"
)

// run executes one narration: synthesize every chunk, then merge the chunk files.
// A failed merge is logged but does not fail the run.
func run(ctx context.Context, cfg *config.Config, promptArg string) error {
	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	runID := observability.NewRunID()
	logger := observability.WithRunID(runID)
	metrics := observability.NewRunMetrics()

	prompt, err := text.LoadPrompt(promptArg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read prompt")
		return err
	}

	pool, err := credentials.LoadFile(cfg.APIKeyFile)
	if err != nil {
		logger.Error().Err(err).Str("file", cfg.APIKeyFile).Msg("Failed to load API keys")
		return err
	}

	codec := newCodec(cfg)

	logger.Info().
		Str("prompt_source", prompt.Source).
		Str("prompt_file", prompt.Path).
		Int("api_keys", pool.Len()).
		Str("voice", cfg.Voice).
		Str("model", cfg.Model).
		Str("output", cfg.OutputName).
		Str("encoder", cfg.Encoder).
		Msg("Narrator starting")

	store := audio.NewChunkStore(cfg.OutputName, audio.DefaultFormat)
	synth := pipeline.NewSynthesizer(
		tts.NewGeminiClient(cfg, logger),
		pool,
		store,
		pipeline.OptionsFromConfig(cfg),
		metrics,
		logger,
	)

	g, gctx := errgroup.WithContext(ctx)

	var server *http.Server
	if cfg.MetricsAddr != "" {
		server = observability.NewServer(cfg.MetricsAddr, map[string]observability.HealthCheckFunc{
			"credentials": func(ctx context.Context) (bool, error) {
				return pool.Len() > 0, nil
			},
			"encoder": func(ctx context.Context) (bool, error) {
				if err := codec.Available(); err != nil {
					return false, err
				}
				return true, nil
			},
		})

		g.Go(func() error {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("Metrics server listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		if server != nil {
			defer shutdown(server, logger)
		}

		if _, err := synth.Run(gctx, prompt.Text); err != nil {
			return err
		}

		merge(gctx, cfg, codec, store, metrics, logger)
		return nil
	})

	err = g.Wait()
	metrics.RecordRunEnd(err == nil)
	if cfg.MetricsTextfile != "" {
		if werr := observability.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			logger.Warn().Err(werr).Str("file", cfg.MetricsTextfile).Msg("Failed to write metrics textfile")
		}
	}

	if err != nil {
		logger.Error().Err(err).Msg("Narration failed")
		return err
	}
	logger.Info().Msg("Narration finished")
	return nil
}

func newCodec(cfg *config.Config) audio.Codec {
	if cfg.Encoder == config.EncoderNative {
		return audio.NativeCodec{}
	}
	return audio.NewFFmpegCodec(cfg.FFmpegPath)
}

func merge(ctx context.Context, cfg *config.Config, codec audio.Codec, store *audio.ChunkStore, metrics *observability.Metrics, logger zerolog.Logger) {
	output := cfg.FinalOutputName()
	result, err := audio.NewConcatenator(codec, audio.DefaultFormat, logger).
		Merge(ctx, store.Pattern(), output, !cfg.KeepChunks)
	if err != nil {
		metrics.RecordMerge(false)
		logger.Error().Err(err).Str("output", output).Msg("Failed to merge chunk files; chunk files are kept")
		return
	}

	metrics.RecordMerge(true)
	logger.Info().
		Str("output", result.Output).
		Int("files", len(result.Files)).
		Dur("duration", result.Duration).
		Bool("chunks_deleted", result.Deleted).
		Msg("Final audio written")
}

func shutdown(server *http.Server, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("Metrics server shutdown failed")
	}
}
