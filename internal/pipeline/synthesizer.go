package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lexiqai/narrator/internal/audio"
	"github.com/lexiqai/narrator/internal/config"
	"github.com/lexiqai/narrator/internal/credentials"
	"github.com/lexiqai/narrator/internal/observability"
	"github.com/lexiqai/narrator/internal/resilience"
	"github.com/lexiqai/narrator/internal/text"
	"github.com/lexiqai/narrator/internal/tts"
)

var (
	// ErrChunkExhausted is returned when every credential was tried for a chunk without success
	ErrChunkExhausted = errors.New("all attempts and key rotations exhausted")

	// ErrEmptyPrompt is returned when nothing is left to synthesize after translation
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// ChunkError reports a chunk that could not be synthesized
type ChunkError struct {
	Index    int
	Attempts int
	Err      error // last backend error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d failed after %d attempts: %v", e.Index, e.Attempts, e.Err)
}

// Unwrap exposes both ErrChunkExhausted and the last backend error
func (e *ChunkError) Unwrap() []error {
	return []error{ErrChunkExhausted, e.Err}
}

// ArtifactWriter persists the audio of one chunk
type ArtifactWriter interface {
	WriteChunk(index int, pcm []byte) (string, error)
}

// Options controls how chunks are requested
type Options struct {
	Model       string
	Voice       string
	Temperature float64
	MaxChars    int
	BaseDelay   time.Duration // first backoff delay after a transient error
	ChunkDelay  time.Duration // pause between consecutive chunks
}

// OptionsFromConfig builds Options from the run configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Model:       cfg.Model,
		Voice:       cfg.Voice,
		Temperature: cfg.Temperature,
		MaxChars:    cfg.MaxChars,
		BaseDelay:   cfg.BaseDelay,
		ChunkDelay:  cfg.ChunkDelay,
	}
}

// RunResult lists the chunk files written by a run
type RunResult struct {
	Chunks int
	Files  []string
}

// Synthesizer turns narration text into chunk audio files, one backend request at a time.
// It owns the rotation state of the credential pool and must not be used concurrently.
type Synthesizer struct {
	backend tts.Backend
	pool    *credentials.Pool
	store   ArtifactWriter
	opts    Options
	format  audio.Format
	sleep   resilience.Sleeper
	metrics *observability.Metrics
	logger  zerolog.Logger
}

// NewSynthesizer creates a synthesizer. A nil metrics tracker gets a fresh one.
func NewSynthesizer(
	backend tts.Backend,
	pool *credentials.Pool,
	store ArtifactWriter,
	opts Options,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *Synthesizer {
	if metrics == nil {
		metrics = observability.NewRunMetrics()
	}
	return &Synthesizer{
		backend: backend,
		pool:    pool,
		store:   store,
		opts:    opts,
		format:  audio.DefaultFormat,
		sleep:   resilience.Sleep,
		metrics: metrics,
		logger:  logger.With().Str("component", "synthesizer").Logger(),
	}
}

// SetSleeper replaces the function used to wait between attempts and chunks
func (s *Synthesizer) SetSleeper(fn resilience.Sleeper) {
	s.sleep = fn
}

// Run translates and splits prompt, then synthesizes every chunk in order.
// The first chunk that cannot be synthesized aborts the run.
func (s *Synthesizer) Run(ctx context.Context, prompt string) (*RunResult, error) {
	chunks := text.Split(text.Translate(prompt), s.opts.MaxChars)

	s.logger.Info().
		Int("chunks", len(chunks)).
		Int("max_chars", s.opts.MaxChars).
		Msg("Text split into chunks")

	result := &RunResult{Chunks: len(chunks)}
	if len(chunks) == 0 {
		return result, ErrEmptyPrompt
	}

	for i, chunk := range chunks {
		index := i + 1
		s.logger.Info().
			Int("chunk", index).
			Int("total", len(chunks)).
			Int("chars", len([]rune(chunk))).
			Msg("Processing chunk")

		path, err := s.SynthesizeChunk(ctx, index, chunk)
		if err != nil {
			s.metrics.RecordChunk(false)
			return result, err
		}
		s.metrics.RecordChunk(true)
		result.Files = append(result.Files, path)

		if index < len(chunks) && s.opts.ChunkDelay > 0 {
			if err := s.sleep(ctx, s.opts.ChunkDelay); err != nil {
				return result, err
			}
		}
	}

	return result, nil
}

// SynthesizeChunk requests audio for one chunk and persists it.
//
// Every credential in the pool gets at most one attempt. A quota error rotates to
// the next credential immediately; any other error waits BaseDelay × 2^attempt and
// retries with the same credential.
func (s *Synthesizer) SynthesizeChunk(ctx context.Context, index int, chunk string) (string, error) {
	attempts := s.pool.Len()
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		keyIndex := s.pool.Index()
		logger := s.logger.With().
			Int("chunk", index).
			Int("key_index", keyIndex).
			Int("attempt", attempt+1).
			Int("max_attempts", attempts).
			Logger()

		logger.Info().Str("key", s.pool.Fingerprint(keyIndex)).Msg("Requesting speech")

		start := time.Now()
		pcm, err := s.backend.Synthesize(ctx, tts.Request{
			Credential:  s.pool.Current(),
			Model:       s.opts.Model,
			Text:        chunk,
			Voice:       s.opts.Voice,
			Temperature: s.opts.Temperature,
		})
		latency := time.Since(start)

		if err == nil {
			s.metrics.RecordRequest(observability.OutcomeSuccess, latency)
			s.metrics.RecordAudioBytes(len(pcm))
			return s.persist(logger, index, pcm)
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		lastErr = err

		if tts.IsQuotaExhausted(err) {
			s.metrics.RecordRequest(observability.OutcomeQuota, latency)
			next := s.pool.Rotate()
			s.metrics.RecordRotation()
			logger.Warn().Err(err).Int("next_key_index", next).Msg("API key quota exhausted, rotating key")
			continue
		}

		s.metrics.RecordRequest(observability.OutcomeTransient, latency)
		delay := resilience.CalculateBackoff(attempt, s.opts.BaseDelay)
		logger.Warn().Err(err).Dur("delay", delay).Msg("Transient error, retrying after backoff")

		s.metrics.RecordBackoff(delay)
		if err := s.sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	chunkErr := &ChunkError{Index: index, Attempts: attempts, Err: lastErr}
	s.logger.Error().Err(lastErr).Int("chunk", index).Int("attempts", attempts).Msg("Chunk failed after all attempts and key rotations")
	return "", chunkErr
}

func (s *Synthesizer) persist(logger zerolog.Logger, index int, pcm []byte) (string, error) {
	// Drop a trailing partial frame
	if extra := len(pcm) % s.format.BlockAlign(); extra != 0 {
		logger.Warn().
			Int("bytes", len(pcm)).
			Int("dropped", extra).
			Msg("Audio length is not a whole number of frames, truncating")
		pcm = pcm[:len(pcm)-extra]
	}

	path, err := s.store.WriteChunk(index, pcm)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to save chunk audio")
		return "", err
	}

	stats := audio.Analyze(pcm, s.format)
	event := logger.Info()
	if stats.Peak == 0 {
		event = logger.Warn()
	}
	event.
		Str("file", path).
		Dur("duration", stats.Duration).
		Float64("rms", stats.RMS).
		Int("bytes", len(pcm)).
		Msg("Chunk audio saved")

	return path, nil
}
