package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrNoChunks is returned when no chunk files match the merge pattern
	ErrNoChunks = errors.New("no chunk files found")

	// ErrEncoderUnavailable is returned when the audio encoder cannot be used
	ErrEncoderUnavailable = errors.New("audio encoder unavailable")
)

// MergeResult describes a completed merge
type MergeResult struct {
	Output   string
	Files    []string
	Bytes    int
	Duration time.Duration
	Deleted  bool
}

// Concatenator appends the sample data of chunk files into one output file
type Concatenator struct {
	codec  Codec
	format Format
	logger zerolog.Logger
}

// NewConcatenator creates a concatenator that reads and writes audio in format f
func NewConcatenator(codec Codec, f Format, logger zerolog.Logger) *Concatenator {
	return &Concatenator{
		codec:  codec,
		format: f,
		logger: logger.With().Str("component", "concat").Logger(),
	}
}

// Merge concatenates every file matching pattern, in lexicographic order, into output.
// Chunk files are deleted afterwards only when deleteChunks is set and the merge succeeded.
func (c *Concatenator) Merge(ctx context.Context, pattern, output string, deleteChunks bool) (*MergeResult, error) {
	files, err := matchChunks(pattern, output)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w matching %q", ErrNoChunks, pattern)
	}

	c.logger.Info().Int("files", len(files)).Str("pattern", pattern).Msg("Merging chunk files")

	if err := c.codec.Available(); err != nil {
		return nil, err
	}

	var merged bytes.Buffer
	for _, path := range files {
		pcm, err := c.codec.Decode(ctx, path, c.format)
		if err != nil {
			return nil, fmt.Errorf("failed to read chunk %s: %w", path, err)
		}
		c.logger.Debug().Str("file", path).Int("bytes", len(pcm)).Msg("Appending chunk")
		merged.Write(pcm)
	}

	if err := c.codec.Encode(ctx, output, merged.Bytes(), c.format); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", output, err)
	}

	result := &MergeResult{
		Output:   output,
		Files:    files,
		Bytes:    merged.Len(),
		Duration: c.format.Duration(merged.Len()),
	}

	if deleteChunks {
		result.Deleted = true
		for _, path := range files {
			if err := os.Remove(path); err != nil {
				result.Deleted = false
				c.logger.Warn().Err(err).Str("file", path).Msg("Failed to delete chunk file")
				continue
			}
			c.logger.Debug().Str("file", path).Msg("Deleted chunk file")
		}
	}

	c.logger.Info().
		Str("output", output).
		Dur("duration", result.Duration).
		Int("bytes", result.Bytes).
		Msg("Merge complete")

	return result, nil
}

// matchChunks returns the files matching pattern, sorted, excluding the output itself
func matchChunks(pattern, output string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid chunk pattern %q: %w", pattern, err)
	}

	outAbs, _ := filepath.Abs(output)
	files := matches[:0]
	for _, m := range matches {
		if abs, _ := filepath.Abs(m); abs == outAbs {
			continue
		}
		if !isFile(m) {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}
