package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Ensure FFmpegCodec implements Codec.
var _ Codec = (*FFmpegCodec)(nil)

// FFmpegCodec decodes and encodes audio by running the ffmpeg executable
type FFmpegCodec struct {
	Path      string    // Resolved path to ffmpeg, empty when not found
	LogOutput io.Writer // Receives ffmpeg's stderr

	lookupErr error
}

// NewFFmpegCodec locates ffmpeg and returns a codec using it. A missing binary is
// not an error here; it is reported by Available when the codec is first needed.
func NewFFmpegCodec(explicitPath string) *FFmpegCodec {
	path, err := LocateFFmpeg(explicitPath)
	return &FFmpegCodec{
		Path:      path,
		LogOutput: io.Discard,
		lookupErr: err,
	}
}

// LocateFFmpeg resolves the ffmpeg binary. It tries the explicit path, then an
// ffmpeg directory next to the running executable, then $PATH.
func LocateFFmpeg(explicitPath string) (string, error) {
	if explicitPath != "" {
		if abs, err := filepath.Abs(explicitPath); err == nil && isFile(abs) {
			return abs, nil
		}
	}

	name := "ffmpeg"
	if runtime.GOOS == "windows" {
		name = "ffmpeg.exe"
	}

	if exe, err := os.Executable(); err == nil {
		bundled := filepath.Join(filepath.Dir(exe), "ffmpeg", name)
		if isFile(bundled) {
			return bundled, nil
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	if explicitPath != "" {
		return "", fmt.Errorf("%w: ffmpeg not found at %s or in PATH", ErrEncoderUnavailable, explicitPath)
	}
	return "", fmt.Errorf("%w: ffmpeg not found in PATH", ErrEncoderUnavailable)
}

// Available reports whether the ffmpeg binary was found
func (c *FFmpegCodec) Available() error {
	if c.Path == "" {
		if c.lookupErr != nil {
			return c.lookupErr
		}
		return fmt.Errorf("%w: ffmpeg path not set", ErrEncoderUnavailable)
	}
	return nil
}

// Decode converts the audio file at path to raw PCM in format f
func (c *FFmpegCodec) Decode(ctx context.Context, path string, f Format) ([]byte, error) {
	if err := c.Available(); err != nil {
		return nil, err
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-f", "s16le", "-acodec", "pcm_s16le",
		"-ac", strconv.Itoa(f.Channels),
		"-ar", strconv.Itoa(f.SampleRate),
		"-",
	}

	var stdout bytes.Buffer
	if err := c.run(ctx, args, nil, &stdout); err != nil {
		return nil, fmt.Errorf("ffmpeg decode %s: %w", path, err)
	}
	return stdout.Bytes(), nil
}

// Encode writes raw PCM in format f to path as a WAV file
func (c *FFmpegCodec) Encode(ctx context.Context, path string, pcm []byte, f Format) error {
	if err := c.Available(); err != nil {
		return err
	}

	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "s16le",
		"-ar", strconv.Itoa(f.SampleRate),
		"-ac", strconv.Itoa(f.Channels),
		"-i", "-",
		"-c:a", "pcm_s16le",
		path,
	}

	if err := c.run(ctx, args, bytes.NewReader(pcm), io.Discard); err != nil {
		return fmt.Errorf("ffmpeg encode %s: %w", path, err)
	}
	return nil
}

func (c *FFmpegCodec) run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	if c.LogOutput != nil {
		cmd.Stderr = io.MultiWriter(&stderr, c.LogOutput)
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
