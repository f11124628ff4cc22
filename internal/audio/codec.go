package audio

import (
	"context"
	"fmt"
)

// Codec decodes chunk files to PCM and encodes the merged PCM to the output file
type Codec interface {
	// Available reports an error when the codec cannot be used
	Available() error
	// Decode returns the PCM sample data of the audio file at path in format f
	Decode(ctx context.Context, path string, f Format) ([]byte, error)
	// Encode writes pcm in format f to path
	Encode(ctx context.Context, path string, pcm []byte, f Format) error
}

// Ensure NativeCodec implements Codec.
var _ Codec = NativeCodec{}

// NativeCodec reads and writes PCM WAV files without external tools
type NativeCodec struct{}

// Available always succeeds
func (NativeCodec) Available() error { return nil }

// Decode reads a WAV file whose format must match f
func (NativeCodec) Decode(ctx context.Context, path string, f Format) ([]byte, error) {
	pcm, got, err := ReadWAV(path)
	if err != nil {
		return nil, err
	}
	if got != f {
		return nil, fmt.Errorf("%s: format %s does not match %s", path, got, f)
	}
	return pcm, nil
}

// Encode writes a WAV file
func (NativeCodec) Encode(ctx context.Context, path string, pcm []byte, f Format) error {
	return WriteWAV(path, pcm, f)
}
