package audio

import (
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"testing"
)

func sineWave(n int) []byte {
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(16383 * math.Sin(2*math.Pi*440*float64(i)/24000))
	}
	return samplesToBytes(samples)
}

func TestEncodeWAV(t *testing.T) {
	pcm := sineWave(2400)

	wavData, err := EncodeWAV(pcm, DefaultFormat)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	// WAV header should be 44 bytes
	expectedSize := 44 + len(pcm)
	if len(wavData) != expectedSize {
		t.Errorf("Expected WAV size %d, got %d", expectedSize, len(wavData))
	}

	if string(wavData[0:4]) != "RIFF" || string(wavData[8:12]) != "WAVE" {
		t.Error("Missing RIFF/WAVE header")
	}
	if rate := binary.LittleEndian.Uint32(wavData[24:28]); rate != 24000 {
		t.Errorf("Expected sample rate 24000, got %d", rate)
	}
	if size := binary.LittleEndian.Uint32(wavData[40:44]); int(size) != len(pcm) {
		t.Errorf("Expected data size %d, got %d", len(pcm), size)
	}
}

func TestEncodeWAV_Errors(t *testing.T) {
	if _, err := EncodeWAV([]byte{1, 2, 3}, DefaultFormat); err == nil {
		t.Error("Expected error for odd-length PCM")
	}
	if _, err := EncodeWAV(nil, Format{SampleRate: 0, Channels: 1, BitsPerSample: 16}); err == nil {
		t.Error("Expected error for zero sample rate")
	}
	if _, err := EncodeWAV(nil, Format{SampleRate: 8000, Channels: 1, BitsPerSample: 8}); err == nil {
		t.Error("Expected error for 8-bit samples")
	}
}

func TestDecodeWAV(t *testing.T) {
	pcm := sineWave(480)
	wavData, err := EncodeWAV(pcm, DefaultFormat)
	if err != nil {
		t.Fatal(err)
	}

	got, f, err := DecodeWAV(wavData)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if f != DefaultFormat {
		t.Errorf("Expected format %s, got %s", DefaultFormat, f)
	}
	if string(got) != string(pcm) {
		t.Error("Decoded PCM does not match input")
	}
}

func TestDecodeWAV_SkipsExtraChunks(t *testing.T) {
	pcm := []byte{1, 0, 2, 0, 3, 0}
	wavData, _ := EncodeWAV(pcm, DefaultFormat)

	// Insert an odd-sized LIST chunk between fmt and data, as some encoders do.
	list := []byte{'L', 'I', 'S', 'T', 3, 0, 0, 0, 'a', 'b', 'c', 0}
	withList := append(append(append([]byte{}, wavData[:36]...), list...), wavData[36:]...)

	got, _, err := DecodeWAV(withList)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if string(got) != string(pcm) {
		t.Errorf("Expected %v, got %v", pcm, got)
	}
}

func TestDecodeWAV_PlaceholderDataSize(t *testing.T) {
	pcm := []byte{1, 0, 2, 0}
	wavData, _ := EncodeWAV(pcm, DefaultFormat)
	binary.LittleEndian.PutUint32(wavData[40:44], 0xFFFFFFFF)

	got, _, err := DecodeWAV(wavData)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if string(got) != string(pcm) {
		t.Errorf("Expected %v, got %v", pcm, got)
	}
}

func TestDecodeWAV_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"too short", []byte("RIFF")},
		{"not riff", append([]byte("RIFX\x00\x00\x00\x00WAVE"), make([]byte, 32)...)},
		{"no data", []byte("RIFF\x04\x00\x00\x00WAVE")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeWAV(tt.data)
			if !errors.Is(err, ErrInvalidWAV) {
				t.Errorf("Expected ErrInvalidWAV, got %v", err)
			}
		})
	}
}

func TestWriteReadWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunk.wav")
	pcm := sineWave(100)

	if err := WriteWAV(path, pcm, DefaultFormat); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}

	got, f, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV failed: %v", err)
	}
	if f != DefaultFormat || string(got) != string(pcm) {
		t.Error("ReadWAV did not return the written audio")
	}
}
