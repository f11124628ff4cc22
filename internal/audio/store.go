package audio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ChunkStore persists per-chunk audio as {base}_{index:02d}.wav
type ChunkStore struct {
	Dir    string
	Base   string
	Format Format
}

// NewChunkStore creates a store for the given output name. A directory part and
// file extension in name are honoured: "out/story.wav" writes out/story_01.wav.
func NewChunkStore(name string, f Format) *ChunkStore {
	dir, file := filepath.Split(name)
	if dir == "" {
		dir = "."
	}
	return &ChunkStore{
		Dir:    filepath.Clean(dir),
		Base:   strings.TrimSuffix(file, filepath.Ext(file)),
		Format: f,
	}
}

// Path returns the file path for the chunk with the given 1-based index
func (s *ChunkStore) Path(index int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s_%02d.wav", s.Base, index))
}

// Pattern returns the glob pattern matching every chunk file of this store
func (s *ChunkStore) Pattern() string {
	return filepath.Join(s.Dir, s.Base+"_*.wav")
}

// WriteChunk writes PCM data for the chunk and returns its path
func (s *ChunkStore) WriteChunk(index int, pcm []byte) (string, error) {
	path := s.Path(index)
	if err := WriteWAV(path, pcm, s.Format); err != nil {
		return "", fmt.Errorf("failed to write chunk %d to %s: %w", index, path, err)
	}
	return path, nil
}
