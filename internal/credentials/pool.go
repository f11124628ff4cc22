package credentials

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrEmptyPool is returned when no credentials are available.
var ErrEmptyPool = errors.New("credential pool is empty")

// Pool is an ordered set of API credentials with a rotating cursor.
// It is not safe for concurrent use; the pipeline drives it from a single goroutine.
type Pool struct {
	keys  []string
	index int
}

// NewPool creates a pool from the given credentials, ignoring blank entries.
func NewPool(keys []string) (*Pool, error) {
	cleaned := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrEmptyPool
	}
	return &Pool{keys: cleaned}, nil
}

// LoadFile reads one credential per non-blank line from path.
func LoadFile(path string) (*Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open API key file %s: %w", path, err)
	}
	defer f.Close()

	var keys []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		keys = append(keys, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read API key file %s: %w", path, err)
	}

	pool, err := NewPool(keys)
	if err != nil {
		return nil, fmt.Errorf("API key file %s: %w", path, err)
	}
	return pool, nil
}

// Len returns the number of credentials.
func (p *Pool) Len() int {
	return len(p.keys)
}

// Index returns the position of the current credential.
func (p *Pool) Index() int {
	return p.index
}

// Current returns the credential in use.
func (p *Pool) Current() string {
	return p.keys[p.index]
}

// Rotate advances to the next credential, wrapping around, and returns the new index.
func (p *Pool) Rotate() int {
	p.index = (p.index + 1) % len(p.keys)
	return p.index
}

// Fingerprint returns a masked form of the credential at i, safe for logs.
func (p *Pool) Fingerprint(i int) string {
	if i < 0 || i >= len(p.keys) {
		return ""
	}
	return Mask(p.keys[i])
}

// Mask hides all but the first and last four characters of a credential.
func Mask(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "…" + key[len(key)-4:]
}
