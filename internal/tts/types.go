package tts

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Audio produced by the backend is raw PCM in this layout.
const (
	SampleRate    = 24000
	Channels      = 1
	BitsPerSample = 16
)

// quotaStatus is the backend status reported when a credential's allowance is used up.
const quotaStatus = "RESOURCE_EXHAUSTED"

// ErrQuotaExhausted marks errors caused by the current credential running out of quota.
var ErrQuotaExhausted = errors.New("quota exhausted")

// ErrEmptyAudio is returned when the backend answers without audio data.
var ErrEmptyAudio = errors.New("backend returned no audio data")

// Request describes one synthesis call
type Request struct {
	Credential  string
	Model       string
	Text        string
	Voice       string
	Temperature float64
}

// Backend synthesizes speech for a piece of text.
type Backend interface {
	// Synthesize returns raw mono 16-bit PCM at SampleRate.
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}

// APIError is an error response returned by the speech API
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%d %s. %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

// Is reports quota errors as ErrQuotaExhausted.
func (e *APIError) Is(target error) bool {
	return target == ErrQuotaExhausted && e.Status == quotaStatus
}

// IsQuotaExhausted classifies an error as quota exhaustion. Anything else is
// treated as transient by the caller.
func IsQuotaExhausted(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuotaExhausted) {
		return true
	}
	return strings.Contains(err.Error(), quotaStatus)
}
