package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes
const (
	OutcomeSuccess   = "success"
	OutcomeQuota     = "quota_exhausted"
	OutcomeTransient = "transient_error"
)

var (
	// TTS request metrics
	ttsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "narrator_tts_requests_total",
		Help: "Total number of TTS requests by outcome",
	}, []string{"outcome"})

	ttsLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "narrator_tts_latency_seconds",
		Help:    "TTS request latency in seconds",
		Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
	})

	// Credential pool metrics
	credentialRotations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "narrator_credential_rotations_total",
		Help: "Total number of credential rotations after quota exhaustion",
	})

	backoffSeconds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "narrator_backoff_seconds_total",
		Help: "Total time spent waiting before retrying transient errors",
	})

	// Chunk metrics
	chunksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "narrator_chunks_total",
		Help: "Total number of chunks processed by status",
	}, []string{"status"})

	audioBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "narrator_audio_bytes_total",
		Help: "Total PCM bytes received from the backend",
	})

	// Merge metrics
	mergesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "narrator_merges_total",
		Help: "Total number of merge attempts by status",
	}, []string{"status"})

	runDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "narrator_last_run_duration_seconds",
		Help: "Duration of the last run in seconds",
	})

	runSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "narrator_last_run_success",
		Help: "1 if the last run synthesized every chunk, 0 otherwise",
	})
)

// Metrics tracks metrics for a single run
type Metrics struct {
	startTime time.Time
}

// NewRunMetrics creates a new metrics tracker for a run starting now
func NewRunMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordRequest records one backend request
func (m *Metrics) RecordRequest(outcome string, latency time.Duration) {
	ttsRequests.WithLabelValues(outcome).Inc()
	ttsLatency.Observe(latency.Seconds())
}

// RecordRotation records a credential rotation
func (m *Metrics) RecordRotation() {
	credentialRotations.Inc()
}

// RecordBackoff records time spent waiting before a retry
func (m *Metrics) RecordBackoff(d time.Duration) {
	backoffSeconds.Add(d.Seconds())
}

// RecordChunk records the final status of a chunk
func (m *Metrics) RecordChunk(success bool) {
	chunksTotal.WithLabelValues(status(success)).Inc()
}

// RecordAudioBytes records PCM bytes received
func (m *Metrics) RecordAudioBytes(n int) {
	audioBytes.Add(float64(n))
}

// RecordMerge records the result of the merge step
func (m *Metrics) RecordMerge(success bool) {
	mergesTotal.WithLabelValues(status(success)).Inc()
}

// RecordRunEnd records the end of a run
func (m *Metrics) RecordRunEnd(success bool) {
	runDuration.Set(time.Since(m.startTime).Seconds())
	if success {
		runSuccess.Set(1)
	} else {
		runSuccess.Set(0)
	}
}

// WriteTextfile writes all registered metrics to path in the text exposition format
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
