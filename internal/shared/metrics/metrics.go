package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	uploadsTotal              atomic.Uint64
	explanationStartedTotal   atomic.Uint64
	explanationCompletedTotal atomic.Uint64
	explanationFailedTotal    atomic.Uint64

	explanationDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncUpload increments the uploads counter.
func IncUpload() {
	uploadsTotal.Add(1)
}

// IncExplanationStarted increments the started counter.
func IncExplanationStarted() {
	explanationStartedTotal.Add(1)
}

// IncExplanationCompleted increments the completed counter.
func IncExplanationCompleted() {
	explanationCompletedTotal.Add(1)
}

// IncExplanationFailed increments the failed counter.
func IncExplanationFailed() {
	explanationFailedTotal.Add(1)
}

// ObserveExplanationDurationMs records an end-to-end explanation duration in milliseconds.
func ObserveExplanationDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	explanationDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "documents_uploaded_total", "Total documents uploaded", uploadsTotal.Load())
	writeCounter(&buf, "explanation_started_total", "Total explanations started", explanationStartedTotal.Load())
	writeCounter(&buf, "explanation_completed_total", "Total explanations completed", explanationCompletedTotal.Load())
	writeCounter(&buf, "explanation_failed_total", "Total explanations failed", explanationFailedTotal.Load())
	writeHistogram(&buf, "explanation_duration_ms", "Explanation duration in milliseconds", explanationDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	cumulative := uint64(0)
	for i, bound := range snap.buckets {
		cumulative = snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=%q} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
