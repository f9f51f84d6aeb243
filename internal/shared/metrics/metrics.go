package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	authzAllowedTotal         atomic.Uint64
	authzDeniedUnauthTotal    atomic.Uint64
	authzDeniedNotOwnerTotal  atomic.Uint64
	authzDeniedNoResourceTotal atomic.Uint64

	applicationsCreatedTotal   atomic.Uint64
	applicationsDuplicateTotal atomic.Uint64

	requestDuration = newHistogram([]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000})
)

// IncAuthzAllowed increments the allowed-decision counter.
func IncAuthzAllowed() {
	authzAllowedTotal.Add(1)
}

// IncAuthzDenied increments the denied-decision counter for a reason.
func IncAuthzDenied(reason string) {
	switch reason {
	case "unauthenticated":
		authzDeniedUnauthTotal.Add(1)
	case "no_such_resource":
		authzDeniedNoResourceTotal.Add(1)
	default:
		authzDeniedNotOwnerTotal.Add(1)
	}
}

// IncApplicationCreated increments the created-application counter.
func IncApplicationCreated() {
	applicationsCreatedTotal.Add(1)
}

// IncApplicationDuplicate increments the rejected-duplicate counter.
func IncApplicationDuplicate() {
	applicationsDuplicateTotal.Add(1)
}

// ObserveRequestDurationMs records a request duration in milliseconds.
func ObserveRequestDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	requestDuration.Observe(value)
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
	writeCounter(&buf, "authz_allowed_total", "Total authorization decisions that allowed", authzAllowedTotal.Load())
	writeCounter(&buf, "authz_denied_unauthenticated_total", "Denied decisions for missing identity", authzDeniedUnauthTotal.Load())
	writeCounter(&buf, "authz_denied_not_owner_total", "Denied decisions for failed ownership checks", authzDeniedNotOwnerTotal.Load())
	writeCounter(&buf, "authz_denied_no_such_resource_total", "Denied decisions for absent resources", authzDeniedNoResourceTotal.Load())
	writeCounter(&buf, "applications_created_total", "Total applications created", applicationsCreatedTotal.Load())
	writeCounter(&buf, "applications_duplicate_total", "Total duplicate applications rejected", applicationsDuplicateTotal.Load())
	writeHistogram(&buf, "request_duration_ms", "Request duration in milliseconds", requestDuration.Snapshot())
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
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
