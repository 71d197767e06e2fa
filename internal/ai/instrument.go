package ai

import (
	"context"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Instrumented wraps an Adapter and records call latencies and failures.
type Instrumented struct {
	next Adapter

	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
	calls     int64
	failures  int64
}

// Instrument wraps next. Latencies are tracked in microseconds up to 10 minutes.
func Instrument(next Adapter) *Instrumented {
	return &Instrumented{
		next:      next,
		histogram: hdrhistogram.New(1, int64(10*time.Minute/time.Microsecond), 3),
	}
}

func (i *Instrumented) Generate(ctx context.Context, systemPrompt string, history []Turn, userMessage string) (string, error) {
	start := time.Now()
	text, err := i.next.Generate(ctx, systemPrompt, history, userMessage)
	i.record(time.Since(start), err)
	return text, err
}

func (i *Instrumented) Clarify(ctx context.Context, userMessage, missingSlot string) (string, error) {
	start := time.Now()
	text, err := i.next.Clarify(ctx, userMessage, missingSlot)
	i.record(time.Since(start), err)
	return text, err
}

func (i *Instrumented) record(latency time.Duration, err error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.calls++
	if err != nil {
		i.failures++
	}
	// Values above the histogram range are dropped, the call still counts.
	_ = i.histogram.RecordValue(latency.Microseconds())
}

// LatencyStats summarizes recorded LLM calls.
type LatencyStats struct {
	Calls    int64   `json:"calls"`
	Failures int64   `json:"failures"`
	MeanMs   float64 `json:"mean_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
}

// Stats returns a snapshot of the recorded calls.
func (i *Instrumented) Stats() LatencyStats {
	i.mu.Lock()
	defer i.mu.Unlock()
	return LatencyStats{
		Calls:    i.calls,
		Failures: i.failures,
		MeanMs:   i.histogram.Mean() / 1000,
		P50Ms:    float64(i.histogram.ValueAtQuantile(50)) / 1000,
		P95Ms:    float64(i.histogram.ValueAtQuantile(95)) / 1000,
		P99Ms:    float64(i.histogram.ValueAtQuantile(99)) / 1000,
	}
}
