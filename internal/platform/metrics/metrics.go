package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps cheap process-local counters. It is read by the
// admin metrics endpoint and never persisted.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64
	aiCalls         uint64
	pushesSent      uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordAICall() {
	atomic.AddUint64(&c.aiCalls, 1)
}

func (c *Collector) RecordPush() {
	atomic.AddUint64(&c.pushesSent, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":    total,
		"errorsTotal":      atomic.LoadUint64(&c.errorRequests),
		"rateLimitedTotal": atomic.LoadUint64(&c.rateLimited),
		"avgDurationMs":    avg,
		"aiCallsTotal":     atomic.LoadUint64(&c.aiCalls),
		"pushesSentTotal":  atomic.LoadUint64(&c.pushesSent),
	}
}
