// Package telemetry forwards high-risk verdicts to an operator webhook.
//
// Delivery is fire-and-forget: reporting never blocks an assessment and a
// failed or dropped delivery never surfaces as an error to the caller.
// Concurrency is bounded by a semaphore; overflow is dropped, not queued.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/mindfort-ai/bulwark/pkg/httputil"
	"github.com/mindfort-ai/bulwark/pkg/risk"
)

// Event is the compact payload posted for one high-risk assessment.
// It carries verdict metadata only, never the analyzed text or evidence.
type Event struct {
	ID          string     `json:"id"`
	Level       risk.Level `json:"level"`
	Score       float64    `json:"score"`
	Confidence  float64    `json:"confidence"`
	TopSignal   string     `json:"top_signal,omitempty"`
	SignalCount int        `json:"signal_count"`
	ReportedAt  time.Time  `json:"reported_at"`
}

// Reporter posts events for verdicts above Ambiguous. A nil Reporter is the
// disabled state and ignores every call.
type Reporter struct {
	url     string
	timeout time.Duration
	client  *http.Client
	sem     *httputil.Semaphore
	wg      sync.WaitGroup
}

// NewReporter returns a reporter for the webhook at url, or nil when url is
// empty. Each delivery is bounded by timeout; at most concurrency deliveries
// run at once.
func NewReporter(url string, timeout time.Duration, concurrency int) *Reporter {
	if url == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Reporter{
		url:     url,
		timeout: timeout,
		client:  httputil.Client(httputil.TierFor(timeout)),
		sem:     httputil.NewSemaphore(concurrency),
	}
}

// Report schedules delivery for actionable verdicts (Suspicious and above)
// and returns immediately. When all delivery slots are busy the event is
// dropped silently; the drop is visible in Stats.
func (r *Reporter) Report(res *risk.Assessment) {
	if r == nil || res == nil || !res.IsActionable() {
		return
	}
	if !r.sem.TryAcquire() {
		return
	}

	event := Event{
		ID:          res.ID,
		Level:       res.Level,
		Score:       res.Score,
		Confidence:  res.Confidence,
		SignalCount: len(res.Signals),
		ReportedAt:  time.Now().UTC(),
	}
	if top := res.TopSignal(); top != nil {
		event.TopSignal = top.Name
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.sem.Release()
		r.deliver(event)
	}()
}

func (r *Reporter) deliver(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("[REPORT] encode event %s: %v", event.ID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		log.Printf("[REPORT] build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		log.Printf("[REPORT] delivery failed: %v", err)
		return
	}
	defer httputil.DrainAndClose(resp.Body)

	if resp.StatusCode >= 300 {
		log.Printf("[REPORT] webhook returned %d for event %s", resp.StatusCode, event.ID)
	}
}

// Flush waits for in-flight deliveries to finish. Call during shutdown.
func (r *Reporter) Flush() {
	if r == nil {
		return
	}
	r.wg.Wait()
}

// Stats reports delivery slot usage and how many events were dropped.
func (r *Reporter) Stats() httputil.SemaphoreStats {
	if r == nil {
		return httputil.SemaphoreStats{}
	}
	return r.sem.Stats()
}
