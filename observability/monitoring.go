package observability

import (
	"sync/atomic"
)

// Stats is a point-in-time view of the monitor counters, shaped for the
// status endpoint.
type Stats struct {
	SessionsOpened   uint64 `json:"sessions_opened"`
	SessionsActive   uint64 `json:"sessions_active"`
	MessagesPosted   uint64 `json:"messages_posted"`
	Delivered        uint64 `json:"delivered"`
	DeliveryFailures uint64 `json:"delivery_failures"`
}

// Monitor aggregates runtime counters across sessions and broadcasts.
// All counters are atomic; the hot paths never take a lock for
// telemetry.
type Monitor struct {
	sessionsOpened   uint64
	sessionsClosed   uint64
	messagesPosted   uint64
	delivered        uint64
	deliveryFailures uint64
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

func (m *Monitor) SessionOpened() {
	atomic.AddUint64(&m.sessionsOpened, 1)
}

func (m *Monitor) SessionClosed() {
	atomic.AddUint64(&m.sessionsClosed, 1)
}

func (m *Monitor) MessagePosted() {
	atomic.AddUint64(&m.messagesPosted, 1)
}

func (m *Monitor) Delivered() {
	atomic.AddUint64(&m.delivered, 1)
}

func (m *Monitor) DeliveryFailed() {
	atomic.AddUint64(&m.deliveryFailures, 1)
}

func (m *Monitor) Snapshot() Stats {
	opened := atomic.LoadUint64(&m.sessionsOpened)
	closed := atomic.LoadUint64(&m.sessionsClosed)
	return Stats{
		SessionsOpened:   opened,
		SessionsActive:   opened - closed,
		MessagesPosted:   atomic.LoadUint64(&m.messagesPosted),
		Delivered:        atomic.LoadUint64(&m.delivered),
		DeliveryFailures: atomic.LoadUint64(&m.deliveryFailures),
	}
}
