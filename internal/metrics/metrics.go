// Package metrics keeps in-process counters for the checkout flow.
package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Checkout counts the outcomes of order placement. The zero value is ready
// to use and safe for concurrent use.
type Checkout struct {
	Attempts              Counter
	Placed                Counter
	OrderLines            Counter
	Failed                Counter
	ProfileUpdateFailures Counter
	NotificationsSent     Counter
	NotificationFailures  Counter
}

type CheckoutSnapshot struct {
	Attempts              uint64 `json:"attempts"`
	Placed                uint64 `json:"placed"`
	OrderLines            uint64 `json:"order_lines"`
	Failed                uint64 `json:"failed"`
	ProfileUpdateFailures uint64 `json:"profile_update_failures"`
	NotificationsSent     uint64 `json:"notifications_sent"`
	NotificationFailures  uint64 `json:"notification_failures"`
}

func (c *Checkout) Snapshot() CheckoutSnapshot {
	return CheckoutSnapshot{
		Attempts:              c.Attempts.Load(),
		Placed:                c.Placed.Load(),
		OrderLines:            c.OrderLines.Load(),
		Failed:                c.Failed.Load(),
		ProfileUpdateFailures: c.ProfileUpdateFailures.Load(),
		NotificationsSent:     c.NotificationsSent.Load(),
		NotificationFailures:  c.NotificationFailures.Load(),
	}
}
