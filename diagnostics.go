package taic

import (
	"time"

	catrate "github.com/joeycumines/go-catrate"
)

// diagCategory names one of the error-handling policy's log categories
// from spec.md §7. Each is also used as half of the catrate rate-limit key.
type diagCategory string

const (
	diagOutOfRange       diagCategory = "out_of_range"
	diagSlotFull         diagCategory = "slot_full"
	diagUnusedQueue      diagCategory = "unused_queue"
	diagReceiverNotFound diagCategory = "receiver_not_found"
	diagBadAccess        diagCategory = "bad_access"
)

// diagRateKey scopes a rate-limit budget to both the category and the
// specific index/id that tripped it, so a persistently misbehaving hart
// hammering one global queue does not starve the log budget a different,
// legitimately-erroring hart would need.
type diagRateKey struct {
	category diagCategory
	index    uint64
}

// diagnostics bundles a Logger with a category+index scoped rate limiter,
// grounded on the teacher's catrate.Limiter, so a spinning or adversarial
// guest cannot flood the log sink by repeatedly tripping the same guard
// clause (e.g. polling a full send-capability table).
type diagnostics struct {
	log     *Logger
	limiter *catrate.Limiter
}

func newDiagnostics(log *Logger, rates map[time.Duration]int) *diagnostics {
	if log == nil {
		log = defaultLogger()
	}
	if rates == nil {
		rates = defaultLogRates()
	}
	return &diagnostics{log: log, limiter: catrate.NewLimiter(rates)}
}

func defaultLogRates() map[time.Duration]int {
	return map[time.Duration]int{
		time.Second: 1,
		time.Minute: 20,
	}
}

// allow reports whether a log line for this category/index pair should be
// emitted right now, consuming one unit of its rate budget if so.
func (d *diagnostics) allow(category diagCategory, index uint64) bool {
	_, ok := d.limiter.Allow(diagRateKey{category: category, index: index})
	return ok
}
