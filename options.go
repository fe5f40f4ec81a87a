package taic

import "time"

// config holds every construction-time parameter. It is assembled by
// resolveOptions and then consumed once by New.
type config struct {
	hartCount        uint32
	externalIRQCount uint32
	gqCount          uint32
	lqCount          uint32
	intrSlots        uint32
	hostLines        HostLines
	logger           *Logger
	logRates         map[time.Duration]int
}

// Option configures a TAIC at construction time, mirroring the teacher's
// eventloop.LoopOption / applyLoop pattern (eventloop/options.go): a closed
// interface with a single unexported apply method, so the option set can
// only be extended from within this package.
type Option interface {
	applyTAIC(*config)
}

type taicOptionFunc func(*config)

func (f taicOptionFunc) applyTAIC(c *config) { f(c) }

// WithHartCount sets the number of guest harts, required and must be > 0.
func WithHartCount(n uint32) Option {
	return taicOptionFunc(func(c *config) { c.hartCount = n })
}

// WithExternalIRQCount sets the number of incoming device-IRQ lines,
// required and must be > 0.
func WithExternalIRQCount(n uint32) Option {
	return taicOptionFunc(func(c *config) { c.externalIRQCount = n })
}

// WithGlobalQueueCount overrides GQ_NUM (default 4).
func WithGlobalQueueCount(n uint32) Option {
	return taicOptionFunc(func(c *config) { c.gqCount = n })
}

// WithLocalQueueCount overrides LQ_NUM (default 2).
func WithLocalQueueCount(n uint32) Option {
	return taicOptionFunc(func(c *config) { c.lqCount = n })
}

// WithInterruptSlotCount overrides INTR_NUM (default 6), the shared
// capacity of both each GlobalQueue's ExtIntrSlots table and its
// SoftIntrSlots send/recv capability tables, and the range of the
// control page's simulate-external-IRQ op fan-out.
func WithInterruptSlotCount(n uint32) Option {
	return taicOptionFunc(func(c *config) { c.intrSlots = n })
}

// WithHostLines supplies the collaborator that raises/lowers the
// per-hart supervisor- and user-software-interrupt lines. Defaults to
// NopHostLines if not supplied.
func WithHostLines(lines HostLines) Option {
	return taicOptionFunc(func(c *config) { c.hostLines = lines })
}

// WithLogger supplies a logiface logger to use instead of the default
// izerolog/zerolog-backed one constructed by New.
func WithLogger(logger *Logger) Option {
	return taicOptionFunc(func(c *config) { c.logger = logger })
}

// WithLogRateLimits overrides the default per-diagnostic-category rate
// limits passed to go-catrate.NewLimiter.
func WithLogRateLimits(rates map[time.Duration]int) Option {
	return taicOptionFunc(func(c *config) { c.logRates = rates })
}

func resolveOptions(opts []Option) config {
	c := config{
		gqCount:   DefaultGlobalQueueCount,
		lqCount:   DefaultLocalQueueCount,
		intrSlots: DefaultInterruptSlots,
		hostLines: NopHostLines{},
	}
	for _, opt := range opts {
		opt.applyTAIC(&c)
	}
	return c
}
