package taic

import "errors"

// Construction-time sentinel errors. A caller wiring a TAIC into a host VMM
// is expected to treat these as fatal, mirroring the original device's
// exit(1) on a failed interrupt-bit claim.
var (
	ErrHartCountZero    = errors.New("taic: hart count must be > 0")
	ErrGlobalQueueCount = errors.New("taic: global queue count must be > 0")
	ErrLocalQueueCount  = errors.New("taic: local queue count must be > 0")
	ErrInterruptSlots   = errors.New("taic: interrupt slot count must be > 0")
	ErrClaimSSIP        = errors.New("taic: failed to claim supervisor-software-interrupt bit")
	ErrClaimUSIP        = errors.New("taic: failed to claim user-software-interrupt bit")
)

// ErrBadAccessSize is returned by WriteWord when the address's offset within
// its page matches no operation (WriteWord takes a uint64, so it never sees
// an access of another width). Unlike the construction errors above, this is
// never fatal — it is a guest programming error; the access is also counted
// and logged, rate-limited per page offset. ReadWord drops such accesses the
// same way but returns 0 rather than an error.
var ErrBadAccessSize = errors.New("taic: mmio access must be 8 bytes")
