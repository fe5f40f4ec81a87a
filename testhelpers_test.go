package taic

import "time"

// newTestDiagnostics builds a diagnostics instance with a generous rate
// budget so assertions on logged-vs-dropped behavior in tests aren't
// themselves rate-limited away.
func newTestDiagnostics() *diagnostics {
	return newDiagnostics(defaultLogger(), map[time.Duration]int{
		time.Second: 1000,
	})
}
