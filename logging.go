package taic

import (
	"os"

	"github.com/joeycumines/izerolog"
	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

// Logger is the structured-logging sink used for every drop-and-log path in
// this package. It is the teacher's logiface facade type rather than a
// hand-rolled interface, so a caller wiring a TAIC can supply any logiface
// backend (izerolog, slog, logrus, stumpy) via WithLogger, not only the
// zerolog default this package constructs for itself.
type Logger = logiface.Logger[*izerolog.Event]

// defaultLogger builds the izerolog-backed logiface.Logger used when a TAIC
// is constructed without an explicit WithLogger option: structured JSON to
// stderr with a timestamp field, mirroring the teacher's own default wiring
// in eventloop/logging.go.
func defaultLogger() *Logger {
	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
	return logiface.New[*izerolog.Event](izerolog.WithZerolog(zl))
}
