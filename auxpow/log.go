package auxpow

import "github.com/auxmerge/auxd/internal/alog"

// log is silent until a caller supplies a real logger via UseLogger.
var log alog.Logger

func init() {
	DisableLog()
}

// DisableLog disables all package log output.
func DisableLog() {
	log = alog.Disabled
}

// UseLogger directs package log output to logger.
func UseLogger(logger alog.Logger) {
	log = logger
}
