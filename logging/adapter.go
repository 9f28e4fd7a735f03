package logging

import (
	"github.com/rs/zerolog"
)

// Adapter exposes a zerolog.Logger through the Debug/Info/Error interface
// accepted by the multiboot, bootloader and link packages.
type Adapter struct {
	zerolog.Logger
}

// NewAdapter wraps logger.
func NewAdapter(logger zerolog.Logger) *Adapter {
	return &Adapter{Logger: logger}
}

// Debug logs msg at debug level with key/value pairs as fields.
func (a *Adapter) Debug(msg string, keysAndValues ...interface{}) {
	a.Logger.Debug().Fields(pairs(keysAndValues)).Msg(msg)
}

// Info logs msg at info level with key/value pairs as fields.
func (a *Adapter) Info(msg string, keysAndValues ...interface{}) {
	a.Logger.Info().Fields(pairs(keysAndValues)).Msg(msg)
}

// Error logs msg at error level with key/value pairs as fields.
func (a *Adapter) Error(msg string, keysAndValues ...interface{}) {
	a.Logger.Error().Fields(pairs(keysAndValues)).Msg(msg)
}

// pairs pads an odd-length list so the last key is not dropped.
func pairs(kv []interface{}) []interface{} {
	if len(kv)%2 == 0 {
		return kv
	}
	return append(kv[:len(kv):len(kv)], "(missing)")
}
