// Package logging provides a zerolog-backed implementation of the
// Logger interface used across the SDK.
package logging

import (
	"io"
	"os"

	"github.com/minirag/minirag-go/internal/types"
	"github.com/rs/zerolog"
)

// ZerologAdapter adapts a zerolog.Logger to the types.Logger interface.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerolog creates an adapter writing to w. A nil writer logs to
// stderr.
func NewZerolog(w io.Writer, level zerolog.Level) *ZerologAdapter {
	if w == nil {
		w = os.Stderr
	}
	return &ZerologAdapter{
		logger: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// Wrap adapts an existing zerolog.Logger.
func Wrap(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

var _ types.Logger = (*ZerologAdapter)(nil)

func (z *ZerologAdapter) Debug(msg string, keysAndValues ...interface{}) {
	z.emit(z.logger.Debug(), msg, keysAndValues)
}

func (z *ZerologAdapter) Info(msg string, keysAndValues ...interface{}) {
	z.emit(z.logger.Info(), msg, keysAndValues)
}

func (z *ZerologAdapter) Warn(msg string, keysAndValues ...interface{}) {
	z.emit(z.logger.Warn(), msg, keysAndValues)
}

func (z *ZerologAdapter) Error(msg string, keysAndValues ...interface{}) {
	z.emit(z.logger.Error(), msg, keysAndValues)
}

// emit flattens key-value pairs into zerolog fields. A trailing key
// without a value is logged under "missing".
func (z *ZerologAdapter) emit(event *zerolog.Event, msg string, keysAndValues []interface{}) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = "field"
		}
		event = event.Interface(key, keysAndValues[i+1])
	}
	if len(keysAndValues)%2 != 0 {
		event = event.Interface("missing", keysAndValues[len(keysAndValues)-1])
	}
	event.Msg(msg)
}
