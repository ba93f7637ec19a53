package realtime

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// zeroLogger adapts a zerolog.Logger to the Logger interface.
type zeroLogger struct {
	l zerolog.Logger
}

// NewZeroLogger wraps an existing zerolog logger so the client can share the
// application's log sink and level configuration.
func NewZeroLogger(l zerolog.Logger) Logger {
	return &zeroLogger{l: l}
}

// DefaultLogger returns a timestamped zerolog logger writing JSON to stderr at
// info level.
func DefaultLogger() Logger {
	return NewZeroLogger(
		zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger(),
	)
}

func (z *zeroLogger) WithField(key string, value any) Logger {
	return &zeroLogger{l: z.l.With().Interface(key, value).Logger()}
}

func sprintln(args ...any) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}

func (z *zeroLogger) Debug(args ...any)                 { z.l.Debug().Msg(fmt.Sprint(args...)) }
func (z *zeroLogger) Debugf(format string, args ...any) { z.l.Debug().Msgf(format, args...) }
func (z *zeroLogger) Debugln(args ...any)               { z.l.Debug().Msg(sprintln(args...)) }
func (z *zeroLogger) Info(args ...any)                  { z.l.Info().Msg(fmt.Sprint(args...)) }
func (z *zeroLogger) Infof(format string, args ...any)  { z.l.Info().Msgf(format, args...) }
func (z *zeroLogger) Infoln(args ...any)                { z.l.Info().Msg(sprintln(args...)) }
func (z *zeroLogger) Warn(args ...any)                  { z.l.Warn().Msg(fmt.Sprint(args...)) }
func (z *zeroLogger) Warnf(format string, args ...any)  { z.l.Warn().Msgf(format, args...) }
func (z *zeroLogger) Warnln(args ...any)                { z.l.Warn().Msg(sprintln(args...)) }
func (z *zeroLogger) Error(args ...any)                 { z.l.Error().Msg(fmt.Sprint(args...)) }
func (z *zeroLogger) Errorf(format string, args ...any) { z.l.Error().Msgf(format, args...) }
func (z *zeroLogger) Errorln(args ...any)               { z.l.Error().Msg(sprintln(args...)) }
