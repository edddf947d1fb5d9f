package observability

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelForVerbosity maps the -v count to a log level:
// 0 → warn, 1 → info, 2+ → debug.
func LevelForVerbosity(verbose int) zapcore.Level {
	switch {
	case verbose >= 2:
		return zapcore.DebugLevel
	case verbose == 1:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

// timeEncoder prints seconds since the logger was created, so -v output
// reads as a relative trace.
func timeEncoder(start time.Time) zapcore.TimeEncoder {
	return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + t.Sub(start).Truncate(time.Millisecond).String() + "]")
	}
}

// NewLogger creates a console logger writing to stderr.
func NewLogger(verbose int) *zap.Logger {
	return NewLoggerTo(os.Stderr, verbose)
}

// NewLoggerTo creates a console logger writing to w.
func NewLoggerTo(w io.Writer, verbose int) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "component",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       timeEncoder(time.Now()),
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(LevelForVerbosity(verbose)),
	)
	return zap.New(core)
}
