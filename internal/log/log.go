package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

var (
	logger     *zap.SugaredLogger
	loggerOnce sync.Once
	level      = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// initLogger builds the global logger writing console-encoded lines to stderr.
func initLogger() {
	loggerOnce.Do(func() {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			level,
		)
		logger = zap.New(core).Sugar()
	})
}

// SetLevel changes the minimum level. Unknown levels enable everything.
func SetLevel(l Level) {
	initLogger()
	level.SetLevel(toZapLevel(l))
}

// ParseLevel maps a case-sensitive name ("DEBUG", "INFO", "ERROR") to a
// Level, defaulting to INFO.
func ParseLevel(s string) Level {
	switch Level(s) {
	case LevelDebug, LevelInfo, LevelError:
		return Level(s)
	default:
		return LevelInfo
	}
}

// Enabled reports whether messages at l are currently emitted.
func Enabled(l Level) bool {
	initLogger()
	return level.Enabled(toZapLevel(l))
}

func Debug(msg string, kv ...any) {
	initLogger()
	logger.Debugw(msg, kv...)
}

func Info(msg string, kv ...any) {
	initLogger()
	logger.Infow(msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	initLogger()
	// Prepend error into key-value list.
	extended := append([]any{"err", err}, kv...)
	logger.Errorw(msg, extended...)
}

// Sync flushes buffered entries; call once before exit.
func Sync() {
	initLogger()
	_ = logger.Sync()
}

func toZapLevel(l Level) zapcore.Level {
	switch l {
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.DebugLevel
	}
}
