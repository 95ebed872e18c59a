package logging

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger = zap.NewNop()
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	mux    sync.RWMutex
)

// Init builds the process logger writing to stdout at the given level.
// Until Init is called, L returns a no-op logger.
func Init(lvl string) error {
	if err := SetLevel(lvl); err != nil {
		return err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	Replace(zap.New(core, zap.AddCaller()))
	return nil
}

// SetLevel changes the level of the logger built by Init.
func SetLevel(lvl string) error {
	parsed, err := zapcore.ParseLevel(lvl)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", lvl, err)
	}
	level.SetLevel(parsed)
	return nil
}

// Replace swaps the process logger and returns a function restoring the
// previous one.
func Replace(l *zap.Logger) func() {
	mux.Lock()
	defer mux.Unlock()

	prev := logger
	logger = l
	return func() { Replace(prev) }
}

// L returns the process logger.
func L() *zap.Logger {
	mux.RLock()
	defer mux.RUnlock()
	return logger
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = L().Sync()
}
