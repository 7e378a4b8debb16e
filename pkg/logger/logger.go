package logger

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production JSON logger at the given level.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// NewQueued builds a console logger whose writes pass through a QueueSink,
// so lines from concurrent workers reach w through a single consumer and
// never interleave. The caller owns the sink and must Close it after the
// last log call.
func NewQueued(w io.Writer, level string) (*zap.Logger, *QueueSink, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	sink := NewQueueSink(w, 256)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), sink, lvl)
	return zap.New(core), sink, nil
}
