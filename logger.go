package datafeed

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with datafeed-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{Logger: slog.New(handler)}
}

// LogEpochStart logs the start of an epoch.
func (l *Logger) LogEpochStart(epoch int64, buckets, workers int) {
	l.Info("epoch started",
		"epoch", epoch,
		"buckets", buckets,
		"workers", workers,
	)
}

// LogEpochEnd logs epoch completion with its statistics.
func (l *Logger) LogEpochEnd(stats EpochStats) {
	l.Info("epoch finished",
		"epoch", stats.Epoch,
		"descriptors", stats.Descriptors,
		"emitted", stats.Emitted,
		"dropped", stats.Dropped,
		"errored", stats.Errored,
		"duration", stats.Duration,
	)
}

// LogSampleError logs a per-sample load failure.
func (l *Logger) LogSampleError(seq uint64, err error) {
	l.Warn("sample load failed",
		"seq", seq,
		"error", err,
	)
}

// LogBucketError logs a bucket expansion failure.
func (l *Logger) LogBucketError(bucket int, err error) {
	l.Warn("bucket expansion failed",
		"bucket", bucket,
		"error", err,
	)
}

// LogDrop logs a sample dropped by the frame-length policy.
func (l *Logger) LogDrop(seq uint64, frames, dropFrameLen int) {
	l.Debug("sample dropped",
		"seq", seq,
		"frames", frames,
		"drop_frame_len", dropFrameLen,
	)
}
