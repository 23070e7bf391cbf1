package rfc2047

import (
	"context"
	"log/slog"
)

func noopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// logRecovered records an invalid input that was let through by the strategy
func logRecovered(cfg Config, msg string, kind Kind, word []byte) {
	if !cfg.Log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	attrs := []any{"strategy", cfg.RecoverStrategy, "kind", kind}
	if word != nil {
		attrs = append(attrs, "word", string(word))
	}
	cfg.Log.Debug(msg, attrs...)
}
