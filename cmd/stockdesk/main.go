// Command stockdesk is a terminal client for the inventory management API:
// create, list, filter and delete articles, customers and orders, import
// article CSVs, fetch statistics and download PDF receipts.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("stockdesk failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}

// newLogger creates a slog logger with the configured level. Logs go to
// stderr so command output stays clean.
func newLogger(level string) *slog.Logger {
	loggerOpts := &slog.HandlerOptions{
		AddSource: toLevel(level) == slog.LevelDebug,
		Level:     toLevel(level),
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, loggerOpts))
}

func toLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
