// Command jsl-infer infers a JSON Schema Language schema from example
// records, one JSON value per line or one YAML document per record.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Error("jsl-infer failed", "error", err)
		}
		os.Exit(1)
	}
}
