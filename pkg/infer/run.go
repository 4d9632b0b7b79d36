package infer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/jsl-infer/pkg/records"
)

// progressEvery is how often (in observed values) Run logs progress.
const progressEvery = 10_000

// DefaultBuffer is the number of selected values queued between the reader
// and the fold.
const DefaultBuffer = 64

// printer formats counts for log output.
var printer = message.NewPrinter(language.English)

// Selector maps one input record to the values that are observed. The
// identity selector returns the record itself.
type Selector interface {
	Select(ctx context.Context, v any) ([]any, error)
}

type runConfig struct {
	selector Selector
	buffer   int
	logger   *slog.Logger
}

// RunOption configures Run.
type RunOption func(*runConfig)

// WithSelector applies s to every record before it is observed.
func WithSelector(s Selector) RunOption {
	return func(c *runConfig) {
		c.selector = s
	}
}

// WithBuffer sets the queue length between reading and folding.
func WithBuffer(n int) RunOption {
	return func(c *runConfig) {
		if n > 0 {
			c.buffer = n
		}
	}
}

// WithLogger sets the progress logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) RunOption {
	return func(c *runConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Run reads every record from r and folds it into inf in input order. A
// producer goroutine reads and selects while the caller's fold consumes; the
// first error from either side cancels the other. Parse errors are returned
// as *records.ParseError.
func Run(ctx context.Context, r records.Reader, inf *Inferrer, opts ...RunOption) error {
	cfg := &runConfig{buffer: DefaultBuffer, logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	g, ctx := errgroup.WithContext(ctx)
	values := make(chan any, cfg.buffer)
	var read int

	g.Go(func() error {
		defer close(values)
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := r.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			read++

			selected := []any{v}
			if cfg.selector != nil {
				selected, err = cfg.selector.Select(ctx, v)
				if err != nil {
					return fmt.Errorf("record %d: %w", read, err)
				}
			}

			for _, s := range selected {
				select {
				case values <- s:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	})

	g.Go(func() error {
		for v := range values {
			inf.Observe(v)
			if n := inf.Count(); n%progressEvery == 0 {
				cfg.logger.Debug("inference progress",
					slog.String("observed", printer.Sprintf("%d", n)),
				)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	cfg.logger.Info("inference complete",
		slog.String("records", printer.Sprintf("%d", read)),
		slog.String("observed", printer.Sprintf("%d", inf.Count())),
		slog.String("root", inf.Shape().Kind.String()),
	)
	return nil
}
