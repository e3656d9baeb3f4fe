package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// progress logs the completion of a long-running operation together with its
// elapsed time, e.g. "Simulated 300 steps (1.234s)". Single-goroutine use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress starts timing; call done when the operation finishes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, rounded to the millisecond.
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is a private context key type; only this package can attach values
// under it.
type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for retrieval with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, falling back to
// log.Default() so handlers always have a usable logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
