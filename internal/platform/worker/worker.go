// Package worker runs poll-based background loops such as the transcript watcher.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	logFieldWorker    = "worker"
	logFieldOperation = "operation"
	logFieldPanic     = "panic"
)

// ProcessFunc is one iteration of work. It should return quickly when idle.
type ProcessFunc func(ctx context.Context) error

// Config configures a poll loop.
type Config struct {
	// Name identifies the loop in logs.
	Name string

	// PollInterval is the pause between iterations.
	PollInterval time.Duration

	// Process is called once per iteration.
	Process ProcessFunc

	// OnFirstPass runs once after the first iteration, whatever its outcome.
	OnFirstPass func()

	// OnError decides whether the loop survives a Process error.
	// Without it errors are logged and the loop continues.
	OnError func(err error) bool

	Logger *zerolog.Logger
}

// Loop calls cfg.Process every PollInterval until ctx is canceled or OnError
// asks to stop. Panics inside Process are recovered and logged.
func Loop(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	logger.Info().Str(logFieldWorker, cfg.Name).Dur("interval", cfg.PollInterval).Msg("starting worker loop")
	defer func() {
		logger.Info().Str(logFieldWorker, cfg.Name).Msg("worker loop stopped")
	}()

	first := true

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("worker loop %s: %w", cfg.Name, err)
		}

		if err := step(ctx, cfg, logger); err != nil {
			return err
		}

		if first {
			first = false

			if cfg.OnFirstPass != nil {
				cfg.OnFirstPass()
			}
		}

		if err := Wait(ctx, cfg.PollInterval); err != nil {
			return fmt.Errorf("worker loop %s: %w", cfg.Name, err)
		}
	}
}

func step(ctx context.Context, cfg Config, logger *zerolog.Logger) error {
	if cfg.Process == nil {
		return nil
	}

	err := runProtected(ctx, cfg, logger)
	if err == nil {
		return nil
	}

	if cfg.OnError != nil && !cfg.OnError(err) {
		return err
	}

	logger.Error().Err(err).Str(logFieldWorker, cfg.Name).Msg("process error")

	return nil
}

func runProtected(ctx context.Context, cfg Config, logger *zerolog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface(logFieldPanic, r).Str(logFieldOperation, cfg.Name).Msg("recovered from panic")

			err = fmt.Errorf("worker %s panicked: %v", cfg.Name, r)
		}
	}()

	return cfg.Process(ctx)
}

// Wait blocks until d elapses or ctx is canceled.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("wait interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
