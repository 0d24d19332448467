package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/lueurxax/meeto/internal/core/errors"
	"github.com/lueurxax/meeto/internal/platform/observability"
	"github.com/lueurxax/meeto/internal/platform/worker"
)

const (
	transcriptPattern = "*.txt"
	stateSuffix       = ".meeto.json"
	watcherName       = "transcript-watcher"

	logFieldJobID = "job_id"
	logFieldFile  = "file"

	statusProcessed   = "processed"
	statusSynced      = "synced"
	statusSyncFailed  = "sync_failed"
	statusReadFailed  = "read_failed"
	statusWriteFailed = "write_failed"
)

// StatePath returns the result file written next to a transcript.
func StatePath(transcriptPath string) string {
	return strings.TrimSuffix(transcriptPath, filepath.Ext(transcriptPath)) + stateSuffix
}

// RunWatch serves health and metrics and polls the watch directory until ctx
// is canceled. /readyz reports ready after the first scan.
func (a *App) RunWatch(ctx context.Context) error {
	wc := a.cfg.WatchCfg()

	health := observability.NewServer(wc.HealthPort, a.logger)

	go func() {
		if err := health.Start(ctx); err != nil {
			a.logger.Error().Err(err).Msg("health server failed")
		}
	}()

	err := worker.Loop(ctx, worker.Config{
		Name:         watcherName,
		PollInterval: wc.Interval,
		Process: func(ctx context.Context) error {
			_, err := a.ScanDir(ctx, wc.Dir)

			return err
		},
		OnFirstPass: func() { health.SetReady(true) },
		OnError:     keepWatching,
		Logger:      a.logger,
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// keepWatching stops the loop on errors another poll cannot fix: a watch
// directory that is not a valid glob, or a canceled context.
func keepWatching(err error) bool {
	return !errors.Is(err, filepath.ErrBadPattern) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// ScanDir processes every transcript in dir that has no result file yet and
// returns how many it handled. Per-file failures are logged and counted.
// A transcript is taken at most once per App, even when its result file
// cannot be written.
func (a *App) ScanDir(ctx context.Context, dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, transcriptPattern))
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", dir, err)
	}

	handled := 0

	for _, path := range paths {
		if ctx.Err() != nil {
			return handled, fmt.Errorf("scan %s: %w", dir, ctx.Err())
		}

		if a.wasHandled(path) {
			continue
		}

		if _, err := os.Stat(StatePath(path)); err == nil {
			continue
		}

		if a.processFile(ctx, path) {
			handled++
		}
	}

	return handled, nil
}

// processFile records the extracted result before syncing, so issues are only
// created for a transcript whose result file exists. It reports whether the
// transcript was taken.
func (a *App) processFile(ctx context.Context, path string) bool {
	logger := a.logger.With().
		Str(logFieldJobID, uuid.New().String()).
		Str(logFieldFile, path).
		Logger()
	ctx = logger.WithContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		observability.TranscriptsProcessed.WithLabelValues(statusReadFailed).Inc()
		logger.Error().Err(err).Msg("reading transcript failed")

		return false
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	meeting := a.ProcessTranscript(ctx, title, string(data))
	statePath := StatePath(path)

	a.markHandled(path)

	if err := SaveState(statePath, meeting); err != nil {
		observability.TranscriptsProcessed.WithLabelValues(statusWriteFailed).Inc()
		logger.Error().Err(err).Msg("writing result failed, transcript not synced")

		return true
	}

	if !a.TrackerAvailable() || a.cfg.JiraCfg().ProjectKey == "" {
		observability.TranscriptsProcessed.WithLabelValues(statusProcessed).Inc()

		return true
	}

	status := statusSynced

	res, err := a.SyncMeeting(ctx, "", meeting)
	if err != nil {
		status = statusSyncFailed

		logger.Warn().Err(err).Msg("sync failed, result saved without linkages")
	} else {
		logger.Info().Int("created", res.Created).Int("failed", res.Failed).Msg("transcript synced")
	}

	if err := SaveState(statePath, meeting); err != nil {
		status = statusWriteFailed

		logger.Error().Err(err).Msg("writing synced result failed")
	}

	observability.TranscriptsProcessed.WithLabelValues(status).Inc()

	return true
}

func (a *App) wasHandled(path string) bool {
	a.handledMu.Lock()
	defer a.handledMu.Unlock()

	_, ok := a.handled[path]

	return ok
}

func (a *App) markHandled(path string) {
	a.handledMu.Lock()
	defer a.handledMu.Unlock()

	a.handled[path] = struct{}{}
}
