package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/meeto/internal/app"
	"github.com/lueurxax/meeto/internal/core/domain"
	"github.com/lueurxax/meeto/internal/platform/config"
)

var errUsage = errors.New("usage")

type options struct {
	mode    string
	in      string
	project string
	state   string
	title   string
}

func main() {
	var opts options

	flag.StringVar(&opts.mode, "mode", "", "Run mode (extract, sync, status, watch)")
	flag.StringVar(&opts.in, "in", "", "Transcript file, or - for stdin")
	flag.StringVar(&opts.project, "project", "", "Tracker project key (defaults to JIRA_PROJECT_KEY)")
	flag.StringVar(&opts.state, "state", "", "Result file to read and update (defaults to <in>.meeto.json)")
	flag.StringVar(&opts.title, "title", "", "Meeting title (defaults to the transcript file name)")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(ctx, cfg, &logger)

	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing application")
		}
	}()

	if err := runMode(ctx, application, opts, os.Stdout); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")

			return
		}

		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Usage: %s -mode=[extract|sync|status|watch] [-in transcript.txt] [-state result.json] [-project KEY]\n", os.Args[0])
			os.Exit(2)
		}

		logger.Fatal().Err(err).Msg("application error")
	}
}

func newLogger(appEnv, level string) zerolog.Logger {
	var logger zerolog.Logger
	if appEnv == "local" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return logger.Level(lvl)
}

func runMode(ctx context.Context, application *app.App, opts options, out io.Writer) error {
	switch opts.mode {
	case "extract":
		return runExtract(ctx, application, opts, out)
	case "sync":
		return runSync(ctx, application, opts, out)
	case "status":
		return runStatus(ctx, application, opts, out)
	case "watch":
		return application.RunWatch(ctx)
	default:
		return errUsage
	}
}

func runExtract(ctx context.Context, application *app.App, opts options, out io.Writer) error {
	meeting, err := processInput(ctx, application, opts)
	if err != nil {
		return err
	}

	if opts.state != "" {
		if err := app.SaveState(opts.state, meeting); err != nil {
			return fmt.Errorf("save result: %w", err)
		}
	}

	return writeJSON(out, meeting)
}

// runSync resumes from the state file when it exists so items linked by an
// earlier run are skipped.
func runSync(ctx context.Context, application *app.App, opts options, out io.Writer) error {
	statePath := opts.state
	if statePath == "" && opts.in != "" && opts.in != "-" {
		statePath = app.StatePath(opts.in)
	}

	var meeting *domain.MeetingResult

	if statePath != "" {
		loaded, err := app.LoadState(statePath)
		if err != nil {
			return fmt.Errorf("load result: %w", err)
		}

		meeting = loaded
	}

	if meeting == nil {
		processed, err := processInput(ctx, application, opts)
		if err != nil {
			return err
		}

		meeting = processed
	}

	res, err := application.SyncMeeting(ctx, opts.project, meeting)

	if statePath != "" {
		if saveErr := app.SaveState(statePath, meeting); saveErr != nil {
			return errors.Join(err, fmt.Errorf("save result: %w", saveErr))
		}
	}

	if err != nil {
		return err
	}

	return writeJSON(out, map[string]any{
		"created":          res.Created,
		"attempted":        res.Attempted,
		"skipped":          res.Skipped,
		"failed":           res.Failed,
		"linkages":         res.Linkages,
		"transcript_issue": res.TranscriptIssue,
	})
}

func runStatus(ctx context.Context, application *app.App, opts options, out io.Writer) error {
	if opts.state == "" {
		return errUsage
	}

	meeting, err := app.LoadState(opts.state)
	if err != nil {
		return fmt.Errorf("load result: %w", err)
	}

	if meeting == nil {
		return fmt.Errorf("no result at %s", opts.state)
	}

	issues, err := application.IssueStatus(ctx, meeting)
	if err != nil {
		return err
	}

	return writeJSON(out, issues)
}

func processInput(ctx context.Context, application *app.App, opts options) (*domain.MeetingResult, error) {
	if opts.in == "" {
		return nil, errUsage
	}

	transcript, err := readTranscript(opts.in)
	if err != nil {
		return nil, err
	}

	title := opts.title
	if title == "" && opts.in != "-" {
		title = strings.TrimSuffix(filepath.Base(opts.in), filepath.Ext(opts.in))
	}

	return application.ProcessTranscript(ctx, title, transcript), nil
}

func readTranscript(path string) (string, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	return string(data), nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
