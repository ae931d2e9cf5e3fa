package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/apimark/internal/config"
	"git.home.luguber.info/inful/apimark/internal/ingest"
	"git.home.luguber.info/inful/apimark/internal/logfields"
	"git.home.luguber.info/inful/apimark/internal/metrics"
	"git.home.luguber.info/inful/apimark/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Override configured output directory"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus textfile metrics to this path after the run"`
	Watch       bool   `short:"w" help:"Watch the input directory and rebuild on changes"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.OutputPath = b.Output
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := RunBuild(ctx, cfg, b.MetricsFile); err != nil {
		return err
	}
	if !b.Watch {
		return nil
	}
	return b.watchAndRebuild(ctx, cfg)
}

// RunBuild executes one full ingest-and-generate pass.
func RunBuild(ctx context.Context, cfg *config.Config, metricsFile string) error {
	runID := uuid.NewString()
	slog.Info("Starting API reference build",
		logfields.RunID(runID),
		logfields.Path(cfg.InputPath))

	st, err := ingest.LoadDir(cfg.InputPath, cfg.Render.Concurrency)
	if err != nil {
		return err
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var promRecorder *metrics.PrometheusRecorder
	if metricsFile != "" {
		promRecorder = metrics.NewPrometheusRecorder()
		recorder = promRecorder
	}

	report, err := site.New(cfg, st, recorder).Generate(ctx)
	if err != nil {
		return err
	}

	if promRecorder != nil {
		if err := promRecorder.WriteTextfile(metricsFile); err != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(metricsFile), logfields.Error(err))
		}
	}

	fmt.Printf("Generated %d pages in %s\n", report.Pages, report.Duration.Round(time.Millisecond))
	if report.Skipped > 0 {
		slog.Warn("Some entities were skipped", logfields.Count(report.Skipped))
	}
	return nil
}

// watchAndRebuild reruns the batch transform whenever the input tree
// changes. Events are debounced so editor save bursts trigger one rebuild.
func (b *BuildCmd) watchAndRebuild(ctx context.Context, cfg *config.Config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(cfg.InputPath); err != nil {
		return err
	}
	slog.Info("Watching for input changes", logfields.Path(cfg.InputPath))

	const debounce = 500 * time.Millisecond
	var timer *time.Timer
	rebuild := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		case <-rebuild:
			if err := RunBuild(ctx, cfg, b.MetricsFile); err != nil {
				slog.Error("Rebuild failed", logfields.Error(err))
			}
		}
	}
}
