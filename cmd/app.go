package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"netprofiler/internal/adapter/infrastructure/file"
	"netprofiler/internal/engine"
	"netprofiler/internal/history"
	"netprofiler/internal/inventory"
	"netprofiler/internal/pkg/logging"
	"netprofiler/internal/pkg/metrics"
	"netprofiler/internal/platform"
	"netprofiler/internal/store"
)

// app wires the components one command needs.
type app struct {
	engine  *engine.Engine
	history *history.Store
	metrics *metrics.Metrics
}

// newApp loads the profile store and builds the engine. The history database
// is opened when withHistory is set; a failure to open it is fatal only when
// requireHistory is set too.
func newApp(withHistory, requireHistory bool) (*app, error) {
	logger := logging.WithComponent("cli")

	storePath, err := cfg.StorePath()
	if err != nil {
		return nil, err
	}
	profiles := store.New(storePath, file.NewManagerAdapter())
	if _, err := profiles.Load(); err != nil {
		return nil, err
	}

	deps := platform.DefaultDeps(cfg)
	backend := platform.New(runtime.GOOS, deps)

	a := &app{metrics: metrics.New()}
	if err := a.metrics.Restore(cfg.Metrics.Textfile); err != nil {
		logger.WithError(err).Warn("Previous metrics unreadable, counters restart from zero")
	}
	opts := engine.Options{
		Verify:     engine.VerifyPolicy{MaxAttempts: cfg.Verify.MaxAttempts, Delay: cfg.Verify.Delay},
		Observer:   a.metrics,
		IsElevated: platform.IsElevated,
	}

	if withHistory {
		historyPath, err := cfg.HistoryPath()
		if err == nil {
			a.history, err = history.Open(historyPath, cfg.Retention())
		}
		switch {
		case err != nil && requireHistory:
			return nil, fmt.Errorf("failed to open apply history: %w", err)
		case err != nil:
			logger.WithError(err).Warn("Apply history is unavailable, this operation will not be recorded")
		default:
			opts.Recorder = a.history
		}
	}

	a.engine = engine.New(profiles, inventory.New(deps.LinkLister, backend), backend, opts)
	return a, nil
}

// close prunes and closes the history and writes the metrics textfile.
func (a *app) close() {
	logger := logging.WithComponent("cli")
	if a.history != nil {
		if cfg.Retention() > 0 {
			if _, err := a.history.Prune(context.Background()); err != nil {
				logger.WithError(err).Warn("Failed to prune apply history")
			}
		}
		if err := a.history.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close apply history")
		}
	}
	if err := a.metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logger.WithError(err).Warn("Failed to write metrics")
	}
}

// signalContext is cancelled on SIGINT or SIGTERM. Cancellation only stops an
// apply that has not started changing the interface yet.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
