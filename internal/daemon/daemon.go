// photosync ⸻ internal/daemon/daemon.go
// background service applying dropped descriptor files

package daemon

import (
	"context"
	"fmt"

	"photosync/internal/batch"
	"photosync/internal/descriptor"
	"photosync/internal/util"
)

// Daemon watches the configured drop directory and runs every new
// descriptor file through the batch pipeline.
type Daemon struct {
	loader    *descriptor.Loader
	processor *batch.Processor
	logger    *util.Logger
	watcher   *Watcher
	watchDir  string
	running   bool
}

func New(watchDir string, loader *descriptor.Loader, processor *batch.Processor, logger *util.Logger) *Daemon {
	return &Daemon{
		loader:    loader,
		processor: processor,
		logger:    logger,
		watchDir:  watchDir,
	}
}

func (d *Daemon) Start() error {
	if d.running {
		return fmt.Errorf("daemon already running")
	}

	d.logger.Info("Starting daemon, watching %s", d.watchDir)

	watcher, err := NewWatcher(d.watchDir, DefaultWatchOptions(), d.apply, d.logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	d.watcher = watcher
	d.running = true
	d.logger.Info("Daemon started successfully")

	return nil
}

// one dropped descriptor = one batch run
func (d *Daemon) apply(path string) error {
	d.logger.Info("Applying dropped descriptor - %s", path)

	b, err := d.loader.Load(path)
	if err != nil {
		d.logger.Error("Descriptor load failed for %s: %v", path, err)
		return err
	}

	report, err := d.processor.Process(context.Background(), b)
	if report != nil {
		d.logger.Info("Batch finished for %s: %s", path, report.Summary())
	}
	if err != nil {
		// individual failures are already logged per item
		return err
	}

	return nil
}

// halts the daemon
func (d *Daemon) Stop() error {
	if !d.running {
		return nil
	}

	d.logger.Info("Stopping daemon")

	if d.watcher != nil {
		if err := d.watcher.Stop(); err != nil {
			d.logger.Warning("Error stopping watcher: %v", err)
		}
	}

	d.running = false
	return nil
}

func (d *Daemon) IsRunning() bool {
	return d.running
}
