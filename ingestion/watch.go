package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchOptions holds optional callbacks for Watch.
type WatchOptions struct {
	// Initial ingests the directory's existing files before watching.
	Initial bool

	// OnIngest is called after each file is ingested, with the ingest error
	// if there was one.
	OnIngest func(path string, err error)
}

// Watch ingests supported files in dir as they are created or modified,
// until ctx is canceled. Ingest errors are logged and do not stop the
// watch. Removed files stay in the store.
func (in *Ingester) Watch(ctx context.Context, dir string, opts *WatchOptions) error {
	if opts == nil {
		opts = &WatchOptions{}
	}

	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	if opts.Initial {
		if _, err := in.IngestDir(ctx, dir); err != nil {
			in.logger.Warn("initial ingest incomplete", "dir", dir, "err", err)
		}
	}

	in.logger.Info("watching directory", "dir", dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !in.supported(event.Name) {
				continue
			}
			in.handleChange(ctx, event.Name, opts)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			in.logger.Warn("watch error", "dir", dir, "err", err)
		}
	}
}

func (in *Ingester) handleChange(ctx context.Context, path string, opts *WatchOptions) {
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return
	}

	_, err := in.IngestFile(ctx, path)
	if errors.Is(err, ErrEmptyFile) {
		// Files are often created empty and written afterwards.
		in.logger.Debug("skipping empty file", "path", filepath.Base(path))
		return
	}
	if opts.OnIngest != nil {
		opts.OnIngest(path, err)
	}
}
