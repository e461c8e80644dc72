package config

import (
	"context"
	"strings"

	"WonFM/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
)

// Watch re-reads the .env file whenever it changes so the status pages see
// current key presence without a restart. Values already set in the real
// process environment still win. Blocks until ctx is cancelled; run it in
// its own goroutine.
func Watch(ctx context.Context, path string) error {
	if path == "" {
		path = ".env"
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors replace .env by
	// rename, which drops a direct file watch.
	dir := "."
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		dir = path[:idx]
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}

	logger.Info("[Config] Watching env file for changes", logger.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".env") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := godotenv.Load(path); err != nil {
				logger.Warn("[Config] Reload of env file failed", logger.ErrorField(err))
				continue
			}
			logger.Info("[Config] Env file reloaded", logger.String("event", event.Op.String()))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("[Config] Watcher error", logger.ErrorField(err))
		}
	}
}
