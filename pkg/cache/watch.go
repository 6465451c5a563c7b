package cache

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates cache entries as their backing files change on
// disk, turning GetOrLoad into a hot-reload read. It blocks until the
// context is canceled.
func (c *Cache[T]) Watch(ctx context.Context, dirs ...string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if c.invalidatePath(event.Name) {
				c.logger.Debug("invalidated artifact on file change", "path", event.Name, "op", event.Op.String())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("watcher error", "err", err)
		}
	}
}
