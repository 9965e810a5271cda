package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"enigma/internal/config"
	"enigma/internal/logging"
)

// WatchConfig reloads the server's configuration whenever the file at path
// changes. The directory is watched rather than the file so editors that
// save by rename are followed. A file that no longer builds is logged and
// the previous configuration stays in effect.
//
// The watcher runs until ctx is canceled.
func (s *Server) WatchConfig(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	logger := logging.New("mcp")
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				s.reload(abs, logger)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", "error", err)
			}
		}
	}()
	return nil
}

func (s *Server) reload(path string, logger *slog.Logger) {
	cfg, err := config.LoadFromPath(path)
	if err == nil {
		var model *config.Model
		if model, err = cfg.Build(); err == nil {
			s.SetModel(model)
			logger.Info("configuration reloaded", "path", path)
			s.Events.Emit("config_reloaded", s.SessionID(), map[string]string{"path": path})
			return
		}
	}
	logger.Warn("configuration reload failed, keeping previous", "path", path, "error", err)
}
