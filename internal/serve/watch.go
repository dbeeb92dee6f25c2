package serve

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch 监听文件所在目录，文件变化后经过防抖重新渲染。
// 编辑器常以 rename 方式保存，所以监听目录而不是文件本身。
func (s *Server) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.root); err != nil {
		return fmt.Errorf("watch %s: %w", s.root, err)
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.relevant(event) {
				continue
			}
			s.logger.Debug("file event", "op", event.Op.String())
			timer.Reset(s.cfg.Debounce)
		case <-timer.C:
			if err := s.Reload(ctx); err != nil {
				s.logger.Warn("reload failed", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", "error", err)
		}
	}
}

func (s *Server) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != s.file {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
