package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// WatchConfig warns whenever the loaded configuration file changes on disk.
// The device context is frozen at startup, so edits only take effect after
// a restart. It is a no-op when no file was read.
func WatchConfig(v *viper.Viper, logger *zap.Logger) {
	file := v.ConfigFileUsed()
	if file == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		logger.Warn("configuration file changed; restart to apply",
			zap.String("file", e.Name),
			zap.String("op", e.Op.String()),
		)
	})
	v.WatchConfig()
	logger.Debug("watching configuration file", zap.String("file", file))
}

// WatchFile does the same for a file viper did not load, such as a legacy
// onvif_srvd.conf. The returned function stops the watcher.
func WatchFile(path string, logger *zap.Logger) (func() error, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		_ = w.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Has(fsnotify.Write) || e.Has(fsnotify.Create) || e.Has(fsnotify.Rename) {
					logger.Warn("configuration file changed; restart to apply",
						zap.String("file", e.Name),
						zap.String("op", e.Op.String()),
					)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("configuration watcher error", zap.Error(err))
			}
		}
	}()
	return w.Close, nil
}
