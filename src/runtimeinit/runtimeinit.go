package runtimeinit

import (
	"fmt"
	"log"
	"os"

	"screen-frame-capture/src/clipboard"
	"screen-frame-capture/src/config"
	"screen-frame-capture/src/notification"
)

type Options struct {
	LoadOptions config.LoadOptions
	// SetupLogging routes the logger and returns the log file path, empty
	// when file logging is off.
	SetupLogging func(enableFile bool, dir string) string
	// RequireClipboard makes a clipboard that cannot be opened fatal. When
	// false the failure is logged and clipboard sinks fail per capture.
	RequireClipboard bool
	// ShowBlockingErrors reports fatal startup errors in a dialog as well.
	ShowBlockingErrors bool
}

func Bootstrap(opts Options) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SetupLogging != nil {
		if path := opts.SetupLogging(cfg.EnableFileLogging, cfg.LogDir); path != "" {
			log.Printf("File logging to %s", path)
		}
	}
	if cfg.EnvPath != "" {
		log.Printf("Configuration loaded from %s", cfg.EnvPath)
	}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			err = fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
			opts.fail("Output directory unavailable", err)
			return nil, err
		}
	}

	if err := clipboard.Init(); err != nil {
		if opts.RequireClipboard {
			err = fmt.Errorf("failed to initialize clipboard: %w", err)
			opts.fail("Clipboard unavailable", err)
			return nil, err
		}
		log.Printf("Clipboard unavailable, clipboard captures will fail: %v", err)
	}

	return cfg, nil
}

func (o Options) fail(title string, err error) {
	if o.ShowBlockingErrors {
		notification.ShowBlockingError(title, err.Error())
	}
}
