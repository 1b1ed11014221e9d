package browser

import (
	"fmt"
	"log/slog"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/playwright-community/playwright-go"
)

// Install downloads the driver and browser binaries the configured engine needs.
// Already installed versions are reused.
func Install(opts Options, logger *slog.Logger) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	opts = opts.withDefaults()

	switch opts.Engine {
	case EngineRod:
		logger.Info("Installing Chromium for rod")
		bin, err := launcher.NewBrowser().Get()
		if err != nil {
			return fmt.Errorf("installing chromium: %w", err)
		}
		logger.Info("Chromium installed", "path", bin)
	default:
		name := "chromium"
		if opts.Browser == Firefox {
			name = "firefox"
		}
		logger.Info("Installing playwright driver", "browser", name)
		err := playwright.Install(&playwright.RunOptions{
			Browsers: []string{name},
			Verbose:  false,
		})
		if err != nil {
			return fmt.Errorf("installing playwright: %w", err)
		}
	}
	return nil
}
