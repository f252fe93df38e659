package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/use-agent/listgrab/browser"
	"github.com/use-agent/listgrab/config"
	"github.com/use-agent/listgrab/models"
	"github.com/use-agent/listgrab/paginate"
	"github.com/use-agent/listgrab/scraper"
	"github.com/use-agent/listgrab/storage"
)

func main() {
	// All cleanup runs through defers, so the exit code must come from a
	// function that actually returns. os.Exit here would skip them and
	// leak the browser process.
	os.Exit(run())
}

func run() int {
	// ── 1. Load configuration ───────────────────────────────────────
	_ = godotenv.Load()
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration",
			"error", models.NewScrapeError(models.ErrCodeInvalidConfig, "validation failed", err))
		return 1
	}

	slog.Info("listgrab starting",
		"startURL", cfg.Extract.StartURL,
		"engine", cfg.Browser.Engine,
		"pagination", cfg.Pagination.Mode,
		"ceiling", cfg.Pagination.Ceiling,
	)

	// SIGINT/SIGTERM abort cooperatively: the controller finishes the
	// page in flight, then stops.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 3. Provision the render engine ──────────────────────────────
	// Failure here is fatal: there is no partial state worth preserving.
	var page browser.Page
	switch cfg.Browser.Engine {
	case config.EngineStatic:
		fetcher := browser.NewFetcher(cfg.Browser.Proxy, 1)
		page = browser.NewStaticPage(ctx, fetcher.Fetch)
	default:
		b, err := browser.Launch(cfg.Browser)
		if err != nil {
			slog.Error("failed to provision browser", "error", err)
			return 1
		}
		defer b.Close()

		page, err = b.OpenPage(ctx, cfg.Extract.StartURL)
		if err != nil {
			slog.Error("failed to open page", "error", err)
			return 1
		}
	}
	defer page.Close()

	// ── 4. Build the extraction pipeline ────────────────────────────
	ps := scraper.NewPageScraper(cfg.Extract)
	if cfg.Output.DebugDir != "" {
		if sink := storage.NewDebugDir(cfg.Output.DebugDir); sink != nil {
			ps.SetDebugSink(sink)
		}
	}
	controller := paginate.New(cfg.Pagination, ps, cfg.Extract.WaitTimeout)

	// ── 5. Run ──────────────────────────────────────────────────────
	records, reason := controller.Run(ctx, page, cfg.Extract.StartURL)

	if len(records) == 0 {
		slog.Warn("run finished with zero records; check selector chains, consent handling and network access",
			"reason", string(reason))
	} else {
		slog.Info("run finished", "records", len(records), "reason", string(reason))
	}

	// ── 6. Persist ──────────────────────────────────────────────────
	// A started run always reaches persistence, even with zero records;
	// the header-only CSV marks "completed, nothing found".
	if err := storage.NewCSVWriter(cfg.Output.CSVPath).Write(records); err != nil {
		slog.Error("failed to persist records", "error", err)
		return 1
	}
	slog.Info("CSV written", "path", cfg.Output.CSVPath, "rows", len(records))
	return 0
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
