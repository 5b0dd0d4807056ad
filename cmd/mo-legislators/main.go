package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"mo-legislators/internal/app"
	"mo-legislators/internal/config"
	"mo-legislators/internal/fetcher"
	"mo-legislators/internal/legislator"
	"mo-legislators/internal/observability"
	"mo-legislators/internal/scraper"
	"mo-legislators/internal/storage"
	"mo-legislators/internal/storage/mssql"
	"mo-legislators/internal/storage/sqlite"
)

type pageFetcher interface {
	scraper.Fetcher
	Close() error
}

func main() {
	var configPath, chamberFlag, term string

	root := &cobra.Command{
		Use:   "mo-legislators",
		Short: "Scrapes Missouri Senate and House rosters",
	}

	scrapeCmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape one chamber for every session of a term",
		Example: "  mo-legislators scrape --chamber upper --term 2013-2014\n" +
			"  mo-legislators scrape --chamber lower --term 2015-2016 --config configs/config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			chamber, err := legislator.ParseChamber(chamberFlag)
			if err != nil {
				return err
			}
			return run(cmd.Context(), configPath, chamber, term)
		},
	}
	scrapeCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config (defaults are used when empty)")
	scrapeCmd.Flags().StringVar(&chamberFlag, "chamber", "", "chamber to scrape: upper or lower")
	scrapeCmd.Flags().StringVar(&term, "term", "", "term as dash-joined session years, e.g. 2013-2014")
	_ = scrapeCmd.MarkFlagRequired("chamber")
	_ = scrapeCmd.MarkFlagRequired("term")

	root.AddCommand(scrapeCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(parent context.Context, configPath string, chamber legislator.Chamber, term string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(observability.Options{
		LogPath:    cfg.Observability.LogPath,
		LogLevel:   cfg.Observability.LogLevel,
		MaxSizeMB:  cfg.Observability.LogMaxSizeMB,
		MaxBackups: cfg.Observability.LogMaxBackups,
		MaxAgeDays: cfg.Observability.LogMaxAgeDays,
	})
	defer func() {
		if err := logger.Close(); err != nil {
			log.Printf("Warning: failed to close log file: %v", err)
		}
	}()

	ctx, cancel := app.GracefulShutdown(parent, logger)
	defer cancel()

	repo, err := openRepository(cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage", "driver", cfg.Storage.Driver, "error", err.Error())
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close storage", "error", err.Error())
		}
	}()

	f := newFetcher(cfg, logger)
	defer func() {
		if err := f.Close(); err != nil {
			logger.Error("Failed to close fetcher", "error", err.Error())
		}
	}()

	vacant := storage.NewVacantCollector()
	scr := scraper.NewScraper(cfg, f, storage.NewSink(repo, logger), vacant, logger)
	dispatcher := app.NewDispatcher(logger, scr)

	stats, err := dispatcher.Scrape(ctx, chamber, term)
	if err != nil {
		logger.Error("Scrape failed", "chamber", chamber, "term", term, "error", err.Error())
		return err
	}

	stored, err := repo.CountByTerm(ctx, term, string(chamber))
	if err != nil {
		return err
	}

	logger.Info("Scrape completed",
		"chamber", chamber,
		"term", term,
		"sessions", stats.Sessions,
		"skipped_sessions", stats.SkippedSessions,
		"saved", stats.Saved,
		"vacant", len(vacant.Records()),
		"skipped_vacant", stats.SkippedVacant,
		"stored_for_term", stored,
	)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func openRepository(cfg *config.Config, logger *observability.Logger) (storage.Repository, error) {
	switch cfg.Storage.Driver {
	case "mssql":
		return mssql.NewRepository(cfg.Storage.DSN, cfg.GetCommandTimeout(), logger)
	case "sqlite":
		return sqlite.NewRepository(cfg.Storage.DSN, cfg.GetCommandTimeout(), logger)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}

func newFetcher(cfg *config.Config, logger *observability.Logger) pageFetcher {
	if cfg.Rod.Enabled {
		return fetcher.NewRodFetcher(cfg, logger)
	}
	return fetcher.NewFetcher(cfg, logger)
}
