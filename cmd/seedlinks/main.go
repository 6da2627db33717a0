// Command seedlinks loads links from a YAML file into the catalog.
//
// It uses the same configuration as the server (LINKCATALOG_* variables,
// config files, flags). SEED_FILE names the YAML file; without it a built-in
// sample set is loaded. Links whose URL already exists are skipped, so the
// command is safe to re-run.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dalemusser/linkcatalog/internal/app/bootstrap"
	linkstore "github.com/dalemusser/linkcatalog/internal/app/store/links"
	"github.com/dalemusser/linkcatalog/internal/app/system/seed"
	"go.uber.org/zap"
)

const (
	jitter  = 30 * 24 * time.Hour
	topTags = 5
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), logger); err != nil {
		logger.Error("seeding failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger) error {
	coreCfg, appCfg, err := bootstrap.LoadConfig(logger)
	if err != nil {
		return err
	}
	if err := bootstrap.ValidateConfig(coreCfg, appCfg, logger); err != nil {
		return err
	}

	entries, err := seed.Load(os.Getenv("SEED_FILE"))
	if err != nil {
		return err
	}

	deps, err := bootstrap.ConnectDB(ctx, coreCfg, appCfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = bootstrap.Shutdown(sctx, coreCfg, appCfg, deps, logger)
	}()

	if err := bootstrap.EnsureSchema(ctx, coreCfg, appCfg, deps, logger); err != nil {
		return err
	}

	store := linkstore.NewWithOptions(deps.MongoDatabase, linkstore.Options{
		EnforceCollectionURLs: appCfg.EnforceCollectionURLUniqueness,
	})

	before, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	if before.TotalLinks > 0 {
		logger.Info("catalog already has links; existing URLs will be skipped", zap.Int64("links", before.TotalLinks))
	}

	res, err := seed.Run(ctx, store, entries, seed.Options{MaxAge: jitter})
	for _, msg := range res.Errors {
		logger.Warn("invalid entry skipped", zap.String("entry", msg))
	}
	if err != nil {
		return err
	}

	after, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	logger.Info("seeding complete",
		zap.Int("inserted", res.Inserted),
		zap.Int("skipped", res.Skipped),
		zap.Int("invalid", res.Invalid),
		zap.Int64("total_links", after.TotalLinks),
		zap.Int("unique_tags", after.TotalTags),
	)
	for i, tc := range after.Tags {
		if i == topTags {
			break
		}
		logger.Info("top tag", zap.String("tag", tc.Tag), zap.Int("count", tc.Count))
	}
	return nil
}
