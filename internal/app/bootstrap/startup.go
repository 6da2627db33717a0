// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	linkstore "github.com/dalemusser/linkcatalog/internal/app/store/links"
	"github.com/dalemusser/linkcatalog/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// It aligns the health ping timeout with the Mongo connect timeout and logs
// what the catalog holds.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{Ping: appCfg.MongoConnectTimeout})

	sctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()
	stats, err := linkstore.New(deps.MongoDatabase).Stats(sctx)
	if err != nil {
		logger.Warn("could not read catalog stats", zap.Error(err))
		return nil
	}
	logger.Info("catalog ready",
		zap.Int64("links", stats.TotalLinks),
		zap.Int("tags", stats.TotalTags),
		zap.Bool("login_rate_limited", deps.LoginBackend != nil),
		zap.Bool("shared_rate_limit", deps.Redis != nil),
	)
	return nil
}
