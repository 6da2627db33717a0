// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/linkcatalog/internal/app/system/indexes"
	"github.com/dalemusser/linkcatalog/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB and, when configured, Redis.
//
// Mongo must be reachable at startup. A Redis outage only costs the shared
// login limiter: the app falls back to the in-memory one.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetServerSelectionTimeout(appCfg.MongoConnectTimeout).
		SetAppName("linkcatalog")

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, appCfg.MongoConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	if appCfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     appCfg.RedisAddr,
			Password: appCfg.RedisPassword,
		})
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable; using in-memory login limiter",
				zap.String("addr", appCfg.RedisAddr), zap.Error(err))
			_ = rdb.Close()
		} else {
			logger.Info("connected to Redis", zap.String("addr", appCfg.RedisAddr))
			deps.Redis = rdb
		}
	}

	deps.LoginBackend = loginBackend(appCfg, deps.Redis)
	return deps, nil
}

// loginBackend picks the limiter store. A zero limit disables limiting.
func loginBackend(appCfg AppConfig, rdb *redis.Client) ratelimit.Backend {
	if appCfg.LoginRateLimit <= 0 {
		return nil
	}
	if rdb != nil {
		return ratelimit.NewRedis(rdb, "linkcatalog:ratelimit:", appCfg.LoginRateLimit, appCfg.LoginRateWindow)
	}
	return ratelimit.New(appCfg.LoginRateLimit, appCfg.LoginRateWindow)
}

// EnsureSchema reconciles the links and audit indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	logger.Info("indexes ensured")
	return nil
}
