// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/linkcatalog/internal/app/system/ratelimit"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis is nil unless redis_addr is configured and reachable.
	Redis *redis.Client

	// LoginBackend counts failed logins; nil when rate limiting is off.
	LoginBackend ratelimit.Backend
}
